// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"errors"
)

const (
	magicDataHeader   = 0xC0FFEE0D
	fileFormatVersion = 3
	fileHeaderSize    = 128
	fileIDOff         = 40
	fileIDSize        = 16

	defaultBufferSize = 4 * 1024 * 1024
	recordHeaderSize  = 4 + 1 + 2 // 32-bit checksum of the value + 8-bit key length + 16-bit value length

	maxOffset   = (1 << 40) - 1
	MaxKeyLen   = (1 << 8) - 1
	maxValueLen = (1 << 16) - 1

	headerKeyLenOff   = 4
	headerValueLenOff = 5

	hugePageSize = 2 * 1024 * 1024
)

var (
	InvalidOffset         = errors.New("invalid offset")
	ErrBadMagic           = errors.New("bad magic number -- not bit datafile or corrupted")
	ErrUnsupportedVersion = errors.New("unsupported data file version")
	ErrCorrupt            = errors.New("data file corrupted")
)
