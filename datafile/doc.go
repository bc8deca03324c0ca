// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package datafile reads and writes bit data files: static mappings from
// keys to values, laid out so they can be memory mapped and read in place.
// Decoding is done entirely with bitparse parsers.
//
// A datafile generally looks like:
//
//	┌───────────────────┐
//	│ file header       │
//	├───────────────────┤
//	│ repeated KV pairs │
//	│                   │
//	│                   │
//	├───────────────────┤
//	│ padding           │
//	├───────────────────┤
//	│ optional index    │
//	└───────────────────┘
//
// The 128-byte file header is little-endian throughout:
//
//	 0    4    8        16       24       32       40        56       128
//	+----+----+--------+--------+--------+--------+---------+--------+
//	|magc|vers| records| idx off| idx l0 | idx l1 | file ID | zeroes |
//	+----+----+--------+--------+--------+--------+---------+--------+
//
// Individual KV pairs start with a fixed 7-byte header and are variable length,
// and look like:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	| value checksum    |klen| vlen    |key.|
//	+----+----+----+----+----+----+----+----+
//	| key...       | value...               |
//	+----+----+----+----+----+----+----+----+
//	| value...                              |
//	+----+----+----+----+----+----+----+----+
//
// This gives us a 255-byte max length for keys, and a 65-KB max length for values.
// The checksum is calculated from the bytes of the value, and is used to ensure we
// don't have un-detected on-disk corruption (with high probability).  Keys are
// never empty, so the zero padding after the last record never parses as one.
package datafile
