// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

import (
	"fmt"

	"github.com/bpowers/bitparse/internal/mmap"
)

// File is a read-only memory mapping of a file, for parsing it in place.
type File struct {
	m *mmap.ReaderAt
}

// OpenFile maps the file at path.  Spans returned by the File are only
// valid until Close is called.
func OpenFile(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	return &File{m: m}, nil
}

// Span returns a view over the whole file.
func (f *File) Span() Span {
	return NewSpan(f.m.Data())
}

// Len returns the size of the file in bytes.
func (f *File) Len() int {
	return f.m.Len()
}

// Close unmaps the file.  It is safe to call more than once.
func (f *File) Close() error {
	return f.m.Close()
}
