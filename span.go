// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

import (
	"bytes"
)

// Span is an immutable, non-owning view over a contiguous run of bytes.
// It is a thin wrapper around a slice: sub-views share the backing array
// with the original and never copy.  A Span is only valid for as long as
// the buffer it was created from.
type Span struct {
	b []byte
}

// NewSpan returns a view over b.  The caller must not modify b while the
// Span (or any Span derived from it) is in use.
func NewSpan(b []byte) Span {
	return Span{b: b}
}

// Len returns the number of bytes in the view.
func (s Span) Len() int {
	return len(s.b)
}

// Empty reports whether the view has no bytes left.
func (s Span) Empty() bool {
	return len(s.b) == 0
}

// At returns the byte at position i.  It panics if i is out of range, like
// indexing a slice does.
func (s Span) At(i int) byte {
	return s.b[i]
}

// Bytes returns the bytes of the view without copying.
// SAFETY: the returned slice must never be written to, only read.
func (s Span) Bytes() []byte {
	// cap the slice so an append by the caller can't scribble
	// over bytes past the end of this view
	return s.b[:len(s.b):len(s.b)]
}

// Clone returns an owned copy of the bytes in the view.
func (s Span) Clone() []byte {
	c := make([]byte, len(s.b))
	copy(c, s.b)
	return c
}

// Skip returns the view without its first k bytes.  ok is false (and the
// receiver is returned unchanged) if fewer than k bytes are available.
func (s Span) Skip(k int) (rest Span, ok bool) {
	if k < 0 || k > len(s.b) {
		return s, false
	}
	return Span{b: s.b[k:]}, true
}

// Take splits the view after its first k bytes.
func (s Span) Take(k int) (head, rest Span, ok bool) {
	if k < 0 || k > len(s.b) {
		return Span{}, s, false
	}
	return Span{b: s.b[:k:k]}, Span{b: s.b[k:]}, true
}

// HasPrefix reports whether the view begins with prefix.
func (s Span) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(s.b, prefix)
}

// Equal reports whether both views contain the same bytes.
func (s Span) Equal(other Span) bool {
	return bytes.Equal(s.b, other.b)
}
