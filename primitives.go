// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

// Byte matches a single byte equal to b.
func Byte(b byte) Parser[byte] {
	return func(in Span) (byte, Span, bool) {
		if in.Empty() || in.b[0] != b {
			return fail[byte](in)
		}
		return b, Span{b: in.b[1:]}, true
	}
}

// AnyByte matches any single byte.
func AnyByte() Parser[byte] {
	return func(in Span) (byte, Span, bool) {
		if in.Empty() {
			return fail[byte](in)
		}
		return in.b[0], Span{b: in.b[1:]}, true
	}
}

// ByteSeq matches the exact sequence seq.  seq is copied when the parser is
// built, and every match returns that copy, which must not be modified.
func ByteSeq(seq []byte) Parser[[]byte] {
	owned := make([]byte, len(seq))
	copy(owned, seq)
	return func(in Span) ([]byte, Span, bool) {
		if !in.HasPrefix(owned) {
			return fail[[]byte](in)
		}
		return owned, Span{b: in.b[len(owned):]}, true
	}
}

// Tag matches the bytes of s, typically a magic number like "\x7fELF".
func Tag(s string) Parser[string] {
	n := len(s)
	return func(in Span) (string, Span, bool) {
		if in.Len() < n || string(in.b[:n]) != s {
			return fail[string](in)
		}
		return s, Span{b: in.b[n:]}, true
	}
}

// Skip consumes n bytes of any value.
func Skip(n int) Parser[Unit] {
	return func(in Span) (Unit, Span, bool) {
		rest, ok := in.Skip(n)
		if !ok {
			return fail[Unit](in)
		}
		return Unit{}, rest, true
	}
}

// Take returns a view of the next n bytes.  The view aliases the input.
func Take(n int) Parser[Span] {
	return func(in Span) (Span, Span, bool) {
		head, rest, ok := in.Take(n)
		if !ok {
			return fail[Span](in)
		}
		return head, rest, true
	}
}

// End matches only the empty input.
func End() Parser[Unit] {
	return func(in Span) (Unit, Span, bool) {
		if !in.Empty() {
			return fail[Unit](in)
		}
		return Unit{}, in, true
	}
}
