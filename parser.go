// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

// Parser consumes a prefix of in.  On a match it returns the parsed value,
// the unconsumed remainder (always a suffix of in) and true.  On no match it
// returns the zero value, in itself, and false.
//
// Parsers hold no mutable state: the same Parser may be applied to any
// number of inputs, from any number of goroutines.
type Parser[T any] func(in Span) (value T, rest Span, ok bool)

// Unit is the zero-information result of parsers that only consume bytes.
type Unit struct{}

// Outcome is the result of a single parser application, for callers that
// would rather hold on to one value than three.
type Outcome[T any] struct {
	Value T
	Rest  Span
	OK    bool
}

// Consumed returns the number of bytes a successful parse consumed from in.
func (o Outcome[T]) Consumed(in Span) int {
	if !o.OK {
		return 0
	}
	return in.Len() - o.Rest.Len()
}

// Parse applies p to in.
func (p Parser[T]) Parse(in Span) Outcome[T] {
	v, rest, ok := p(in)
	return Outcome[T]{Value: v, Rest: rest, OK: ok}
}

// Run applies p to the bytes in b.
func Run[T any](p Parser[T], b []byte) Outcome[T] {
	return p.Parse(NewSpan(b))
}

// fail is the canonical no-match result.
func fail[T any](in Span) (T, Span, bool) {
	var zero T
	return zero, in, false
}
