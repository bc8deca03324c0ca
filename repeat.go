// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

// Repeat applies p as many times as it matches, folding each value into an
// accumulator that starts at seed.  Repeat always matches: when p stops
// matching, the accumulator so far is returned along with the remainder as
// it was before the attempt that failed.  Zero matches yields seed and
// consumes nothing.
//
// Repeat can't tell the end of a run from malformed trailing bytes; follow
// it with End() when the input must be consumed completely.
//
// A match that consumes no bytes also ends the loop (and is not folded),
// so Repeat always terminates.
func Repeat[T, A any](p Parser[T], seed A, fold func(A, T) A) Parser[A] {
	return func(in Span) (A, Span, bool) {
		acc := seed
		rest := in
		for {
			v, r, ok := p(rest)
			if !ok || r.Len() == rest.Len() {
				return acc, rest, true
			}
			acc = fold(acc, v)
			rest = r
		}
	}
}

// Count applies p exactly n times, folding values like Repeat does.  It
// fails if p matches fewer than n times.
func Count[T, A any](n int, p Parser[T], seed A, fold func(A, T) A) Parser[A] {
	return func(in Span) (A, Span, bool) {
		acc := seed
		rest := in
		for i := 0; i < n; i++ {
			v, r, ok := p(rest)
			if !ok {
				return fail[A](in)
			}
			acc = fold(acc, v)
			rest = r
		}
		return acc, rest, true
	}
}

// Collect is a fold function for Repeat and Count that appends every value
// to a slice.  Pass a nil seed: a seed with spare capacity would be shared
// by every application of the parser.
func Collect[T any](acc []T, v T) []T {
	return append(acc, v)
}
