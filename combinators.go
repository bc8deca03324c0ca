// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

// Map converts the value p produces with f.  f must be pure: it may be
// called any number of times, from any goroutine.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(in Span) (U, Span, bool) {
		v, rest, ok := p(in)
		if !ok {
			return fail[U](in)
		}
		return f(v), rest, true
	}
}

// Or returns a parser that tries p and, only if p does not match, q
// against the same input.  An empty input never matches, and neither
// branch is tried.  Chains associate to the left, so
//
//	a.Or(b).Or(c)
//
// tries a, then b, then c.
func (p Parser[T]) Or(q Parser[T]) Parser[T] {
	return func(in Span) (T, Span, bool) {
		if in.Empty() {
			return fail[T](in)
		}
		if v, rest, ok := p(in); ok {
			return v, rest, true
		}
		return q(in)
	}
}

// OneOf is the ordered choice between all of ps, equivalent to
// ps[0].Or(ps[1]).Or(ps[2])...
func OneOf[T any](ps ...Parser[T]) Parser[T] {
	alts := make([]Parser[T], len(ps))
	copy(alts, ps)
	return func(in Span) (T, Span, bool) {
		if in.Empty() {
			return fail[T](in)
		}
		for _, p := range alts {
			if v, rest, ok := p(in); ok {
				return v, rest, true
			}
		}
		return fail[T](in)
	}
}

// Bind runs p, then builds the next parser from p's value and runs it on
// the remainder.  This is how length-prefixed fields are read:
//
//	Bind(Uint16(BigEndian), func(n uint16) Parser[Span] { return Take(int(n)) })
func Bind[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(in Span) (U, Span, bool) {
		v, rest, ok := p(in)
		if !ok {
			return fail[U](in)
		}
		u, rest, ok := f(v)(rest)
		if !ok {
			return fail[U](in)
		}
		return u, rest, true
	}
}

// Verify matches only if p matches and pred accepts its value.
func Verify[T any](p Parser[T], pred func(T) bool) Parser[T] {
	return func(in Span) (T, Span, bool) {
		v, rest, ok := p(in)
		if !ok || !pred(v) {
			return fail[T](in)
		}
		return v, rest, true
	}
}

// Optional always matches: with p's value if p matches, otherwise with def
// and nothing consumed.
func Optional[T any](p Parser[T], def T) Parser[T] {
	return func(in Span) (T, Span, bool) {
		if v, rest, ok := p(in); ok {
			return v, rest, true
		}
		return def, in, true
	}
}

// Left runs p then q, keeping p's value.
func Left[T, U any](p Parser[T], q Parser[U]) Parser[T] {
	return Seq2(func(t T, _ U) T { return t }, p, q)
}

// Right runs p then q, keeping q's value.
func Right[T, U any](p Parser[T], q Parser[U]) Parser[U] {
	return Seq2(func(_ T, u U) U { return u }, p, q)
}
