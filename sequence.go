// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

// The SeqN combinators run N parsers one after another, each on the
// remainder left by the previous one, and hand their values positionally to
// a combining function.  The first parser that fails stops the sequence:
// no later parser runs, the combining function is not called, and the
// caller sees the original input as if nothing had been consumed.
//
// Go has no variadic type parameters, so each arity is spelled out.  They
// all share one engine: a sequence of N parsers is the head parser followed
// by the sequence of the remaining N-1, with the head's value prepended to
// the tail's tuple.  The recursion bottoms out at a single parser whose
// value is wrapped in a 1-tuple.

type tuple1[A any] struct {
	a A
}

type tuple2[A, B any] struct {
	a A
	b B
}

type tuple3[A, B, C any] struct {
	a A
	b B
	c C
}

type tuple4[A, B, C, D any] struct {
	a A
	b B
	c C
	d D
}

type tuple5[A, B, C, D, E any] struct {
	a A
	b B
	c C
	d D
	e E
}

type tuple6[A, B, C, D, E, F any] struct {
	a A
	b B
	c C
	d D
	e E
	f F
}

// cons runs head, then tail on head's remainder, and joins the two values.
func cons[H, T, R any](head Parser[H], tail Parser[T], join func(H, T) R) Parser[R] {
	return func(in Span) (R, Span, bool) {
		h, rest, ok := head(in)
		if !ok {
			return fail[R](in)
		}
		t, rest, ok := tail(rest)
		if !ok {
			return fail[R](in)
		}
		return join(h, t), rest, true
	}
}

func seqTuple1[A any](pa Parser[A]) Parser[tuple1[A]] {
	return Map(pa, func(a A) tuple1[A] {
		return tuple1[A]{a}
	})
}

func seqTuple2[A, B any](pa Parser[A], pb Parser[B]) Parser[tuple2[A, B]] {
	return cons(pa, seqTuple1(pb), func(a A, t tuple1[B]) tuple2[A, B] {
		return tuple2[A, B]{a, t.a}
	})
}

func seqTuple3[A, B, C any](pa Parser[A], pb Parser[B], pc Parser[C]) Parser[tuple3[A, B, C]] {
	return cons(pa, seqTuple2(pb, pc), func(a A, t tuple2[B, C]) tuple3[A, B, C] {
		return tuple3[A, B, C]{a, t.a, t.b}
	})
}

func seqTuple4[A, B, C, D any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D]) Parser[tuple4[A, B, C, D]] {
	return cons(pa, seqTuple3(pb, pc, pd), func(a A, t tuple3[B, C, D]) tuple4[A, B, C, D] {
		return tuple4[A, B, C, D]{a, t.a, t.b, t.c}
	})
}

func seqTuple5[A, B, C, D, E any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E]) Parser[tuple5[A, B, C, D, E]] {
	return cons(pa, seqTuple4(pb, pc, pd, pe), func(a A, t tuple4[B, C, D, E]) tuple5[A, B, C, D, E] {
		return tuple5[A, B, C, D, E]{a, t.a, t.b, t.c, t.d}
	})
}

func seqTuple6[A, B, C, D, E, F any](pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E], pf Parser[F]) Parser[tuple6[A, B, C, D, E, F]] {
	return cons(pa, seqTuple5(pb, pc, pd, pe, pf), func(a A, t tuple5[B, C, D, E, F]) tuple6[A, B, C, D, E, F] {
		return tuple6[A, B, C, D, E, F]{a, t.a, t.b, t.c, t.d, t.e}
	})
}

// Seq1 is Map with the combining function first, for symmetry with the
// other arities.
func Seq1[A, R any](combine func(A) R, pa Parser[A]) Parser[R] {
	return Map(seqTuple1(pa), func(t tuple1[A]) R {
		return combine(t.a)
	})
}

func Seq2[A, B, R any](combine func(A, B) R, pa Parser[A], pb Parser[B]) Parser[R] {
	return Map(seqTuple2(pa, pb), func(t tuple2[A, B]) R {
		return combine(t.a, t.b)
	})
}

func Seq3[A, B, C, R any](combine func(A, B, C) R, pa Parser[A], pb Parser[B], pc Parser[C]) Parser[R] {
	return Map(seqTuple3(pa, pb, pc), func(t tuple3[A, B, C]) R {
		return combine(t.a, t.b, t.c)
	})
}

func Seq4[A, B, C, D, R any](combine func(A, B, C, D) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D]) Parser[R] {
	return Map(seqTuple4(pa, pb, pc, pd), func(t tuple4[A, B, C, D]) R {
		return combine(t.a, t.b, t.c, t.d)
	})
}

func Seq5[A, B, C, D, E, R any](combine func(A, B, C, D, E) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E]) Parser[R] {
	return Map(seqTuple5(pa, pb, pc, pd, pe), func(t tuple5[A, B, C, D, E]) R {
		return combine(t.a, t.b, t.c, t.d, t.e)
	})
}

func Seq6[A, B, C, D, E, F, R any](combine func(A, B, C, D, E, F) R, pa Parser[A], pb Parser[B], pc Parser[C], pd Parser[D], pe Parser[E], pf Parser[F]) Parser[R] {
	return Map(seqTuple6(pa, pb, pc, pd, pe, pf), func(t tuple6[A, B, C, D, E, F]) R {
		return combine(t.a, t.b, t.c, t.d, t.e, t.f)
	})
}

// All runs every parser in ps in order and collects their values.  Unlike
// the SeqN family it takes any number of parsers, at the price of requiring
// a single result type and allocating the result slice.
func All[T any](ps ...Parser[T]) Parser[[]T] {
	steps := make([]Parser[T], len(ps))
	copy(steps, ps)
	return func(in Span) ([]T, Span, bool) {
		values := make([]T, 0, len(steps))
		rest := in
		for _, p := range steps {
			v, r, ok := p(rest)
			if !ok {
				return fail[[]T](in)
			}
			values = append(values, v)
			rest = r
		}
		return values, rest, true
	}
}
