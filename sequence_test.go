// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeq3(t *testing.T) {
	p := Seq3(func(first byte, _ Unit, second byte) int {
		return int(first) + int(second)
	}, Byte(0x01), Skip(1), Byte(0x03))

	in := []byte{0x01, 0x02, 0x03, 0x04}
	o := Run(p, in)
	requireConsumed(t, in, o, 3)
	assert.Equal(t, 4, o.Value)
	assert.Equal(t, []byte{0x04}, o.Rest.Bytes())

	// last parser fails
	in = []byte{0x01, 0x02, 0x02}
	requireNoMatch(t, in, Run(p, in))

	// too short
	in = []byte{0x01, 0x02}
	requireNoMatch(t, in, Run(p, in))
}

// probe records whether it was run.
func probe[T any](p Parser[T], ran *bool) Parser[T] {
	return func(in Span) (T, Span, bool) {
		*ran = true
		return p(in)
	}
}

func TestSeq_ShortCircuits(t *testing.T) {
	var ranSecond, ranThird, combined bool
	p := Seq3(func(byte, byte, byte) int {
		combined = true
		return 0
	}, Byte(1), probe(Byte(2), &ranSecond), probe(Byte(3), &ranThird))

	requireNoMatch(t, []byte{9, 2, 3}, Run(p, []byte{9, 2, 3}))
	assert.False(t, ranSecond)
	assert.False(t, ranThird)
	assert.False(t, combined)

	requireNoMatch(t, []byte{1, 9, 3}, Run(p, []byte{1, 9, 3}))
	assert.True(t, ranSecond)
	assert.False(t, ranThird)
	assert.False(t, combined)
}

func TestSeq_Arities(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5, 6, 7}
	b := AnyByte()

	o1 := Run(Seq1(func(a byte) int { return int(a) }, b), in)
	requireConsumed(t, in, o1, 1)
	assert.Equal(t, 1, o1.Value)

	o2 := Run(Seq2(func(a, b byte) []byte { return []byte{a, b} }, b, b), in)
	requireConsumed(t, in, o2, 2)
	assert.Equal(t, []byte{1, 2}, o2.Value)

	o4 := Run(Seq4(func(a, b, c, d byte) []byte {
		return []byte{a, b, c, d}
	}, b, b, b, b), in)
	requireConsumed(t, in, o4, 4)
	assert.Equal(t, []byte{1, 2, 3, 4}, o4.Value)

	o5 := Run(Seq5(func(a, b, c, d, e byte) []byte {
		return []byte{a, b, c, d, e}
	}, b, b, b, b, b), in)
	requireConsumed(t, in, o5, 5)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, o5.Value)

	o6 := Run(Seq6(func(a, b, c, d, e, f byte) []byte {
		return []byte{a, b, c, d, e, f}
	}, b, b, b, b, b, b), in)
	requireConsumed(t, in, o6, 6)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, o6.Value)

	// one byte short for six
	requireNoMatch(t, in[:5], Run(Seq6(func(a, b, c, d, e, f byte) int { return 0 }, b, b, b, b, b, b), in[:5]))
}

type header struct {
	Magic   string
	Version uint16
	Flags   uint8
	Length  uint32
}

func TestSeq_Heterogeneous(t *testing.T) {
	p := Seq4(func(magic string, version uint16, flags uint8, length uint32) header {
		return header{magic, version, flags, length}
	}, Tag("BITS"), Uint16(BigEndian), Uint8(), Uint32(LittleEndian))

	in := []byte("BITS\x00\x02\x80\x10\x00\x00\x00tail")
	o := Run(p, in)
	requireConsumed(t, in, o, 11)
	assert.Equal(t, header{"BITS", 2, 0x80, 16}, o.Value)
	assert.Equal(t, []byte("tail"), o.Rest.Bytes())
}

func TestAll(t *testing.T) {
	p := All(Byte(1), AnyByte(), Byte(3))

	in := []byte{1, 2, 3, 4}
	o := Run(p, in)
	requireConsumed(t, in, o, 3)
	assert.Equal(t, []byte{1, 2, 3}, o.Value)

	requireNoMatch(t, []byte{1, 2, 4}, Run(p, []byte{1, 2, 4}))

	// no parsers: matches with nothing consumed
	e := Run(All[byte](), in)
	requireConsumed(t, in, e, 0)
	require.Empty(t, e.Value)
}

func BenchmarkSeq3(b *testing.B) {
	p := Seq3(func(first byte, _ Unit, second byte) int {
		return int(first) + int(second)
	}, Byte(0x01), Skip(1), Byte(0x03))
	in := NewSpan([]byte{0x01, 0x02, 0x03, 0x04})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if v, _, ok := p(in); !ok || v != 4 {
			b.Fatal("bad parse")
		}
	}
}
