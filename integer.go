// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitparse

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// Endian selects the byte order multi-byte integers are reassembled in.
// It is fixed when a parser is built and is independent of the byte order
// of the machine doing the parsing.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	switch e {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return fmt.Sprintf("Endian(%d)", uint8(e))
	}
}

func (e Endian) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Integral is the set of fixed-width integer types Integer can decode.
// int, uint and uintptr are left out on purpose: their width depends on
// the platform, which would leak into the wire format.
type Integral interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// Integer decodes a T from the next sizeof(T) bytes in the given byte
// order.  Signed types reinterpret the unsigned bit pattern.
func Integer[T Integral](order Endian) Parser[T] {
	var zero T
	size := int(unsafe.Sizeof(zero))
	bo := order.byteOrder()
	return func(in Span) (T, Span, bool) {
		head, rest, ok := in.Take(size)
		if !ok {
			return fail[T](in)
		}
		return T(decodeUint(head.b, bo)), rest, true
	}
}

func decodeUint(b []byte, bo binary.ByteOrder) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(bo.Uint16(b))
	case 4:
		return uint64(bo.Uint32(b))
	case 8:
		return bo.Uint64(b)
	default:
		panic(fmt.Errorf("invariant broken: unexpected integer width %d", len(b)))
	}
}

func Uint8() Parser[uint8] {
	return Integer[uint8](LittleEndian)
}

func Uint16(order Endian) Parser[uint16] {
	return Integer[uint16](order)
}

func Uint32(order Endian) Parser[uint32] {
	return Integer[uint32](order)
}

func Uint64(order Endian) Parser[uint64] {
	return Integer[uint64](order)
}

// Float32 decodes an IEEE 754 single from 4 bytes in the given order.
func Float32(order Endian) Parser[float32] {
	return Map(Integer[uint32](order), math.Float32frombits)
}

// Float64 decodes an IEEE 754 double from 8 bytes in the given order.
func Float64(order Endian) Parser[float64] {
	return Map(Integer[uint64](order), math.Float64frombits)
}
