// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitparse is a small parser-combinator toolkit for fixed-format
// binary data: file headers, fixed-width integers, magic sequences and
// length-prefixed records.
//
// A Parser is a plain function from a Span (a read-only view of a byte
// buffer) to a value, the unconsumed remainder, and whether it matched:
//
//	header := bitparse.Seq3(
//		func(_ string, version uint16, count uint32) Header {
//			return Header{Version: version, Count: count}
//		},
//		bitparse.Tag("BITS"),
//		bitparse.Uint16(bitparse.BigEndian),
//		bitparse.Uint32(bitparse.BigEndian),
//	)
//
//	h, rest, ok := header(bitparse.NewSpan(buf))
//
// Parsers are built once and are safe to share between goroutines.  They
// never copy the input, never report errors beyond "no match", and on no
// match hand back the input they were given so the caller can try
// something else.
package bitparse
