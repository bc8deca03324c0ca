// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"github.com/bpowers/bitparse"
)

// Record is a single key/value pair.  Key and Value alias the buffer the
// record was parsed from.
type Record struct {
	Key      []byte
	Value    []byte
	Checksum uint32
}

// Len returns the encoded length of the record.
func (r Record) Len() int64 {
	return recordHeaderSize + int64(len(r.Key)) + int64(len(r.Value))
}

type recordHeader struct {
	checksum uint32
	keyLen   uint8
	valueLen uint16
}

var (
	recordHeaderParser = bitparse.Verify(
		bitparse.Seq3(
			func(sum uint32, keyLen uint8, valueLen uint16) recordHeader {
				return recordHeader{sum, keyLen, valueLen}
			},
			u32,
			bitparse.Uint8(),
			bitparse.Uint16(bitparse.LittleEndian),
		),
		// keys are never empty; this is what stops us at the zero padding
		func(h recordHeader) bool { return h.keyLen > 0 },
	)

	uncheckedRecordParser = bitparse.Bind(recordHeaderParser, recordBody)

	checkedRecordParser = bitparse.Verify(uncheckedRecordParser, func(r Record) bool {
		return checksum(r.Value) == r.Checksum
	})
)

// recordBody reads the key and value whose lengths h announces.
func recordBody(h recordHeader) bitparse.Parser[Record] {
	return bitparse.Seq2(
		func(key, value bitparse.Span) Record {
			return Record{Key: key.Bytes(), Value: value.Bytes(), Checksum: h.checksum}
		},
		bitparse.Take(int(h.keyLen)),
		bitparse.Take(int(h.valueLen)),
	)
}

// RecordParser returns a parser for one record.  With verify set, records
// whose value doesn't match the stored checksum don't match.
func RecordParser(verify bool) bitparse.Parser[Record] {
	if verify {
		return checkedRecordParser
	}
	return uncheckedRecordParser
}

// RecordsParser returns a parser that collects records until the next one
// fails to parse.  It always matches; callers compare the number of
// records against the header to detect truncation or corruption.
func RecordsParser(verify bool) bitparse.Parser[[]Record] {
	return bitparse.Repeat(RecordParser(verify), []Record(nil), bitparse.Collect[Record])
}

// HeaderParser returns a parser for the raw 128-byte file header.  It does
// not validate magic or version; see Header.UnmarshalBytes.
func HeaderParser() bitparse.Parser[Header] {
	return headerParser
}
