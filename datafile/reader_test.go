// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/bitparse"
)

func spanOf(b []byte) bitparse.Span {
	return bitparse.NewSpan(b)
}

func encodeRecord(key, value []byte) []byte {
	var header [recordHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:4], checksum(value))
	header[headerKeyLenOff] = uint8(len(key))
	binary.LittleEndian.PutUint16(header[headerValueLenOff:], uint16(len(value)))
	out := append(header[:], key...)
	return append(out, value...)
}

func TestRecordParser(t *testing.T) {
	encoded := encodeRecord([]byte("key"), []byte("value"))
	in := append(append([]byte{}, encoded...), 0xaa, 0xbb)

	for _, verify := range []bool{true, false} {
		rec, rest, ok := RecordParser(verify)(spanOf(in))
		require.True(t, ok)
		assert.Equal(t, []byte("key"), rec.Key)
		assert.Equal(t, []byte("value"), rec.Value)
		assert.Equal(t, int64(len(encoded)), rec.Len())
		assert.Equal(t, []byte{0xaa, 0xbb}, rest.Bytes())
	}
}

func TestRecordParser_Truncated(t *testing.T) {
	encoded := encodeRecord([]byte("key"), []byte("value"))
	for n := 0; n < len(encoded); n++ {
		_, rest, ok := RecordParser(true)(spanOf(encoded[:n]))
		require.False(t, ok, "prefix of %d bytes", n)
		require.Equal(t, n, rest.Len())
	}
}

func TestRecordParser_Checksum(t *testing.T) {
	encoded := encodeRecord([]byte("key"), []byte("value"))
	// flip a bit in the value
	encoded[len(encoded)-1] ^= 0x01

	_, _, ok := RecordParser(true)(spanOf(encoded))
	assert.False(t, ok)

	rec, _, ok := RecordParser(false)(spanOf(encoded))
	require.True(t, ok)
	assert.Equal(t, []byte("valud"), rec.Value)
}

func TestRecordParser_EmptyKeyIsPadding(t *testing.T) {
	zeroes := make([]byte, 64)
	_, _, ok := RecordParser(false)(spanOf(zeroes))
	assert.False(t, ok)
}

func TestRecordsParser(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 10; i++ {
		buf.Write(encodeRecord(testKey(i), testValue(i, i)))
	}
	buf.Write(make([]byte, 16))

	records, rest, ok := RecordsParser(true)(spanOf(buf.Bytes()))
	require.True(t, ok)
	require.Len(t, records, 10)
	for i, rec := range records {
		assert.Equal(t, testKey(i), rec.Key)
		assert.Equal(t, testValue(i, i), rec.Value)
	}
	// stops at the padding
	assert.Equal(t, 16, rest.Len())
}

func TestReader_Errors(t *testing.T) {
	_, err := Open("/doesnt/exist")
	assert.Error(t, err)

	_, err = Open("/dev/null")
	assert.Error(t, err)

	_, err = NewReader(make([]byte, fileHeaderSize-1))
	assert.Error(t, err)

	_, err = NewReader(make([]byte, fileHeaderSize))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReader_ReadAt(t *testing.T) {
	contents, offsets := writeTestFile(t, 10, 100)

	r, err := NewReader(contents)
	require.NoError(t, err)

	for i, off := range offsets {
		rec, err := r.ReadAt(int64(off))
		require.NoError(t, err)
		assert.Equal(t, testKey(i), rec.Key)
		assert.Equal(t, testValue(i, 100), rec.Value)
	}

	_, err = r.ReadAt(0)
	assert.ErrorIs(t, err, InvalidOffset)

	_, err = r.ReadAt(int64(len(contents) + 1))
	assert.ErrorIs(t, err, InvalidOffset)

	// offset 1 byte into a record lands on garbage
	_, err = r.ReadAt(int64(offsets[3]) + 1)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReader_Get(t *testing.T) {
	contents, _ := writeTestFile(t, 50, 10)

	r, err := NewReader(contents)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		v, ok := r.Get(testKey(i))
		require.True(t, ok)
		require.Equal(t, testValue(i, 10), v)
	}

	for _, negative := range []string{
		"", "doesn't exist",
	} {
		// we shouldn't find keys that don't exist
		v, ok := r.Get([]byte(negative))
		require.False(t, ok)
		require.Nil(t, v)
	}
}

func TestReader_Corruption(t *testing.T) {
	contents, offsets := writeTestFile(t, 5, 32)

	// corrupt the value of record 2
	contents[offsets[2]+recordHeaderSize+1+3] ^= 0xff

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r, err := NewReader(contents, WithReaderLogger(logger))
	require.NoError(t, err)

	it := r.Iter()
	n := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, it.Err(), ErrCorrupt)

	records, err := r.Records()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Len(t, records, 2)
	assert.Contains(t, logs.String(), "record count mismatch")

	// without checksums the damage goes unnoticed
	r, err = NewReader(contents, WithChecksums(false))
	require.NoError(t, err)
	records, err = r.Records()
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestReader_BadIndexStart(t *testing.T) {
	contents, _ := writeTestFile(t, 1, 1)

	var h Header
	require.NoError(t, h.UnmarshalBytes(contents))
	h.IndexStart = uint64(len(contents) + 1)
	require.NoError(t, h.MarshalTo(contents))

	_, err := NewReader(contents)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func BenchmarkReader_Iter(b *testing.B) {
	contents, _ := writeTestFile(b, 10000, 64)
	r, err := NewReader(contents)
	require.NoError(b, err)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := r.Iter()
		for _, ok := it.Next(); ok; _, ok = it.Next() {
		}
	}
}
