// Copyright 2021 The bit Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package index

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesFor(keys []string) []Entry {
	entries := make([]Entry, len(keys))
	for i, key := range keys {
		// offsets start past a 128-byte header, like a real data file
		entries[i] = Entry{Key: []byte(key), Offset: uint64(128 + i*10)}
	}
	return entries
}

func testTable(t *testing.T, keys []string) *Table {
	entries := entriesFor(keys)
	table, err := Build(entries)
	require.NoError(t, err)
	for _, e := range entries {
		off := table.MaybeLookup(e.Key)
		if off != e.Offset {
			t.Errorf("MaybeLookup(%s): got off=%d; want %d", e.Key, off, e.Offset)
		}
	}
	return table
}

func TestBuild_simple(t *testing.T) {
	testTable(t, []string{"foo", "foo2", "bar", "baz"})
}

func TestBuild_stress(t *testing.T) {
	var keys []string
	for i := 0; i < 10000; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	table := testTable(t, keys)
	assert.Equal(t, uint64(16384), table.Level1Len())
	assert.Equal(t, uint64(4096), table.Level0Len())
}

func TestBuild_empty(t *testing.T) {
	table, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), table.Level0Len())
	assert.Equal(t, uint64(1), table.Level1Len())
	assert.Equal(t, uint64(0), table.MaybeLookup([]byte("anything")))
}

func TestBuild_errors(t *testing.T) {
	_, err := Build(entriesFor([]string{"a", "b", "a"}))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = Build([]Entry{{Key: []byte("a"), Offset: 0}})
	assert.Error(t, err)
}

func TestTable_RoundTrip(t *testing.T) {
	var keys []string
	for i := 0; i < 1000; i++ {
		keys = append(keys, "key-"+strconv.Itoa(i))
	}
	table := testTable(t, keys)

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, int(table.Level1Len()*8+table.Level0Len()*4), buf.Len())

	parsed, err := Parse(buf.Bytes(), table.Level0Len(), table.Level1Len())
	require.NoError(t, err)
	assert.Equal(t, table, parsed)

	for _, e := range entriesFor(keys) {
		require.Equal(t, e.Offset, parsed.MaybeLookup(e.Key))
	}
}

func TestParse_errors(t *testing.T) {
	table := testTable(t, []string{"foo", "bar", "baz", "quux", "quuux"})
	var buf bytes.Buffer
	_, err := table.WriteTo(&buf)
	require.NoError(t, err)
	b := buf.Bytes()
	level0, level1 := table.Level0Len(), table.Level1Len()

	for _, tc := range []struct {
		name   string
		b      []byte
		level0 uint64
		level1 uint64
	}{
		{"truncated", b[:len(b)-1], level0, level1},
		{"trailing", append(append([]byte{}, b...), 0), level0, level1},
		{"empty", nil, level0, level1},
		{"zero level0", b, 0, level1},
		{"level1 not pow2", b, level0, 3},
		{"level1 too big", b, level0, 1 << 40},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.b, tc.level0, tc.level1)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func BenchmarkTable(b *testing.B) {
	var keys []string
	for i := 0; i < 100000; i++ {
		keys = append(keys, strconv.Itoa(i))
	}
	entries := entriesFor(keys)
	table, err := Build(entries)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := entries[i%len(entries)]
		if table.MaybeLookup(e.Key) != e.Offset {
			b.Fatal("bad result offset")
		}
	}
}
