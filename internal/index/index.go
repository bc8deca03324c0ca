// Copyright 2022 The bit Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package index is a minimal perfect hash from data file keys to the
// offsets of their records, built with the "Hash, displace, and compress"
// algorithm described in http://cmph.sourceforge.net/papers/esa09.pdf.
//
// On disk the table is the level1 array of little-endian uint64 record
// offsets followed by the level0 array of little-endian uint32 seeds.  Both
// lengths are powers of 2 and are stored in the data file header, not here.
package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"sort"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/bitparse"
)

const (
	maxIndexEntries = (1 << 31) - 1
	maxUint32       = ^uint32(0)
)

var (
	ErrDuplicateKey = errors.New("duplicate keys aren't supported")
	ErrCorrupt      = errors.New("index corrupted")
)

// Entry maps a key to the offset of its record.  Offsets must be non-zero;
// a zero offset marks an empty slot.
type Entry struct {
	Key    []byte
	Offset uint64
}

// Table answers "where might this key's record be" in constant time.
type Table struct {
	level0     []uint32 // power of 2 size
	level0Mask uint64   // len(level0) - 1
	level1     []uint64 // power of 2 size > number of entries
	level1Mask uint64   // len(level1) - 1
}

// nextPow2 returns the next highest power of two above a given number.
func nextPow2(n int64) int64 {
	return 1 << (64 - bits.LeadingZeros64(uint64(n)))
}

func isPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithBuildLogger sets an optional logger for progress updates.
func WithBuildLogger(logger *slog.Logger) BuildOption {
	return func(opts *buildOptions) {
		opts.logger = logger
	}
}

type bucket struct {
	n       uint64
	entries []uint32
}

// bySize is used to sort our buckets from most full to least full
type bySize []bucket

func (s bySize) Len() int           { return len(s) }
func (s bySize) Less(i, j int) bool { return len(s[i].entries) > len(s[j].entries) }
func (s bySize) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Build builds a Table over entries.
func Build(entries []Entry, opts ...BuildOption) (*Table, error) {
	options := buildOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger

	if int64(len(entries)) > maxIndexEntries {
		return nil, fmt.Errorf("too many elements -- we only support %d items in a bit index (%d asked for)", maxIndexEntries, len(entries))
	}

	var (
		level0Len = nextPow2(int64(len(entries)) / 4)
		level1Len = nextPow2(int64(len(entries)))

		level0Mask = uint64(level0Len - 1)
		level1Mask = uint64(level1Len - 1)

		level0        = make([]uint32, level0Len)
		level1        = make([]uint64, level1Len)
		sparseBuckets = make([][]uint32, level0Len)
	)

	for i, e := range entries {
		if e.Offset == 0 {
			return nil, fmt.Errorf("entry %d (%q) has a zero offset", i, e.Key)
		}
		n := farm.Hash64WithSeed(e.Key, 0) & level0Mask
		sparseBuckets[n] = append(sparseBuckets[n], uint32(i))
	}

	var buckets []bucket
	for n, vals := range sparseBuckets {
		if len(vals) > 0 {
			buckets = append(buckets, bucket{n: uint64(n), entries: vals})
		}
	}
	sort.Sort(bySize(buckets))
	logger.Debug("sorted index buckets", "entries", len(entries), "buckets", len(buckets))

	occ := make([]bool, level1Len)
	var tmpOcc []uint64
	for _, b := range buckets {
		if err := checkDuplicates(entries, b.entries); err != nil {
			return nil, err
		}
		seed := uint64(1)
	trySeed:
		if seed >= uint64(maxUint32) {
			return nil, errors.New("couldn't find 32-bit seed")
		}
		tmpOcc = tmpOcc[:0]
		for _, i := range b.entries {
			n := farm.Hash64WithSeed(entries[i].Key, seed) & level1Mask
			if occ[n] {
				for _, n := range tmpOcc {
					occ[n] = false
					level1[n] = 0
				}
				seed++
				goto trySeed
			}
			tmpOcc = append(tmpOcc, n)
			occ[n] = true
			level1[n] = entries[i].Offset
		}
		level0[b.n] = uint32(seed)
	}

	logger.Debug("built index", "level0", level0Len, "level1", level1Len)

	return &Table{
		level0:     level0,
		level0Mask: level0Mask,
		level1:     level1,
		level1Mask: level1Mask,
	}, nil
}

// checkDuplicates fails if two entries in the same bucket share a key; no
// seed could ever separate them.
func checkDuplicates(entries []Entry, bucket []uint32) error {
	for j, a := range bucket {
		for _, b := range bucket[j+1:] {
			if bytes.Equal(entries[a].Key, entries[b].Key) {
				return fmt.Errorf("%w: %q", ErrDuplicateKey, entries[a].Key)
			}
		}
	}
	return nil
}

// Parse decodes a table previously written with WriteTo.  b must hold
// exactly the two arrays.
func Parse(b []byte, level0Len, level1Len uint64) (*Table, error) {
	if !isPow2(level0Len) || !isPow2(level1Len) {
		return nil, fmt.Errorf("table sizes %d/%d not powers of 2: %w", level0Len, level1Len, ErrCorrupt)
	}
	size := uint64(len(b))
	if level1Len > size/8 || level0Len > (size-level1Len*8)/4 {
		return nil, fmt.Errorf("table sizes %d/%d don't fit in %d bytes: %w", level0Len, level1Len, size, ErrCorrupt)
	}

	table := bitparse.Left(
		bitparse.Seq2(
			func(level1 []uint64, level0 []uint32) *Table {
				return &Table{
					level0:     level0,
					level0Mask: level0Len - 1,
					level1:     level1,
					level1Mask: level1Len - 1,
				}
			},
			bitparse.Count(int(level1Len), bitparse.Uint64(bitparse.LittleEndian),
				make([]uint64, 0, level1Len), bitparse.Collect[uint64]),
			bitparse.Count(int(level0Len), bitparse.Uint32(bitparse.LittleEndian),
				make([]uint32, 0, level0Len), bitparse.Collect[uint32]),
		),
		bitparse.End(),
	)

	t, _, ok := table(bitparse.NewSpan(b))
	if !ok {
		return nil, fmt.Errorf("%d trailing bytes after table: %w", size-level1Len*8-level0Len*4, ErrCorrupt)
	}
	return t, nil
}

// Level0Len returns the number of seeds in the table.
func (t *Table) Level0Len() uint64 {
	return uint64(len(t.level0))
}

// Level1Len returns the number of offset slots in the table.
func (t *Table) Level1Len() uint64 {
	return uint64(len(t.level1))
}

// MaybeLookup returns the offset of the record key may live at, or 0.  Keys
// that were never added map to an arbitrary offset: callers must check the
// key stored there.
func (t *Table) MaybeLookup(key []byte) uint64 {
	// first we hash the key with a fixed seed, giving us the offset
	// of a seed that perfectly hashes into our second-level table
	seed := uint64(t.level0[farm.Hash64WithSeed(key, 0)&t.level0Mask])
	return t.level1[farm.Hash64WithSeed(key, seed)&t.level1Mask]
}

// WriteTo writes level1 then level0 to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriterSize(w, 1024*1024)

	var n int64
	var buf [8]byte
	for _, off := range t.level1 {
		binary.LittleEndian.PutUint64(buf[:], off)
		written, err := bw.Write(buf[:])
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	for _, seed := range t.level0 {
		binary.LittleEndian.PutUint32(buf[:4], seed)
		written, err := bw.Write(buf[:4])
		n += int64(written)
		if err != nil {
			return n, err
		}
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("bufio.Flush: %w", err)
	}
	return n, nil
}
