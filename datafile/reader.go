// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/bpowers/bitparse"
	"github.com/bpowers/bitparse/internal/index"
)

// ReaderOption configures the Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	logger *slog.Logger
	verify bool
}

// WithReaderLogger sets an optional logger for the reader.
// If not provided, no logging output will be produced.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return func(opts *readerOptions) {
		opts.logger = logger
	}
}

// WithChecksums controls whether value checksums are verified on read.
// They are by default.
func WithChecksums(verify bool) ReaderOption {
	return func(opts *readerOptions) {
		opts.verify = verify
	}
}

// Reader reads records out of a data file held entirely in memory, either
// mmap'd with Open or handed over as a byte slice with NewReader.
type Reader struct {
	h        Header
	data     bitparse.Span
	records  bitparse.Span
	record   bitparse.Parser[Record]
	recordsP bitparse.Parser[[]Record]
	index    *index.Table
	file     *bitparse.File
	logger   *slog.Logger
}

// Open maps the data file at path and reads its header.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := bitparse.OpenFile(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f.Span().Bytes(), opts...)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = f
	r.logger.Debug("opened data file", "path", path, "bytes", f.Len(), "records", r.h.RecordCount, "indexed", r.index != nil)
	return r, nil
}

// NewReader reads the header of the data file in b, and its index if it
// has one.  b must not be modified while the Reader is in use.
func NewReader(b []byte, opts ...ReaderOption) (*Reader, error) {
	options := readerOptions{verify: true}
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}

	if len(b) < fileHeaderSize {
		return nil, fmt.Errorf("data file too short: %d < %d", len(b), fileHeaderSize)
	}

	var h Header
	if err := h.UnmarshalBytes(b); err != nil {
		return nil, fmt.Errorf("Header.UnmarshalBytes: %w", err)
	}

	data := bitparse.NewSpan(b)
	end := uint64(len(b))
	if h.IndexStart != 0 {
		if h.IndexStart < fileHeaderSize || h.IndexStart > end {
			return nil, fmt.Errorf("index start %d out of bounds (%d): %w", h.IndexStart, end, ErrCorrupt)
		}
		end = h.IndexStart
	}
	records, _, _ := data.Take(int(end))
	records, _ = records.Skip(fileHeaderSize)

	r := &Reader{
		h:        h,
		data:     data,
		records:  records,
		record:   RecordParser(options.verify),
		recordsP: RecordsParser(options.verify),
		logger:   options.logger,
	}

	if level0, level1, indexBytes := r.Index(); indexBytes != nil {
		t, err := index.Parse(indexBytes, level0, level1)
		if err != nil {
			return nil, fmt.Errorf("index.Parse: %w: %w", err, ErrCorrupt)
		}
		r.index = t
	}

	return r, nil
}

// Header returns the decoded file header.
func (r *Reader) Header() Header {
	return r.h
}

// Len returns the number of records the header says the file holds.
func (r *Reader) Len() int64 {
	return int64(r.h.RecordCount)
}

// Indexed reports whether Get is served by the file's index.
func (r *Reader) Indexed() bool {
	return r.index != nil
}

// Index returns the index metadata and the bytes following the records,
// if the file has an index.
func (r *Reader) Index() (level0Count, level1Count uint64, indexBytes []byte) {
	if r.h.IndexStart == 0 {
		return 0, 0, nil
	}
	rest, _ := r.data.Skip(int(r.h.IndexStart))
	return r.h.IndexLevel0Count, r.h.IndexLevel1Count, rest.Bytes()
}

// ReadAt returns the record at offset off, as returned by Writer.Write.
func (r *Reader) ReadAt(off int64) (Record, error) {
	// an offset of 0 is never valid -- offsets are absolute from the
	// start of the datafile, and datafiles _always_ have a 128-byte
	// header.
	if off < fileHeaderSize {
		return Record{}, InvalidOffset
	}
	in, ok := r.data.Skip(int(off))
	if !ok {
		return Record{}, fmt.Errorf("off %d beyond bounds (%d): %w", off, r.data.Len(), InvalidOffset)
	}
	rec, _, ok := r.record(in)
	if !ok {
		return Record{}, fmt.Errorf("no valid record at off %d: %w", off, ErrCorrupt)
	}
	return rec, nil
}

// Records parses every record in the file.  It is an error for the number
// of records found to disagree with the header.
func (r *Reader) Records() ([]Record, error) {
	records, _, _ := r.recordsP(r.records)
	if uint64(len(records)) != r.h.RecordCount {
		r.logger.Warn("record count mismatch", "expected", r.h.RecordCount, "found", len(records))
		return records, fmt.Errorf("found %d records, header says %d: %w", len(records), r.h.RecordCount, ErrCorrupt)
	}
	return records, nil
}

// Get returns the value for key.  Files with an index answer in constant
// time; otherwise Get falls back to a linear scan over the records.
func (r *Reader) Get(key []byte) ([]byte, bool) {
	if r.index != nil {
		return r.lookup(key)
	}

	it := r.Iter()
	for item, ok := it.Next(); ok; item, ok = it.Next() {
		if bytes.Equal(item.Key, key) {
			return item.Value, true
		}
	}
	return nil, false
}

func (r *Reader) lookup(key []byte) ([]byte, bool) {
	off := r.index.MaybeLookup(key)
	if off == 0 {
		return nil, false
	}
	rec, err := r.ReadAt(int64(off))
	if err != nil {
		r.logger.Debug("index points at a bad record", "off", off, "err", err)
		return nil, false
	}
	// the index maps every key somewhere; only the stored key can say
	// whether it is the one we want
	if !bytes.Equal(rec.Key, key) {
		return nil, false
	}
	return rec.Value, true
}

// Close unmaps the file, if it was opened with Open.  Records returned
// by the Reader must not be used afterwards.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// IterItem is a record along with its offset in the file.
type IterItem struct {
	Record
	Offset int64
}

// Iter walks the records of a Reader in file order.
type Iter struct {
	r    *Reader
	rest bitparse.Span
	n    uint64
	err  error
}

func (r *Reader) Iter() *Iter {
	return &Iter{r: r, rest: r.records}
}

// Next returns the next record, or false once all the records the header
// promises have been read or one fails to parse.
func (i *Iter) Next() (IterItem, bool) {
	if i.err != nil || i.n >= i.r.h.RecordCount {
		return IterItem{}, false
	}

	off := int64(i.r.data.Len() - i.rest.Len())
	rec, rest, ok := i.r.record(i.rest)
	if !ok {
		i.err = fmt.Errorf("record %d at off %d: %w", i.n, off, ErrCorrupt)
		i.r.logger.Debug("iteration stopped early", "record", i.n, "off", off)
		return IterItem{}, false
	}
	i.rest = rest
	i.n++

	return IterItem{Record: rec, Offset: off}, true
}

// Err returns the error that stopped iteration early, if any.
func (i *Iter) Err() error {
	return i.err
}
