// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/bitparse/internal/index"
)

type nopWriter struct{}

func (nopWriter) Write([]byte) (int, error) {
	return 0, io.EOF
}

// FileWriter is usually an *os.File, but specified as an interface for easier testing.
type FileWriter interface {
	io.Writer
	io.WriterAt
}

// WriterOption configures the Writer.
type WriterOption func(*writerOptions)

type writerOptions struct {
	logger *slog.Logger
	index  bool
}

// WithWriterLogger sets an optional logger for the writer to use for progress updates.
// If not provided, no logging output will be produced.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(opts *writerOptions) {
		opts.logger = logger
	}
}

// WithIndex makes Finish append a minimal perfect hash index of the keys,
// so Reader.Get doesn't have to scan.  Keys are kept in memory until then.
func WithIndex(enabled bool) WriterOption {
	return func(opts *writerOptions) {
		opts.index = enabled
	}
}

type Writer struct {
	f        FileWriter
	h        *Header
	w        *bufio.Writer
	off      uint64
	count    uint64
	finished atomic.Bool
	indexed  bool
	entries  []index.Entry
	logger   *slog.Logger
}

func NewWriter(f FileWriter, opts ...WriterOption) (*Writer, error) {
	var options writerOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}

	h, err := newFileHeader()
	if err != nil {
		return nil, fmt.Errorf("newFileHeader: %w", err)
	}
	w := &Writer{
		f:      f,
		h:      h,
		w:       bufio.NewWriterSize(f, defaultBufferSize),
		indexed: options.index,
		logger:  options.logger,
	}

	if headerLen, err := w.h.WriteTo(w.w); err != nil {
		return nil, fmt.Errorf("Header.WriteTo: %w", err)
	} else {
		w.off = uint64(headerLen)
	}

	// try to expose errors when writing to the backing file early
	if err := w.w.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	return w, nil
}

// Header returns the header as it will be (or has been) written.
func (w *Writer) Header() Header {
	return *w.h
}

// setIndexMetadata records that an index of the given size starts at the
// current offset.
func (w *Writer) setIndexMetadata(level0Len, level1Len uint64) error {
	if err := w.h.UpdateIndex(w.off, level0Len, level1Len, w.f); err != nil {
		return fmt.Errorf("h.UpdateIndex: %w", err)
	}

	return nil
}

func (w *Writer) writeRecordHeader(key, value []byte) (int, error) {
	if len(key) == 0 {
		return 0, fmt.Errorf("empty key not supported")
	}
	if len(key) > MaxKeyLen {
		return 0, fmt.Errorf("key %q too long", string(key))
	}
	if len(value) > maxValueLen {
		return 0, fmt.Errorf("value of length %d too long", len(value))
	}

	var header [recordHeaderSize]byte

	binary.LittleEndian.PutUint32(header[:4], checksum(value))
	header[headerKeyLenOff] = uint8(len(key))
	binary.LittleEndian.PutUint16(header[headerValueLenOff:headerValueLenOff+2], uint16(len(value)))

	return w.w.Write(header[:])
}

// Write appends a record, returning its offset from the start of the file.
func (w *Writer) Write(key, value []byte) (off uint64, err error) {
	if w.finished.Load() {
		return 0, errors.New("Write called after Finish")
	}

	off = w.off
	if off == 0 {
		return 0, errors.New("invariant broken: always expect *Writer.off to be > 0")
	}

	if off > maxOffset {
		return 0, errors.New("data file has grown too large (>1 terabyte)")
	}

	headerWritten, err := w.writeRecordHeader(key, value)
	if err != nil {
		return 0, fmt.Errorf("bufio.Write 1: %w", err)
	}
	keyWritten, err := w.w.Write(key)
	if err != nil {
		return 0, fmt.Errorf("bufio.Write 2: %w", err)
	}
	valueWritten, err := w.w.Write(value)
	if err != nil {
		return 0, fmt.Errorf("bufio.Write 3: %w", err)
	}

	recordLen := uint64(headerWritten + keyWritten + valueWritten)
	if w.indexed {
		w.entries = append(w.entries, index.Entry{
			Key:    append([]byte(nil), key...),
			Offset: off,
		})
	}

	w.off += recordLen
	w.count += 1

	return off, nil
}

// Finish pads the file out to a multiple of 2 MB, appends the index if one
// was asked for, flushes it and records the final record count in the
// header.  Calling it more than once is fine.
func (w *Writer) Finish() error {
	if alreadyFinished := w.finished.Swap(true); alreadyFinished {
		// nothing to do - already cleaned up
		return nil
	}

	defer func() {
		w.w.Reset(nopWriter{})
	}()

	// pad up so the header + data portion of our file is a multiple of 2MB
	if w.off%hugePageSize != 0 {
		zeroes := make([]byte, hugePageSize-(w.off%hugePageSize))
		_, _ = w.w.Write(zeroes)
		w.off += uint64(len(zeroes))
	}

	if w.indexed {
		if err := w.writeIndex(); err != nil {
			return err
		}
	}

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("bufio.Flush: %w", err)
	}

	w.logger.Debug("finished data file", "records", w.count, "bytes", w.off)

	return w.h.UpdateRecordCount(w.count, w.f)
}

func (w *Writer) writeIndex() error {
	t, err := index.Build(w.entries, index.WithBuildLogger(w.logger))
	if err != nil {
		return fmt.Errorf("index.Build: %w", err)
	}
	w.entries = nil

	if err := w.setIndexMetadata(t.Level0Len(), t.Level1Len()); err != nil {
		return err
	}
	n, err := t.WriteTo(w.w)
	if err != nil {
		return fmt.Errorf("Table.WriteTo: %w", err)
	}
	w.off += uint64(n)

	return nil
}

func checksum(value []byte) uint32 {
	return uint32(farm.Hash64(value))
}
