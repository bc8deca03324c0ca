// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package datafile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/bpowers/bitparse"
)

// Header is the decoded fixed-size header at the start of every data file.
type Header struct {
	Magic            uint32
	FormatVersion    uint32
	RecordCount      uint64
	IndexStart       uint64
	IndexLevel0Count uint64
	IndexLevel1Count uint64
	FileID           uuid.UUID
}

func newFileHeader() (*Header, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("uuid.NewRandom: %w", err)
	}
	return &Header{
		Magic:         magicDataHeader,
		FormatVersion: fileFormatVersion,
		FileID:        id,
	}, nil
}

var (
	u32 = bitparse.Uint32(bitparse.LittleEndian)
	u64 = bitparse.Uint64(bitparse.LittleEndian)

	headerFields = bitparse.Seq6(
		func(magic, version uint32, count, indexStart, level0, level1 uint64) Header {
			return Header{
				Magic:            magic,
				FormatVersion:    version,
				RecordCount:      count,
				IndexStart:       indexStart,
				IndexLevel0Count: level0,
				IndexLevel1Count: level1,
			}
		},
		u32, u32, u64, u64, u64, u64,
	)

	// headerParser decodes the header without judging it; UnmarshalBytes
	// checks magic and version so it can say which one is wrong.
	headerParser = bitparse.Seq3(
		func(h Header, id bitparse.Span, _ bitparse.Unit) Header {
			copy(h.FileID[:], id.Bytes())
			return h
		},
		headerFields,
		bitparse.Take(fileIDSize),
		bitparse.Skip(fileHeaderSize-fileIDOff-fileIDSize),
	)

	magicParser = bitparse.ByteSeq(binary.LittleEndian.AppendUint32(nil, magicDataHeader))
)

// IsDataFile reports whether b starts with the data file magic number.
func IsDataFile(b []byte) bool {
	_, _, ok := magicParser(bitparse.NewSpan(b))
	return ok
}

// MarshalTo encodes the header into the first fileHeaderSize bytes of b.
func (h *Header) MarshalTo(b []byte) error {
	if len(b) < fileHeaderSize {
		return fmt.Errorf("buffer too short: %d < %d", len(b), fileHeaderSize)
	}
	b = b[:fileHeaderSize]
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint32(b[4:8], h.FormatVersion)
	binary.LittleEndian.PutUint64(b[8:16], h.RecordCount)
	binary.LittleEndian.PutUint64(b[16:24], h.IndexStart)
	binary.LittleEndian.PutUint64(b[24:32], h.IndexLevel0Count)
	binary.LittleEndian.PutUint64(b[32:40], h.IndexLevel1Count)
	copy(b[fileIDOff:fileIDOff+fileIDSize], h.FileID[:])
	for i := fileIDOff + fileIDSize; i < fileHeaderSize; i++ {
		b[i] = 0
	}
	return nil
}

func (h *Header) WriteTo(w io.Writer) (n int64, err error) {
	// make the header the minimum cache-width we expect to see
	var headerBuf [fileHeaderSize]byte
	if err = h.MarshalTo(headerBuf[:]); err != nil {
		return 0, err
	}

	if _, err = w.Write(headerBuf[:]); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return int64(fileHeaderSize), nil
}

func (h *Header) UpdateRecordCount(n uint64, w io.WriterAt) error {
	h.RecordCount = n

	var recordCountBuf [8]byte
	binary.LittleEndian.PutUint64(recordCountBuf[:], h.RecordCount)
	if _, err := w.WriteAt(recordCountBuf[:], 8); err != nil {
		return fmt.Errorf("f.WriteAt: %w", err)
	}

	return nil
}

func (h *Header) UpdateIndex(indexStart, level0Count, level1Count uint64, w io.WriterAt) error {
	h.IndexStart = indexStart
	h.IndexLevel0Count = level0Count
	h.IndexLevel1Count = level1Count

	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.IndexStart)
	binary.LittleEndian.PutUint64(buf[8:16], h.IndexLevel0Count)
	binary.LittleEndian.PutUint64(buf[16:24], h.IndexLevel1Count)
	if _, err := w.WriteAt(buf[:], 16); err != nil {
		return fmt.Errorf("f.WriteAt: %w", err)
	}

	return nil
}

// UnmarshalBytes decodes and validates the header at the start of headerBytes.
func (h *Header) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < fileHeaderSize {
		return fmt.Errorf("headerBytes too short: %d < %d", len(headerBytes), fileHeaderSize)
	}

	parsed, _, ok := headerParser(bitparse.NewSpan(headerBytes))
	if !ok {
		// the length check above makes this unreachable
		return fmt.Errorf("header: %w", ErrCorrupt)
	}

	if parsed.Magic != magicDataHeader {
		return fmt.Errorf("%w (%x)", ErrBadMagic, parsed.Magic)
	}
	if parsed.FormatVersion != fileFormatVersion {
		return fmt.Errorf("%w: this version of the bit library can only read v%d data files; found v%d",
			ErrUnsupportedVersion, fileFormatVersion, parsed.FormatVersion)
	}

	*h = parsed
	return nil
}
