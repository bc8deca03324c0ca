// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/bpowers/bitparse/datafile"
)

var errNotFound = errors.New("key not found")

func dump(w io.Writer, r *datafile.Reader, cfg config) error {
	h := r.Header()
	fmt.Fprintf(w, "id:       %s\n", h.FileID)
	fmt.Fprintf(w, "version:  %d\n", h.FormatVersion)
	fmt.Fprintf(w, "records:  %d\n", h.RecordCount)
	if h.IndexStart != 0 {
		fmt.Fprintf(w, "index:    off=%d level0=%d level1=%d loaded=%t\n", h.IndexStart, h.IndexLevel0Count, h.IndexLevel1Count, r.Indexed())
	}

	it := r.Iter()
	n := 0
	for n < cfg.MaxRecords {
		item, ok := it.Next()
		if !ok {
			break
		}
		fmt.Fprintf(w, "#%d off=%d key=%q value[%d]=%s\n", n, item.Offset, item.Key, len(item.Value), hexPrefix(item.Value, cfg.HexWidth))
		n++
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("after %d records: %w", n, err)
	}
	if remaining := r.Len() - int64(n); remaining > 0 {
		fmt.Fprintf(w, "... %d more\n", remaining)
	}
	return nil
}

func hexPrefix(b []byte, width int) string {
	if len(b) <= width {
		return hex.EncodeToString(b)
	}
	return hex.EncodeToString(b[:width]) + "..."
}

// get prints the hex value stored under key.
func get(w io.Writer, r *datafile.Reader, key string) error {
	v, ok := r.Get([]byte(key))
	if !ok {
		return fmt.Errorf("%q: %w", key, errNotFound)
	}
	fmt.Fprintln(w, hex.EncodeToString(v))
	return nil
}
