// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command gen-testdata writes a data file of random key/value pairs, for
// exercising bitdump and benchmarking the record parsers.
package main

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpowers/bitparse/datafile"
)

const (
	prefix    = "pref_"
	suffixLen = 16
	hmacKey   = "d259c7f656caf7f1"
)

func newRand() *rand.Rand {
	var seedBytes [8]byte
	_, _ = crand.Read(seedBytes[:])
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return rand.New(rand.NewSource(seed))
}

// generate writes n pairs to w.  Keys are the hex HMAC of their value, so
// they are unique with overwhelming probability.
func generate(w *datafile.Writer, rng *rand.Rand, n int) error {
	h := hmac.New(sha256.New, []byte(hmacKey))

	for i := 0; i < n; i++ {
		var buf [suffixLen / 2]byte
		if _, err := rng.Read(buf[:]); err != nil {
			return err
		}
		value := fmt.Sprintf("%s%x", prefix, buf)
		h.Reset()
		h.Write([]byte(value))
		key := hex.EncodeToString(h.Sum(nil))

		if _, err := w.Write([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("w.Write: %w", err)
		}
	}

	return w.Finish()
}

func newRootCmd() *cobra.Command {
	var (
		nPairs  int
		verbose bool
		indexed bool
	)

	cmd := &cobra.Command{
		Use:   "gen-testdata <output file>",
		Short: "Write a data file of random key/value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var logOut io.Writer = io.Discard
			if verbose {
				logOut = cmd.ErrOrStderr()
			}
			logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			w, err := datafile.NewWriter(f,
				datafile.WithWriterLogger(logger),
				datafile.WithIndex(indexed))
			if err != nil {
				_ = f.Close()
				return fmt.Errorf("datafile.NewWriter: %w", err)
			}
			if err := generate(w, newRand(), nPairs); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Sync(); err != nil {
				_ = f.Close()
				return fmt.Errorf("f.Sync: %w", err)
			}
			return f.Close()
		},
	}

	cmd.Flags().IntVarP(&nPairs, "pairs", "n", 1000000, "number of key/value pairs to write")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	cmd.Flags().BoolVar(&indexed, "index", false, "append a minimal perfect hash index of the keys")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
