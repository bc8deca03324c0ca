// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command bitdump prints the header and records of a bit data file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpowers/bitparse/datafile"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		maxRecords int
		logLevel   string
		noVerify   bool
		getKey     string
	)

	cmd := &cobra.Command{
		Use:   "bitdump <file>",
		Short: "Print the header and records of a bit data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath, cfg); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("max") {
				cfg.MaxRecords = maxRecords
			}
			if flags.Changed("log-level") {
				level, err := parseLevel(logLevel)
				if err != nil {
					return err
				}
				cfg.LogLevel = level
			}
			if noVerify {
				cfg.VerifyChecksums = false
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))

			path := args[0]
			r, err := datafile.Open(path,
				datafile.WithReaderLogger(logger),
				datafile.WithChecksums(cfg.VerifyChecksums))
			if err != nil {
				return err
			}
			defer func() {
				_ = r.Close()
			}()

			if flags.Changed("get") {
				return get(cmd.OutOrStdout(), r, getKey)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "file:     %s\n", path)
			return dump(cmd.OutOrStdout(), r, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a TOML config file")
	flags.IntVar(&maxRecords, "max", 0, "maximum number of records to print")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&noVerify, "no-verify", false, "skip value checksum verification")
	flags.StringVar(&getKey, "get", "", "print only the value stored under this key")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
