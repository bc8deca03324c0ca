// Copyright 2023 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

type config struct {
	LogLevel        slog.Level
	MaxRecords      int
	VerifyChecksums bool
	HexWidth        int
}

func defaultConfig() config {
	return config{
		LogLevel:        slog.LevelWarn,
		MaxRecords:      20,
		VerifyChecksums: true,
		HexWidth:        16,
	}
}

type fileConfig struct {
	LogLevel        string `toml:"log_level"`
	MaxRecords      int    `toml:"max_records"`
	VerifyChecksums bool   `toml:"verify_checksums"`
	HexWidth        int    `toml:"hex_width"`
}

// loadConfig overlays the settings defined in the TOML file at path on cfg.
func loadConfig(path string, cfg config) (config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load bitdump config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		level, err := parseLevel(raw.LogLevel)
		if err != nil {
			return config{}, err
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("max_records") {
		if raw.MaxRecords < 0 {
			return config{}, fmt.Errorf("max_records must be >= 0, got %d", raw.MaxRecords)
		}
		cfg.MaxRecords = raw.MaxRecords
	}

	if meta.IsDefined("verify_checksums") {
		cfg.VerifyChecksums = raw.VerifyChecksums
	}

	if meta.IsDefined("hex_width") {
		if raw.HexWidth <= 0 {
			return config{}, fmt.Errorf("hex_width must be > 0, got %d", raw.HexWidth)
		}
		cfg.HexWidth = raw.HexWidth
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("parse log_level: %w", err)
	}
	return level, nil
}
