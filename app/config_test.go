// app/config_test.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsolated(t *testing.T) {
	a := DefaultConfig()
	a.FontSizes["regular"][0] = 99
	a.FontSizes["mono"] = []float32{12}
	a.Title = "changed"

	b := DefaultConfig()
	if b.FontSizes["regular"][0] != 16 || len(b.FontSizes) != 1 || b.Title != "blit" {
		t.Errorf("modifying one default config affected another: %+v", b)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	for _, tc := range []struct {
		name    string
		json    string
		invalid bool
		check   func(c *Config) bool
	}{
		{name: "empty", json: `{}`, check: func(c *Config) bool {
			return c.TickRate == 60 && c.InitialWindowSize == [2]int{1280, 720} && c.VSync
		}},
		{name: "partial", json: `{"TickRate": 30, "Title": "bunnies", "VSync": false}`, check: func(c *Config) bool {
			return c.TickRate == 30 && c.Title == "bunnies" && !c.VSync && c.LogLevel == "info"
		}},
		{name: "fonts", json: `{"FontSizes": {"mono": [10, 12]}}`, check: func(c *Config) bool {
			return len(c.FontSizes["mono"]) == 2 && len(c.FontSizes["regular"]) == 1
		}},
		{name: "window", json: `{"InitialWindowSize": [640, 480]}`, check: func(c *Config) bool {
			return c.InitialWindowSize == [2]int{640, 480}
		}},
		{name: "syntax", json: `{"TickRate": }`, invalid: true},
		{name: "unknown field", json: `{"TicRate": 30}`, invalid: true},
		{name: "repeated field", json: `{"TickRate": 30, "TickRate": 40}`, invalid: true},
		{name: "tick rate", json: `{"TickRate": -1}`, invalid: true},
		{name: "log level", json: `{"LogLevel": "verbose"}`, invalid: true},
		{name: "window size", json: `{"InitialWindowSize": [-1, 100]}`, invalid: true},
		{name: "font cache", json: `{"FontCacheSize": 0}`, invalid: true},
		{name: "font size", json: `{"FontSizes": {"mono": [0]}}`, invalid: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, err := DecodeConfig(strings.NewReader(tc.json))
			if tc.invalid {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("got error %v, expected ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(c) {
				t.Errorf("unexpected config %+v", c)
			}
		})
	}
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	c := DefaultConfig()
	c.TickRate = 120
	c.FontSizes["mono"] = []float32{14}
	if err := c.Save(path, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	lc, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if lc.TickRate != 120 || len(lc.FontSizes["mono"]) != 1 || lc.FontSizes["mono"][0] != 14 {
		t.Errorf("loaded config %+v", lc)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}
