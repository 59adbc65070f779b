// app/config.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mmp/blit/log"
	"github.com/mmp/blit/platform"
	"github.com/mmp/blit/util"

	"github.com/brunoga/deep"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application's settings. It is stored as JSON; fields
// that are absent from a configuration file keep their default values.
type Config struct {
	platform.Config

	// TickRate is the number of fixed-timestep updates per second.
	TickRate float64
	LogLevel string
	// FontCacheSize bounds the number of baked fonts kept on the GPU.
	FontCacheSize int
	// FontSizes lists the pixel sizes of fonts to bake at startup, by font
	// name.
	FontSizes map[string][]float32
}

var defaultConfig = Config{
	Config: platform.Config{
		Title:                 "blit",
		InitialWindowSize:     [2]int{1280, 720},
		InitialWindowPosition: [2]int{100, 100},
		VSync:                 true,
	},
	TickRate:      60,
	LogLevel:      "info",
	FontCacheSize: 8,
	FontSizes:     map[string][]float32{"regular": {16}},
}

// DefaultConfig returns a new Config holding the default settings; it may
// be freely modified.
func DefaultConfig() *Config {
	c := deep.MustCopy(defaultConfig)
	return &c
}

// LoadConfig reads the JSON configuration file at path, starting from the
// defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeConfig(f)
}

func DecodeConfig(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := util.DecodeJSON(b, c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the settings are usable, returning an error that
// wraps ErrInvalidConfig if not.
func (c *Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("TickRate %g: must be in (0, 1000]", c.TickRate))
	}
	if c.InitialWindowSize[0] < 0 || c.InitialWindowSize[1] < 0 {
		errs = append(errs, fmt.Errorf("InitialWindowSize %v: must not be negative", c.InitialWindowSize))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LogLevel: %w", err))
	}
	if c.FontCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("FontCacheSize %d: must be positive", c.FontCacheSize))
	}
	for name, sizes := range c.FontSizes {
		for _, sz := range sizes {
			if sz <= 0 {
				errs = append(errs, fmt.Errorf("FontSizes[%q]: %g: must be positive", name, sz))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(path string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}
