// renderer/fontcache.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmp/blit/util"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FontKey identifies a font at a particular pixel size.
type FontKey struct {
	Name string
	Size float32
}

func (k FontKey) String() string {
	return fmt.Sprintf("%s-%.1f", k.Name, k.Size)
}

// FontSourceFunc returns a GlyphSource for a font at the given size.
type FontSourceFunc func(size float32) (GlyphSource, error)

// FontCache holds recently-used fonts; when a font is evicted, its atlas
// texture is freed at the next Context.EndFrame, since text drawn with it
// may not have been flushed yet. Baked fonts are also stored in an optional
// DiskCache so that later runs don't need to rasterize them again.
type FontCache struct {
	ctx     *Context
	cfg     FontConfig
	fonts   *lru.Cache[FontKey, *Font]
	sources map[string]FontSourceFunc
	disk    *util.DiskCache
}

// NewFontCache returns a cache that holds up to size fonts. The Go
// Regular and Mono fonts are registered as "regular" and "mono". disk
// may be nil.
func NewFontCache(ctx *Context, size int, cfg FontConfig, disk *util.DiskCache) (*FontCache, error) {
	fonts, err := lru.NewWithEvict(size, func(k FontKey, f *Font) {
		ctx.lg.Debug("evicting font", slog.String("font", k.String()))
		f.texture.deleteAtEndOfFrame()
	})
	if err != nil {
		return nil, err
	}

	fc := &FontCache{
		ctx:     ctx,
		cfg:     cfg.withDefaults(),
		fonts:   fonts,
		sources: make(map[string]FontSourceFunc),
		disk:    disk,
	}
	fc.Register("regular", func(size float32) (GlyphSource, error) { return DefaultFontSource(size) })
	fc.Register("mono", func(size float32) (GlyphSource, error) { return MonoFontSource(size) })
	return fc, nil
}

// Register makes a font available under the given name, replacing any
// earlier registration.
func (fc *FontCache) Register(name string, src FontSourceFunc) {
	fc.sources[name] = src
}

func (fc *FontCache) diskKey(k FontKey) string {
	return fmt.Sprintf("fonts/%s-%dx%d-p%d.msgpack.zst", k, fc.cfg.AtlasWidth, fc.cfg.AtlasHeight,
		fc.cfg.Padding)
}

// Get returns the font for the key, baking it (or loading it from the disk
// cache) if necessary.
func (fc *FontCache) Get(k FontKey) (*Font, error) {
	if f, ok := fc.fonts.Get(k); ok {
		return f, nil
	}

	bf, err := fc.bake(k)
	if err != nil {
		return nil, err
	}

	f, err := NewFontFromBaked(fc.ctx, bf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	fc.fonts.Add(k, f)
	return f, nil
}

func (fc *FontCache) bake(k FontKey) (*BakedFont, error) {
	if fc.disk != nil {
		var bf BakedFont
		if _, err := fc.disk.Retrieve(fc.diskKey(k), &bf); err == nil {
			fc.ctx.lg.Debug("loaded baked font from disk cache", slog.String("font", k.String()))
			return &bf, nil
		}
	}

	srcfn, ok := fc.sources[k.Name]
	if !ok {
		return nil, fmt.Errorf("%s: unknown font", k.Name)
	}
	src, err := srcfn(k.Size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	bf, err := Bake(src, fc.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}

	if fc.disk != nil {
		if err := fc.disk.Store(fc.diskKey(k), bf); err != nil {
			fc.ctx.lg.Warnf("%s: unable to store baked font: %v", k, err)
		}
	}
	return bf, nil
}

// Len returns the number of fonts currently resident.
func (fc *FontCache) Len() int {
	return fc.fonts.Len()
}

// Purge evicts all of the cached fonts.
func (fc *FontCache) Purge() {
	fc.fonts.Purge()
}
