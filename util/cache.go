// util/cache.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// DiskCache stores msgpack-encoded, zstd-compressed objects in a
// directory. It's used for things that are expensive to compute but easy
// to recompute, like baked font atlases, so errors are generally not
// fatal to callers.
type DiskCache struct {
	Dir string
}

// NewDiskCache returns a DiskCache in the named subdirectory of the
// user's cache directory.
func NewDiskCache(name string) (*DiskCache, error) {
	cd, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return &DiskCache{Dir: filepath.Join(cd, name)}, nil
}

func (c *DiskCache) path(key string) string {
	return filepath.Join(c.Dir, filepath.FromSlash(key))
}

func (c *DiskCache) Store(key string, obj any) error {
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}

	if err := msgpack.NewEncoder(zw).Encode(obj); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Retrieve decodes the cached object into obj and returns the time it
// was stored.
func (c *DiskCache) Retrieve(key string, obj any) (time.Time, error) {
	f, err := os.Open(c.path(key))
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return time.Time{}, err
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		return time.Time{}, err
	}
	defer zr.Close()

	return fi.ModTime(), msgpack.NewDecoder(zr).Decode(obj)
}

// Cull removes the oldest files until the cache holds at most maxBytes.
func (c *DiskCache) Cull(maxBytes int64) error {
	if _, err := os.Stat(c.Dir); os.IsNotExist(err) {
		return nil // Nothing to cull
	}

	type fileInfo struct {
		path    string
		size    int64
		modTime time.Time
	}
	var files []fileInfo
	var totalSize int64

	err := filepath.Walk(c.Dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, fileInfo{
				path:    path,
				size:    info.Size(),
				modTime: info.ModTime(),
			})
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Sort files by modification time, oldest first
	slices.SortFunc(files, func(a, b fileInfo) int {
		return a.modTime.Compare(b.modTime)
	})

	for len(files) > 0 && totalSize > maxBytes {
		f := files[0]
		if err := os.Remove(f.path); err == nil {
			totalSize -= f.size
		}
		files = files[1:]
	}

	return nil
}
