// util/resources.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

var ErrNoResourcesDir = errors.New("unable to find resources directory")

// Unfortunately, unlike io.ReadCloser, the zstd Decoder's Close() method
// doesn't return an error, so we need to make our own custom ReadCloser
// interface.
type ResourceReadCloser interface {
	io.Reader
	Close()
}

type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() {}

// LoadResource provides a ResourceReadCloser to access the specified
// file from fsys; if it's zstd compressed (has a .zst extension), the
// Reader will handle decompression transparently.
func LoadResource(fsys fs.FS, name string) (ResourceReadCloser, error) {
	f, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	br := bytesReadCloser{bytes.NewReader(f)}

	if path.Ext(name) == ".zst" {
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}
		return zr, nil
	}

	return br, nil
}

func LoadResourceBytes(fsys fs.FS, name string) ([]byte, error) {
	r, err := LoadResource(fsys, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// ResourceExists returns true if the specified resource file exists.
func ResourceExists(fsys fs.FS, name string) bool {
	_, err := fs.Stat(fsys, name)
	return err == nil
}

// CompressResource returns zstd-compressed data, suitable for writing to
// a .zst resource.
func CompressResource(data []byte) ([]byte, error) {
	zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	defer zw.Close()
	return zw.EncodeAll(data, nil), nil
}

// FindResourcesDir looks for a directory named "resources" in the
// current directory and the two directories above it.
func FindResourcesDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Try CWD as well the two directories above it.
	for range 3 {
		candidate := filepath.Join(dir, "resources")
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate, nil
		}
		dir = filepath.Join(dir, "..")
	}
	return "", ErrNoResourcesDir
}

// ResourcesFS returns a filesystem rooted at dir, or at the directory
// found by FindResourcesDir if dir is empty.
func ResourcesFS(dir string) (fs.FS, error) {
	if dir == "" {
		var err error
		if dir, err = FindResourcesDir(); err != nil {
			return nil, err
		}
	}
	return os.DirFS(dir), nil
}
