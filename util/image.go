// util/image.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"io/fs"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DecodePNG decodes a PNG into tightly-packed RGBA8 pixels. If
// premultiply is false, the pixels hold straight (non-premultiplied)
// alpha even though they're returned in an *image.RGBA.
func DecodePNG(r io.Reader, premultiply bool) (*image.RGBA, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	if premultiply {
		Premultiply(nrgba.Pix)
	}
	return &image.RGBA{Pix: nrgba.Pix, Stride: nrgba.Stride, Rect: nrgba.Rect}, nil
}

// Premultiply converts straight RGBA8 pixels to premultiplied alpha in
// place.
func Premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		switch {
		case a == 0:
			pix[i], pix[i+1], pix[i+2] = 0, 0, 0
		case a < 255:
			pix[i] = uint8(uint32(pix[i]) * a >> 8)
			pix[i+1] = uint8(uint32(pix[i+1]) * a >> 8)
			pix[i+2] = uint8(uint32(pix[i+2]) * a >> 8)
		}
	}
}

// LoadImages decodes the named PNGs (which may be zstd-compressed) from
// fsys in parallel. The returned images are in the same order as names.
func LoadImages(fsys fs.FS, names []string, premultiply bool) ([]*image.RGBA, error) {
	images := make([]*image.RGBA, len(names))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, name := range names {
		eg.Go(func() error {
			r, err := LoadResource(fsys, name)
			if err != nil {
				return err
			}
			defer r.Close()

			img, err := DecodePNG(r, premultiply)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			images[i] = img
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
