// cmd/bunnymark/bunnies.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"math/rand/v2"
)

const (
	bunnyWidth, bunnyHeight = 26, 37

	gravity = 0.5
	// Frames to wait between spawning waves.
	spawnInterval = 10
)

type bunny struct {
	pos, vel [2]float32
}

// world is the simulation state, separate from anything to do with
// rendering or input so that it can be stepped in tests.
type world struct {
	bunnies []bunny
	width   float32
	height  float32
	r       *rand.Rand

	spawnTimer int
	wave       int // bunnies per spawn
}

func newWorld(width, height float32, wave int, r *rand.Rand) *world {
	w := &world{width: width, height: height, r: r, wave: wave}
	w.spawn()
	return w
}

func (w *world) spawn() {
	for range w.wave {
		w.bunnies = append(w.bunnies, bunny{
			vel: [2]float32{w.r.Float32() * 5, w.r.Float32()*5 - 2.5},
		})
	}
}

// step advances the simulation by one tick. Another wave of bunnies is
// added if spawn is set and enough ticks have passed since the last one.
func (w *world) step(spawn bool) {
	if w.spawnTimer > 0 {
		w.spawnTimer--
	}
	if spawn && w.spawnTimer == 0 {
		w.spawn()
		w.spawnTimer = spawnInterval
	}

	maxX, maxY := w.width-bunnyWidth, w.height-bunnyHeight
	for i := range w.bunnies {
		b := &w.bunnies[i]
		b.pos[0] += b.vel[0]
		b.pos[1] += b.vel[1]
		b.vel[1] += gravity

		if b.pos[0] > maxX {
			b.vel[0] = -b.vel[0]
			b.pos[0] = maxX
		} else if b.pos[0] < 0 {
			b.vel[0] = -b.vel[0]
			b.pos[0] = 0
		}

		if b.pos[1] > maxY {
			b.vel[1] *= -0.8
			b.pos[1] = maxY
			if w.r.IntN(2) == 0 {
				b.vel[1] -= 3 + w.r.Float32()*4
			}
		} else if b.pos[1] < 0 {
			b.vel[1] = 0
			b.pos[1] = 0
		}
	}
}

// bunnyImage returns a premultiplied RGBA sprite, used when no image file
// is given.
func bunnyImage() []byte {
	pix := make([]byte, 4*bunnyWidth*bunnyHeight)
	set := func(x, y int, c [4]byte) {
		copy(pix[4*(y*bunnyWidth+x):], c[:])
	}
	white := [4]byte{255, 255, 255, 255}
	pink := [4]byte{240, 150, 170, 255}
	black := [4]byte{0, 0, 0, 255}

	for y := range bunnyHeight {
		for x := range bunnyWidth {
			switch {
			case y < 14 && (x >= 5 && x < 10 || x >= 16 && x < 21):
				// ears, pink inside
				if y > 2 && (x >= 7 && x < 9 || x >= 17 && x < 19) {
					set(x, y, pink)
				} else {
					set(x, y, white)
				}
			case y >= 14 && x >= 2 && x < bunnyWidth-2:
				set(x, y, white)
			}
		}
	}
	set(9, 19, black)
	set(16, 19, black)
	set(12, 23, pink)
	set(13, 23, pink)
	return pix
}
