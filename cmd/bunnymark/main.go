// cmd/bunnymark/main.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// bunnymark draws as many bouncing sprites as it can while keeping up
// with the display; it's a stress test for the sprite batcher. Hold the
// left mouse button (or gamepad A) to add bunnies and press A (or
// gamepad Start) to toggle adding them continuously.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mmp/blit/app"
	"github.com/mmp/blit/input"
	"github.com/mmp/blit/log"
	"github.com/mmp/blit/math"
	"github.com/mmp/blit/platform"
	"github.com/mmp/blit/renderer"
	"github.com/mmp/blit/util"

	"github.com/goforj/godump"
)

var (
	logLevel   = flag.String("loglevel", "", "logging level: debug, info, warn, error (overrides config)")
	logDir     = flag.String("logdir", "", "log file directory")
	configFile = flag.String("config", "", "JSON configuration file")
	dumpConfig = flag.Bool("dumpconfig", false, "print the configuration and exit")
	nBunnies   = flag.Int("bunnies", 1000, "number of bunnies added in each wave")
	sprite     = flag.String("sprite", "", "PNG file to use for the bunny sprite")
	cpuprofile = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

const (
	canvasWidth, canvasHeight = 1280, 720
	fontCacheBytes            = 64 << 20
)

func init() {
	// OpenGL and GLFW require that all calls be made from the main
	// thread, so it must stay on the same OS thread throughout.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	config := app.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = app.LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *configFile, err)
			os.Exit(1)
		}
	} else {
		config.Title = "BunnyMark"
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}
	if *dumpConfig {
		godump.Dump(config)
		return
	}

	lg := log.New(config.LogLevel, *logDir)
	defer lg.CatchAndReportCrash()

	profiler, err := util.StartProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Stop()

	if err := run(config, lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		profiler.Stop()
		os.Exit(1)
	}
}

func run(config *app.Config, lg *log.Logger) error {
	plat, err := platform.New(&config.Config, lg)
	if err != nil {
		return err
	}
	dev, err := renderer.NewOpenGLDevice(lg)
	if err != nil {
		plat.Dispose()
		return err
	}
	a, err := app.New(config, plat, dev, lg)
	if err != nil {
		dev.Dispose()
		plat.Dispose()
		return err
	}
	defer a.Dispose()

	g, err := newGame(a, config, lg)
	if err != nil {
		return err
	}
	defer g.delete()

	return a.Run(g)
}

type game struct {
	app.BaseHandler

	world *world

	scaler  *renderer.Scaler
	sprites *renderer.Texture
	bunny   math.Rect
	fonts   *renderer.FontCache

	autoSpawn bool

	frames    int
	fps       int
	fpsWindow time.Time
}

const spritePadding = 1

// spriteRect returns the texel region of an image added to an atlas,
// given the padded region the atlas returned for it.
func spriteRect(r math.IRect, padding int) math.Rect {
	return math.ToRect(r.Expand(-padding))
}

func newGame(a *app.App, config *app.Config, lg *log.Logger) (*game, error) {
	g := &game{
		world:     newWorld(canvasWidth, canvasHeight, *nBunnies, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))),
		fpsWindow: time.Now(),
	}

	var err error
	if g.scaler, err = renderer.NewScaler(a.Context, canvasWidth, canvasHeight); err != nil {
		return nil, err
	}

	// The sprite goes in a small atlas.
	if g.sprites, err = renderer.NewEmptyTexture(a.Context, 128, 128); err != nil {
		return nil, err
	}
	atlas := renderer.NewAtlas(g.sprites, 128, 128)
	w, h, pix := bunnyWidth, bunnyHeight, bunnyImage()
	if *sprite != "" {
		img, err := util.LoadImages(os.DirFS(filepath.Dir(*sprite)), []string{filepath.Base(*sprite)}, true)
		if err != nil {
			return nil, err
		}
		w, h, pix = img[0].Rect.Dx(), img[0].Rect.Dy(), img[0].Pix
	}
	r, err := atlas.Add(w, h, spritePadding, pix)
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	g.bunny = spriteRect(r, spritePadding)

	disk, err := util.NewDiskCache("blit")
	if err != nil {
		lg.Warnf("no font disk cache: %v", err)
	} else if err := disk.Cull(fontCacheBytes); err != nil {
		lg.Warnf("%v", err)
	}
	if g.fonts, err = renderer.NewFontCache(a.Context, config.FontCacheSize, renderer.FontConfig{}, disk); err != nil {
		return nil, err
	}
	for name, sizes := range config.FontSizes {
		for _, sz := range sizes {
			if _, err := g.fonts.Get(renderer.FontKey{Name: name, Size: sz}); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func (g *game) Update(a *app.App) error {
	in := a.Input
	if in.KeyPressed(input.KeyA) {
		g.autoSpawn = !g.autoSpawn
	}
	spawn := g.autoSpawn || in.MouseButtonDown(input.MouseButtonLeft)
	for _, p := range in.Gamepads() {
		if in.GamepadButtonPressed(p, input.GamepadStart) {
			g.autoSpawn = !g.autoSpawn
		}
		spawn = spawn || in.GamepadButtonDown(p, input.GamepadA)
	}
	if in.KeyPressed(input.KeyEscape) {
		a.Quit()
	}

	g.world.step(spawn)

	a.Platform.SetWindowTitle(fmt.Sprintf("BunnyMark - %d bunnies", len(g.world.bunnies)))
	return nil
}

func (g *game) Draw(a *app.App) error {
	ctx, b := a.Context, a.Batcher

	ctx.Clear(g.scaler, renderer.RGB(0.392, 0.584, 0.929))
	for i := range g.world.bunnies {
		b.DrawRegion(g.sprites, g.bunny, g.world.bunnies[i].pos, nil)
	}

	g.frames++
	if d := time.Since(g.fpsWindow); d >= time.Second {
		g.fps = int(float64(g.frames) / d.Seconds())
		g.frames = 0
		g.fpsWindow = time.Now()
	}

	font, err := g.fonts.Get(renderer.FontKey{Name: "regular", Size: 16})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("%d bunnies\n%d fps", len(g.world.bunnies), g.fps)
	sz := renderer.MeasureText(font, text)
	b.DrawRect(math.MakeRect(4, 4, sz[0]+8, sz[1]+8), renderer.RGBA{A: 0.6})
	b.DrawText(font, [2]float32{8, 8}, text, 0)

	b.Flush(g.scaler)
	g.scaler.Draw(b, a.Platform)
	return nil
}

func (g *game) delete() {
	g.fonts.Purge()
	g.sprites.Delete()
	g.scaler.Delete()
}
