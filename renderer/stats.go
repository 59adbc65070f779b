// renderer/stats.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"log/slog"
)

// RendererStats encapsulates assorted statistics from rendering.
type RendererStats struct {
	Flushes   int // vertex buffer uploads
	DrawCalls int
	Batches   int
	Quads     int
	Vertices  int
	Binds     int // binds that reached the device
}

func (rs *RendererStats) String() string {
	return fmt.Sprintf("%d flushes, %d draw calls, %d batches: %d quads, %d vertices, %d binds",
		rs.Flushes, rs.DrawCalls, rs.Batches, rs.Quads, rs.Vertices, rs.Binds)
}

func (rs *RendererStats) Merge(s RendererStats) {
	rs.Flushes += s.Flushes
	rs.DrawCalls += s.DrawCalls
	rs.Batches += s.Batches
	rs.Quads += s.Quads
	rs.Vertices += s.Vertices
	rs.Binds += s.Binds
}

func (rs RendererStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("flushes", rs.Flushes),
		slog.Int("draw_calls", rs.DrawCalls),
		slog.Int("batches", rs.Batches),
		slog.Int("quads", rs.Quads),
		slog.Int("vertices", rs.Vertices),
		slog.Int("binds", rs.Binds),
	)
}
