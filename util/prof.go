// util/prof.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"sync"
)

// Profiler writes CPU and heap profiles for a run of the program. Either
// path may be empty, in which case that profile isn't collected.
type Profiler struct {
	cpu, mem *os.File
	once     sync.Once
}

func StartProfiler(cpuPath, memPath string) (*Profiler, error) {
	p := &Profiler{}

	var err error
	if cpuPath != "" {
		if p.cpu, err = os.Create(cpuPath); err != nil {
			return nil, fmt.Errorf("%s: unable to create CPU profile: %w", cpuPath, err)
		}
		if err = pprof.StartCPUProfile(p.cpu); err != nil {
			p.cpu.Close()
			return nil, fmt.Errorf("unable to start CPU profile: %w", err)
		}
	}
	if memPath != "" {
		if p.mem, err = os.Create(memPath); err != nil {
			if p.cpu != nil {
				pprof.StopCPUProfile()
				p.cpu.Close()
			}
			return nil, fmt.Errorf("%s: unable to create memory profile: %w", memPath, err)
		}
	}

	if p.Active() {
		// Make sure the profiles are written if we're interrupted.
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		go func() {
			<-sig
			p.Stop()
			os.Exit(0)
		}()
	}

	return p, nil
}

func (p *Profiler) Active() bool {
	return p != nil && (p.cpu != nil || p.mem != nil)
}

// Stop finishes the CPU profile and writes the heap profile. It may be
// called more than once.
func (p *Profiler) Stop() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		if p.cpu != nil {
			pprof.StopCPUProfile()
			p.cpu.Close()
		}
		if p.mem != nil {
			if err := pprof.WriteHeapProfile(p.mem); err != nil {
				fmt.Fprintf(os.Stderr, "unable to write memory profile: %v\n", err)
			}
			p.mem.Close()
		}
	})
}
