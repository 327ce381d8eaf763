// Package prof wires runtime profiling into CLI runs. One Session per
// invocation; empty paths mean the corresponding profile is off.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session collects the profiles requested for a single run.
type Session struct {
	CPUPath   string
	MemPath   string
	TracePath string

	cpuFile   *os.File
	traceFile *os.File
	started   bool
}

// Enabled reports whether any profile output was requested.
func (s *Session) Enabled() bool {
	return s.CPUPath != "" || s.MemPath != "" || s.TracePath != ""
}

// Start opens the configured outputs and begins collection. Starting a
// session with no paths is a no-op.
func (s *Session) Start() error {
	if !s.Enabled() {
		return nil
	}
	if s.CPUPath != "" {
		f, err := os.Create(s.CPUPath)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return err
		}
		s.cpuFile = f
	}
	if s.TracePath != "" {
		f, err := os.Create(s.TracePath)
		if err != nil {
			s.stopCPU()
			return err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return err
		}
		s.traceFile = f
	}
	s.started = true
	return nil
}

// Stop ends collection and writes the heap profile when one was
// requested. Safe to call on a session that never started.
func (s *Session) Stop() error {
	if !s.started {
		return nil
	}
	s.started = false
	s.stopCPU()
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.MemPath == "" {
		return nil
	}
	f, err := os.Create(s.MemPath)
	if err != nil {
		return err
	}
	runtime.GC()
	writeErr := pprof.WriteHeapProfile(f)
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

func (s *Session) stopCPU() {
	if s.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpuFile.Close()
	s.cpuFile = nil
}
