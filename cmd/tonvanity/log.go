// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/ton-org/vanity/internal/constraints"
	"github.com/ton-org/vanity/internal/dispatch"
	"github.com/ton-org/vanity/internal/kernel"
)

// logRotator rotates the log file written by the log backend.
var logRotator *rotator.Rotator

// logWriter implements io.Writer so the btclog backend can write to both
// stdout and the log rotator without the backend knowing about either.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

var backendLog = btclog.NewBackend(logWriter{})

var mainLog = backendLog.Logger("MAIN")

// initLogRotator opens a rotating log file in logDir, matching the
// rotation policy (10 MB files, 3 kept) the teacher applies to its own
// node and wallet logs.
func initLogRotator(logDir string) error {
	logFile := filepath.Join(logDir, "tonvanity.log")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("create log directory %q: %w", logDir, err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("create log rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevels wires verbosity into every package-level logger and
// installs them as the subsystem loggers this command drives.
func setLogLevels(verbose bool) {
	level := btclog.LevelInfo
	if verbose {
		level = btclog.LevelDebug
	}

	subsystems := map[string]btclog.Logger{
		"MAIN": mainLog,
		"KRNL": backendLog.Logger("KRNL"),
		"CNST": backendLog.Logger("CNST"),
		"DISP": backendLog.Logger("DISP"),
	}
	for _, l := range subsystems {
		l.SetLevel(level)
	}

	constraints.UseLogger(subsystems["CNST"])
	dispatch.UseLogger(subsystems["DISP"])
	kernel.UseLogger(subsystems["KRNL"])
}
