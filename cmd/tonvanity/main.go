// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command tonvanity searches for TON vanity addresses matching a
// user-supplied prefix and/or suffix.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"

	"github.com/ton-org/vanity/internal/batchspec"
	"github.com/ton-org/vanity/internal/dispatch"
	"github.com/ton-org/vanity/internal/spec"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tonvanity:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := initLogRotator(cfg.LogDir); err != nil {
		return err
	}
	setLogLevels(cfg.Verbose)

	specs, err := specsFor(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		mainLog.Info("interrupt received, finishing in-flight work items and stopping")
		cancel()
	}()

	for i, s := range specs {
		mainLog.Infof("session %d/%d: start=%q end=%q case_sensitive=%v", i+1, len(specs), s.Start, s.End, s.CaseSensitive)
		if err := runSession(ctx, cfg, s); err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil
}

// specsFor resolves the single CLI-described spec, or every spec in a
// batch file when --batch is given.
func specsFor(cfg *config) ([]spec.Spec, error) {
	if cfg.BatchFile != "" {
		return batchspec.Load(cfg.BatchFile)
	}
	return []spec.Spec{cfg.spec()}, nil
}

func runSession(ctx context.Context, cfg *config, s spec.Spec) error {
	codePrefix, err := codePrefixForOwner(s.Owner)
	if err != nil {
		return err
	}

	d, err := dispatch.New(dispatch.Config{
		Spec:                s,
		CodePrefix:          codePrefix,
		Salt0:               randomSaltWord(),
		Salt1:               randomSaltWord(),
		Salt2:               randomSaltWord(),
		Salt3:               randomSaltWord(),
		IterationsPerLaunch: cfg.Iterations,
		GlobalSize:          cfg.GlobalSize,
		NumWorkers:          cfg.NumWorkers,
		MaxLaunches:         cfg.MaxLaunches,
		StopOnFirstMatch:    cfg.StopOnFirst,
		MatchLogPath:        cfg.MatchLogDir,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	matches, err := d.Run(ctx)
	if err != nil && ctx.Err() == nil {
		return err
	}

	for _, m := range matches {
		fmt.Printf("%s  (hash0=%#02x, variant tick=%v tock=%v, owner=%s)\n",
			m.Address, m.Hash0, m.Variant.Tick, m.Variant.Tock, s.Owner)
		if cfg.DebugSpew {
			mainLog.Debugf("match detail: %s", spew.Sdump(m))
		}
	}
	if len(matches) == 0 {
		mainLog.Info("session ended with no matches")
	}
	return nil
}
