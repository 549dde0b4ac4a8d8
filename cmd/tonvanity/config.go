// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	flags "github.com/jessevdk/go-flags"

	"github.com/ton-org/vanity/internal/spec"
)

// config defines the command-line options accepted by tonvanity.
type config struct {
	Owner             string `long:"owner" description:"TON address whose code cell the search derives (sets CODE_PREFIX)"`
	Start             string `long:"start" description:"Desired prefix of the rendered address"`
	End               string `long:"end" description:"Desired suffix of the rendered address"`
	CaseSensitive     bool   `long:"case-sensitive" description:"Require exact case for start/end"`
	Masterchain       bool   `long:"masterchain" description:"Search for a masterchain (-1) address instead of the basechain"`
	NonBounceable     bool   `long:"non-bounceable" description:"Render the non-bounceable address tag"`
	Testnet           bool   `long:"testnet" description:"Set the testnet-only flag bit"`
	FixedPrefixLength int    `long:"fixed-prefix-length" default:"8" description:"Free-bit rewrite window in bits (0 or 8)"`

	GlobalSize  uint32 `long:"global-size" default:"65536" description:"Work items per launch"`
	Iterations  uint32 `long:"iterations" default:"256" description:"Per-launch iteration count"`
	NumWorkers  uint32 `long:"workers" default:"0" description:"Worker goroutines per launch (0 = GOMAXPROCS)"`
	MaxLaunches uint32 `long:"max-launches" default:"0" description:"Stop after this many launches (0 = unbounded)"`
	StopOnFirst bool   `long:"stop-on-first" description:"Stop the session as soon as one match is found"`

	BatchFile    string `long:"batch" description:"YAML file listing multiple specs to run back-to-back"`
	MatchLogDir  string `long:"match-log" description:"Directory for the persistent leveldb match log"`
	LogDir       string `long:"logdir" description:"Directory to write tonvanity.log to"`
	Verbose      bool   `long:"verbose" short:"v" description:"Verbose (debug-level) logging"`
	DebugSpew    bool   `long:"debug-spew" description:"Dump each found match's detail via go-spew at debug level"`
}

func defaultLogDir() string {
	return filepath.Join(appDataDir(), "logs")
}

// appDataDir returns tonvanity's default per-user data directory.
func appDataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "Tonvanity")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".tonvanity")
}

// loadConfig parses command-line flags into a config, applying defaults
// and validating choices that go-flags cannot express on its own.
func loadConfig() (*config, error) {
	cfg := config{LogDir: defaultLogDir()}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.FixedPrefixLength != 0 && cfg.FixedPrefixLength != 8 {
		return nil, fmt.Errorf("%w: --fixed-prefix-length must be 0 or 8", spec.ErrSpecification)
	}
	if cfg.NumWorkers == 0 {
		cfg.NumWorkers = uint32(runtime.GOMAXPROCS(0))
	}

	return &cfg, nil
}

// spec builds the search specification this invocation describes.
func (c *config) spec() spec.Spec {
	return spec.Spec{
		Owner:             c.Owner,
		Start:             c.Start,
		End:               c.End,
		CaseSensitive:     c.CaseSensitive,
		Masterchain:       c.Masterchain,
		NonBounceable:     c.NonBounceable,
		Testnet:           c.Testnet,
		FixedPrefixLength: c.FixedPrefixLength,
	}
}
