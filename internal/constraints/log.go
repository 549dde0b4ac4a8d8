// Copyright (c) 2025 The TON Vanity developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constraints

import "github.com/btcsuite/btclog"

// log is the package-level logger. By default it is disabled; callers
// wire in a real logger with UseLogger.
var log btclog.Logger

func init() {
	DisableLog()
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger installs logger as the package-level logger.
func UseLogger(logger btclog.Logger) {
	log = logger
}
