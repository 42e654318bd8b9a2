// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package libwallet

import (
	"code.cryptopower.dev/group/govdash/libwallet/internal/governance"
	"code.cryptopower.dev/group/govdash/libwallet/internal/loader/eth"
	"github.com/decred/slog"
)

var log = slog.Disabled

// UseLoggers sets the subsystem logs to use the provided loggers.
func UseLoggers(main, governanceLog, loaderLog slog.Logger) {
	log = main
	governance.UseLogger(governanceLog)
	eth.UseLogger(loaderLog)
}

// UseLogger sets the subsystem logs to use the provided logger.
func UseLogger(logger slog.Logger) {
	UseLoggers(logger, logger, logger)
}

// DisableLog disables all library log output.  Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	UseLogger(slog.Disabled)
}
