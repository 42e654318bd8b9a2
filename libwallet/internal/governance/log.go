package governance

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the subsystem logger.
func UseLogger(logger slog.Logger) {
	log = logger
}

// DisableLog disables all library log output.  Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = slog.Disabled
}
