package listeners

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the subsystem logger.
func UseLogger(logger slog.Logger) {
	log = logger
}
