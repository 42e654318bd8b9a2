package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/decred/slog"
)

type logger struct {
	subsystemLoggers map[string]slog.Logger
}

var instance *logger
var initCtx sync.Once

func New(loggers map[string]slog.Logger) *logger {
	initCtx.Do(func() {
		instance = &logger{
			subsystemLoggers: loggers,
		}
	})

	return instance
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	if instance == nil {
		return nil
	}
	subsystems := make([]string, 0, len(instance.subsystemLoggers))
	for subsysID := range instance.subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}
	sort.Strings(subsystems)
	return subsystems
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) error {
	if instance == nil {
		return errors.New("cannot set log level on nil logger")
	}
	level, ok := slog.LevelFromString(logLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	for _, subsystem := range instance.subsystemLoggers {
		subsystem.SetLevel(level)
	}
	return nil
}

// SetLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	if instance == nil {
		return
	}
	if subsystem, ok := instance.subsystemLoggers[subsystemID]; ok {
		// Defaults to info if the log level is invalid.
		level, _ := slog.LevelFromString(logLevel)
		subsystem.SetLevel(level)
	}
}

// ParseAndSetDebugLevels accepts either a global level ("debug") or a comma
// separated list of subsystem=level pairs ("GOVR=trace,API=warn") and
// applies it.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		return SetLogLevels(debugLevel)
	}
	if instance == nil {
		return errors.New("cannot set log level on nil logger")
	}

	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(logLevelPair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%v]", logLevelPair)
		}

		subsysID, logLevel := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if _, exists := instance.subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is invalid -- supported subsystems %v",
				subsysID, SupportedSubsystems())
		}
		if _, ok := slog.LevelFromString(logLevel); !ok {
			return fmt.Errorf("the specified debug level [%v] is invalid", logLevel)
		}
		SetLogLevel(subsysID, logLevel)
	}
	return nil
}
