// Copyright (c) 2016, 2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"code.cryptopower.dev/group/govdash/api"
	"code.cryptopower.dev/group/govdash/libwallet"
	libutils "code.cryptopower.dev/group/govdash/libwallet/utils"
	"code.cryptopower.dev/group/govdash/listeners"
	"code.cryptopower.dev/group/govdash/logger"
	"code.cryptopower.dev/group/govdash/ui/notification"
	"code.cryptopower.dev/group/govdash/ui/page/governance"
	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

// Write writes the data in p to standard error and the log rotator. Standard
// output belongs to the console page.
func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Loggers per subsystem.  A single backend logger is created and all subsytem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Loggers can not be used before the log rotator has been initialized with a
// log file.  This must be performed early during application startup by calling
// initLogRotator.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	log     = backendLog.Logger("GOVD")
	dlwlLog = backendLog.Logger("DLWL")
	govrLog = backendLog.Logger("GOVR")
	lodrLog = backendLog.Logger("LODR")
	apiLog  = backendLog.Logger("API")
	winLog  = backendLog.Logger("UI")
	lsnrLog = backendLog.Logger("LSNR")
)

// Initialize package-global logger variables.
func init() {
	libwallet.UseLoggers(dlwlLog, govrLog, lodrLog)
	api.UseLogger(apiLog)
	governance.UseLogger(winLog)
	notification.UseLogger(winLog)
	listeners.UseLogger(lsnrLog)

	logger.New(subsystemLoggers)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"GOVD": log,
	"DLWL": dlwlLog,
	"GOVR": govrLog,
	"LODR": lodrLog,
	"API":  apiLog,
	"UI":   winLog,
	"LSNR": lsnrLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logDir string, maxRolls int) {
	if logRotator != nil {
		logRotator.Close()
	}

	err := os.MkdirAll(logDir, libutils.UserFilePerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	r, err := rotator.New(filepath.Join(logDir, libutils.LogFileName), 32*1024, false, maxRolls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}
	logRotator = r
}
