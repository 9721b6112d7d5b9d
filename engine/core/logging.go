// Package core provides shared runtime services for the conversion pipeline,
// currently structured logging.
package core

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	if singleton == nil {
		once.Do(
			func() {
				l := log.NewWithOptions(os.Stderr, log.Options{
					ReportTimestamp: true,
					TimeFormat:      time.RFC3339,
					Prefix:          "meshforge",
				})
				l.SetLevel(log.WarnLevel)
				singleton = &logger{l}
			})
	}
	return singleton
}

// SetLogLevel adjusts the minimum level emitted by the package logger.
// Recognized levels are "debug", "info", "warn" and "error"; anything else
// leaves the current level untouched.
//
// Parameters:
//   - level: the level name, case-insensitive
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		getLogger().SetLevel(log.DebugLevel)
	case "info":
		getLogger().SetLevel(log.InfoLevel)
	case "warn":
		getLogger().SetLevel(log.WarnLevel)
	case "error":
		getLogger().SetLevel(log.ErrorLevel)
	}
}

// LogDebug logs a formatted message at debug level.
func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

// LogInfo logs a formatted message at info level.
func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

// LogWarn logs a formatted message at warn level.
func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

// LogError logs a formatted message at error level.
func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}
