// Package logger provides the application-wide structured logger.
// All packages log through this facade so the output format and level
// are controlled in one place.
package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	root hclog.Logger
	mu   sync.RWMutex
)

func init() {
	root = newLogger("movielog", os.Getenv("MOVIELOG_LOG_LEVEL"), os.Getenv("MOVIELOG_LOG_FORMAT"))
}

func newLogger(name, level, format string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      parseLevel(level),
		JSONFormat: strings.EqualFold(format, "json"),
		Output:     os.Stdout,
	})
}

func parseLevel(level string) hclog.Level {
	if level == "" {
		return hclog.Info
	}
	if l := hclog.LevelFromString(level); l != hclog.NoLevel {
		return l
	}
	return hclog.Info
}

// Configure replaces the root logger. Called once at startup after the
// configuration is loaded; safe to call again on config reload.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()
	root = newLogger("movielog", level, format)
}

// Named returns a sub-logger for a component, e.g. logger.Named("omdb").
func Named(name string) hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(name)
}

// Debug logs at debug level with optional key/value pairs.
func Debug(msg string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	root.Debug(msg, args...)
}

// Info logs at info level with optional key/value pairs.
func Info(msg string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	root.Info(msg, args...)
}

// Warn logs at warn level with optional key/value pairs.
func Warn(msg string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	root.Warn(msg, args...)
}

// Error logs at error level with optional key/value pairs.
func Error(msg string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	root.Error(msg, args...)
}
