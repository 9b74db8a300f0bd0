package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger for the joke service.
// Zero external deps; Init(level) once at startup, then Debugf/Infof/Warnf/Errorf/Fatalf.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

var (
	mu      sync.RWMutex
	backend = log.New(os.Stdout, "", 0)
	minimum = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error,
// fatal). Unknown or empty input keeps the Info default.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		minimum = LevelDebug
	case "warn", "warning":
		minimum = LevelWarn
	case "error":
		minimum = LevelError
	case "fatal":
		minimum = LevelFatal
	default:
		minimum = LevelInfo
	}
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	backend = log.New(w, "", 0)
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return strings.ToLower(levelNames[minimum])
}

func logf(l Level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < minimum {
		return
	}
	prefix := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), levelNames[l])
	backend.Printf(prefix+format, v...)
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	logf(LevelFatal, format, v...)
	os.Exit(1)
}

// Single-string helpers.
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }
