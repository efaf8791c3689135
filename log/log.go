// Package log holds the three package loggers every other package writes to.
// Until Initialize runs they print to stderr; after it they go to a rotating
// file under the application directory.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLog    = newLogger(os.Stderr, "INFO: ")
	WarningLog = newLogger(os.Stderr, "WARNING: ")
	ErrorLog   = newLogger(os.Stderr, "ERROR: ")
)

// HomeEnv overrides the application directory. Used by tests and portable installs.
const HomeEnv = "MORE_SHORTCUTS_HOME"

// FileName is the name of the log file inside the log directory.
const FileName = "moreshortcuts.log"

// LogConfig is the "log" section of config.json.
type LogConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_files"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Enabled:    true,
		MaxSizeMB:  5,
		MaxBackups: 3,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

var (
	activeFile = filepath.Join(os.TempDir(), FileName)
	closer     io.Closer
)

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.New(w, prefix, log.Ldate|log.Ltime)
}

// GetConfigDir returns the application directory, ~/.more-shortcuts unless
// HomeEnv is set.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".more-shortcuts"), nil
}

// GetLogDir resolves where the log file lives. Disabled logging goes to the
// temp directory so nothing accumulates in the application directory.
func GetLogDir(cfg *LogConfig) (string, error) {
	switch {
	case cfg != nil && !cfg.Enabled:
		return os.TempDir(), nil
	case cfg != nil && cfg.Dir != "":
		return cfg.Dir, nil
	}

	appDir, err := GetConfigDir()
	if err != nil {
		return os.TempDir(), fmt.Errorf("failed to get config directory: %w", err)
	}
	dir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return os.TempDir(), fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

// GetLogFilePath returns the log file for cfg. On error the returned path is
// the temp-directory fallback.
func GetLogFilePath(cfg *LogConfig) (string, error) {
	dir, err := GetLogDir(cfg)
	if err != nil {
		return filepath.Join(os.TempDir(), FileName), err
	}
	return filepath.Join(dir, FileName), nil
}

// openWriter rotates through lumberjack when a size limit is set and appends
// to a plain file otherwise.
func openWriter(path string, cfg *LogConfig) (io.WriteCloser, error) {
	if cfg != nil && cfg.MaxSizeMB > 0 {
		return &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// Initialize points the loggers at the log file. Call it once at startup and
// defer Close. A nil config uses DefaultLogConfig. Failures leave the stderr
// loggers in place.
func Initialize(cfg *LogConfig) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}

	path, err := GetLogFilePath(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using %s for logs: %v\n", path, err)
	}
	w, err := openWriter(path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
		return
	}

	Close()
	const flags = log.Ldate | log.Ltime | log.Lshortfile
	InfoLog = log.New(w, "INFO:", flags)
	WarningLog = log.New(w, "WARNING:", flags)
	ErrorLog = log.New(w, "ERROR:", flags)
	closer = w
	activeFile = path
}

// Close flushes and closes the log file opened by Initialize.
func Close() {
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

// FilePath returns the file logs are currently written to.
func FilePath() string {
	return activeFile
}

// Every rate-limits a repeated log line to once per timeout.
type Every struct {
	timeout time.Duration
	timer   *time.Timer
}

func NewEvery(timeout time.Duration) *Every {
	return &Every{timeout: timeout}
}

// ShouldLog reports whether the timeout has passed since the last true.
func (e *Every) ShouldLog() bool {
	if e.timer == nil {
		e.timer = time.NewTimer(e.timeout)
		return true
	}
	select {
	case <-e.timer.C:
		e.timer.Reset(e.timeout)
		return true
	default:
		return false
	}
}
