package toolup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes a timestamped install log to a file in the temp directory.
// All methods are safe on a nil receiver, so callers that don't want a log
// file can simply pass nil around.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewLogger creates a Logger writing to {prefix}-{timestamp}.log in the
// system temp directory.
//
// Example:
//
//	log, err := toolup.NewLogger("toolup")
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
//	log.Info("Starting installation")
func NewLogger(prefix string) (*Logger, error) {
	timestamp := time.Now().Format("20060102-150405")
	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.log", prefix, timestamp))

	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{file: f, path: logPath}
	l.Info("=== %s Log ===", prefix)
	l.Info("Started: %s", time.Now().Format(time.RFC3339))
	return l, nil
}

// Close closes the log file.
func (l *Logger) Close() {
	if l == nil || l.file == nil {
		return
	}
	l.Info("=== Log ended: %s ===", time.Now().Format(time.RFC3339))
	l.file.Close()
}

// Path returns the path to the log file.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log("INFO", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log("ERROR", format, args...)
}

// Step logs a major milestone in the run.
func (l *Logger) Step(format string, args ...any) {
	l.log("STEP", format, args...)
}

func (l *Logger) log(level, format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] %s: %s",
		time.Now().Format("15:04:05.000"), level, fmt.Sprintf(format, args...))
	fmt.Fprintln(l.file, line)
	l.file.Sync()
}
