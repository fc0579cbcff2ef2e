// Package logging provides structured debug logging for server components.
// Logs are written to a session-specific file under the log directory;
// never to stdout, which carries the MCP wire protocol. When file logging
// cannot be initialized the logger falls back to stderr.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes leveled log entries for one component. All components of a
// process share a session id and a log file.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	dirMu  sync.Mutex
	logDir string
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// SetDirectory overrides the log directory. Call before creating loggers;
// loggers already open keep writing to their original file.
func SetDirectory(dir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	logDir = dir
}

func directory() (string, error) {
	dirMu.Lock()
	defer dirMu.Unlock()
	if logDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		logDir = filepath.Join(home, ".maccy-mcp", "logs")
	}
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return logDir, nil
}

// NewLogger creates a logger for a component. The log file is
// <log-dir>/<session-id>-maccy-mcp.log, shared by all components of the
// session. On failure a stderr fallback logger is returned along with the
// error so callers can detect degraded mode.
func NewLogger(component string) (*Logger, error) {
	dir, err := directory()
	if err != nil {
		return newFallbackLogger(component, err), err
	}

	sessID := getSessionID()
	path := filepath.Join(dir, fmt.Sprintf("%s-maccy-mcp.log", sessID))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return newFallbackLogger(component, fmt.Errorf("open log file: %w", err)), err
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
	}, nil
}

func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: file logging unavailable, using stderr: %v", err)
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

func (l *Logger) write(level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...any) { l.write("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...any) { l.write("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...any) { l.write("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...any) { l.write("ERROR", format, v...) }

// SessionID returns the process-wide session id.
func (l *Logger) SessionID() string { return l.sessionID }

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
