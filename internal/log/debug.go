// Package log collects gitsummary's debug trace. Messages written before a
// destination is chosen are buffered, then either flushed to the debug log
// file or dropped.
package log

import (
	"log"
	"os"
	"sync"
	"time"
)

// DebugLogger is the io.Writer behind the package-level logger.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "", log.LstdFlags|log.Lmicroseconds)
)

// Write sends p to the log file, or buffers it until SetFile is called.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.file != nil {
		n, err = l.file.Write(p)
		_ = l.file.Sync()
		return n, err
	}

	// p may be reused by the caller.
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

func (l *DebugLogger) enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.discard
}

// SetFile chooses the debug log destination and flushes anything buffered so
// far. An empty path, or a file that cannot be opened, drops the buffer and
// every later message.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file != nil {
		_ = globalDebugLogger.file.Close()
		globalDebugLogger.file = nil
	}

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = f
	globalDebugLogger.discard = false

	if len(globalDebugLogger.buffer) > 0 {
		_, _ = f.Write(globalDebugLogger.buffer)
		_ = f.Sync()
		globalDebugLogger.buffer = nil
	}

	return nil
}

// Enabled reports whether messages are still being kept.
func Enabled() bool {
	return globalDebugLogger.enabled()
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Timed logs how long an operation took once the returned func is called:
//
//	defer log.Timed("git status")()
func Timed(what string) func() {
	if !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		stdLogger.Printf("%s took %s", what, time.Since(start).Round(time.Microsecond))
	}
}

// Close closes the debug log file if open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}

	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	return err
}
