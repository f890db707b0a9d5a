package logging

import (
	"bytes"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the logger. It must be called before using the logger.
func CreateLogger() {
	once.Do(func() {
		baseLogger := log.New(os.Stderr)

		// DEBUG=1 enables caller reporting and debug-level output.
		if os.Getenv("DEBUG") == "1" {
			baseLogger = log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				Prefix:          "mediadrop",
			})

			baseLogger.SetLevel(log.DebugLevel)
		} else {
			baseLogger.SetLevel(log.InfoLevel)
		}

		logger = &Logger{Logger: baseLogger}
	})
}

// GetLogger returns the Logger instance.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// BaseLogger returns the underlying *log.Logger from the custom Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}

// ensureInitialized ensures the logger is initialized before use.
func ensureInitialized() {
	if logger == nil {
		CreateLogger()
	}
}

// NewTestLogger returns a debug-level logger suitable for tests.
func NewTestLogger() *Logger {
	l, _ := NewTestLoggerWithBuffer()
	return l
}

// NewTestLoggerWithBuffer returns a test logger along with the buffer
// that captures its output, for assertions on logged messages.
func NewTestLoggerWithBuffer() (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	baseLogger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: false,
	})
	baseLogger.SetLevel(log.DebugLevel)

	return &Logger{Logger: baseLogger}, buf
}
