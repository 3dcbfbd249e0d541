package logging

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the application logger. Output goes to stdout and, when a file is
// configured, to a size-rotated log file.
type Logger struct {
	sugar       *zap.SugaredLogger
	writer      *lumberjack.Logger
	logRequests bool
}

func NewLogger(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, WrapError(err, "invalid logging configuration")
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	var writer *lumberjack.Logger
	if config.File != "" {
		// Expand home directory in log file path
		logFile := config.File
		if strings.HasPrefix(logFile, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			logFile = filepath.Join(homeDir, logFile[2:])
		}

		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}
		sinks = append(sinks, zapcore.AddSync(writer))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		level,
	)

	return &Logger{
		sugar:       zap.New(core).Sugar(),
		writer:      writer,
		logRequests: config.LogRequests,
	}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{sugar: l.Sugar()}
}

func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		sugar:       l.sugar.With(keysAndValues...),
		writer:      l.writer,
		logRequests: l.logRequests,
	}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Error handling utilities
type ErrorWithContext struct {
	Err     error
	Context string
}

func (e *ErrorWithContext) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// LogHTTPRequest logs one access line for a finished request.
func (l *Logger) LogHTTPRequest(method, path, clientIP string, status, bytes int, latency string) {
	if !l.logRequests {
		return
	}

	l.sugar.Infow("http request",
		"method", method,
		"path", path,
		"status", status,
		"client_ip", clientIP,
		"bytes", bytes,
		"latency", latency,
	)
}

// LogHTTPError logs an HTTP error with the internal cause. The cause is never
// sent to the client.
func (l *Logger) LogHTTPError(method, path, clientIP string, status int, message string, err error) {
	fields := []interface{}{
		"method", method,
		"path", path,
		"status", status,
		"client_ip", clientIP,
	}
	if err != nil {
		fields = append(fields, "error", err.Error())
	}

	if status >= http.StatusInternalServerError {
		l.sugar.Errorw(message, fields...)
		return
	}
	l.sugar.Warnw(message, fields...)
}
