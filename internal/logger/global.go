package logger

import (
	"os"
)

var globalLogger *Logger

func init() {
	globalLogger = New(Config{Level: INFO, Format: TextFormat, Output: os.Stdout})

	// Pick up the environment before config is loaded, so early startup
	// logging already honors LOG_LEVEL and LOG_FORMAT
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		globalLogger.SetLevel(ParseLevel(level))
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		globalLogger.SetFormat(ParseFormat(format))
	}
}

// Configure applies the loaded service configuration to the global logger
func Configure(level, format string) {
	globalLogger.SetLevel(ParseLevel(level))
	globalLogger.SetFormat(ParseFormat(format))
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	globalLogger.Debug(message, fields...)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	globalLogger.Info(message, fields...)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	globalLogger.Warn(message, fields...)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	globalLogger.Error(message, err, fields...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	globalLogger.Fatal(message, err, fields...)
}

// Debugf logs a formatted debug message using the global logger
func Debugf(format string, args ...interface{}) {
	globalLogger.Debugf(format, args...)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...interface{}) {
	globalLogger.Infof(format, args...)
}

// Warnf logs a formatted warning message using the global logger
func Warnf(format string, args ...interface{}) {
	globalLogger.Warnf(format, args...)
}

// Errorf logs a formatted error message using the global logger
func Errorf(format string, args ...interface{}) {
	globalLogger.Errorf(format, args...)
}

// Fatalf logs a formatted fatal message using the global logger and exits
func Fatalf(format string, args ...interface{}) {
	globalLogger.Fatalf(format, args...)
}
