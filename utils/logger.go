package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	// InfoLogger records lifecycle events: orders created, proofs submitted,
	// verdicts applied, sweeps run
	InfoLogger *log.Logger
	// ErrorLogger records failures and rejected requests
	ErrorLogger *log.Logger
	// DebugLogger records diagnostic detail
	DebugLogger *log.Logger
)

// InitLogger opens the dated log files under ./logs and wires the level
// loggers. Filenames are <level>-<date>.log; the analysis script reads the
// same layout.
func InitLogger() error {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	date := time.Now().Format("2006-01-02")

	infoFile, err := openLogFile(logsDir, "info", date)
	if err != nil {
		return err
	}
	errorFile, err := openLogFile(logsDir, "error", date)
	if err != nil {
		return err
	}
	debugFile, err := openLogFile(logsDir, "debug", date)
	if err != nil {
		return err
	}

	InfoLogger = log.New(infoFile, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errorFile, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(debugFile, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

func openLogFile(dir, level, date string) (*os.File, error) {
	file, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("%s-%s.log", level, date)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s log file: %v", level, err)
	}
	return file, nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Printf(format, v...)
	}
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogPanic records a recovered panic with its stack trace
func LogPanic(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Panic: %v\nStack Trace:\n%s", err, stack)
	}
}
