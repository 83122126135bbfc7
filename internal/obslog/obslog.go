// Package obslog is a structured JSON line logger for validation diagnostics.
//
// It is deliberately minimal: five levels, one environment variable to raise
// or lower the threshold, and JSON-encoded entries written to the standard
// logger. The validate package calls it only on the error path — a clean
// validation run never touches this package.
package obslog

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lowtide-labs/ssbvalidate/internal/assert"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
	levelCritical
)

// Fields captures structured context attached to a single log entry.
type Fields struct {
	Operation   string `json:"operation,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	Sequence    uint64 `json:"sequence,omitempty"`
	Author      string `json:"author,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

type entry struct {
	Timestamp string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Fields
}

var (
	levelOnce sync.Once
	minLevel  = levelInfo
)

func init() {
	if err := assert.Check(log.Default() != nil, "default logger must not be nil"); err != nil {
		return
	}
	log.SetFlags(0)
}

// Debug logs a debug-level message. Returns silently if msg is empty.
func Debug(msg string, fields Fields) {
	if err := assert.Check(msg != "", "log message must not be empty"); err != nil {
		return
	}
	logWithLevel("debug", msg, fields)
}

// Warn logs a warning-level message. Used for a single rejected message.
func Warn(msg string, fields Fields) {
	if err := assert.Check(msg != "", "log message must not be empty"); err != nil {
		return
	}
	logWithLevel("warn", msg, fields)
}

// Error logs an error-level message. Used when a batch short-circuits.
func Error(msg string, fields Fields) {
	if err := assert.Check(msg != "", "log message must not be empty"); err != nil {
		return
	}
	logWithLevel("error", msg, fields)
}

func logWithLevel(level, msg string, fields Fields) {
	if !shouldLog(level) {
		return
	}
	out := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	payload, err := json.Marshal(out)
	if err != nil {
		log.Printf("{\"level\":\"error\",\"msg\":\"log_marshal_failed\",\"error\":%q}", err.Error())
		return
	}
	log.Print(string(payload))
}

func shouldLog(level string) bool {
	levelOnce.Do(func() {
		envLevel := strings.ToLower(os.Getenv("SSBVALIDATE_LOG_LEVEL"))
		if envLevel == "" {
			envLevel = "info"
		}
		minLevel = levelValue(envLevel)
	})
	return levelValue(level) >= minLevel
}

func levelValue(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	case "critical":
		return levelCritical
	default:
		return levelInfo
	}
}
