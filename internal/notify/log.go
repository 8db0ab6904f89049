package notify

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gocontroll/moduline-webui/internal/types"
	"github.com/gocontroll/moduline-webui/internal/util"
)

// LogFailureBurst records a burst of failed login attempts.
func LogFailureBurst(logPath, remoteAddr string, failures int) error {
	return appendLogEntry(logPath, types.SecurityLogEntry{
		Timestamp:  util.RFC3339Now(),
		Event:      "login_failures",
		RemoteAddr: remoteAddr,
		Failures:   failures,
	})
}

// LogRecovery records the successful login that ended a failure burst.
func LogRecovery(logPath string, failures int) error {
	return appendLogEntry(logPath, types.SecurityLogEntry{
		Timestamp: util.RFC3339Now(),
		Event:     "login_recovered",
		Failures:  failures,
	})
}

// WriteTestLog writes a test entry to verify log file configuration.
func WriteTestLog(logPath string) error {
	if logPath == "" {
		return fmt.Errorf("log file path not configured")
	}

	return appendLogEntry(logPath, types.SecurityLogEntry{
		Timestamp: util.RFC3339Now(),
		Event:     "test",
	})
}

// appendLogEntry appends a JSON log entry to the file.
func appendLogEntry(logPath string, entry types.SecurityLogEntry) error {
	if !util.IsConfigured(logPath) {
		return nil
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return util.WrapError("marshal log entry", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return util.WrapError("open log file", err)
	}
	defer util.SafeCloseFunc(f, "security log file")()

	if _, err := f.Write(jsonData); err != nil {
		return util.WrapError("write log entry", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return util.WrapError("write newline", err)
	}

	return nil
}
