package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gocontroll/moduline-webui/internal/util"
)

// SendFailureWebhook sends a POST request to the webhook URL when a burst
// of failed logins is detected.
func SendFailureWebhook(webhookURL, remoteAddr string, failures int) error {
	return sendWebhook(webhookURL, map[string]any{
		"event":         "login_failures",
		"remote_addr":   remoteAddr,
		"failure_count": failures,
	})
}

// SendRecoveryWebhook sends a POST request to the webhook URL when a
// successful login ends a failure burst.
func SendRecoveryWebhook(webhookURL string, failures int) error {
	return sendWebhook(webhookURL, map[string]any{
		"event":         "login_recovered",
		"failure_count": failures,
	})
}

// SendTestWebhook sends a test POST request to verify webhook configuration.
func SendTestWebhook(webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("webhook URL not configured")
	}

	return sendWebhook(webhookURL, map[string]any{
		"event":   "test",
		"message": "This is a test notification from the Moduline web interface",
	})
}

// sendWebhook sends a POST request with JSON payload to the webhook URL.
// Every payload carries a unique event id and an RFC3339 timestamp.
func sendWebhook(webhookURL string, payload map[string]any) error {
	if !util.IsConfigured(webhookURL) {
		return nil // Silently skip if not configured
	}

	payload["event_id"] = uuid.NewString()
	payload["timestamp"] = util.RFC3339Now()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return util.WrapError("marshal payload", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return util.WrapError("send webhook request", err)
	}
	defer util.SafeCloseFunc(resp.Body, "webhook response body")()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
