package server

import (
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/gocontroll/moduline-webui/internal/config"
	"github.com/gocontroll/moduline-webui/internal/util"
)

// WSCommand is a command received from a WebSocket client.
type WSCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CommandHandler processes WebSocket commands from the status page.
type CommandHandler struct {
	cfg            *config.Config
	revokeSessions func()
	testTriggers   map[string]func() error
}

// NewCommandHandler creates a new command handler.
func NewCommandHandler(
	cfg *config.Config,
	revokeSessions func(),
	testTriggers map[string]func() error,
) *CommandHandler {
	return &CommandHandler{
		cfg:            cfg,
		revokeSessions: revokeSessions,
		testTriggers:   testTriggers,
	}
}

// Handle processes a WebSocket command and performs the requested action.
func (h *CommandHandler) Handle(cmd WSCommand, conn *websocket.Conn, triggerStatusUpdate func()) {
	switch cmd.Type {
	case "revoke_sessions":
		h.revokeSessions()
		slog.Info("all sessions revoked via status page")
	case "update_notifications":
		h.handleUpdateNotifications(cmd)
	case "test_webhook", "test_log", "test_email":
		h.handleTest(conn, cmd.Type)
	default:
		slog.Warn("unknown WebSocket command type", "type", cmd.Type)
	}

	triggerStatusUpdate()
}

// notificationSettings is the payload of an update_notifications command.
type notificationSettings struct {
	WebhookURL string             `json:"webhook_url"`
	LogPath    string             `json:"log_path"`
	Email      config.EmailConfig `json:"email"`
}

func (h *CommandHandler) handleUpdateNotifications(cmd WSCommand) {
	var settings notificationSettings
	if err := json.Unmarshal(cmd.Data, &settings); err != nil {
		slog.Warn("update_notifications: invalid JSON data", "error", err)
		return
	}
	if settings.Email.Host != "" {
		if verr := util.ValidatePort("smtp port", settings.Email.Port); verr != nil {
			slog.Warn("update_notifications: validation failed", "error", verr.Message)
			return
		}
	}

	if err := h.cfg.SetWebhookURL(settings.WebhookURL); err != nil {
		slog.Error("failed to save webhook URL", "error", err)
		return
	}
	if err := h.cfg.SetLogPath(settings.LogPath); err != nil {
		slog.Error("failed to save log path", "error", err)
		return
	}
	if err := h.cfg.SetEmail(settings.Email); err != nil {
		slog.Error("failed to save email settings", "error", err)
	}
}

func (h *CommandHandler) handleTest(conn *websocket.Conn, cmdType string) {
	trigger, ok := h.testTriggers[cmdType]
	if !ok {
		slog.Warn("no trigger registered for test command", "type", cmdType)
		return
	}

	result := map[string]any{
		"type":   "test_result",
		"target": cmdType,
		"ok":     true,
	}
	if err := trigger(); err != nil {
		result["ok"] = false
		result["error"] = err.Error()
	}

	if err := conn.WriteJSON(result); err != nil {
		slog.Warn("failed to send test result", "error", err)
	}
}
