// Package config provides application configuration management.
package config

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocontroll/moduline-webui/internal/util"
)

// Configuration defaults.
const (
	DefaultWebPort         = 8080
	DefaultClientKey       = "Moduline"
	DefaultSessionTTLHours = 24
	DefaultSerialCommand   = "go-sn"
	DefaultEmailSMTPPort   = 587
	DefaultEmailFromName   = "Moduline Web Interface"
)

// ClientKeyEnv overrides the configured shared client key when set.
const ClientKeyEnv = "CLIENT_KEY"

// WebConfig contains web server configuration.
type WebConfig struct {
	Port int `json:"port"`
}

// AuthConfig contains authentication configuration. ClientKey is the shared
// secret combined with the controller's serial number to form the login
// credential.
type AuthConfig struct {
	ClientKey       string `json:"client_key,omitempty"`
	SessionTTLHours int    `json:"session_ttl_hours,omitempty"`
	SerialCommand   string `json:"serial_command,omitempty"`
}

// EmailConfig contains email notification configuration.
type EmailConfig struct {
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	FromName   string `json:"from_name,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	Recipients string `json:"recipients,omitempty"`
}

// NotificationsConfig contains all security notification configuration.
type NotificationsConfig struct {
	WebhookURL string      `json:"webhook_url,omitempty"`
	LogPath    string      `json:"log_path,omitempty"`
	Email      EmailConfig `json:"email,omitempty"`
}

// Config holds all application configuration. It is safe for concurrent use.
type Config struct {
	Web           WebConfig           `json:"web"`
	Auth          AuthConfig          `json:"auth"`
	Notifications NotificationsConfig `json:"notifications,omitempty"`

	mu       sync.RWMutex
	filePath string
}

// New creates a new Config with default values.
func New(filePath string) *Config {
	return &Config{
		Web: WebConfig{
			Port: DefaultWebPort,
		},
		Auth: AuthConfig{
			ClientKey:       DefaultClientKey,
			SessionTTLHours: DefaultSessionTTLHours,
			SerialCommand:   DefaultSerialCommand,
		},
		Notifications: NotificationsConfig{},
		filePath:      filePath,
	}
}

// Load reads config from file, creating a default if none exists.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		return c.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return util.WrapError("parse config", err)
	}

	c.applyDefaults()
	return nil
}

// applyDefaults sets default values for zero-value fields.
func (c *Config) applyDefaults() {
	if c.Web.Port == 0 {
		c.Web.Port = DefaultWebPort
	}
	if c.Auth.ClientKey == "" {
		c.Auth.ClientKey = DefaultClientKey
	}
	if c.Auth.SessionTTLHours == 0 {
		c.Auth.SessionTTLHours = DefaultSessionTTLHours
	}
	if c.Auth.SerialCommand == "" {
		c.Auth.SerialCommand = DefaultSerialCommand
	}
	if c.Notifications.Email.Port == 0 {
		c.Notifications.Email.Port = DefaultEmailSMTPPort
	}
	if c.Notifications.Email.FromName == "" {
		c.Notifications.Email.FromName = DefaultEmailFromName
	}
}

// Save writes the configuration to file.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

// saveLocked persists configuration. Caller must hold c.mu.
func (c *Config) saveLocked() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return util.WrapError("marshal config", err)
	}

	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return util.WrapError("create config directory", err)
	}

	if err := os.WriteFile(c.filePath, data, 0o600); err != nil {
		return util.WrapError("write config", err)
	}

	return nil
}

// WebPort returns the web server port.
func (c *Config) WebPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Web.Port
}

// ClientKey returns the shared client key. The CLIENT_KEY environment
// variable takes precedence over the configured value.
func (c *Config) ClientKey() string {
	if key := os.Getenv(ClientKeyEnv); key != "" {
		return key
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cmp.Or(c.Auth.ClientKey, DefaultClientKey)
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(cmp.Or(c.Auth.SessionTTLHours, DefaultSessionTTLHours)) * time.Hour
}

// SerialCommand returns the host utility that reports the controller's
// serial number.
func (c *Config) SerialCommand() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cmp.Or(c.Auth.SerialCommand, DefaultSerialCommand)
}

// WebhookURL returns the security notification webhook URL.
func (c *Config) WebhookURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications.WebhookURL
}

// SetWebhookURL updates the webhook URL and saves the configuration.
func (c *Config) SetWebhookURL(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications.WebhookURL = url
	return c.saveLocked()
}

// LogPath returns the security event log path.
func (c *Config) LogPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications.LogPath
}

// SetLogPath updates the security event log path and saves the configuration.
func (c *Config) SetLogPath(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications.LogPath = path
	return c.saveLocked()
}

// Email returns a copy of the email notification settings.
func (c *Config) Email() EmailConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications.Email
}

// SetEmail updates the email notification settings and saves the
// configuration.
func (c *Config) SetEmail(email EmailConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications.Email = email
	if c.Notifications.Email.Port == 0 {
		c.Notifications.Email.Port = DefaultEmailSMTPPort
	}
	if c.Notifications.Email.FromName == "" {
		c.Notifications.Email.FromName = DefaultEmailFromName
	}
	return c.saveLocked()
}
