package notify

import (
	"sync"

	"github.com/gocontroll/moduline-webui/internal/config"
	"github.com/gocontroll/moduline-webui/internal/util"
)

// FailureThreshold is the number of consecutive failed logins that triggers
// an alert.
const FailureThreshold = 5

// LoginNotifier orchestrates notifications for login failure bursts. It
// counts consecutive failed attempts, fires the configured channels once
// per burst when the threshold is crossed, and sends a recovery notice on
// the next successful login.
//
// This keeps notification concerns out of the login handler, which only
// reports outcomes.
type LoginNotifier struct {
	cfg *config.Config

	// mu protects the notification state fields below
	mu sync.Mutex

	failures int

	// Track which notifications have been sent for the current burst
	webhookSent bool
	emailSent   bool
	logSent     bool
}

// NewLoginNotifier returns a LoginNotifier configured with the given config.
func NewLoginNotifier(cfg *config.Config) *LoginNotifier {
	return &LoginNotifier{cfg: cfg}
}

// RecordFailure registers a failed login attempt from the given remote
// address and triggers alerts when the burst threshold is crossed.
func (n *LoginNotifier) RecordFailure(remoteAddr string) {
	n.mu.Lock()
	n.failures++
	failures := n.failures
	n.mu.Unlock()

	if failures < FailureThreshold {
		return
	}

	n.trySend(&n.webhookSent, n.cfg.WebhookURL() != "", func() { n.sendFailureWebhook(remoteAddr, failures) })
	n.trySend(&n.emailSent, n.emailConfigured(), func() { n.sendFailureEmail(remoteAddr, failures) })
	n.trySend(&n.logSent, n.cfg.LogPath() != "", func() { n.logFailureBurst(remoteAddr, failures) })
}

// RecordSuccess registers a successful login. If a burst alert went out,
// the matching recovery notification is sent, and the burst state resets.
func (n *LoginNotifier) RecordSuccess() {
	n.mu.Lock()
	failures := n.failures
	sendWebhookRecovery := n.webhookSent
	sendEmailRecovery := n.emailSent
	sendLogRecovery := n.logSent
	n.failures = 0
	n.webhookSent = false
	n.emailSent = false
	n.logSent = false
	n.mu.Unlock()

	if sendWebhookRecovery {
		go n.sendRecoveryWebhook(failures)
	}
	if sendEmailRecovery {
		go n.sendRecoveryEmail(failures)
	}
	if sendLogRecovery {
		go n.logRecovery(failures)
	}
}

// Failures returns the current consecutive failure count.
func (n *LoginNotifier) Failures() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failures
}

// trySend atomically checks and sets a notification flag, then spawns the
// sender if needed.
func (n *LoginNotifier) trySend(sent *bool, condition bool, sender func()) {
	n.mu.Lock()
	shouldSend := !*sent && condition
	if shouldSend {
		*sent = true
	}
	n.mu.Unlock()
	if shouldSend {
		go sender()
	}
}

func (n *LoginNotifier) emailConfigured() bool {
	email := n.cfg.Email()
	return util.IsConfigured(email.Host, email.Username, email.Recipients)
}

// Notification senders.

func (n *LoginNotifier) sendFailureWebhook(remoteAddr string, failures int) {
	util.LogNotifyResult(
		func() error { return SendFailureWebhook(n.cfg.WebhookURL(), remoteAddr, failures) },
		"login failure webhook",
	)
}

func (n *LoginNotifier) sendRecoveryWebhook(failures int) {
	util.LogNotifyResult(
		func() error { return SendRecoveryWebhook(n.cfg.WebhookURL(), failures) },
		"login recovery webhook",
	)
}

func (n *LoginNotifier) sendFailureEmail(remoteAddr string, failures int) {
	cfg := n.cfg.Email()
	util.LogNotifyResult(
		func() error { return SendFailureAlert(&cfg, remoteAddr, failures) },
		"login failure email",
	)
}

func (n *LoginNotifier) sendRecoveryEmail(failures int) {
	cfg := n.cfg.Email()
	util.LogNotifyResult(
		func() error { return SendRecoveryAlert(&cfg, failures) },
		"login recovery email",
	)
}

func (n *LoginNotifier) logFailureBurst(remoteAddr string, failures int) {
	util.LogNotifyResult(
		func() error { return LogFailureBurst(n.cfg.LogPath(), remoteAddr, failures) },
		"login failure log",
	)
}

func (n *LoginNotifier) logRecovery(failures int) {
	util.LogNotifyResult(
		func() error { return LogRecovery(n.cfg.LogPath(), failures) },
		"login recovery log",
	)
}
