package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gocontroll/moduline-webui/internal/auth"
	"github.com/gocontroll/moduline-webui/internal/config"
	"github.com/gocontroll/moduline-webui/internal/notify"
	"github.com/gocontroll/moduline-webui/internal/server"
	"github.com/gocontroll/moduline-webui/internal/sysinfo"
	"github.com/gocontroll/moduline-webui/internal/types"
	"github.com/gocontroll/moduline-webui/internal/util"
)

// Server is the HTTP server providing the controller's web interface.
type Server struct {
	config       *config.Config
	identity     *auth.Identity
	serialNumber string
	sessions     *auth.SessionManager
	notifier     *notify.LoginNotifier
	commands     *server.CommandHandler
	version      *VersionChecker
}

// NewServer returns a new Server configured with the given config and
// device identity.
func NewServer(cfg *config.Config, ident *auth.Identity, serialNumber string) *Server {
	sessions := auth.NewSessionManager(ident, cfg.SessionTTL())
	commands := server.NewCommandHandler(
		cfg,
		sessions.InvalidateAll,
		map[string]func() error{
			"test_webhook": func() error { return notify.SendTestWebhook(cfg.WebhookURL()) },
			"test_log":     func() error { return notify.WriteTestLog(cfg.LogPath()) },
			"test_email": func() error {
				email := cfg.Email()
				return notify.SendTestEmail(&email)
			},
		},
	)

	return &Server{
		config:       cfg,
		identity:     ident,
		serialNumber: serialNumber,
		sessions:     sessions,
		notifier:     notify.NewLoginNotifier(cfg),
		commands:     commands,
		version:      NewVersionChecker(),
	}
}

// handleLogin serves the login form and processes login attempts.
//
// A POST carries the form fields "sn" and "client_key". On a verified
// attempt a session cookie is set and the client is redirected home; a
// mismatch yields 401 with no hint which field was wrong.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
			if _, ok := s.sessions.Validate(cookie.Value); ok {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html")
		if _, err := w.Write([]byte(loginHTML)); err != nil {
			slog.Error("failed to write login page", "error", err)
		}

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		attempt := auth.LoginAttempt{
			SerialNumber: r.PostFormValue("sn"),
			ClientKey:    r.PostFormValue("client_key"),
		}

		if !auth.Verify(attempt, s.identity.CredentialHash) {
			s.notifier.RecordFailure(r.RemoteAddr)
			slog.Warn("failed login attempt", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		s.notifier.RecordSuccess()

		token, err := s.sessions.Create()
		if err != nil {
			slog.Error("failed to create session", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   int(s.sessions.TTL().Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteStrictMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogout invalidates the current session and always redirects to the
// login page, whether or not a session existed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		s.sessions.Invalidate(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, auth.LoginPath, http.StatusFound)
}

// deviceStatus collects the current controller state for the status page.
func (s *Server) deviceStatus() types.DeviceStatus {
	return types.DeviceStatus{
		SerialNumber: s.serialNumber,
		Hostname:     sysinfo.Hostname(),
		WifiActive:   sysinfo.WifiActive(),
		Uptime:       sysinfo.Uptime(),
		SessionCount: s.sessions.Count(),
	}
}

// handleWebSocket streams controller status to the page and processes
// commands from it. The route is behind the session gate.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.UpgradeConnection(w, r)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer util.SafeCloseFunc(conn, "WebSocket connection")()

	// Channel to signal status update needed
	statusUpdate := make(chan bool, 1)
	done := make(chan bool)

	// Goroutine to read and process commands from client
	go func() {
		for {
			var cmd server.WSCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				close(done)
				return
			}
			s.commands.Handle(cmd, conn, func() {
				select {
				case statusUpdate <- true:
				default:
				}
			})
		}
	}()

	statusTicker := time.NewTicker(3 * time.Second)
	defer statusTicker.Stop()

	sendStatus := func() error {
		return conn.WriteJSON(map[string]interface{}{
			"type":   "status",
			"device": s.deviceStatus(),
			"notifications": map[string]interface{}{
				"webhook_url":      s.config.WebhookURL(),
				"log_path":         s.config.LogPath(),
				"email_host":       s.config.Email().Host,
				"email_port":       s.config.Email().Port,
				"email_username":   s.config.Email().Username,
				"email_recipients": s.config.Email().Recipients,
			},
			"version": s.version.GetInfo(),
		})
	}

	// Send initial status
	if err := sendStatus(); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-statusUpdate:
			if err := sendStatus(); err != nil {
				return
			}
		case <-statusTicker.C:
			if err := sendStatus(); err != nil {
				return
			}
		}
	}
}

// SetupRoutes returns an [http.Handler] configured with all application
// routes. Everything except the login entry points and the page assets sits
// behind the session gate.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	protected := s.sessions.RequireSession

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/style.css", s.handleStatic)
	mux.HandleFunc("/app.js", s.handleStatic)

	mux.HandleFunc("/ws", protected(s.handleWebSocket))
	mux.HandleFunc("/", protected(s.handleStatic))

	return mux
}

// staticFile represents an embedded static file with its content type and content.
type staticFile struct {
	contentType string
	content     string
	name        string
}

// staticFiles maps URL paths to their corresponding static file definitions.
var staticFiles = map[string]staticFile{
	"/style.css": {
		contentType: "text/css",
		content:     styleCSS,
		name:        "style.css",
	},
	"/app.js": {
		contentType: "application/javascript",
		content:     appJS,
		name:        "app.js",
	},
}

// handleStatic serves the embedded static web interface files.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	// Handle index.html specially (requires template replacement)
	if path == "/index.html" {
		w.Header().Set("Content-Type", "text/html")
		html := strings.Replace(indexHTML, "{{VERSION}}", Version, 1)
		html = strings.ReplaceAll(html, "{{YEAR}}", fmt.Sprintf("%d", time.Now().Year()))
		if _, err := w.Write([]byte(html)); err != nil {
			slog.Error("failed to write index.html", "error", err)
		}
		return
	}

	// Handle other static files via table lookup
	if file, ok := staticFiles[path]; ok {
		w.Header().Set("Content-Type", file.contentType)
		if _, err := w.Write([]byte(file.content)); err != nil {
			slog.Error("failed to write static file", "file", file.name, "error", err)
		}
		return
	}

	// File not found
	http.NotFound(w, r)
}

// Start begins listening and serving HTTP requests on the configured port.
// Returns an *http.Server that can be used for graceful shutdown.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.config.WebPort())
	slog.Info("starting web server", "addr", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.SetupRoutes(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	return srv
}
