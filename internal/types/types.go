// Package types provides shared type definitions used across the web interface.
package types

// DeviceStatus contains a summary of the controller's current state as
// shown on the status page.
type DeviceStatus struct {
	SerialNumber string `json:"serial_number"`
	Hostname     string `json:"hostname"`
	WifiActive   bool   `json:"wifi_active"`
	Uptime       string `json:"uptime,omitzero"`
	SessionCount int    `json:"session_count"`
}

// VersionInfo contains version information for the frontend.
type VersionInfo struct {
	Current     string `json:"current"`
	Latest      string `json:"latest,omitzero"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"build_time"`
	UpdateAvail bool   `json:"update_available,omitzero"`
}

// SecurityLogEntry is one line of the JSONL security event log.
type SecurityLogEntry struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Failures   int    `json:"failures,omitempty"`
}
