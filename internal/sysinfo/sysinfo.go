// Package sysinfo probes controller state shown on the status page.
package sysinfo

import (
	"fmt"
	"os"
	"time"
)

// wifiModuleConf exists only when the controller's wifi module is enabled.
const wifiModuleConf = "/etc/modprobe.d/brcmfmac.conf"

var startTime = time.Now()

// WifiActive reports whether the controller's wifi module is enabled.
func WifiActive() bool {
	_, err := os.Stat(wifiModuleConf)
	return err == nil
}

// Hostname returns the controller's hostname, or "unknown" if unavailable.
func Hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// Uptime returns how long the web interface has been running, formatted
// for display.
func Uptime() string {
	d := time.Since(startTime).Round(time.Second)

	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
