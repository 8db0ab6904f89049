// Package identity resolves the controller's serial number, the
// device-specific half of the login credential.
package identity

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/gocontroll/moduline-webui/internal/util"
)

// DevSerialNumber is the placeholder serial used in development builds,
// where the serial number utility is not available.
const DevSerialNumber = "test"

// Source yields the controller's serial number. Implementations must
// return valid UTF-8 text or an error; the caller treats any error as
// fatal because the server cannot establish its own identity without it.
type Source interface {
	SerialNumber(ctx context.Context) (string, error)
}

// CommandSource reads the serial number from a host utility, normally
// "go-sn r" on Moduline controllers.
type CommandSource struct {
	Command string
	Args    []string
}

// NewCommandSource returns a Source backed by the given host command.
func NewCommandSource(command string, args ...string) *CommandSource {
	return &CommandSource{Command: command, Args: args}
}

// SerialNumber runs the configured command and returns its trimmed stdout.
func (s *CommandSource) SerialNumber(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, s.Command, s.Args...).Output()
	if err != nil {
		return "", util.WrapError("read serial number", err)
	}

	sn := strings.TrimRight(string(out), "\r\n")
	if sn == "" {
		return "", fmt.Errorf("serial number utility returned no output")
	}
	if !utf8.ValidString(sn) {
		return "", fmt.Errorf("serial number is not valid UTF-8")
	}
	return sn, nil
}

// StaticSource returns a fixed serial number. Used for development and in
// tests.
type StaticSource string

// SerialNumber returns the fixed serial.
func (s StaticSource) SerialNumber(context.Context) (string, error) {
	return string(s), nil
}
