// Package auth implements the authentication core of the web interface:
// the device-bound credential, the in-memory session store, and the
// middleware that gates protected routes.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/gocontroll/moduline-webui/internal/util"
)

// credentialCost is the bcrypt cost used for the derived credential. The
// derivation runs once at startup, so a generous cost is affordable.
const credentialCost = bcrypt.DefaultCost

// Identity is the single verifiable identity of the device. It is built
// once at startup and read-only afterwards.
type Identity struct {
	ID             int64
	CredentialHash string
}

// LoginAttempt carries the attacker-controlled fields of one login form
// submission. It lives for the duration of a single Verify call.
type LoginAttempt struct {
	SerialNumber string
	ClientKey    string
}

// Derive combines the controller's serial number with the shared client key
// into a salted bcrypt hash. The salt and cost parameter are embedded in
// the encoded output, so Verify needs nothing but the returned string.
func Derive(serialNumber, clientKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(serialNumber+clientKey), credentialCost)
	if err != nil {
		return "", util.WrapError("derive credential hash", err)
	}
	return string(hash), nil
}

// NewIdentity derives the device identity from its serial number and the
// shared client key. There is exactly one identity per process, always id 1.
func NewIdentity(serialNumber, clientKey string) (*Identity, error) {
	if serialNumber == "" {
		return nil, fmt.Errorf("empty serial number")
	}
	hash, err := Derive(serialNumber, clientKey)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: 1, CredentialHash: hash}, nil
}

// Verify checks a login attempt against the stored credential hash. It
// reports only success or failure: malformed hashes, internal bcrypt errors
// and plain mismatches are indistinguishable to the caller. The comparison
// is constant-time via bcrypt.
func Verify(attempt LoginAttempt, credentialHash string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(credentialHash),
		[]byte(attempt.SerialNumber+attempt.ClientKey),
	)
	return err == nil
}
