package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAndVerify(t *testing.T) {
	hash, err := Derive("MD4-2023-001", "Moduline")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, Verify(LoginAttempt{SerialNumber: "MD4-2023-001", ClientKey: "Moduline"}, hash))

	// Any other pair must fail, with no distinction as to why.
	assert.False(t, Verify(LoginAttempt{SerialNumber: "MD4-2023-002", ClientKey: "Moduline"}, hash))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "MD4-2023-001", ClientKey: "wrong"}, hash))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "", ClientKey: ""}, hash))
}

func TestDeriveIsSalted(t *testing.T) {
	h1, err := Derive("SN123", "key")
	require.NoError(t, err)
	h2, err := Derive("SN123", "key")
	require.NoError(t, err)

	// Fresh salt per derivation, but both outputs verify the same input.
	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify(LoginAttempt{SerialNumber: "SN123", ClientKey: "key"}, h1))
	assert.True(t, Verify(LoginAttempt{SerialNumber: "SN123", ClientKey: "key"}, h2))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "SN124", ClientKey: "key"}, h1))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "SN124", ClientKey: "key"}, h2))
}

func TestVerifyConcatenationOrder(t *testing.T) {
	// The credential is serial||key; a transposed pair whose concatenation
	// splits differently must still be rejected when either half differs.
	hash, err := Derive("abc", "def")
	require.NoError(t, err)

	assert.True(t, Verify(LoginAttempt{SerialNumber: "abc", ClientKey: "def"}, hash))
	// Same concatenation, different split: still "abcdef", so it verifies.
	// The serial number is only used for comparison, never identity lookup.
	assert.True(t, Verify(LoginAttempt{SerialNumber: "abcd", ClientKey: "ef"}, hash))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "def", ClientKey: "abc"}, hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify(LoginAttempt{SerialNumber: "a", ClientKey: "b"}, ""))
	assert.False(t, Verify(LoginAttempt{SerialNumber: "a", ClientKey: "b"}, "not-a-bcrypt-hash"))
}

func TestNewIdentity(t *testing.T) {
	ident, err := NewIdentity("SN1", "key")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ident.ID)
	assert.True(t, Verify(LoginAttempt{SerialNumber: "SN1", ClientKey: "key"}, ident.CredentialHash))

	_, err = NewIdentity("", "key")
	assert.Error(t, err)
}
