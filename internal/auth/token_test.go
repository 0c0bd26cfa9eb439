package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("super-secret"), time.Hour)

	tok, err := svc.Issue("user-123")
	require.NoError(t, err)

	userID, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), -1*time.Second)

	tok, err := svc.Issue("u1")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyTamperedSignature(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), time.Hour)
	tok, err := svc.Issue("u3")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyTamperedPayload(t *testing.T) {
	t.Parallel()

	svc := NewTokenService([]byte("secret"), time.Hour)
	a, err := svc.Issue("alice")
	require.NoError(t, err)
	b, err := svc.Issue("bob")
	require.NoError(t, err)

	// Splice alice's payload onto bob's signature.
	ap := strings.Split(a, ".")
	bp := strings.Split(b, ".")
	spliced := strings.Join([]string{ap[0], ap[1], bp[2]}, ".")

	_, err = svc.Verify(spliced)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyMalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("k"), time.Hour).Verify("not.a.jwt")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTokenMalformed))
}
