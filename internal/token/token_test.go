package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "token-test-secret-at-least-32-chars!"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := token.New([]byte(testKey), 0)

	raw, err := svc.Issue("anna")
	require.NoError(t, err)

	username, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "anna", username)
}

func TestIssue_ExpiryIsTTLAfterIssue(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := token.New([]byte(testKey), token.DefaultTTL).WithClock(fixedClock(issued))

	raw, err := svc.Issue("anna")
	require.NoError(t, err)

	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(raw, &claims)
	require.NoError(t, err)

	assert.Equal(t, "anna", claims.Subject)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(1800*time.Second).Unix(), claims.ExpiresAt.Unix())
}

func TestIssue_DeterministicForFixedClock(t *testing.T) {
	svc := token.New([]byte(testKey), time.Minute).WithClock(fixedClock(time.Unix(1_700_000_000, 0)))

	a, err := svc.Issue("anna")
	require.NoError(t, err)
	b, err := svc.Issue("anna")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVerify_Expired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	raw, err := token.New([]byte(testKey), 30*time.Minute).WithClock(fixedClock(issued)).Issue("anna")
	require.NoError(t, err)

	_, err = token.New([]byte(testKey), 30*time.Minute).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerify_WrongKey(t *testing.T) {
	raw, err := token.New([]byte("another-secret-that-is-32-chars!!"), 0).Issue("anna")
	require.NoError(t, err)

	_, err = token.New([]byte(testKey), 0).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_Tampered(t *testing.T) {
	svc := token.New([]byte(testKey), 0)
	raw, err := svc.Issue("anna")
	require.NoError(t, err)

	forged, err := token.New([]byte(testKey), 0).Issue("mallory")
	require.NoError(t, err)

	// splice the payload of one token onto the signature of another
	parts := strings.Split(raw, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := token.New([]byte(testKey), 0).Verify("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "anna",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = token.New([]byte(testKey), 0).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_MissingExpiryRejected(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "anna"}).
		SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = token.New([]byte(testKey), 0).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_EmptySubjectRejected(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testKey))
	require.NoError(t, err)

	_, err = token.New([]byte(testKey), 0).Verify(raw)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
