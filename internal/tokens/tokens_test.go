package tokens

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func seg(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, clk *fakeClock) *Service {
	t.Helper()
	svc, err := NewService(testSecret, WithClock(clk.Now))
	require.NoError(t, err)
	return svc
}

func TestNewService_EmptySecret(t *testing.T) {
	_, err := NewService("")
	require.Error(t, err)
}

func TestIssuePair_ValidAndClaims(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	svc := newTestService(t, clk)

	pair, err := svc.IssuePair("a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, clk.t.Add(30*time.Minute), pair.AccessExpiresAt)
	require.Equal(t, clk.t.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	access, err := svc.Validate(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", access.Subject)
	require.Equal(t, TypeAccess, access.TokenType)
	require.NotEmpty(t, access.ID)
	require.Equal(t, pair.AccessExpiresAt, access.ExpiresAtTime())

	refresh, err := svc.Validate(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", refresh.Subject)
	require.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	clk := &fakeClock{t: issued}
	svc := newTestService(t, clk)

	pair, err := svc.IssuePair("a@x.com")
	require.NoError(t, err)

	clk.t = issued.Add(30*time.Minute - time.Second)
	_, err = svc.Validate(pair.AccessToken, TypeAccess)
	require.NoError(t, err, "token must be accepted one second before expiry")

	clk.t = issued.Add(30*time.Minute + time.Second)
	_, err = svc.Validate(pair.AccessToken, TypeAccess)
	require.ErrorIs(t, err, ErrExpired)

	// the refresh token lives on
	_, err = svc.Validate(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)

	clk.t = issued.Add(7*24*time.Hour - time.Second)
	_, err = svc.Validate(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)

	clk.t = issued.Add(7*24*time.Hour + time.Second)
	_, err = svc.Validate(pair.RefreshToken, TypeRefresh)
	require.ErrorIs(t, err, ErrExpired)
}

func TestValidate_CustomTTLs(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	clk := &fakeClock{t: issued}
	svc, err := NewService(testSecret, WithClock(clk.Now), WithTTLs(time.Minute, 0))
	require.NoError(t, err)
	require.Equal(t, time.Minute, svc.AccessTTL())

	pair, err := svc.IssuePair("a@x.com")
	require.NoError(t, err)
	require.Equal(t, issued.Add(DefaultRefreshTTL), pair.RefreshExpiresAt)

	clk.t = issued.Add(2 * time.Minute)
	_, err = svc.Validate(pair.AccessToken, TypeAccess)
	require.ErrorIs(t, err, ErrExpired)
}

func TestValidate_WrongSecretFails(t *testing.T) {
	other, err := NewService("different-secret-xxxxxxxxxxxxxxxx")
	require.NoError(t, err)
	pair, err := other.IssuePair("a@x.com")
	require.NoError(t, err)

	svc, err := NewService(testSecret)
	require.NoError(t, err)
	_, err = svc.Validate(pair.AccessToken, TypeAccess)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestValidate_Malformed(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)

	for _, raw := range []string{"", "not-a-jwt", "not.a.jwt", "a.b"} {
		_, err := svc.Validate(raw, TypeAccess)
		require.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

// Rejected when alg=none (unsigned token)
func TestValidate_AlgNoneRejected(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)

	headerEnc := seg([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := seg([]byte(`{"sub":"a@x.com","exp":9999999999,"token_type":"access"}`))
	tok := headerEnc + "." + payloadEnc + "."

	_, err = svc.Validate(tok, TypeAccess)
	require.ErrorIs(t, err, ErrBadSignature)

	// the library-level none signer must be rejected too
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "a@x.com", "exp": time.Now().Add(time.Hour).Unix(), "token_type": "access",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(unsigned, TypeAccess)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestValidate_OtherAlgorithmRejected(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@x.com", "exp": time.Now().Add(time.Hour).Unix(), "token_type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(hs512, TypeAccess)
	require.ErrorIs(t, err, ErrBadSignature)
}

// Tampering with payload must fail signature verification
func TestValidate_TamperedPayload(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)
	pair, err := svc.IssuePair("user@x.com")
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = seg([]byte(strings.Replace(string(payloadBytes), "user@x.com", "admin@x.com", 1)))

	_, err = svc.Validate(strings.Join(parts, "."), TypeAccess)
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestValidate_MissingSubject(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(), "token_type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tok, TypeAccess)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestValidate_MissingExpiry(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@x.com", "token_type": "access",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(tok, TypeAccess)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestValidate_RefreshCannotBeUsedAsAccess(t *testing.T) {
	svc, err := NewService(testSecret)
	require.NoError(t, err)
	pair, err := svc.IssuePair("a@x.com")
	require.NoError(t, err)

	_, err = svc.Validate(pair.RefreshToken, TypeAccess)
	require.ErrorIs(t, err, ErrWrongType)
	_, err = svc.Validate(pair.AccessToken, TypeRefresh)
	require.ErrorIs(t, err, ErrWrongType)

	// a legacy token without token_type is not an access token either
	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@x.com", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Validate(legacy, TypeAccess)
	require.True(t, errors.Is(err, ErrWrongType))
}
