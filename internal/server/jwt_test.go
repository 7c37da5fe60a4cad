package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/knit-tech-editor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-unit-tests",
		ExpirationHours: 24,
	})
}

// signTestToken signs arbitrary claims with the unit-test secret so the
// negative cases can hand-craft tokens the service would never mint.
func signTestToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret-key-for-unit-tests"))
	require.NoError(t, err)
	return signed
}

func TestJWTService_GenerateAndAuthenticate(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_EmptyToken(t *testing.T) {
	svc := testJWTService()

	_, err := svc.Authenticate("")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := testJWTService()
	other := NewJWTService(&config.JWTConfig{Secret: "a-different-secret", ExpirationHours: 24})

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = other.Authenticate(token)
	assert.Error(t, err)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := testJWTService()

	_, err := svc.Authenticate("not.a.jwt")
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := testJWTService()

	signed := signTestToken(t, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
	})

	_, err := svc.Authenticate(signed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_RejectsForeignIssuer(t *testing.T) {
	svc := testJWTService()

	// Same secret, but minted by some other service sharing it.
	signed := signTestToken(t, jwt.RegisteredClaims{
		Issuer:    "some-other-service",
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := svc.Authenticate(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsNonUUIDSubject(t *testing.T) {
	svc := testJWTService()

	signed := signTestToken(t, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := svc.Authenticate(signed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "subject")
}

func TestJWTService_RejectsNonHMAC(t *testing.T) {
	svc := testJWTService()

	// alg=none style tokens must never validate
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uuid.New().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Authenticate(signed)
	assert.Error(t, err)
}
