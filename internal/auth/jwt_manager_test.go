package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-manager-tests"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	jm, err := NewJWTManager(testSecret)
	require.NoError(t, err)
	return jm
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestJWTManager_RoundTrip(t *testing.T) {
	jm := newTestManager(t)
	ctx := context.Background()

	token, err := jm.GenerateToken(ctx, "user-1", "ada", []string{"member"}, time.Hour)
	require.NoError(t, err)

	claims, err := jm.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, []string{"member"}, claims.Roles)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_RejectsBadTokens(t *testing.T) {
	jm := newTestManager(t)
	ctx := context.Background()

	other, err := NewJWTManager("a-completely-different-secret-value")
	require.NoError(t, err)
	foreign, err := other.GenerateToken(ctx, "user-1", "ada", nil, time.Hour)
	require.NoError(t, err)

	expired, err := jm.GenerateToken(ctx, "user-1", "ada", nil, -time.Minute)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "alg none", token: noneToken},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jm.ValidateToken(ctx, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTManager_SubjectFallback(t *testing.T) {
	jm := newTestManager(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-from-sub",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := jm.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-from-sub", claims.UserID)
}

func TestJWTManager_SubjectIsAuthoritative(t *testing.T) {
	jm := newTestManager(t)
	ctx := context.Background()

	sign := func(userID, subject string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	claims, err := jm.ValidateToken(ctx, sign("user-1", "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = jm.ValidateToken(ctx, sign("someone-else", "user-1"))
	assert.ErrorIs(t, err, ErrSubjectMismatch)
}

func TestJWTManager_RequiresUserID(t *testing.T) {
	jm := newTestManager(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = jm.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	jm := newTestManager(t)
	ctx := context.Background()

	token, err := jm.GenerateToken(ctx, "user-1", "ada", []string{"admin"}, time.Minute)
	require.NoError(t, err)

	refreshed, err := jm.RefreshToken(ctx, token, time.Hour)
	require.NoError(t, err)

	claims, err := jm.ValidateToken(ctx, refreshed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, []string{"admin"}, claims.Roles)

	_, err = jm.RefreshToken(ctx, "not-a-jwt", time.Hour)
	assert.Error(t, err)
}
