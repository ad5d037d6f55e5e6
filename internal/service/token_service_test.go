package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "sma-identity", Audience: []string{"timetable"}})

	token, err := svc.Issue("user-1", models.RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenServiceRejectsBadTokens(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret"})

	expired, err := svc.Issue("user-1", models.RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	other := NewTokenService(TokenConfig{Secret: "different"})
	forged, err := other.Issue("user-1", models.RoleSuperAdmin, time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(forged)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	wrongIssuer := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "expected"})
	_, err = wrongIssuer.ValidateToken(forged)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
