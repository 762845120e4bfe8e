package service

import (
	"context"
	"testing"
	"time"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *tokenService {
	t.Helper()

	cfg := config.App{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		TokenIssuer:        "darkdrop",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}

	return NewTokenService(cfg, logger.Nop()).(*tokenService)
}

func testIdentity() models.Identity {
	return models.Identity{
		ID:           "id-1",
		Username:     "alice",
		Email:        "alice@x.com",
		TokenVersion: 2,
	}
}

func TestIssuePair_ClaimsRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := svc.VerifyAccess(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "id-1", claims.SubjectID())
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, models.TokenKindAccess, claims.Kind)
	assert.Equal(t, int64(2), claims.TokenVersion)

	refreshClaims, err := svc.VerifyRefresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, models.TokenKindRefresh, refreshClaims.Kind)
	assert.Equal(t, int64(2), refreshClaims.TokenVersion)
}

func TestVerify_KindIsolation(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, testIdentity())
	require.NoError(t, err)

	// An access token must fail the refresh verification path and vice
	// versa: the secrets differ, so the signature check already rejects.
	_, err = svc.VerifyRefresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyAccess(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_KindClaimCheckedUnderEqualSecrets(t *testing.T) {
	cfg := config.App{
		AccessTokenSecret:  "same-secret",
		RefreshTokenSecret: "same-secret",
		TokenIssuer:        "darkdrop",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	}
	svc := NewTokenService(cfg, logger.Nop()).(*tokenService)
	ctx := context.Background()

	pair, err := svc.IssuePair(ctx, testIdentity())
	require.NoError(t, err)

	// Signature alone cannot isolate the kinds here; the kind claim must.
	_, err = svc.VerifyRefresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.timeNow = func() time.Time { return issuedAt }

	pair, err := svc.IssuePair(ctx, testIdentity())
	require.NoError(t, err)

	// One unit of time before expiry: still valid.
	svc.timeNow = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	_, err = svc.VerifyAccess(ctx, pair.Access)
	require.NoError(t, err)

	// Exactly at the expiry instant: already expired.
	svc.timeNow = func() time.Time { return issuedAt.Add(time.Hour) }
	_, err = svc.VerifyAccess(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongIssuer(t *testing.T) {
	svc := newTestTokenService(t)
	other := newTestTokenService(t)
	other.issuer = "someone-else"
	ctx := context.Background()

	pair, err := other.IssuePair(ctx, testIdentity())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.VerifyAccess(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyRefresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
