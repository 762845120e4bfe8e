package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/oauth"
	"github.com/darkdrop/darkdrop/internal/service"
	"github.com/darkdrop/darkdrop/internal/utils"
	"github.com/darkdrop/darkdrop/models"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Mock SessionService
// ─────────────────────────────────────────────

// mockSessionService implements service.SessionService for unit tests.
// Each method field can be overridden per test case.
type mockSessionService struct {
	signupFn            func(ctx context.Context, req models.SignupRequest) (models.Identity, models.TokenPair, error)
	signinFn            func(ctx context.Context, req models.SigninRequest) (models.Identity, models.TokenPair, error)
	oauthCallbackFn     func(ctx context.Context, externalEmail, externalName string) (models.Identity, models.TokenPair, error)
	refreshFn           func(ctx context.Context, refreshToken string) (models.Identity, models.TokenPair, error)
	signOutFn           func(ctx context.Context, identityID string) error
	authenticateFn      func(ctx context.Context, accessToken string) (models.Identity, error)
	updateProfileFn     func(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Identity, models.TokenPair, error)
	checkAvailabilityFn func(ctx context.Context, req models.AvailabilityRequest) (models.Availability, error)
}

func (m *mockSessionService) Signup(ctx context.Context, req models.SignupRequest) (models.Identity, models.TokenPair, error) {
	return m.signupFn(ctx, req)
}

func (m *mockSessionService) Signin(ctx context.Context, req models.SigninRequest) (models.Identity, models.TokenPair, error) {
	return m.signinFn(ctx, req)
}

func (m *mockSessionService) OAuthCallback(ctx context.Context, externalEmail, externalName string) (models.Identity, models.TokenPair, error) {
	return m.oauthCallbackFn(ctx, externalEmail, externalName)
}

func (m *mockSessionService) Refresh(ctx context.Context, refreshToken string) (models.Identity, models.TokenPair, error) {
	return m.refreshFn(ctx, refreshToken)
}

func (m *mockSessionService) SignOut(ctx context.Context, identityID string) error {
	return m.signOutFn(ctx, identityID)
}

func (m *mockSessionService) Authenticate(ctx context.Context, accessToken string) (models.Identity, error) {
	return m.authenticateFn(ctx, accessToken)
}

func (m *mockSessionService) UpdateProfile(ctx context.Context, identityID string, update models.ProfileUpdate) (models.Identity, models.TokenPair, error) {
	return m.updateProfileFn(ctx, identityID, update)
}

func (m *mockSessionService) CheckAvailability(ctx context.Context, req models.AvailabilityRequest) (models.Availability, error) {
	return m.checkAvailabilityFn(ctx, req)
}

// ─────────────────────────────────────────────
// Mock FileService
// ─────────────────────────────────────────────

type mockFileService struct {
	listFn   func(ctx context.Context, ownerEmail string) (models.FileIndex, error)
	renameFn func(ctx context.Context, ownerEmail, fileURL, fileName string) error
	removeFn func(ctx context.Context, ownerEmail, fileURL string) error
	uploadFn func(ctx context.Context, ownerEmail string, files []models.UploadFile) (models.UploadResult, error)
}

func (m *mockFileService) List(ctx context.Context, ownerEmail string) (models.FileIndex, error) {
	return m.listFn(ctx, ownerEmail)
}

func (m *mockFileService) Rename(ctx context.Context, ownerEmail, fileURL, fileName string) error {
	return m.renameFn(ctx, ownerEmail, fileURL, fileName)
}

func (m *mockFileService) Remove(ctx context.Context, ownerEmail, fileURL string) error {
	return m.removeFn(ctx, ownerEmail, fileURL)
}

func (m *mockFileService) Upload(ctx context.Context, ownerEmail string, files []models.UploadFile) (models.UploadResult, error) {
	return m.uploadFn(ctx, ownerEmail, files)
}

// ─────────────────────────────────────────────
// Mock OAuth provider
// ─────────────────────────────────────────────

type mockProvider struct {
	authURLFn  func(state string) string
	exchangeFn func(ctx context.Context, code string) (oauth.Profile, error)
}

func (m *mockProvider) AuthURL(state string) string {
	return m.authURLFn(state)
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (oauth.Profile, error) {
	return m.exchangeFn(ctx, code)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler around the given mocks. Nil mocks are
// replaced with empty ones so tests only wire what they exercise.
func newTestHandler(t *testing.T, sessions *mockSessionService, files *mockFileService, provider oauth.Provider) *Handler {
	t.Helper()

	if sessions == nil {
		sessions = &mockSessionService{}
	}
	if files == nil {
		files = &mockFileService{}
	}

	svcs := &service.Services{
		Sessions: sessions,
		Files:    files,
	}
	return NewHandler(svcs, provider, config.Server{}, logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// stubPair returns a token pair with deterministic values and expiries
// far enough in the future for positive cookie max-ages.
func stubPair() models.TokenPair {
	now := time.Now()
	return models.TokenPair{
		Access:           "signed.access.token",
		Refresh:          "signed.refresh.token",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

// newAuthenticatedRequest builds a request whose context already carries
// testIdentity, as the auth middleware would have left it.
func newAuthenticatedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(utils.WithIdentity(req.Context(), testIdentity))
}

// testIdentity is a convenience fixture used across multiple tests.
var testIdentity = models.Identity{
	ID:       "id-1",
	Username: "alice",
	Email:    "alice@x.com",
}
