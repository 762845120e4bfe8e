// Package oauth implements external sign-in providers. A provider turns an
// authorization code into a verified external profile; what happens to
// that profile (identity lookup or creation) belongs to the session layer.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/darkdrop/darkdrop/internal/config"
	"github.com/darkdrop/darkdrop/internal/logger"
	"github.com/darkdrop/darkdrop/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrProfileFetch   = errors.New("external profile fetch failed")
)

// Profile is the subset of the external account the session layer needs.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Provider abstracts an OAuth2 sign-in provider.
type Provider interface {
	// AuthURL returns the provider's consent-page URL carrying state.
	AuthURL(state string) string

	// Exchange redeems the authorization code and fetches the external
	// profile. Fails with ErrExchangeFailed or ErrProfileFetch.
	Exchange(ctx context.Context, code string) (Profile, error)
}

// googleProvider implements Provider for Google sign-in.
type googleProvider struct {
	cfg    *oauth2.Config
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewGoogleProvider constructs a Google Provider from cfg. The email and
// profile scopes are requested; nothing else.
func NewGoogleProvider(cfg config.Google, logger *logger.Logger) Provider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
		},
		client: utils.NewHTTPClient(),
		logger: logger,
	}
}

// AuthURL implements Provider.
func (g *googleProvider) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange implements Provider. It redeems the code for an access token
// and reads the userinfo endpoint with it.
func (g *googleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	log := logger.FromContext(ctx)

	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Str("func", "*googleProvider.Exchange").Msg("code exchange failed")
		return Profile{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		Get(googleUserinfoURL)
	if err != nil {
		log.Err(err).Str("func", "*googleProvider.Exchange").Msg("userinfo request failed")
		return Profile{}, fmt.Errorf("%w: %w", ErrProfileFetch, err)
	}
	if resp.IsError() {
		return Profile{}, fmt.Errorf("%w: provider returned status %d", ErrProfileFetch, resp.StatusCode())
	}

	var profile Profile
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: decoding userinfo: %w", ErrProfileFetch, err)
	}
	if profile.Email == "" {
		return Profile{}, fmt.Errorf("%w: userinfo carries no email", ErrProfileFetch)
	}

	return profile, nil
}
