package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotx/internal/shared"
)

// Credential is a bearer token plus its computed expiry instant.
//
// Credentials are immutable values: renewal replaces them rather than
// mutating them, so they can be copied freely between pagination runs.
type Credential struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time // zero when the authorization server gave no lifetime
}

// Present reports whether the credential holds a token at all.
func (c Credential) Present() bool {
	return c.AccessToken != ""
}

// Expired reports whether the credential must not be used at time now.
// A credential expiring exactly at now counts as expired.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// TokenManager mints app tokens via the OAuth2 client-credentials flow.
type TokenManager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	transport    Transport
	now          func() time.Time
}

// TokenManagerOpts contains configuration options for creating a TokenManager.
type TokenManagerOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string // defaults to the Spotify accounts token endpoint
	Transport    Transport
	Now          func() time.Time // defaults to time.Now
}

// NewTokenManager creates a TokenManager for the given app credentials.
func NewTokenManager(opts TokenManagerOpts) (*TokenManager, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: transport is required", shared.ErrInvalidArgument)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &TokenManager{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		tokenURL:     opts.TokenURL,
		transport:    opts.Transport,
		now:          opts.Now,
	}, nil
}

// EnsureValid returns a credential that is safe to use right now, renewing
// when the current one is absent or its expiry has arrived. The second return
// reports whether a renewal happened, so callers can retain the replacement.
func (m *TokenManager) EnsureValid(ctx context.Context, current Credential) (Credential, bool, error) {
	if current.Present() && !current.Expired(m.now()) {
		return current, false, nil
	}

	renewed, err := m.renew(ctx)
	if err != nil {
		return Credential{}, false, err
	}

	return renewed, true, nil
}

// renew performs the client-credentials token exchange.
//
// The expiry instant is computed from a timestamp sampled before the round
// trip, so the credential is always considered expired no later than the
// server considers it expired.
func (m *TokenManager) renew(ctx context.Context) (Credential, error) {
	start := m.now()

	basic := base64.StdEncoding.EncodeToString([]byte(m.clientID + ":" + m.clientSecret))
	header := http.Header{}
	header.Set("Authorization", "Basic "+basic)
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := m.transport.Execute(ctx, http.MethodPost, m.tokenURL, header, "grant_type=client_credentials")
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   *int   `json:"expires_in"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return Credential{}, fmt.Errorf("%w: %v", shared.ErrAuthResponse, err)
	}

	if payload.AccessToken == "" || payload.TokenType == "" || payload.ExpiresIn == nil {
		return Credential{}, fmt.Errorf("%w: access_token, token_type and expires_in are required", shared.ErrAuthResponse)
	}

	return Credential{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		ExpiresAt:   start.Add(time.Duration(*payload.ExpiresIn) * time.Second),
	}, nil
}
