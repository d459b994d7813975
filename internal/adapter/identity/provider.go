// Package identity acquires bearer credentials for upstream services via
// the OAuth2 client-credentials grant. It tries an ordered chain of
// scopes and caches the first token that works until shortly before its
// expiry.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meadowmind/carematch-backend/internal/config"
)

// expirySkew is subtracted from a token's expiry so a token is refreshed
// before the upstream would start rejecting it.
const expirySkew = 30 * time.Second

// defaultTokenTTL is assumed when the token endpoint reports no expiry
// and the token carries no parsable exp claim.
const defaultTokenTTL = 5 * time.Minute

// Token is an acquired bearer credential.
type Token struct {
	Value  string
	Expiry time.Time
}

// valid reports whether the token is still usable at the given time.
func (t Token) valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.Expiry.Add(-expirySkew))
}

// Provider acquires and caches bearer tokens.
type Provider struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scopes       []string
	httpClient   *http.Client
	log          *slog.Logger

	mu     sync.Mutex
	cached Token
}

// NewProvider creates a Provider from IdentityConfig.
func NewProvider(cfg config.IdentityConfig, logger *slog.Logger) *Provider {
	return &Provider{
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          logger.With("adapter", "identity"),
	}
}

// GetToken returns a usable bearer token, acquiring one if the cache is
// empty or stale. Scopes are tried in configured order; the first scope
// that yields a token wins. An error is returned only when no scope in
// the chain produces a credential.
func (p *Provider) GetToken(ctx context.Context) (Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached.valid(time.Now()) {
		return p.cached, nil
	}

	var lastErr error
	for _, scope := range p.scopes {
		tok, err := p.requestToken(ctx, scope)
		if err != nil {
			p.log.WarnContext(ctx, "token acquisition failed",
				slog.String("scope", scope),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}

		p.cached = tok
		return tok, nil
	}

	return Token{}, fmt.Errorf("identity: no scope yielded a token: %w", lastErr)
}

// Invalidate drops the cached token so the next GetToken call acquires a
// fresh one. Callers use it when the upstream rejects a token that the
// cache still considers valid.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = Token{}
}

// tokenResponse is the OAuth2 token endpoint response body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (p *Provider) requestToken(ctx context.Context, scope string) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("scope", scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Token{}, fmt.Errorf("decode json: %w", err)
	}
	if tr.AccessToken == "" {
		return Token{}, fmt.Errorf("token endpoint returned empty access_token")
	}

	return Token{
		Value:  tr.AccessToken,
		Expiry: tokenExpiry(tr, time.Now()),
	}, nil
}

// tokenExpiry determines when the token expires. expires_in takes
// precedence; otherwise the exp claim of a JWT-shaped token is used
// (unverified — only the upstream can verify its own tokens); otherwise a
// conservative default TTL applies.
func tokenExpiry(tr tokenResponse, now time.Time) time.Time {
	if tr.ExpiresIn > 0 {
		return now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	if claims := parseJWTClaims(tr.AccessToken); claims != nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}

	return now.Add(defaultTokenTTL)
}

func parseJWTClaims(token string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}
