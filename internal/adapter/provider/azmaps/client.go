// Package azmaps geocodes postal addresses against an Azure-Maps-style
// geocoding endpoint. Transient upstream failures are absorbed with
// bounded retry and exponential backoff; callers only ever see resolved
// coordinates or a terminal *domain.GeocodingError.
package azmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meadowmind/carematch-backend/internal/adapter/identity"
	"github.com/meadowmind/carematch-backend/internal/config"
	"github.com/meadowmind/carematch-backend/internal/domain"
	"github.com/meadowmind/carematch-backend/pkg/geo"
)

const apiVersion = "2023-06-01"

// tokenSource supplies bearer credentials for the upstream.
type tokenSource interface {
	GetToken(ctx context.Context) (identity.Token, error)
	Invalidate()
}

// Client calls the geocoding upstream.
type Client struct {
	baseURL     string
	clientID    string
	maxRetries  int
	backoffBase time.Duration
	jitterMax   time.Duration
	devFallback bool

	tokens     tokenSource
	httpClient *http.Client
	log        *slog.Logger
	cache      *addressCache

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client from MapsConfig.
func New(cfg config.MapsConfig, tokens tokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		clientID:    cfg.ClientID,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		jitterMax:   cfg.JitterMax,
		devFallback: cfg.DevFallback,
		tokens:      tokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         logger.With("adapter", "azmaps"),
		cache:       newAddressCache(),
		sleep:       sleepCtx,
	}
}

// Geocode resolves the address to coordinates. Successful lookups are
// cached by normalized address for the process lifetime, so repeated
// lookups of the same address issue a single upstream call.
func (c *Client) Geocode(ctx context.Context, addr domain.Address) (geo.Point, error) {
	if err := addr.Validate(); err != nil {
		return geo.Point{}, err
	}

	key := addr.NormalizedKey()
	if pt, ok := c.cache.get(key); ok {
		return pt, nil
	}

	pt, err := c.geocodeWithRetry(ctx, addr, key)
	if err != nil {
		if c.devFallback {
			fallback := pseudoPoint(key)
			c.log.WarnContext(ctx, "geocoding failed, substituting dev fallback coordinate",
				slog.String("address", key),
				slog.Float64("lat", fallback.Lat),
				slog.Float64("lon", fallback.Lon),
				slog.String("error", err.Error()),
			)
			return fallback, nil
		}
		return geo.Point{}, err
	}

	c.cache.put(key, pt)
	return pt, nil
}

// geocodeWithRetry runs up to maxRetries+1 attempts. Retryable failures
// (network errors, 5xx, 429, and one stale-token 401) back off with
// base*2^attempt plus uniform jitter; terminal failures return
// immediately. No sleep happens after the final attempt.
func (c *Client) geocodeWithRetry(ctx context.Context, addr domain.Address, key string) (geo.Point, error) {
	attempts := c.maxRetries + 1
	reauthed := false

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		pt, err := c.attempt(ctx, addr)
		if err == nil {
			return pt, nil
		}

		var ae *attemptError
		if !errors.As(err, &ae) || !ae.retryable {
			return geo.Point{}, domain.NewGeocodingError(key, "address could not be resolved", err)
		}

		if ae.staleToken {
			if reauthed {
				return geo.Point{}, domain.NewGeocodingError(key, "authentication failed after credential refresh", err)
			}
			c.tokens.Invalidate()
			reauthed = true
		}

		lastErr = err
		c.log.WarnContext(ctx, "geocoding attempt failed",
			slog.String("address", key),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)

		if attempt < attempts-1 {
			if err := c.sleep(ctx, c.backoffDelay(attempt)); err != nil {
				return geo.Point{}, domain.NewGeocodingError(key, "cancelled while waiting to retry", err)
			}
		}
	}

	return geo.Point{}, domain.NewGeocodingError(key, fmt.Sprintf("retries exhausted after %d attempts", attempts), lastErr)
}

// backoffDelay computes base*2^attempt plus uniform jitter in [0, jitterMax).
func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.backoffBase << attempt
	if c.jitterMax > 0 {
		delay += time.Duration(rand.Int64N(int64(c.jitterMax)))
	}
	return delay
}

// attemptError classifies a single failed attempt.
type attemptError struct {
	msg        string
	retryable  bool
	staleToken bool
	err        error
}

func (e *attemptError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *attemptError) Unwrap() error { return e.err }

// attempt performs one upstream call: token, request, parse.
func (c *Client) attempt(ctx context.Context, addr domain.Address) (geo.Point, error) {
	tok, err := c.tokens.GetToken(ctx)
	if err != nil {
		// The identity chain already tried every scope; nothing left to retry here.
		return geo.Point{}, &attemptError{msg: "credential acquisition failed", err: err}
	}

	req, err := c.buildRequest(ctx, addr, tok.Value)
	if err != nil {
		return geo.Point{}, &attemptError{msg: "build request", err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, &attemptError{msg: "network error", retryable: true, err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return parseFeatureCollection(resp.Body)
	case resp.StatusCode == http.StatusUnauthorized:
		return geo.Point{}, &attemptError{msg: "unauthorized (token possibly stale)", retryable: true, staleToken: true}
	case resp.StatusCode == http.StatusTooManyRequests:
		return geo.Point{}, &attemptError{msg: "rate limited", retryable: true}
	case resp.StatusCode >= 500:
		return geo.Point{}, &attemptError{msg: fmt.Sprintf("upstream status %d", resp.StatusCode), retryable: true}
	default:
		// 400, 403, 404 and anything else unexpected.
		return geo.Point{}, &attemptError{msg: fmt.Sprintf("upstream status %d", resp.StatusCode)}
	}
}

// buildRequest assembles the structured-query GET. Individual address
// fields map to separate query parameters; a single free-text line would
// match far less accurately upstream.
func (c *Client) buildRequest(ctx context.Context, addr domain.Address, token string) (*http.Request, error) {
	addressLine := addr.Line1
	if strings.TrimSpace(addr.Line2) != "" {
		addressLine += " " + addr.Line2
	}

	q := url.Values{}
	q.Set("api-version", apiVersion)
	q.Set("addressLine", addressLine)
	if addr.City != "" {
		q.Set("locality", addr.City)
	}
	if addr.State != "" {
		q.Set("adminDistrict", addr.State)
	}
	if addr.PostalCode != "" {
		q.Set("postalCode", addr.PostalCode)
	}
	if addr.CountryCode != "" {
		q.Set("countryRegion", addr.CountryCode)
	}
	q.Set("top", "1")

	reqURL := c.baseURL + "/geocode?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-ms-client-id", c.clientID)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// parseFeatureCollection extracts the first feature's point. The wire
// order is [lon, lat] and is swapped to the canonical lat/lon here.
func parseFeatureCollection(r io.Reader) (geo.Point, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return geo.Point{}, &attemptError{msg: "read body", retryable: true, err: err}
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return geo.Point{}, &attemptError{msg: "decode json", err: err}
	}

	if len(fc.Features) == 0 {
		return geo.Point{}, &attemptError{msg: "no results found"}
	}

	coords := fc.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return geo.Point{}, &attemptError{msg: "malformed feature geometry"}
	}

	pt := geo.Point{Lat: coords[1], Lon: coords[0]}
	if !pt.Valid() {
		return geo.Point{}, &attemptError{msg: fmt.Sprintf("coordinates out of range: lat=%v lon=%v", pt.Lat, pt.Lon)}
	}

	return pt, nil
}

// pseudoPoint derives a deterministic plausible-looking coordinate from
// the address key. Used only by the dev fallback.
func pseudoPoint(key string) geo.Point {
	h := fnv.New64a()
	h.Write([]byte(key))
	sum := h.Sum64()

	lat := float64(sum%120_000)/1000.0 - 60.0        // [-60, 60)
	lon := float64((sum/120_000)%360_000)/1000.0 - 180.0 // [-180, 180)

	return geo.Point{Lat: lat, Lon: lon}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
