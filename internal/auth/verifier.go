// Package auth treats the identity provider as an opaque collaborator:
// tokens go in, a verified identity comes out. The shipped verifier
// calls a configured verification endpoint; anything token-shaped is
// its problem, not ours.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SessionCookie is the name of the session cookie carrying the ID token.
const SessionCookie = "idToken"

// ErrInvalidToken is returned for missing, malformed or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired ID token")

// Identity is the verified subject behind an ID token.
type Identity struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Verifier checks an ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// HTTPVerifier verifies tokens by posting them to an external
// verification endpoint. 401/403 responses map to ErrInvalidToken;
// anything else non-OK is a transport failure.
type HTTPVerifier struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPVerifier(endpoint string) (*HTTPVerifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("verification endpoint is required")
	}
	return &HTTPVerifier{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (v *HTTPVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", v.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call verification endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verification endpoint error (status %d)", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if identity.UID == "" {
		return nil, ErrInvalidToken
	}
	return &identity, nil
}
