package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/mfon/eureka/internal/feed"
)

// ErrUnauthorized is returned when the API rejects the session, so
// callers can redirect to sign-in instead of showing a transient error.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUsernameTaken is returned when the requested username conflicts
// with an existing one.
var ErrUsernameTaken = errors.New("username already taken")

// Client talks to the Eureka API. It keeps the session cookie set by
// EstablishSession in its jar, so subsequent feed requests carry it.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second, Jar: jar},
		baseURL:    baseURL,
	}, nil
}

// FetchPage requests one page of ideas. An empty cursor starts from the
// beginning.
func (c *Client) FetchPage(ctx context.Context, cursor string, limit int) (*feed.Page, error) {
	params := url.Values{}
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/ideas?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to load ideas (status %d): %s", resp.StatusCode, body)
	}

	var page feed.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode ideas page: %w", err)
	}
	return &page, nil
}

// EstablishSession exchanges a verified identity token for a session
// cookie.
func (c *Client) EstablishSession(ctx context.Context, idToken string) error {
	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/set-token", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to establish session (status %d)", resp.StatusCode)
	}
	return nil
}

// ClearSession drops the session cookie server-side.
func (c *Client) ClearSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/api/set-token", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("failed to clear session (status %d)", resp.StatusCode)
	}
	return nil
}

// RegisterUsername claims a username for the identity behind idToken.
func (c *Client) RegisterUsername(ctx context.Context, idToken, username string) error {
	body, err := json.Marshal(map[string]string{
		"idToken":  idToken,
		"username": username,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/register-username", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrUsernameTaken
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to register username (status %d): %s", resp.StatusCode, respBody)
	}
	return nil
}

// SubmitIdea persists a new idea through the API and returns its id.
func (c *Client) SubmitIdea(ctx context.Context, idea *feed.Idea) (int, error) {
	body, err := json.Marshal(idea)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/ideas", bytes.NewBuffer(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return 0, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to submit idea (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode submit response: %w", err)
	}
	return result.ID, nil
}
