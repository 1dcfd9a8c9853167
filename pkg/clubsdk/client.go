// Package clubsdk is a small Go client for the clubd HTTP API. It covers
// the public endpoints directly and exposes authenticated operations
// through a Session obtained from Login.
package clubsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a clubd instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	token string,
	target any,
	expectedStatus int,
) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("clubsdk: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("clubsdk: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("clubsdk: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("clubsdk: read response: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, raw)
	}
	if target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("clubsdk: decode response: %w", err)
		}
	}
	return nil
}

// ============================================================================
// Public endpoints
// ============================================================================

// Bootstrap creates the first admin account on an empty system.
func (c *Client) Bootstrap(ctx context.Context, req BootstrapRequest) (IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodPost, "/v1/bootstrap", req, "", &out, http.StatusCreated)
	return out, err
}

// Login exchanges credentials for an authenticated Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out SessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions", LoginRequest{
		Email:    email,
		Password: password,
	}, "", &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.AccessToken, Response: out}, nil
}

// ValidateInvite previews an invite token without consuming it.
func (c *Client) ValidateInvite(ctx context.Context, token string) (InviteValidateResponse, error) {
	var out InviteValidateResponse
	err := c.do(ctx, http.MethodGet, "/v1/invites/validate?token="+token, nil, "", &out, http.StatusOK)
	return out, err
}

// RedeemInvite consumes an invite token and activates the account.
func (c *Client) RedeemInvite(ctx context.Context, req InviteRedeemRequest) (IdentityResponse, error) {
	var out IdentityResponse
	err := c.do(ctx, http.MethodPost, "/v1/invites/redeem", req, "", &out, http.StatusOK)
	return out, err
}

// SubmitContact files a membership application from the public form.
func (c *Client) SubmitContact(ctx context.Context, req ContactSubmitRequest) (ContactResponse, error) {
	var out ContactResponse
	err := c.do(ctx, http.MethodPost, "/v1/contact", req, "", &out, http.StatusCreated)
	return out, err
}

// ListPartners returns the public partner directory.
func (c *Client) ListPartners(ctx context.Context) ([]PartnerResponse, error) {
	var out []PartnerResponse
	err := c.do(ctx, http.MethodGet, "/v1/partners", nil, "", &out, http.StatusOK)
	return out, err
}

// Livez reports whether the service is up.
func (c *Client) Livez(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/livez", nil, "", nil, http.StatusOK)
}

// Readyz reports whether the service can reach its dependencies.
func (c *Client) Readyz(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, "", nil, http.StatusOK)
}
