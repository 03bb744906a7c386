package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gastos/internal/core"
)

// RemoteAuth authenticates through the same-origin auth API, the
// counterpart of the proxy transport.
type RemoteAuth struct {
	baseURL string
	client  *http.Client
}

// NewRemoteAuth builds a remote authenticator.
func NewRemoteAuth(baseURL string) *RemoteAuth {
	return &RemoteAuth{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type authResponse struct {
	User        core.Profile `json:"user"`
	AccessToken string       `json:"access_token"`
	Error       string       `json:"error"`
}

func (a *RemoteAuth) post(ctx context.Context, path string, payload any) (authResponse, int, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return authResponse{}, 0, &core.TransportError{Op: "encode auth request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return authResponse{}, 0, &core.TransportError{Op: "auth request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return authResponse{}, 0, &core.TransportError{Op: "auth request", Err: err}
	}
	defer resp.Body.Close()

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return authResponse{}, resp.StatusCode, &core.TransportError{Op: "decode auth response", Err: err}
	}
	return body, resp.StatusCode, nil
}

func (a *RemoteAuth) Login(ctx context.Context, email, password string) (Session, error) {
	body, status, err := a.post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, err
	}
	if status == http.StatusUnauthorized {
		return Session{}, core.ErrUnauthorized
	}
	if status >= 400 || body.Error != "" {
		return Session{}, fmt.Errorf("login failed: %s", body.Error)
	}
	return Session{Profile: body.User, AccessToken: body.AccessToken}, nil
}

func (a *RemoteAuth) Register(ctx context.Context, email, password, fullName string) error {
	body, status, err := a.post(ctx, "/api/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	})
	if err != nil {
		return err
	}
	if status >= 400 || body.Error != "" {
		return &core.ValidationError{Field: "email", Msg: body.Error}
	}
	return nil
}

func (a *RemoteAuth) Resolve(ctx context.Context, token string) (core.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/session", nil)
	if err != nil {
		return core.Profile{}, &core.TransportError{Op: "session request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.client.Do(req)
	if err != nil {
		return core.Profile{}, &core.TransportError{Op: "session request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return core.Profile{}, core.ErrUnauthorized
	}
	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.Profile{}, &core.TransportError{Op: "decode session response", Err: err}
	}
	if body.Error != "" {
		return core.Profile{}, core.ErrUnauthorized
	}
	return body.User, nil
}
