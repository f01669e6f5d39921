package taskboardsdk

import (
	"context"
	"net/http"
)

// Session is an authenticated view of the API.
type Session struct {
	client *SDKClient
	token  string
}

// NewSession wraps an existing access token.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

// Token returns the bearer token the session sends.
func (s *Session) Token() string { return s.token }

func (s *Session) get(ctx context.Context, path string, target any) error {
	return s.client.do(ctx, http.MethodGet, path, s.token, nil, target, http.StatusOK)
}

func (s *Session) post(ctx context.Context, path string, body, target any) error {
	return s.client.do(ctx, http.MethodPost, path, s.token, body, target, http.StatusCreated)
}

func (s *Session) put(ctx context.Context, path string, body, target any) error {
	return s.client.do(ctx, http.MethodPut, path, s.token, body, target, http.StatusOK)
}

func (s *Session) delete(ctx context.Context, path string, target any) error {
	return s.client.do(ctx, http.MethodDelete, path, s.token, nil, target, http.StatusOK)
}
