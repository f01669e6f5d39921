package taskboardsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithPage(t *testing.T) {
	tests := []struct {
		name string
		q    PageQuery
		want string
	}{
		{"empty", PageQuery{}, "/user"},
		{"all", PageQuery{Page: 2, Size: 10, Sort: "-name", Q: "a b"}, "/user?page=2&q=a+b&size=10&sort=-name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, withPage("/user", tt.q))
		})
	}
}

func TestAuthenticateAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/authenticate":
			var c Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
			if c.Password != "good" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"status":401,"name":"Unauthorized","error":"Invalid credentials"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(TokenResponse{Token: "tok"})
		case "/user/me":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(User{ID: "1", Email: "a@b.c"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	client := NewSDKClient(srv.URL + "/")

	_, err := client.Authenticate(ctx, "a@b.c", "bad")
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Invalid credentials", apiErr.Message)

	session, err := client.Authenticate(ctx, "a@b.c", "good")
	require.NoError(t, err)
	require.Equal(t, "tok", session.Token())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", me.ID)

	_, err = client.GetLiveness(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "upstream down", apiErr.Message)
}
