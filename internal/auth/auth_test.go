package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/skincare-journal/internal/config"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

func TestSupabaseVerifier_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Write([]byte(`{"id": "7d0f7c43-1111-4c1e-9d2b-6a9b0c0d1e2f", "email": "a@b.c"}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	v := NewSupabaseVerifier(srv.URL+"/", "anon-key", zap.NewNop())
	ctx := context.Background()

	userID, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "7d0f7c43-1111-4c1e-9d2b-6a9b0c0d1e2f", userID)

	_, err = v.Verify(ctx, "expired")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = v.Verify(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrUnauthorized)

	_, err = v.Verify(ctx, "")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestStaticVerifier_Verify(t *testing.T) {
	tokens := map[string]string{"dev-token": "user-1"}
	v := NewStaticVerifier(tokens)
	tokens["late"] = "user-2"

	userID, err := v.Verify(context.Background(), "dev-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = v.Verify(context.Background(), "late")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "bearer  abc ", token: "abc", ok: true},
		{header: "Basic abc", ok: false},
		{header: "Bearer", ok: false},
		{header: "Bearer   ", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestNew(t *testing.T) {
	v, err := New(config.AuthConfig{Provider: "static"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &StaticVerifier{}, v)

	v, err = New(config.AuthConfig{Provider: "supabase", SupabaseURL: "https://x.supabase.co", SupabaseKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SupabaseVerifier{}, v)

	_, err = New(config.AuthConfig{Provider: "ldap"}, zap.NewNop())
	assert.Error(t, err)
}
