package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"linkcook-go/internal/app"
	"linkcook-go/internal/config"
	"linkcook-go/internal/db/dbtest"
	"linkcook-go/internal/repository/inmemory"
	authmw "linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

var (
	signingKey = []byte("cli-test-key")
	testNow    = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	keyfunc := func(*jwt.Token) (any, error) { return signingKey, nil }

	router := app.NewRouter(app.Deps{
		Config:        config.Config{LiveEnabled: true, Cache: config.CacheConfig{TTL: time.Minute}},
		DB:            dbtest.NewSQLite(t),
		Cache:         inmemory.NewInMemoryGroupBuyCache(),
		Authenticator: authmw.NewJWTAuthenticator(keyfunc, "", "", jwt.SigningMethodHS256.Alg()),
		Log:           logger.Discard(),
		Clock:         func() time.Time { return testNow },
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, sub, name string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

// userOptions returns options acting as sub. The user id is left empty so
// the identity is resolved from the token.
func userOptions(t *testing.T, srv *httptest.Server, sub, name string) *RootOptions {
	t.Helper()
	opts := &RootOptions{
		Format:     "text",
		Server:     srv.URL,
		HTTPClient: srv.Client(),
		Now:        func() time.Time { return testNow },
	}
	if sub != "" {
		opts.Token = signToken(t, sub, name)
	}
	return opts
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData extracts the data of a json formatted response.
func decodeData[T any](t *testing.T, output string) T {
	t.Helper()
	var response struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(output)), &response))
	require.Equal(t, "ok", response.Status)

	var value T
	require.NoError(t, json.Unmarshal(response.Data, &value))
	return value
}
