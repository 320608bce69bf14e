package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ras0q/lazymemo/internal/auth"
	"github.com/ras0q/lazymemo/internal/memoapi"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, string) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	keyring.MockInit()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return srv, u.Host
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestHealth(t *testing.T) {
	srv, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})

	out, err := execute(t, "", "health", "--api", srv.URL)
	require.NoError(t, err)
	require.Equal(t, host+": ok\n", out)
}

func TestHealthUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := execute(t, "", "health", "--api", srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "service unavailable")
}

func TestLoginThenLogout(t *testing.T) {
	loggedOut := false
	srv, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			require.JSONEq(t, `{"username":"alice","password":"pw"}`, string(body))

			http.SetCookie(w, &http.Cookie{Name: memoapi.SessionCookieName, Value: "fresh"})
			_, _ = io.WriteString(w, `{"user":{"id":"1","username":"alice"}}`)

		case "/api/logout":
			cookie, err := r.Cookie(memoapi.SessionCookieName)
			require.NoError(t, err)
			require.Equal(t, "fresh", cookie.Value)

			loggedOut = true
			w.WriteHeader(http.StatusNoContent)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	out, err := execute(t, "alice\npw\n", "login", "--api", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "as @alice")

	token, store, err := auth.GetToken(host)
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
	require.Equal(t, auth.TokenStoreKeyring, store)

	out, err = execute(t, "", "logout", "--api", srv.URL)
	require.NoError(t, err)
	require.True(t, loggedOut)
	require.Contains(t, out, "Logged out of "+host)

	_, _, err = auth.GetToken(host)
	require.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestLoginRejected(t *testing.T) {
	srv, host := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid credentials"}`)
	})

	_, err := execute(t, "alice\nwrong\n", "login", "--api", srv.URL)
	require.EqualError(t, err, "invalid credentials")

	_, _, err = auth.GetToken(host)
	require.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestLogoutWithoutToken(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	out, err := execute(t, "", "logout", "--api", srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Not logged in.\n", out)
}

func TestInvalidAPIFlag(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	_, err := execute(t, "", "health", "--api", "ftp://example.com")
	require.ErrorContains(t, err, "load config")
}
