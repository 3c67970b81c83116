package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/guarzo/freestuff/client"
	"github.com/guarzo/freestuff/internal/testutil"
)

// runApp runs the CLI against a TLS test server and returns stdout.
func runApp(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	for _, k := range []string{"FREESTUFF_CATEGORY", "FREESTUFF_BATCH_SIZE", "FREESTUFF_CONCURRENCY", "FREESTUFF_RPS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("FREESTUFF_API_KEY", "cli-key")
	t.Setenv("FREESTUFF_API_DOMAIN", server.URL)

	var out bytes.Buffer
	e := &env{
		out: &out,
		newClient: func(cfg client.Config) (*client.Client, error) {
			cfg.HTTPClient = server.Client()
			return client.New(cfg)
		},
	}

	app := newApp(e)
	app.ErrWriter = &bytes.Buffer{}
	argv := append([]string{"freestuff", "--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func TestPingCommand(t *testing.T) {
	var auth string
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}, "ping")

	require.NoError(t, err)
	assert.Equal(t, "pong\n", out)
	assert.Equal(t, "Basic cli-key", auth)
}

func TestListCommand(t *testing.T) {
	var path string
	handler := func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"success":true,"data":[5,6]}`))
	}

	out, err := runApp(t, handler, "list")
	require.NoError(t, err)
	assert.Equal(t, "5\n6\n", out)
	assert.Equal(t, "/v1/games/free", path)

	out, err = runApp(t, handler, "--format", "json", "list", "--category", "all")
	require.NoError(t, err)
	assert.JSONEq(t, `[5,6]`, out)
	assert.Equal(t, "/v1/games/all", path)
}

func TestDetailsCommand(t *testing.T) {
	var paths []string
	out, err := runApp(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write(testutil.Details(t, map[string][]byte{
			"1234": []byte(testutil.GameJSON),
		}))
	}, "-o", "json", "details", "1234")

	require.NoError(t, err)
	assert.Equal(t, []string{"/v1/game/1234/info"}, paths)
	assert.Equal(t, "Hollow Test", gjson.Get(out, "0.title").String())
}

func TestDetailsCommand_Errors(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	_, err := runApp(t, handler, "details")
	assert.Error(t, err)

	_, err = runApp(t, handler, "details", "abc")
	assert.Error(t, err)

	_, err = runApp(t, handler, "details", "1")
	assert.ErrorIs(t, err, client.ErrRateLimited)

	_, err = runApp(t, handler, "--format", "xml", "details", "1")
	assert.Error(t, err)
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("FREESTUFF_API_KEY", "")
	require.NoError(t, os.Unsetenv("FREESTUFF_API_KEY"))

	var out bytes.Buffer
	app := newApp(&env{out: &out, newClient: client.New})
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run([]string{"freestuff", "--env-file", filepath.Join(t.TempDir(), "none.env"), "ping"})
	assert.Error(t, err)
}

func TestHelpNeedsNoConfig(t *testing.T) {
	t.Setenv("FREESTUFF_API_KEY", "")
	require.NoError(t, os.Unsetenv("FREESTUFF_API_KEY"))

	var out bytes.Buffer
	app := newApp(&env{out: &out, newClient: client.New})

	require.NoError(t, app.Run([]string{"freestuff", "help"}))
	assert.Contains(t, out.String(), "details")
	assert.Contains(t, out.String(), "watch")
}
