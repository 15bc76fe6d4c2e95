package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatui/chatclient"
)

// execute runs the root command with args. Unless args name one, a
// throwaway config path keeps the user's file out of the test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHATUI_BASE_URL", "")
	t.Setenv("CHATUI_TIMEOUT", "")
	t.Setenv("CHATUI_DEBUG", "")

	hostFlag, configFlag, sendMessage, configInit = "", "", "", false

	if !slices.Contains(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.toml"))
	}

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "Line1\nLine2"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSendPrintsReply(t *testing.T) {
	srv := newBackend(t)

	out, err := execute(t, "send", "-m", "hi", "--host", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Line1\nLine2\n", out)
}

func TestSendPrintsFallbackWhenUnreachable(t *testing.T) {
	srv := newBackend(t)
	url := srv.URL
	srv.Close()

	out, err := execute(t, "send", "-m", "hi", "--host", url)

	require.NoError(t, err)
	assert.Equal(t, chatclient.FallbackReply+"\n", out)
}

func TestSendRejectsBlankMessage(t *testing.T) {
	_, err := execute(t, "send", "-m", "   ")
	assert.Error(t, err)
}

func TestSendRejectsBadHost(t *testing.T) {
	_, err := execute(t, "send", "-m", "hi", "--host", "ftp://nowhere")
	assert.ErrorContains(t, err, "--host")
}

func TestPing(t *testing.T) {
	srv := newBackend(t)

	out, err := execute(t, "ping", "--host", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "reachable")
}

func TestPingUnreachable(t *testing.T) {
	srv := newBackend(t)
	url := srv.URL
	srv.Close()

	_, err := execute(t, "ping", "--host", url)
	assert.Error(t, err)
}

func TestConfigPrintsEffective(t *testing.T) {
	out, err := execute(t, "config", "--host", "http://chat.example:9000")

	require.NoError(t, err)
	assert.Contains(t, out, `base_url = "http://chat.example:9000"`)
	assert.Contains(t, out, "[server]")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "--init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err = execute(t, "config", "--init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}
