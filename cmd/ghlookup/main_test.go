package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/octocat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"The Octocat","public_repos":8}`))
	})
	mux.HandleFunc("GET /repos/octocat/Hello-World", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"full_name":"octocat/Hello-World","stargazers_count":1500}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ghlookup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	gh := fakeGitHub(t)
	cfgPath := writeConfig(t, "api_base_url: "+gh.URL+"\nlog_level: error\n")

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "user is the default mode",
			args: []string{"lookup", "octocat"},
			want: []string{"User Info", "Full Name: The Octocat", "Number of Repositories: 8"},
		},
		{
			name: "repo mode",
			args: []string{"lookup", "--mode", "repo", "octocat/Hello-World"},
			want: []string{"Repo Info", "Repository Name: octocat/Hello-World", "Number of Stars: 1500"},
		},
		{
			name:    "unknown user prints the failure line",
			args:    []string{"lookup", "ghost"},
			want:    []string{"Failed to fetch data"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath}, tt.args...)
			args = append(args, "--color", "never")

			out, err := run(t, args...)
			if tt.wantErr {
				assert.ErrorIs(t, err, errLookupFailed)
			} else {
				require.NoError(t, err)
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestLookupCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad mode", args: []string{"lookup", "--mode", "org", "octocat"}},
		{name: "blank nickname", args: []string{"lookup", "   "}},
		{name: "missing nickname", args: []string{"lookup"}},
		{name: "bad color", args: []string{"lookup", "--color", "sometimes", "octocat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.Error(t, err)
			assert.NotContains(t, out, "Info")
		})
	}
}

func TestConfigCommand(t *testing.T) {
	cfgPath := writeConfig(t, "port: 9090\nsession:\n  secret: do-not-print-this-value\n")

	out, err := run(t, "--config", cfgPath, "config")
	require.NoError(t, err)

	assert.Contains(t, out, "port: 9090")
	assert.Contains(t, out, "api_base_url: https://api.github.com")
	assert.NotContains(t, out, "do-not-print-this-value")
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantLog bool
	}{
		{name: "failed lookup was already printed", err: errLookupFailed, wantLog: false},
		{name: "wrapped failed lookup", err: fmt.Errorf("running: %w", errLookupFailed), wantLog: false},
		{name: "other errors are logged", err: errors.New("loading config: bad yaml"), wantLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(slog.New(slog.NewTextHandler(&buf, nil)), tt.err)

			if tt.wantLog {
				assert.Contains(t, buf.String(), "ghlookup command failed")
				assert.Contains(t, buf.String(), tt.err.Error())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
