package handler_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/ghlookup/internal/github"
	"github.com/sakif/ghlookup/internal/lookup"
)

// fakeGitHub answers fixed JSON per request URI and counts hits.
type fakeGitHub struct {
	mu     sync.Mutex
	hits   []string
	routes map[string]string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits = append(f.hits, r.Method+" "+r.RequestURI)
	f.mu.Unlock()

	body, ok := f.routes[r.RequestURI]
	if !ok {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeGitHub) Hits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

var testRoutes = map[string]string{
	"/users/octocat":             `{"login":"octocat","name":"octocat","public_repos":8}`,
	"/repos/octocat/Hello-World": `{"full_name":"octocat/Hello-World","stargazers_count":1500}`,
	"/users/mismatch":            `{"full_name":"octocat/Hello-World","stargazers_count":1500}`,
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestService wires a real lookup.Service to an in-process fake GitHub.
func newTestService(t *testing.T) (*lookup.Service, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{routes: testRoutes}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := github.NewClient(srv.URL, srv.Client(), newTestLogger())
	require.NoError(t, err)
	return lookup.NewService(client, newTestLogger()), fake
}
