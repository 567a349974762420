package github_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/github"
	"github.com/sakif/ghlookup/internal/model"
)

// fakeGitHub records every request URI and answers from a fixed route table.
type fakeGitHub struct {
	mu     sync.Mutex
	hits   []string
	routes map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits = append(f.hits, r.Method+" "+r.RequestURI)
	f.mu.Unlock()

	resp, ok := f.routes[r.RequestURI]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func newTestClient(t *testing.T, routes map[string]fakeResponse) (*github.Client, *fakeGitHub) {
	t.Helper()
	fake := &fakeGitHub{routes: routes}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := github.NewClient(srv.URL, srv.Client(), logger)
	require.NoError(t, err)
	return c, fake
}

func TestClient_FetchUser(t *testing.T) {
	c, fake := newTestClient(t, map[string]fakeResponse{
		"/users/octocat": {status: http.StatusOK, body: `{"login":"octocat","name":"octocat","public_repos":8,"id":1}`},
	})

	rec, err := c.Fetch(context.Background(), model.ModeUser, "octocat")
	require.NoError(t, err)

	assert.Equal(t, &model.UserRecord{Name: "octocat", PublicRepos: 8}, rec)
	assert.Equal(t, []string{"GET /users/octocat"}, fake.hits)
}

func TestClient_FetchRepo(t *testing.T) {
	c, fake := newTestClient(t, map[string]fakeResponse{
		"/repos/octocat/Hello-World": {status: http.StatusOK, body: `{"full_name":"octocat/Hello-World","stargazers_count":1500,"forks":3}`},
	})

	rec, err := c.Fetch(context.Background(), model.ModeRepo, "octocat/Hello-World")
	require.NoError(t, err)

	assert.Equal(t, &model.RepositoryRecord{FullName: "octocat/Hello-World", StargazersCount: 1500}, rec)
	assert.Equal(t, []string{"GET /repos/octocat/Hello-World"}, fake.hits)
}

func TestClient_FetchNullName(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResponse{
		"/users/ghost": {status: http.StatusOK, body: `{"name":null,"public_repos":0}`},
	})

	rec, err := c.Fetch(context.Background(), model.ModeUser, "ghost")
	require.NoError(t, err)
	assert.Equal(t, &model.UserRecord{Name: "", PublicRepos: 0}, rec)
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		mode     model.Mode
		nickname string
		routes   map[string]fakeResponse
		wantIs   error
	}{
		{
			name:     "404 status",
			mode:     model.ModeUser,
			nickname: "nobody",
			wantIs:   apperror.ErrFetch,
		},
		{
			name:     "500 status",
			mode:     model.ModeUser,
			nickname: "octocat",
			routes:   map[string]fakeResponse{"/users/octocat": {status: http.StatusInternalServerError, body: `{}`}},
			wantIs:   apperror.ErrFetch,
		},
		{
			name:     "malformed JSON",
			mode:     model.ModeUser,
			nickname: "octocat",
			routes:   map[string]fakeResponse{"/users/octocat": {status: http.StatusOK, body: `{"name":`}},
			wantIs:   apperror.ErrFetch,
		},
		{
			name:     "repo payload in user mode",
			mode:     model.ModeUser,
			nickname: "octocat",
			routes:   map[string]fakeResponse{"/users/octocat": {status: http.StatusOK, body: `{"full_name":"a/b","stargazers_count":1}`}},
			wantIs:   github.ErrShapeMismatch,
		},
		{
			name:     "user payload in repo mode",
			mode:     model.ModeRepo,
			nickname: "octocat/x",
			routes:   map[string]fakeResponse{"/repos/octocat/x": {status: http.StatusOK, body: `{"name":"x","public_repos":1}`}},
			wantIs:   github.ErrShapeMismatch,
		},
		{
			name:     "wrong field type",
			mode:     model.ModeRepo,
			nickname: "octocat/x",
			routes:   map[string]fakeResponse{"/repos/octocat/x": {status: http.StatusOK, body: `{"full_name":"octocat/x","stargazers_count":"many"}`}},
			wantIs:   github.ErrShapeMismatch,
		},
		{
			name:     "JSON array body",
			mode:     model.ModeUser,
			nickname: "octocat",
			routes:   map[string]fakeResponse{"/users/octocat": {status: http.StatusOK, body: `[1,2]`}},
			wantIs:   apperror.ErrFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, tt.routes)

			rec, err := c.Fetch(context.Background(), tt.mode, tt.nickname)
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrFetch)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, apperror.FetchFailedMessage, apperror.PublicMessage(err, ""))
			assert.Len(t, fake.hits, 1, "exactly one request per fetch")
		})
	}
}

func TestClient_StatusErrorCarriesCode(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.Fetch(context.Background(), model.ModeUser, "missing")

	var statusErr *github.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := github.NewClient(base, nil, logger)
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), model.ModeUser, "octocat")
	assert.ErrorIs(t, err, apperror.ErrFetch)
}

func TestClient_URLEscaping(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := github.NewClient("", nil, logger)
	require.NoError(t, err)

	tests := []struct {
		name     string
		mode     model.Mode
		nickname string
		want     string
	}{
		{"plain user", model.ModeUser, "octocat", "https://api.github.com/users/octocat"},
		{"user with space", model.ModeUser, "octo cat", "https://api.github.com/users/octo%20cat"},
		{"user with slash", model.ModeUser, "a/b", "https://api.github.com/users/a%2Fb"},
		{"user with query chars", model.ModeUser, "x?y#z", "https://api.github.com/users/x%3Fy%23z"},
		{"repo keeps separator", model.ModeRepo, "octocat/Hello-World", "https://api.github.com/repos/octocat/Hello-World"},
		{"repo segments escaped", model.ModeRepo, "o w/r?", "https://api.github.com/repos/o%20w/r%3F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.URL(tt.mode, tt.nickname)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_EscapedRequestReachesServer(t *testing.T) {
	c, fake := newTestClient(t, map[string]fakeResponse{
		"/users/octo%20cat": {status: http.StatusOK, body: `{"name":"Octo Cat","public_repos":2}`},
	})

	rec, err := c.Fetch(context.Background(), model.ModeUser, "octo cat")
	require.NoError(t, err)
	assert.Equal(t, "Octo Cat", rec.(*model.UserRecord).Name)
	assert.Equal(t, []string{"GET /users/octo%20cat"}, fake.hits)
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	_, err := github.NewClient("ftp://example.com", nil, logger)
	assert.Error(t, err)

	_, err = github.NewClient("://bad", nil, logger)
	assert.Error(t, err)
}
