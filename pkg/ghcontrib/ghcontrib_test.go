package ghcontrib

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub records the calls of one contribution flow.
type fakeGitHub struct {
	mu       sync.Mutex
	calls    []string
	branch   map[string]any
	file     map[string]any
	pull     map[string]any
	failStep string
}

func (f *fakeGitHub) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGitHub) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		assert.NoError(t, json.NewEncoder(w).Encode(v))
	}
	decode := func(r *http.Request) map[string]any {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		return body
	}

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		f.record("user")
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		write(w, http.StatusOK, map[string]any{"login": "cook"})
	})
	mux.HandleFunc("POST /repos/foodie/recipes/forks", func(w http.ResponseWriter, r *http.Request) {
		f.record("fork")
		if f.failStep == StepFork {
			write(w, http.StatusForbidden, map[string]any{"message": "forking disabled"})
			return
		}
		write(w, http.StatusAccepted, map[string]any{"name": "recipes", "owner": map[string]any{"login": "cook"}})
	})
	mux.HandleFunc("GET /repos/foodie/recipes", func(w http.ResponseWriter, r *http.Request) {
		f.record("repo")
		write(w, http.StatusOK, map[string]any{"name": "recipes", "default_branch": "trunk"})
	})
	mux.HandleFunc("GET /repos/foodie/recipes/git/ref/heads/trunk", func(w http.ResponseWriter, r *http.Request) {
		f.record("ref")
		write(w, http.StatusOK, map[string]any{"ref": "refs/heads/trunk", "object": map[string]any{"sha": "abc123", "type": "commit"}})
	})
	mux.HandleFunc("POST /repos/cook/recipes/git/refs", func(w http.ResponseWriter, r *http.Request) {
		f.record("branch")
		f.branch = decode(r)
		write(w, http.StatusCreated, map[string]any{"ref": f.branch["ref"]})
	})
	mux.HandleFunc("PUT /repos/cook/recipes/contents/recipes/shakshuka.json", func(w http.ResponseWriter, r *http.Request) {
		f.record("commit")
		if f.failStep == StepCommit {
			write(w, http.StatusUnprocessableEntity, map[string]any{"message": "sha wasn't supplied"})
			return
		}
		f.file = decode(r)
		write(w, http.StatusCreated, map[string]any{"content": map[string]any{"path": "recipes/shakshuka.json"}})
	})
	mux.HandleFunc("POST /repos/foodie/recipes/pulls", func(w http.ResponseWriter, r *http.Request) {
		f.record("pull")
		f.pull = decode(r)
		write(w, http.StatusCreated, map[string]any{"number": 42, "html_url": "https://github.com/foodie/recipes/pull/42"})
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeGitHub) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	c, err := New("tok", srv.URL, Upstream{Owner: "foodie", Repo: "recipes"})
	require.NoError(t, err)
	return c
}

func submission() Submission {
	return Submission{
		Branch:        "recipe/shakshuka-1700000000",
		Path:          "recipes/shakshuka.json",
		Content:       []byte(`{"title":"Shakshuka"}`),
		CommitMessage: "Add recipe: Shakshuka",
		Title:         "Add recipe: Shakshuka",
		Body:          "New recipe contributed from Foodie.",
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	fake := &fakeGitHub{}
	c := newTestClient(t, fake)

	res, err := c.Submit(context.Background(), submission())
	require.NoError(t, err)

	assert.Equal(t, &Result{
		Number:    42,
		URL:       "https://github.com/foodie/recipes/pull/42",
		Branch:    "recipe/shakshuka-1700000000",
		ForkOwner: "cook",
	}, res)
	assert.Equal(t, []string{"user", "fork", "repo", "ref", "branch", "commit", "pull"}, fake.calls)

	assert.Equal(t, "refs/heads/recipe/shakshuka-1700000000", fake.branch["ref"])
	assert.Equal(t, "abc123", fake.branch["sha"])

	assert.Equal(t, "recipe/shakshuka-1700000000", fake.file["branch"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{"title":"Shakshuka"}`)), fake.file["content"])

	assert.Equal(t, "cook:recipe/shakshuka-1700000000", fake.pull["head"])
	assert.Equal(t, "trunk", fake.pull["base"])
}

func TestSubmit_StopsAtFailingStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		failStep  string
		wantCalls []string
	}{
		{name: "fork rejected", failStep: StepFork, wantCalls: []string{"user", "fork"}},
		{name: "commit rejected", failStep: StepCommit, wantCalls: []string{"user", "fork", "repo", "ref", "branch", "commit"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeGitHub{failStep: tc.failStep}
			c := newTestClient(t, fake)

			_, err := c.Submit(context.Background(), submission())
			require.Error(t, err)

			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tc.failStep, stepErr.Step)
			assert.Equal(t, tc.wantCalls, fake.calls)
		})
	}
}

func TestSubmit_ValidatesInput(t *testing.T) {
	t.Parallel()

	fake := &fakeGitHub{}
	c := newTestClient(t, fake)

	s := submission()
	s.Content = nil
	_, err := c.Submit(context.Background(), s)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepValidate, stepErr.Step)
	assert.Empty(t, fake.calls)
}
