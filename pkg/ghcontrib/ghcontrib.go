// Package ghcontrib opens a pull request that adds one file to an upstream
// repository on behalf of a contributor: fork, branch, commit, pull request.
//
// The steps run strictly in sequence and the first failure aborts the flow.
// Nothing is retried and nothing is rolled back; a half-finished contribution
// leaves at most a fork and a stray branch behind.
package ghcontrib

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v69/github"
)

// Upstream identifies the repository receiving contributions.
type Upstream struct {
	Owner string
	Repo  string
}

// Submission is a single-file change proposed to the upstream repository.
type Submission struct {
	Branch        string
	Path          string
	Content       []byte
	CommitMessage string
	Title         string
	Body          string
}

// Result describes the opened pull request.
type Result struct {
	Number    int    `json:"number"`
	URL       string `json:"url"`
	Branch    string `json:"branch"`
	ForkOwner string `json:"fork_owner"`
}

// StepError names the step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// Step names reported by StepError.
const (
	StepUser     = "get authenticated user"
	StepFork     = "fork repository"
	StepBase     = "read base branch"
	StepBranch   = "create branch"
	StepCommit   = "commit file"
	StepPullReq  = "open pull request"
	StepValidate = "validate submission"
)

// Client submits contributions with a contributor's token.
type Client struct {
	gh       *github.Client
	upstream Upstream
}

// New builds a client authenticated with token. baseURL overrides the API
// root (GitHub Enterprise or tests); empty means api.github.com.
func New(token, baseURL string, upstream Upstream) (*Client, error) {
	gh := github.NewClient(nil).WithAuthToken(token)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		gh.BaseURL = u
	}
	return &Client{gh: gh, upstream: upstream}, nil
}

// Submit runs the contribution flow and returns the pull request.
func (c *Client) Submit(ctx context.Context, s Submission) (*Result, error) {
	if s.Branch == "" || s.Path == "" || len(s.Content) == 0 || s.Title == "" {
		return nil, &StepError{Step: StepValidate, Err: errors.New("branch, path, content and title are required")}
	}

	// 1. Who is contributing
	me, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, &StepError{Step: StepUser, Err: err}
	}
	login := me.GetLogin()

	// 2. Fork. GitHub answers 202 while the fork is being created.
	fork, _, err := c.gh.Repositories.CreateFork(ctx, c.upstream.Owner, c.upstream.Repo, &github.RepositoryCreateForkOptions{})
	var accepted *github.AcceptedError
	if err != nil && !errors.As(err, &accepted) {
		return nil, &StepError{Step: StepFork, Err: err}
	}
	forkOwner, forkRepo := login, c.upstream.Repo
	if fork != nil && fork.GetOwner().GetLogin() != "" {
		forkOwner = fork.GetOwner().GetLogin()
		forkRepo = fork.GetName()
	}

	// 3. Base branch and head commit of upstream
	repo, _, err := c.gh.Repositories.Get(ctx, c.upstream.Owner, c.upstream.Repo)
	if err != nil {
		return nil, &StepError{Step: StepBase, Err: err}
	}
	base := repo.GetDefaultBranch()
	if base == "" {
		base = "main"
	}
	baseRef, _, err := c.gh.Git.GetRef(ctx, c.upstream.Owner, c.upstream.Repo, "refs/heads/"+base)
	if err != nil {
		return nil, &StepError{Step: StepBase, Err: err}
	}

	// 4. Branch in the fork at upstream's head
	_, _, err = c.gh.Git.CreateRef(ctx, forkOwner, forkRepo, &github.Reference{
		Ref:    github.Ptr("refs/heads/" + s.Branch),
		Object: &github.GitObject{SHA: baseRef.GetObject().SHA},
	})
	if err != nil {
		return nil, &StepError{Step: StepBranch, Err: err}
	}

	// 5. Commit the file on the branch
	_, _, err = c.gh.Repositories.CreateFile(ctx, forkOwner, forkRepo, s.Path, &github.RepositoryContentFileOptions{
		Message: github.Ptr(s.CommitMessage),
		Content: s.Content,
		Branch:  github.Ptr(s.Branch),
	})
	if err != nil {
		return nil, &StepError{Step: StepCommit, Err: err}
	}

	// 6. Pull request from fork branch into upstream base
	pr, _, err := c.gh.PullRequests.Create(ctx, c.upstream.Owner, c.upstream.Repo, &github.NewPullRequest{
		Title:               github.Ptr(s.Title),
		Head:                github.Ptr(forkOwner + ":" + s.Branch),
		Base:                github.Ptr(base),
		Body:                github.Ptr(s.Body),
		MaintainerCanModify: github.Ptr(true),
	})
	if err != nil {
		return nil, &StepError{Step: StepPullReq, Err: err}
	}

	return &Result{
		Number:    pr.GetNumber(),
		URL:       pr.GetHTMLURL(),
		Branch:    s.Branch,
		ForkOwner: forkOwner,
	}, nil
}
