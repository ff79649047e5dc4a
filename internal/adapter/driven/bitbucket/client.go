// Package bitbucket implements the BitbucketClient port against the
// Bitbucket Cloud 2.0 REST API.
package bitbucket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// DefaultBaseURL is the production API origin. Every request either starts
// from it or is validated against its host.
const DefaultBaseURL = "https://api.bitbucket.org/2.0"

// Compile-time interface satisfaction check.
var _ driven.BitbucketClient = (*Client)(nil)

// Client implements the driven.BitbucketClient port.
type Client struct {
	t *Transport
}

// NewClient creates a Bitbucket API client authenticated with the given
// credentials. An empty baseURL selects the production origin. The HTTP
// stack uses an in-memory conditional-request cache (ETag revalidation)
// underneath a plain client with no retry middleware.
func NewClient(baseURL string, creds model.Credentials) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   30 * time.Second,
	}

	t, err := newTransport(httpClient, baseURL, creds)
	if err != nil {
		return nil, err
	}
	return &Client{t: t}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, creds model.Credentials) (*Client, error) {
	t, err := newTransport(httpClient, baseURL, creds)
	if err != nil {
		return nil, err
	}
	return &Client{t: t}, nil
}

// CurrentUser validates the configured credentials against GET /user.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	body, err := c.t.Do(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return model.User{}, err
	}

	var p userPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.User{}, fmt.Errorf("decoding user: %w", err)
	}
	return model.User{Username: p.Username, DisplayName: p.DisplayName}, nil
}

// FetchRepository returns repository metadata including the default branch.
func (c *Client) FetchRepository(ctx context.Context, repo model.RepoRef) (model.Repository, error) {
	body, err := c.t.Do(ctx, http.MethodGet, "/repositories/"+repo.FullName(), nil)
	if err != nil {
		return model.Repository{}, wrapNotFound(err, "repository %s", repo.FullName())
	}

	var p repoPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Repository{}, fmt.Errorf("decoding repository: %w", err)
	}
	return mapRepository(p), nil
}

// FetchPullRequests lists pull requests in the given state across all pages.
func (c *Client) FetchPullRequests(ctx context.Context, repo model.RepoRef, state model.PRState) ([]model.PullRequest, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests?state=%s&pagelen=50", repo.FullName(), state)
	payloads, err := fetchAll[prPayload](ctx, c.t, path)
	if err != nil {
		return nil, wrapNotFound(err, "repository %s", repo.FullName())
	}

	prs := make([]model.PullRequest, 0, len(payloads))
	for _, p := range payloads {
		prs = append(prs, mapPullRequest(p))
	}
	return prs, nil
}

// FetchPullRequest returns a single pull request with full detail.
func (c *Client) FetchPullRequest(ctx context.Context, repo model.RepoRef, id int) (model.PullRequest, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d", repo.FullName(), id)
	body, err := c.t.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return model.PullRequest{}, wrapNotFound(err, "PR %d", id)
	}

	var p prPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.PullRequest{}, fmt.Errorf("decoding pull request: %w", err)
	}
	return mapPullRequest(p), nil
}

// FetchComments returns every comment on the PR in server order, including
// soft-deleted ones. Filtering is the transcript builder's concern.
func (c *Client) FetchComments(ctx context.Context, repo model.RepoRef, id int) ([]model.Comment, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/comments?pagelen=100", repo.FullName(), id)
	payloads, err := fetchAll[commentPayload](ctx, c.t, path)
	if err != nil {
		return nil, wrapNotFound(err, "PR %d", id)
	}

	comments := make([]model.Comment, 0, len(payloads))
	for _, p := range payloads {
		comments = append(comments, mapComment(p))
	}
	return comments, nil
}

// FetchTasks returns every task on the PR in server order.
func (c *Client) FetchTasks(ctx context.Context, repo model.RepoRef, id int) ([]model.Task, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/tasks?pagelen=100", repo.FullName(), id)
	payloads, err := fetchAll[taskPayload](ctx, c.t, path)
	if err != nil {
		return nil, wrapNotFound(err, "PR %d", id)
	}

	tasks := make([]model.Task, 0, len(payloads))
	for _, p := range payloads {
		tasks = append(tasks, mapTask(p))
	}
	return tasks, nil
}

// FetchDiff returns the raw unified diff text of the PR.
func (c *Client) FetchDiff(ctx context.Context, repo model.RepoRef, id int) (string, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/diff", repo.FullName(), id)
	body, err := c.t.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", wrapNotFound(err, "PR %d", id)
	}
	return string(body), nil
}

// CreatePullRequest opens a new pull request and returns it as created.
func (c *Client) CreatePullRequest(ctx context.Context, repo model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
	reqBody := map[string]any{
		"title":       pr.Title,
		"source":      map[string]any{"branch": map[string]string{"name": pr.SourceBranch}},
		"destination": map[string]any{"branch": map[string]string{"name": pr.DestinationBranch}},
	}
	if pr.Description != "" {
		reqBody["description"] = pr.Description
	}

	path := fmt.Sprintf("/repositories/%s/pullrequests", repo.FullName())
	body, err := c.t.Do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return model.PullRequest{}, wrapNotFound(err, "repository %s", repo.FullName())
	}

	var p prPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.PullRequest{}, fmt.Errorf("decoding created pull request: %w", err)
	}
	return mapPullRequest(p), nil
}

// AddComment posts a comment, reply, or inline comment on the PR.
func (c *Client) AddComment(ctx context.Context, repo model.RepoRef, prID int, nc driven.NewComment) (model.Comment, error) {
	reqBody := map[string]any{
		"content": map[string]string{"raw": nc.Body},
	}
	if nc.ParentID != nil {
		reqBody["parent"] = map[string]int64{"id": *nc.ParentID}
	}
	if nc.Path != "" {
		inline := map[string]any{"path": nc.Path}
		if nc.Line > 0 {
			inline["to"] = nc.Line
		}
		reqBody["inline"] = inline
	}

	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/comments", repo.FullName(), prID)
	body, err := c.t.Do(ctx, http.MethodPost, path, reqBody)
	if err != nil {
		return model.Comment{}, wrapNotFound(err, "PR %d", prID)
	}

	var p commentPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Comment{}, fmt.Errorf("decoding created comment: %w", err)
	}
	return mapComment(p), nil
}

// SetCommentResolved resolves or reopens a comment thread. The resolve
// endpoint returns no useful body, so the comment is re-fetched afterwards to
// report the state the server holds after the call.
func (c *Client) SetCommentResolved(ctx context.Context, repo model.RepoRef, prID int, commentID int64, resolved bool) (model.Comment, error) {
	method := http.MethodPost
	if !resolved {
		method = http.MethodDelete
	}

	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/comments/%d/resolve", repo.FullName(), prID, commentID)
	if _, err := c.t.Do(ctx, method, path, nil); err != nil {
		return model.Comment{}, wrapNotFound(err, "comment %d on PR %d", commentID, prID)
	}

	getPath := fmt.Sprintf("/repositories/%s/pullrequests/%d/comments/%d", repo.FullName(), prID, commentID)
	body, err := c.t.Do(ctx, http.MethodGet, getPath, nil)
	if err != nil {
		return model.Comment{}, wrapNotFound(err, "comment %d on PR %d", commentID, prID)
	}

	var p commentPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Comment{}, fmt.Errorf("decoding comment: %w", err)
	}
	return mapComment(p), nil
}

// SetTaskState moves a task to the given state via PUT and returns the task
// the server reports back.
func (c *Client) SetTaskState(ctx context.Context, repo model.RepoRef, prID int, taskID int64, state model.TaskState) (model.Task, error) {
	path := fmt.Sprintf("/repositories/%s/pullrequests/%d/tasks/%d", repo.FullName(), prID, taskID)
	body, err := c.t.Do(ctx, http.MethodPut, path, map[string]string{"state": string(state)})
	if err != nil {
		return model.Task{}, wrapNotFound(err, "task %d on PR %d", taskID, prID)
	}

	var p taskPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Task{}, fmt.Errorf("decoding task: %w", err)
	}
	return mapTask(p), nil
}

// Raw performs a GET against an arbitrary API path and returns the undecoded
// JSON body.
func (c *Client) Raw(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.t.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// wrapNotFound contextualizes a 404 with the entity that was being addressed.
// All other errors pass through unchanged.
func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, driven.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
	return err
}
