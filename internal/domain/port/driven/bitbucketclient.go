package driven

import (
	"context"
	"encoding/json"

	"bbpr/internal/domain/model"
)

// NewComment describes a comment to be posted on a pull request. ParentID,
// when set, makes the comment a reply; Path/Line, when set, anchor it to a
// file location.
type NewComment struct {
	Body     string
	ParentID *int64
	Path     string
	Line     int
}

// BitbucketClient defines the driven port for the Bitbucket Cloud 2.0 API.
// Read methods fetch data; write methods mutate PR state. All methods map
// HTTP failures onto the taxonomy in errors.go.
type BitbucketClient interface {
	// CurrentUser validates the configured credentials and returns the
	// authenticated user.
	CurrentUser(ctx context.Context) (model.User, error)

	// FetchRepository returns repository metadata, including the configured
	// default branch.
	FetchRepository(ctx context.Context, repo model.RepoRef) (model.Repository, error)

	FetchPullRequests(ctx context.Context, repo model.RepoRef, state model.PRState) ([]model.PullRequest, error)
	FetchPullRequest(ctx context.Context, repo model.RepoRef, id int) (model.PullRequest, error)

	// FetchComments returns every comment on the PR across all pages,
	// preserving server order. Soft-deleted comments are included.
	FetchComments(ctx context.Context, repo model.RepoRef, id int) ([]model.Comment, error)

	// FetchTasks returns every task on the PR across all pages.
	FetchTasks(ctx context.Context, repo model.RepoRef, id int) ([]model.Task, error)

	// FetchDiff returns the raw unified diff text of the PR.
	FetchDiff(ctx context.Context, repo model.RepoRef, id int) (string, error)

	CreatePullRequest(ctx context.Context, repo model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error)
	AddComment(ctx context.Context, repo model.RepoRef, prID int, c NewComment) (model.Comment, error)

	// SetCommentResolved resolves (true) or reopens (false) a comment thread
	// and returns the comment as reported by the server after the call.
	SetCommentResolved(ctx context.Context, repo model.RepoRef, prID int, commentID int64, resolved bool) (model.Comment, error)

	// SetTaskState moves a task to the given state and returns the task as
	// reported by the server after the call.
	SetTaskState(ctx context.Context, repo model.RepoRef, prID int, taskID int64, state model.TaskState) (model.Task, error)

	// Raw performs a GET against an arbitrary API path and returns the
	// undecoded JSON body.
	Raw(ctx context.Context, path string) (json.RawMessage, error)
}
