package application_test

import (
	"context"
	"encoding/json"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// fakeClient is a hand-rolled BitbucketClient double. Behavior is injected
// per method; calls counts every API hit so tests can assert that invalid
// input never reaches the network.
type fakeClient struct {
	calls int

	currentUserFn        func(ctx context.Context) (model.User, error)
	fetchRepositoryFn    func(ctx context.Context, repo model.RepoRef) (model.Repository, error)
	fetchPullRequestsFn  func(ctx context.Context, repo model.RepoRef, state model.PRState) ([]model.PullRequest, error)
	fetchPullRequestFn   func(ctx context.Context, repo model.RepoRef, id int) (model.PullRequest, error)
	fetchCommentsFn      func(ctx context.Context, repo model.RepoRef, id int) ([]model.Comment, error)
	fetchTasksFn         func(ctx context.Context, repo model.RepoRef, id int) ([]model.Task, error)
	fetchDiffFn          func(ctx context.Context, repo model.RepoRef, id int) (string, error)
	createPullRequestFn  func(ctx context.Context, repo model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error)
	addCommentFn         func(ctx context.Context, repo model.RepoRef, prID int, c driven.NewComment) (model.Comment, error)
	setCommentResolvedFn func(ctx context.Context, repo model.RepoRef, prID int, commentID int64, resolved bool) (model.Comment, error)
	setTaskStateFn       func(ctx context.Context, repo model.RepoRef, prID int, taskID int64, state model.TaskState) (model.Task, error)
	rawFn                func(ctx context.Context, path string) (json.RawMessage, error)
}

var _ driven.BitbucketClient = (*fakeClient)(nil)

func (f *fakeClient) CurrentUser(ctx context.Context) (model.User, error) {
	f.calls++
	if f.currentUserFn != nil {
		return f.currentUserFn(ctx)
	}
	return model.User{}, nil
}

func (f *fakeClient) FetchRepository(ctx context.Context, repo model.RepoRef) (model.Repository, error) {
	f.calls++
	if f.fetchRepositoryFn != nil {
		return f.fetchRepositoryFn(ctx, repo)
	}
	return model.Repository{}, nil
}

func (f *fakeClient) FetchPullRequests(ctx context.Context, repo model.RepoRef, state model.PRState) ([]model.PullRequest, error) {
	f.calls++
	if f.fetchPullRequestsFn != nil {
		return f.fetchPullRequestsFn(ctx, repo, state)
	}
	return nil, nil
}

func (f *fakeClient) FetchPullRequest(ctx context.Context, repo model.RepoRef, id int) (model.PullRequest, error) {
	f.calls++
	if f.fetchPullRequestFn != nil {
		return f.fetchPullRequestFn(ctx, repo, id)
	}
	return model.PullRequest{}, nil
}

func (f *fakeClient) FetchComments(ctx context.Context, repo model.RepoRef, id int) ([]model.Comment, error) {
	f.calls++
	if f.fetchCommentsFn != nil {
		return f.fetchCommentsFn(ctx, repo, id)
	}
	return nil, nil
}

func (f *fakeClient) FetchTasks(ctx context.Context, repo model.RepoRef, id int) ([]model.Task, error) {
	f.calls++
	if f.fetchTasksFn != nil {
		return f.fetchTasksFn(ctx, repo, id)
	}
	return nil, nil
}

func (f *fakeClient) FetchDiff(ctx context.Context, repo model.RepoRef, id int) (string, error) {
	f.calls++
	if f.fetchDiffFn != nil {
		return f.fetchDiffFn(ctx, repo, id)
	}
	return "", nil
}

func (f *fakeClient) CreatePullRequest(ctx context.Context, repo model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
	f.calls++
	if f.createPullRequestFn != nil {
		return f.createPullRequestFn(ctx, repo, pr)
	}
	return model.PullRequest{}, nil
}

func (f *fakeClient) AddComment(ctx context.Context, repo model.RepoRef, prID int, c driven.NewComment) (model.Comment, error) {
	f.calls++
	if f.addCommentFn != nil {
		return f.addCommentFn(ctx, repo, prID, c)
	}
	return model.Comment{}, nil
}

func (f *fakeClient) SetCommentResolved(ctx context.Context, repo model.RepoRef, prID int, commentID int64, resolved bool) (model.Comment, error) {
	f.calls++
	if f.setCommentResolvedFn != nil {
		return f.setCommentResolvedFn(ctx, repo, prID, commentID, resolved)
	}
	return model.Comment{}, nil
}

func (f *fakeClient) SetTaskState(ctx context.Context, repo model.RepoRef, prID int, taskID int64, state model.TaskState) (model.Task, error) {
	f.calls++
	if f.setTaskStateFn != nil {
		return f.setTaskStateFn(ctx, repo, prID, taskID, state)
	}
	return model.Task{}, nil
}

func (f *fakeClient) Raw(ctx context.Context, path string) (json.RawMessage, error) {
	f.calls++
	if f.rawFn != nil {
		return f.rawFn(ctx, path)
	}
	return nil, nil
}

// fakeLocal is a LocalRepo double with fixed answers.
type fakeLocal struct {
	ref        model.RepoRef
	resolveErr error
	branch     string
	hasBranch  bool
}

var _ driven.LocalRepo = (*fakeLocal)(nil)

func (f *fakeLocal) Resolve(override string) (model.RepoRef, error) {
	if f.resolveErr != nil {
		return model.RepoRef{}, f.resolveErr
	}
	return f.ref, nil
}

func (f *fakeLocal) CurrentBranch() (string, bool) {
	return f.branch, f.hasBranch
}

// fakeStore is an in-memory CredentialStore double.
type fakeStore struct {
	values map[string]string
	getErr error
	setErr error
}

var _ driven.CredentialStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(ctx context.Context, service, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[service] = value
	return nil
}

func (f *fakeStore) Get(ctx context.Context, service string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[service], nil
}

func (f *fakeStore) List(ctx context.Context) ([]model.Credential, error) {
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, service string) error {
	delete(f.values, service)
	return nil
}
