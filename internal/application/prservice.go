package application

import (
	"context"
	"fmt"
	"log/slog"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// FallbackDestinationBranch is used when a PR is created without an explicit
// destination and the repository-metadata lookup fails or reports no default.
const FallbackDestinationBranch = "main"

// PRService orchestrates pull request read and create operations.
type PRService struct {
	client driven.BitbucketClient
	local  driven.LocalRepo
}

func NewPRService(client driven.BitbucketClient, local driven.LocalRepo) *PRService {
	return &PRService{client: client, local: local}
}

// List returns pull requests filtered by state.
func (s *PRService) List(ctx context.Context, repo model.RepoRef, state model.PRState) ([]model.PullRequest, error) {
	if !model.ValidPRState(state) {
		return nil, fmt.Errorf("%w: state %q must be one of OPEN, MERGED, DECLINED, SUPERSEDED", ErrInvalidInput, state)
	}
	return s.client.FetchPullRequests(ctx, repo, state)
}

// View returns a single pull request with full detail.
func (s *PRService) View(ctx context.Context, repo model.RepoRef, id int64) (model.PullRequest, error) {
	if err := requirePositive("PR", id); err != nil {
		return model.PullRequest{}, err
	}
	return s.client.FetchPullRequest(ctx, repo, int(id))
}

// Comments fetches the PR's comments and tasks in parallel and builds the
// conversation transcript. The two fetches are independent; both must
// succeed before the transcript is built.
func (s *PRService) Comments(ctx context.Context, repo model.RepoRef, id int64) (Transcript, error) {
	if err := requirePositive("PR", id); err != nil {
		return Transcript{}, err
	}

	var (
		comments []model.Comment
		tasks    []model.Task
	)
	commentsErr := make(chan error, 1)
	tasksErr := make(chan error, 1)

	go func() {
		var err error
		comments, err = s.client.FetchComments(ctx, repo, int(id))
		commentsErr <- err
	}()
	go func() {
		var err error
		tasks, err = s.client.FetchTasks(ctx, repo, int(id))
		tasksErr <- err
	}()

	cErr := <-commentsErr
	tErr := <-tasksErr
	if cErr != nil {
		return Transcript{}, cErr
	}
	if tErr != nil {
		return Transcript{}, tErr
	}

	return BuildTranscript(comments, tasks), nil
}

// Diff returns the raw unified diff of the PR.
func (s *PRService) Diff(ctx context.Context, repo model.RepoRef, id int64) (string, error) {
	if err := requirePositive("PR", id); err != nil {
		return "", err
	}
	return s.client.FetchDiff(ctx, repo, int(id))
}

// Create opens a new pull request. The source branch defaults to the
// checked-out branch; the destination defaults to the repository's
// configured main branch, falling back to FallbackDestinationBranch when the
// metadata lookup fails. The fallback path never aborts the create itself.
func (s *PRService) Create(ctx context.Context, repo model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
	if err := requireText("title", pr.Title); err != nil {
		return model.PullRequest{}, err
	}

	if pr.SourceBranch == "" {
		branch, ok := s.local.CurrentBranch()
		if !ok {
			return model.PullRequest{}, fmt.Errorf("%w: no source branch given and the current branch could not be determined", ErrInvalidInput)
		}
		pr.SourceBranch = branch
	}

	if pr.DestinationBranch == "" {
		pr.DestinationBranch = s.defaultBranch(ctx, repo)
	}

	return s.client.CreatePullRequest(ctx, repo, pr)
}

func (s *PRService) defaultBranch(ctx context.Context, repo model.RepoRef) string {
	meta, err := s.client.FetchRepository(ctx, repo)
	if err != nil || meta.MainBranch == "" {
		slog.Debug("default branch lookup failed, using fallback",
			"repo", repo.FullName(),
			"fallback", FallbackDestinationBranch,
			"error", err,
		)
		return FallbackDestinationBranch
	}
	return meta.MainBranch
}

// Raw performs a raw GET passthrough against the API.
func (s *PRService) Raw(ctx context.Context, path string) ([]byte, error) {
	if err := requireText("path", path); err != nil {
		return nil, err
	}
	return s.client.Raw(ctx, path)
}
