package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
)

var repoRef = model.RepoRef{Workspace: "myteam", Name: "widget"}

func TestPRService_List_RejectsUnknownState(t *testing.T) {
	client := &fakeClient{}
	svc := application.NewPRService(client, &fakeLocal{})

	_, err := svc.List(context.Background(), repoRef, model.PRState("CLOSED"))

	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Zero(t, client.calls, "invalid state must not reach the API")
}

func TestPRService_List_PassesStateThrough(t *testing.T) {
	var gotState model.PRState
	client := &fakeClient{
		fetchPullRequestsFn: func(_ context.Context, _ model.RepoRef, state model.PRState) ([]model.PullRequest, error) {
			gotState = state
			return []model.PullRequest{{ID: 1}}, nil
		},
	}
	svc := application.NewPRService(client, &fakeLocal{})

	prs, err := svc.List(context.Background(), repoRef, model.PRStateDeclined)

	require.NoError(t, err)
	assert.Equal(t, model.PRStateDeclined, gotState)
	assert.Len(t, prs, 1)
}

func TestPRService_View_RejectsNonPositiveID(t *testing.T) {
	for _, id := range []int64{0, -5} {
		client := &fakeClient{}
		svc := application.NewPRService(client, &fakeLocal{})

		_, err := svc.View(context.Background(), repoRef, id)

		require.Error(t, err)
		assert.ErrorIs(t, err, application.ErrInvalidInput)
		assert.Zero(t, client.calls)
	}
}

func TestPRService_Comments_BuildsTranscriptFromBothFetches(t *testing.T) {
	client := &fakeClient{
		fetchCommentsFn: func(_ context.Context, _ model.RepoRef, id int) ([]model.Comment, error) {
			assert.Equal(t, 5, id)
			return []model.Comment{
				mkComment(1, nil, "alice", "root"),
				mkComment(2, ptr(1), "bob", "reply"),
			}, nil
		},
		fetchTasksFn: func(_ context.Context, _ model.RepoRef, id int) ([]model.Task, error) {
			return []model.Task{
				{ID: 10, State: model.TaskStateUnresolved, Content: "add test", CommentID: ptr(2)},
			}, nil
		},
	}
	svc := application.NewPRService(client, &fakeLocal{})

	tr, err := svc.Comments(context.Background(), repoRef, 5)

	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	require.Len(t, tr.Entries, 2)
	assert.Equal(t, 1, tr.TotalTasks)
	require.Len(t, tr.Entries[1].Tasks, 1)
}

func TestPRService_Comments_TaskFetchFailurePropagates(t *testing.T) {
	taskErr := errors.New("task fetch blew up")
	client := &fakeClient{
		fetchTasksFn: func(context.Context, model.RepoRef, int) ([]model.Task, error) {
			return nil, taskErr
		},
	}
	svc := application.NewPRService(client, &fakeLocal{})

	_, err := svc.Comments(context.Background(), repoRef, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, taskErr)
}

func TestPRService_Diff_RejectsNonPositiveID(t *testing.T) {
	client := &fakeClient{}
	svc := application.NewPRService(client, &fakeLocal{})

	_, err := svc.Diff(context.Background(), repoRef, 0)

	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Zero(t, client.calls)
}

func TestPRService_Create_RequiresTitle(t *testing.T) {
	client := &fakeClient{}
	svc := application.NewPRService(client, &fakeLocal{branch: "feature/x", hasBranch: true})

	_, err := svc.Create(context.Background(), repoRef, model.NewPullRequest{Title: "  "})

	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Zero(t, client.calls)
}

func TestPRService_Create_DefaultsSourceToCurrentBranch(t *testing.T) {
	var got model.NewPullRequest
	client := &fakeClient{
		fetchRepositoryFn: func(context.Context, model.RepoRef) (model.Repository, error) {
			return model.Repository{FullName: "myteam/widget", MainBranch: "develop"}, nil
		},
		createPullRequestFn: func(_ context.Context, _ model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
			got = pr
			return model.PullRequest{ID: 30}, nil
		},
	}
	svc := application.NewPRService(client, &fakeLocal{branch: "feature/cache", hasBranch: true})

	_, err := svc.Create(context.Background(), repoRef, model.NewPullRequest{Title: "Add cache"})

	require.NoError(t, err)
	assert.Equal(t, "feature/cache", got.SourceBranch)
	assert.Equal(t, "develop", got.DestinationBranch)
}

func TestPRService_Create_NoSourceAndNoCurrentBranch(t *testing.T) {
	client := &fakeClient{}
	svc := application.NewPRService(client, &fakeLocal{hasBranch: false})

	_, err := svc.Create(context.Background(), repoRef, model.NewPullRequest{Title: "Add cache"})

	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Zero(t, client.calls)
}

func TestPRService_Create_DestinationFallsBackWhenMetadataLookupFails(t *testing.T) {
	var got model.NewPullRequest
	client := &fakeClient{
		fetchRepositoryFn: func(context.Context, model.RepoRef) (model.Repository, error) {
			return model.Repository{}, errors.New("metadata unavailable")
		},
		createPullRequestFn: func(_ context.Context, _ model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
			got = pr
			return model.PullRequest{ID: 31}, nil
		},
	}
	svc := application.NewPRService(client, &fakeLocal{branch: "feature/x", hasBranch: true})

	_, err := svc.Create(context.Background(), repoRef, model.NewPullRequest{Title: "Add cache"})

	require.NoError(t, err, "a failed default-branch lookup must not abort the create")
	assert.Equal(t, application.FallbackDestinationBranch, got.DestinationBranch)
}

func TestPRService_Create_ExplicitBranchesSkipLookups(t *testing.T) {
	var got model.NewPullRequest
	client := &fakeClient{
		fetchRepositoryFn: func(context.Context, model.RepoRef) (model.Repository, error) {
			t.Fatal("explicit destination must not trigger a metadata fetch")
			return model.Repository{}, nil
		},
		createPullRequestFn: func(_ context.Context, _ model.RepoRef, pr model.NewPullRequest) (model.PullRequest, error) {
			got = pr
			return model.PullRequest{ID: 32}, nil
		},
	}
	svc := application.NewPRService(client, &fakeLocal{})

	_, err := svc.Create(context.Background(), repoRef, model.NewPullRequest{
		Title:             "Add cache",
		SourceBranch:      "feature/explicit",
		DestinationBranch: "release/1.2",
	})

	require.NoError(t, err)
	assert.Equal(t, "feature/explicit", got.SourceBranch)
	assert.Equal(t, "release/1.2", got.DestinationBranch)
}

func TestPRService_Raw_RequiresPath(t *testing.T) {
	client := &fakeClient{}
	svc := application.NewPRService(client, &fakeLocal{})

	_, err := svc.Raw(context.Background(), "  ")

	require.ErrorIs(t, err, application.ErrInvalidInput)
	assert.Zero(t, client.calls)
}
