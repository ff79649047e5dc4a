package application

import (
	"context"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// TaskService orchestrates task state changes.
type TaskService struct {
	client driven.BitbucketClient
}

func NewTaskService(client driven.BitbucketClient) *TaskService {
	return &TaskService{client: client}
}

// SetState moves a task to the given state and returns the task the server
// reports after the call.
func (s *TaskService) SetState(ctx context.Context, repo model.RepoRef, prID, taskID int64, state model.TaskState) (model.Task, error) {
	if err := requirePositive("PR", prID); err != nil {
		return model.Task{}, err
	}
	if err := requirePositive("task", taskID); err != nil {
		return model.Task{}, err
	}
	return s.client.SetTaskState(ctx, repo, int(prID), taskID, state)
}
