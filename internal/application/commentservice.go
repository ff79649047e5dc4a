package application

import (
	"context"
	"fmt"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// CommentService orchestrates comment mutations.
type CommentService struct {
	client driven.BitbucketClient
}

func NewCommentService(client driven.BitbucketClient) *CommentService {
	return &CommentService{client: client}
}

// Add posts a comment on the PR: top-level by default, a reply when ParentID
// is set, inline when Path is set. Replies and inline anchors are mutually
// exclusive, matching what the API accepts.
func (s *CommentService) Add(ctx context.Context, repo model.RepoRef, prID int64, nc driven.NewComment) (model.Comment, error) {
	if err := requirePositive("PR", prID); err != nil {
		return model.Comment{}, err
	}
	if err := requireText("message", nc.Body); err != nil {
		return model.Comment{}, err
	}
	if nc.ParentID != nil {
		if err := requirePositive("comment", *nc.ParentID); err != nil {
			return model.Comment{}, err
		}
		if nc.Path != "" {
			return model.Comment{}, fmt.Errorf("%w: a reply cannot also carry a file location", ErrInvalidInput)
		}
	}
	if nc.Line > 0 && nc.Path == "" {
		return model.Comment{}, fmt.Errorf("%w: --line requires --file", ErrInvalidInput)
	}

	return s.client.AddComment(ctx, repo, int(prID), nc)
}

// SetResolved resolves (true) or reopens (false) a comment thread and
// returns the comment state the server reports after the call.
func (s *CommentService) SetResolved(ctx context.Context, repo model.RepoRef, prID, commentID int64, resolved bool) (model.Comment, error) {
	if err := requirePositive("PR", prID); err != nil {
		return model.Comment{}, err
	}
	if err := requirePositive("comment", commentID); err != nil {
		return model.Comment{}, err
	}
	return s.client.SetCommentResolved(ctx, repo, int(prID), commentID, resolved)
}
