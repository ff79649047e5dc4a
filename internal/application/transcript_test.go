package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
)

func ptr(id int64) *int64 { return &id }

func mkComment(id int64, parent *int64, author, body string) model.Comment {
	return model.Comment{
		ID:        id,
		ParentID:  parent,
		Author:    author,
		Body:      body,
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

func TestBuildTranscript_DepthFirstOrder(t *testing.T) {
	// Fetch order 1,2,3,4 where 2 and 3 reply to 1, and 4 replies to 2.
	// Depth-first with original-order siblings: the whole subtree under 2
	// comes before its sibling 3.
	comments := []model.Comment{
		mkComment(1, nil, "alice", "root"),
		mkComment(2, ptr(1), "bob", "first reply"),
		mkComment(3, ptr(1), "carol", "second reply"),
		mkComment(4, ptr(2), "dave", "reply to the first reply"),
	}

	tr := application.BuildTranscript(comments, nil)

	require.Len(t, tr.Entries, 4)

	ids := make([]int64, 0, len(tr.Entries))
	depths := make([]int, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		ids = append(ids, e.Comment.ID)
		depths = append(depths, e.Depth)
	}
	assert.Equal(t, []int64{1, 2, 4, 3}, ids)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)

	assert.Equal(t, 4, tr.TotalComments)
	assert.Equal(t, 0, tr.ResolvedComments)
	assert.Equal(t, 4, tr.UnresolvedComments)
}

func TestBuildTranscript_NestedReplies(t *testing.T) {
	comments := []model.Comment{
		mkComment(1, nil, "alice", "root"),
		mkComment(2, ptr(1), "bob", "reply"),
		mkComment(3, ptr(2), "carol", "reply to reply"),
	}

	tr := application.BuildTranscript(comments, nil)

	require.Len(t, tr.Entries, 3)
	assert.Equal(t, 0, tr.Entries[0].Depth)
	assert.Equal(t, 1, tr.Entries[1].Depth)
	assert.Equal(t, 2, tr.Entries[2].Depth)
}

func TestBuildTranscript_DeletedCommentHiddenButKeepsChildrenPlaced(t *testing.T) {
	deleted := mkComment(2, ptr(1), "bob", "withdrawn")
	deleted.Deleted = true

	comments := []model.Comment{
		mkComment(1, nil, "alice", "root"),
		deleted,
		mkComment(3, ptr(2), "carol", "reply to the deleted one"),
	}

	tr := application.BuildTranscript(comments, nil)

	require.Len(t, tr.Entries, 2)
	assert.Equal(t, int64(1), tr.Entries[0].Comment.ID)
	assert.Equal(t, int64(3), tr.Entries[1].Comment.ID)
	// The reply keeps the depth it would have had under its deleted parent.
	assert.Equal(t, 2, tr.Entries[1].Depth)

	assert.Equal(t, 2, tr.TotalComments)
}

func TestBuildTranscript_ResolvedCountsIgnoreDeleted(t *testing.T) {
	comments := make([]model.Comment, 0, 6)
	for i := int64(1); i <= 5; i++ {
		c := mkComment(i, nil, "alice", "thread")
		c.Resolved = i <= 2
		comments = append(comments, c)
	}
	gone := mkComment(6, nil, "bob", "withdrawn")
	gone.Deleted = true
	gone.Resolved = true
	comments = append(comments, gone)

	tr := application.BuildTranscript(comments, nil)

	assert.Equal(t, 5, tr.TotalComments)
	assert.Equal(t, 2, tr.ResolvedComments)
	assert.Equal(t, 3, tr.UnresolvedComments)
	assert.Len(t, tr.Entries, 5)
}

func TestBuildTranscript_OrphanedReplyDropped(t *testing.T) {
	comments := []model.Comment{
		mkComment(1, nil, "alice", "root"),
		mkComment(2, ptr(999), "bob", "reply to a comment outside the fetched set"),
	}

	tr := application.BuildTranscript(comments, nil)

	require.Len(t, tr.Entries, 1)
	assert.Equal(t, int64(1), tr.Entries[0].Comment.ID)
	assert.Equal(t, 1, tr.TotalComments)
}

func TestBuildTranscript_TasksAttachedToComments(t *testing.T) {
	comments := []model.Comment{
		mkComment(1, nil, "alice", "please fix"),
		mkComment(2, nil, "bob", "unrelated"),
	}
	tasks := []model.Task{
		{ID: 10, State: model.TaskStateUnresolved, Content: "add test", CommentID: ptr(1)},
		{ID: 11, State: model.TaskStateResolved, Content: "rename var", CommentID: ptr(1)},
		{ID: 12, State: model.TaskStateResolved, Content: "standalone chore"},
	}

	tr := application.BuildTranscript(comments, tasks)

	require.Len(t, tr.Entries, 2)
	require.Len(t, tr.Entries[0].Tasks, 2)
	assert.Equal(t, int64(10), tr.Entries[0].Tasks[0].ID)
	assert.Equal(t, int64(11), tr.Entries[0].Tasks[1].ID)
	assert.Empty(t, tr.Entries[1].Tasks)

	// Standalone tasks count toward totals even though no entry renders them.
	assert.Equal(t, 3, tr.TotalTasks)
	assert.Equal(t, 2, tr.ResolvedTasks)
}

func TestBuildTranscript_Empty(t *testing.T) {
	tr := application.BuildTranscript(nil, nil)

	assert.Empty(t, tr.Entries)
	assert.Zero(t, tr.TotalComments)
	assert.Zero(t, tr.TotalTasks)
}
