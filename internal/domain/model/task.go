package model

import "time"

// Task represents a trackable review to-do item on a pull request, optionally
// attached to a specific comment. Tasks with a nil CommentID are standalone;
// they count toward the PR-wide task totals but are not rendered under any
// comment.
type Task struct {
	ID        int64
	State     TaskState
	Content   string
	Creator   string
	CommentID *int64
	CreatedAt time.Time
}

// Resolved reports whether the task is in the RESOLVED state.
func (t Task) Resolved() bool {
	return t.State == TaskStateResolved
}
