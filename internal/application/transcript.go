package application

import "bbpr/internal/domain/model"

// TranscriptEntry is one comment in the flattened depth-first transcript,
// carrying its nesting depth and attached tasks.
type TranscriptEntry struct {
	Comment model.Comment
	Depth   int
	Tasks   []model.Task
}

// Transcript is the aggregate view of a PR's conversation: counts plus the
// depth-first ordered entries. Task totals span the whole PR, including
// standalone tasks that are attached to no comment.
type Transcript struct {
	TotalComments      int
	ResolvedComments   int
	UnresolvedComments int
	TotalTasks         int
	ResolvedTasks      int
	Entries            []TranscriptEntry
}

// BuildTranscript turns a flat comment list and a flat task list into a
// depth-first transcript.
//
// The parent→children grouping is computed over every fetched comment,
// including soft-deleted ones, so that replies to a deleted comment keep
// their position in the thread. Deleted comments are then dropped at
// emission and excluded from all counts. A comment whose parent id does not
// appear in the fetched set is never reached by the traversal and silently
// drops out of the transcript.
func BuildTranscript(comments []model.Comment, tasks []model.Task) Transcript {
	children := make(map[int64][]model.Comment)
	var roots []model.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	tasksByComment := make(map[int64][]model.Task)
	for _, t := range tasks {
		if t.CommentID != nil {
			tasksByComment[*t.CommentID] = append(tasksByComment[*t.CommentID], t)
		}
	}

	tr := Transcript{}

	for _, t := range tasks {
		tr.TotalTasks++
		if t.Resolved() {
			tr.ResolvedTasks++
		}
	}

	var walk func(c model.Comment, depth int)
	walk = func(c model.Comment, depth int) {
		if !c.Deleted {
			tr.TotalComments++
			if c.Resolved {
				tr.ResolvedComments++
			}
			tr.Entries = append(tr.Entries, TranscriptEntry{
				Comment: c,
				Depth:   depth,
				Tasks:   tasksByComment[c.ID],
			})
		}
		for _, child := range children[c.ID] {
			walk(child, depth+1)
		}
	}

	for _, root := range roots {
		walk(root, 0)
	}

	tr.UnresolvedComments = tr.TotalComments - tr.ResolvedComments
	return tr
}
