package cli

import (
	"time"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
)

// Structured output shapes. The transcript is deliberately flat: each
// comment record carries its own parent id so a consumer can rebuild the
// forest; nesting exists only in the text rendering.

type reviewerView struct {
	Name     string `json:"name"`
	Approved bool   `json:"approved"`
}

type prView struct {
	ID                int            `json:"id"`
	Title             string         `json:"title"`
	State             string         `json:"state"`
	Author            string         `json:"author"`
	SourceBranch      string         `json:"source_branch"`
	DestinationBranch string         `json:"destination_branch"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
	CommentCount      int            `json:"comment_count"`
	TaskCount         int            `json:"task_count"`
	URL               string         `json:"url,omitempty"`
	Reviewers         []reviewerView `json:"reviewers"`
}

type taskView struct {
	ID        int64  `json:"id"`
	State     string `json:"state"`
	Content   string `json:"content"`
	Creator   string `json:"creator"`
	CommentID *int64 `json:"comment_id,omitempty"`
}

type commentView struct {
	ID        int64      `json:"id"`
	ParentID  *int64     `json:"parent_id"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	CreatedAt string     `json:"created_at"`
	Path      string     `json:"path,omitempty"`
	Line      int        `json:"line,omitempty"`
	Resolved  bool       `json:"resolved"`
	Tasks     []taskView `json:"tasks"`
}

type transcriptView struct {
	TotalComments      int           `json:"total_comments"`
	ResolvedComments   int           `json:"resolved_comments"`
	UnresolvedComments int           `json:"unresolved_comments"`
	TotalTasks         int           `json:"total_tasks"`
	ResolvedTasks      int           `json:"resolved_tasks"`
	Comments           []commentView `json:"comments"`
}

type userView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Source      string `json:"source,omitempty"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toPRView(pr model.PullRequest) prView {
	reviewers := make([]reviewerView, 0, len(pr.Reviewers))
	for _, r := range pr.Reviewers {
		reviewers = append(reviewers, reviewerView{Name: r.Name, Approved: r.Approved})
	}

	return prView{
		ID:                pr.ID,
		Title:             pr.Title,
		State:             string(pr.State),
		Author:            pr.Author,
		SourceBranch:      pr.SourceBranch,
		DestinationBranch: pr.DestinationBranch,
		CreatedAt:         formatTimestamp(pr.CreatedAt),
		UpdatedAt:         formatTimestamp(pr.UpdatedAt),
		CommentCount:      pr.CommentCount,
		TaskCount:         pr.TaskCount,
		URL:               pr.URL,
		Reviewers:         reviewers,
	}
}

func toPRViews(prs []model.PullRequest) []prView {
	views := make([]prView, 0, len(prs))
	for _, pr := range prs {
		views = append(views, toPRView(pr))
	}
	return views
}

func toTaskView(t model.Task) taskView {
	return taskView{
		ID:        t.ID,
		State:     string(t.State),
		Content:   t.Content,
		Creator:   t.Creator,
		CommentID: t.CommentID,
	}
}

func toCommentView(c model.Comment, tasks []model.Task) commentView {
	taskViews := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		taskViews = append(taskViews, toTaskView(t))
	}

	return commentView{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Author:    c.Author,
		Body:      c.Body,
		CreatedAt: formatTimestamp(c.CreatedAt),
		Path:      c.Path,
		Line:      c.Line,
		Resolved:  c.Resolved,
		Tasks:     taskViews,
	}
}

func toTranscriptView(tr application.Transcript) transcriptView {
	comments := make([]commentView, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		comments = append(comments, toCommentView(e.Comment, e.Tasks))
	}

	return transcriptView{
		TotalComments:      tr.TotalComments,
		ResolvedComments:   tr.ResolvedComments,
		UnresolvedComments: tr.UnresolvedComments,
		TotalTasks:         tr.TotalTasks,
		ResolvedTasks:      tr.ResolvedTasks,
		Comments:           comments,
	}
}

func toUserView(u model.User, source string) userView {
	return userView{Username: u.Username, DisplayName: u.DisplayName, Source: source}
}
