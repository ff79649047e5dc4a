package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"bbpr/internal/application"
	"bbpr/internal/domain/model"
)

const indentStep = "    "

// renderPRList formats pull requests one per line with humanized ages.
func renderPRList(prs []model.PullRequest) string {
	if len(prs) == 0 {
		return "no pull requests"
	}

	var b strings.Builder
	for i, pr := range prs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%-5d %-9s %s", pr.ID, pr.State, pr.Title)
		fmt.Fprintf(&b, "  (%s → %s, %s, updated %s)",
			pr.SourceBranch, pr.DestinationBranch, pr.Author, humanize.Time(pr.UpdatedAt))
	}
	return b.String()
}

// renderPR formats a single pull request in full.
func renderPR(pr model.PullRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", pr.ID, pr.Title)
	fmt.Fprintf(&b, "State:    %s\n", pr.State)
	fmt.Fprintf(&b, "Author:   %s\n", pr.Author)
	fmt.Fprintf(&b, "Branches: %s → %s\n", pr.SourceBranch, pr.DestinationBranch)
	fmt.Fprintf(&b, "Created:  %s (%s)\n", humanize.Time(pr.CreatedAt), absolute(pr.CreatedAt))
	fmt.Fprintf(&b, "Updated:  %s (%s)\n", humanize.Time(pr.UpdatedAt), absolute(pr.UpdatedAt))
	fmt.Fprintf(&b, "Comments: %d, tasks: %d\n", pr.CommentCount, pr.TaskCount)

	if len(pr.Reviewers) > 0 {
		b.WriteString("Reviewers:\n")
		for _, r := range pr.Reviewers {
			mark := " "
			if r.Approved {
				mark = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s\n", mark, r.Name)
		}
	}
	if pr.URL != "" {
		fmt.Fprintf(&b, "URL: %s", pr.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTranscript formats the threaded conversation: a summary line, then
// one block per comment in depth-first order, replies indented under their
// parents, tasks nested under their comments.
func renderTranscript(tr application.Transcript) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d comments (%d resolved, %d unresolved)",
		tr.TotalComments, tr.ResolvedComments, tr.UnresolvedComments)
	if tr.TotalTasks > 0 {
		fmt.Fprintf(&b, " · %d/%d tasks resolved", tr.ResolvedTasks, tr.TotalTasks)
	}
	b.WriteByte('\n')

	for _, e := range tr.Entries {
		b.WriteByte('\n')
		writeCommentBlock(&b, e)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeCommentBlock(b *strings.Builder, e application.TranscriptEntry) {
	indent := strings.Repeat(indentStep, e.Depth)
	c := e.Comment

	fmt.Fprintf(b, "%s#%d %s · %s (%s)", indent, c.ID, c.Author, humanize.Time(c.CreatedAt), absolute(c.CreatedAt))
	if c.Resolved {
		b.WriteString(" [RESOLVED]")
	}
	if c.Inline() {
		fmt.Fprintf(b, " %s:%d", c.Path, c.Line)
	}
	b.WriteByte('\n')

	for _, line := range strings.Split(c.Body, "\n") {
		fmt.Fprintf(b, "%s  %s\n", indent, line)
	}

	for _, t := range e.Tasks {
		mark := " "
		if t.Resolved() {
			mark = "x"
		}
		fmt.Fprintf(b, "%s  [%s] #%d %s\n", indent, mark, t.ID, t.Content)
	}
}

// renderComment formats a single comment, used after add/resolve/unresolve.
func renderComment(c model.Comment) string {
	status := "unresolved"
	if c.Resolved {
		status = "resolved"
	}
	location := ""
	if c.Inline() {
		location = fmt.Sprintf(" at %s:%d", c.Path, c.Line)
	}
	parent := ""
	if c.ParentID != nil {
		parent = fmt.Sprintf(" (reply to #%d)", *c.ParentID)
	}
	return fmt.Sprintf("comment #%d by %s%s%s [%s]\n  %s", c.ID, c.Author, location, parent, status, c.Body)
}

// renderTask formats a single task, used after resolve/unresolve.
func renderTask(t model.Task) string {
	mark := " "
	if t.Resolved() {
		mark = "x"
	}
	attached := ""
	if t.CommentID != nil {
		attached = fmt.Sprintf(" (on comment #%d)", *t.CommentID)
	}
	return fmt.Sprintf("[%s] task #%d%s: %s", mark, t.ID, attached, t.Content)
}

func absolute(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
