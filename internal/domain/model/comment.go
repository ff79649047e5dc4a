package model

import "time"

// Comment represents a single pull request comment. Comments form a forest
// via ParentID references; root comments have a nil ParentID.
type Comment struct {
	ID        int64
	ParentID  *int64
	Author    string
	Body      string
	CreatedAt time.Time
	Path      string // File path for inline comments; empty for PR-level comments.
	Line      int    // 1-based line for inline comments; 0 when not anchored.
	Resolved  bool
	Deleted   bool // Soft-deleted comments are excluded from rendering but keep their position in the tree.
}

// Inline reports whether the comment is anchored to a file location.
func (c Comment) Inline() bool {
	return c.Path != ""
}
