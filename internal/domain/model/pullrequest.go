package model

import "time"

// Reviewer is a pull request participant in the reviewer role.
type Reviewer struct {
	Name     string
	Approved bool
}

// PullRequest represents a Bitbucket pull request.
type PullRequest struct {
	ID                int
	Title             string
	State             PRState
	Author            string
	SourceBranch      string
	DestinationBranch string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	CommentCount      int
	TaskCount         int
	URL               string
	Reviewers         []Reviewer
}

// ApprovalCount returns the number of reviewers who have approved.
func (pr PullRequest) ApprovalCount() int {
	n := 0
	for _, r := range pr.Reviewers {
		if r.Approved {
			n++
		}
	}
	return n
}

// NewPullRequest describes a pull request to be created. DestinationBranch
// may be empty; the orchestrator resolves it from repository metadata.
type NewPullRequest struct {
	Title             string
	Description       string
	SourceBranch      string
	DestinationBranch string
}
