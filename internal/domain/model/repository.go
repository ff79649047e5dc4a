package model

import "fmt"

// RepoRef identifies a repository as a (workspace, name) pair. It is derived
// from an explicit --repo override or from the local git remote, never
// persisted.
type RepoRef struct {
	Workspace string
	Name      string
}

// FullName returns the "workspace/name" form used in API paths.
func (r RepoRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Workspace, r.Name)
}

// Repository holds the repository metadata bbpr cares about.
type Repository struct {
	FullName   string
	MainBranch string // Configured default branch; empty when the server reports none.
}

// User is the authenticated Bitbucket user.
type User struct {
	Username    string
	DisplayName string
}
