package driven

import "bbpr/internal/domain/model"

// LocalRepo defines the driven port for inspecting the local git working
// copy. Implementations shell out to git; failures surface as caller-facing
// "could not determine repository" outcomes.
type LocalRepo interface {
	// Resolve returns the (workspace, name) pair for the repository. When
	// override is non-empty it is parsed as "workspace/name"; otherwise the
	// origin remote URL is inspected.
	Resolve(override string) (model.RepoRef, error)

	// CurrentBranch returns the checked-out branch name, used as the default
	// PR source branch. ok is false when no branch can be determined.
	CurrentBranch() (name string, ok bool)
}
