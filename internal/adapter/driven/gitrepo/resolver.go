// Package gitrepo resolves the target repository and branch from the local
// git working copy.
package gitrepo

import (
	"fmt"
	"os/exec"
	"strings"

	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LocalRepo = (*Resolver)(nil)

// Resolver implements the LocalRepo port by shelling out to git in dir.
type Resolver struct {
	dir string
}

// NewResolver creates a Resolver rooted at dir (typically the working
// directory bbpr was invoked from).
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve returns the (workspace, name) pair for the target repository.
// A non-empty override of the form "workspace/name" wins; otherwise the
// origin remote URL is inspected for known bitbucket.org shapes.
func (r *Resolver) Resolve(override string) (model.RepoRef, error) {
	if override != "" {
		ref, ok := parseOverride(override)
		if !ok {
			return model.RepoRef{}, fmt.Errorf("invalid --repo value %q: expected workspace/name", override)
		}
		return ref, nil
	}

	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("could not determine repository: no --repo given and reading the origin remote failed: %w", err)
	}

	ref, ok := ParseRemoteURL(strings.TrimSpace(string(out)))
	if !ok {
		return model.RepoRef{}, fmt.Errorf("could not determine repository: origin remote %q is not a recognized bitbucket.org URL", strings.TrimSpace(string(out)))
	}
	return ref, nil
}

// CurrentBranch returns the checked-out branch name. ok is false outside a
// work tree or on a detached HEAD.
func (r *Resolver) CurrentBranch() (string, bool) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = r.dir
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	branch := strings.TrimSpace(string(out))
	if branch == "" || branch == "HEAD" {
		return "", false
	}
	return branch, true
}

func parseOverride(s string) (model.RepoRef, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.RepoRef{}, false
	}
	return model.RepoRef{Workspace: parts[0], Name: parts[1]}, true
}

// ParseRemoteURL extracts workspace/name from the SSH and HTTPS remote URL
// shapes Bitbucket hands out:
//
//	git@bitbucket.org:workspace/repo.git
//	ssh://git@bitbucket.org/workspace/repo.git
//	https://user@bitbucket.org/workspace/repo.git
func ParseRemoteURL(raw string) (model.RepoRef, bool) {
	var rest string
	switch {
	case strings.HasPrefix(raw, "git@bitbucket.org:"):
		rest = strings.TrimPrefix(raw, "git@bitbucket.org:")
	case strings.HasPrefix(raw, "ssh://"):
		trimmed := strings.TrimPrefix(raw, "ssh://")
		host, path, ok := strings.Cut(trimmed, "/")
		if !ok || !strings.HasSuffix(host, "bitbucket.org") {
			return model.RepoRef{}, false
		}
		rest = path
	case strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "http://"):
		_, trimmed, ok := strings.Cut(raw, "://")
		if !ok {
			return model.RepoRef{}, false
		}
		host, path, ok := strings.Cut(trimmed, "/")
		if !ok {
			return model.RepoRef{}, false
		}
		// Strip optional user@ from the host part.
		if i := strings.LastIndex(host, "@"); i >= 0 {
			host = host[i+1:]
		}
		if host != "bitbucket.org" {
			return model.RepoRef{}, false
		}
		rest = path
	default:
		return model.RepoRef{}, false
	}

	rest = strings.TrimSuffix(strings.TrimSuffix(rest, "/"), ".git")
	return parseOverride(rest)
}
