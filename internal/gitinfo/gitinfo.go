// Package gitinfo resolves the source commit of staged assets so run records
// and notifications can be traced back to a build.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// HeadCommit returns the HEAD commit hash of the repository containing dir.
// The repository is detected by walking up from dir, matching git's own
// discovery behavior.
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// ResolveCommit is the best-effort variant of HeadCommit: staged assets often
// live outside any repository, so absence of one is not an error. Returns ""
// when no commit can be resolved.
func ResolveCommit(dir string) string {
	commit, err := HeadCommit(dir)
	if err != nil {
		return ""
	}
	return commit
}
