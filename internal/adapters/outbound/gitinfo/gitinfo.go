// Package gitinfo reports the source revision a build is running from.
package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision implements domain.RevisionSource using go-git. The repository is
// found by walking up from the given path.
type Revision struct{}

func New() *Revision {
	return &Revision{}
}

func (r *Revision) CommitHash(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// Short abbreviates a commit hash for display. Hashes that are already short
// are returned unchanged.
func Short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
