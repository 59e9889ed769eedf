package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo implements domain.GitInfo using go-git. Repositories are located from
// any subdirectory of the work tree.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

func open(projectPath string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(projectPath, &git.PlainOpenOptions{DetectDotGit: true})
}

func (r *Repo) IsGitRepo(projectPath string) bool {
	_, err := open(projectPath)
	return err == nil
}

func (r *Repo) CommitHash(projectPath string) (string, error) {
	repo, err := open(projectPath)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// HasRevision reports whether rev (a branch, remote ref, tag or hash) resolves.
func (r *Repo) HasRevision(projectPath, rev string) bool {
	repo, err := open(projectPath)
	if err != nil {
		return false
	}
	_, err = repo.ResolveRevision(plumbing.Revision(rev))
	return err == nil
}
