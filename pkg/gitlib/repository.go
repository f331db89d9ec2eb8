package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo}, nil
}

// Free releases the repository resources. Safe to call more than once.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ObjectDatabase returns the low-level object database of the repository.
// The caller owns the result and must Free it.
func (r *Repository) ObjectDatabase() (*ObjectDatabase, error) {
	odb, err := r.repo.Odb()
	if err != nil {
		return nil, fmt.Errorf("open object database: %w", err)
	}

	return &ObjectDatabase{odb: odb}, nil
}

// LookupBlob reads the object with the given hash as a typed blob.
func (r *Repository) LookupBlob(hash Hash) (*Blob, error) {
	blob, err := r.repo.LookupBlob(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup blob %s: %w", hash, err)
	}

	return &Blob{blob: blob}, nil
}
