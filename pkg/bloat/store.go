package bloat

import (
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
)

// Blob is a typed blob read from an ObjectStore.
type Blob interface {
	Size() int64
	Contents() []byte
	Free()
}

// ObjectStore is the object database an Engine scans.
type ObjectStore interface {
	// ForEachObjectID visits every object id; a non-nil error from fn stops
	// the walk and is returned.
	ForEachObjectID(fn func(gitlib.Hash) error) error
	// ReadRawObject reads an object's kind and payload length.
	ReadRawObject(id gitlib.Hash) (gitlib.RawObject, error)
	// ReadBlob reads an object as a typed blob. The caller frees it.
	ReadBlob(id gitlib.Hash) (Blob, error)
	// Close releases the store.
	Close()
}

// gitStore adapts a libgit2 repository and its object database to ObjectStore.
type gitStore struct {
	repo *gitlib.Repository
	odb  *gitlib.ObjectDatabase
}

func openGitStore(root string) (*gitStore, error) {
	repo, err := gitlib.OpenRepository(root)
	if err != nil {
		return nil, err
	}

	odb, err := repo.ObjectDatabase()
	if err != nil {
		repo.Free()

		return nil, err
	}

	return &gitStore{repo: repo, odb: odb}, nil
}

func (s *gitStore) ForEachObjectID(fn func(gitlib.Hash) error) error {
	return s.odb.ForEach(fn)
}

func (s *gitStore) ReadRawObject(id gitlib.Hash) (gitlib.RawObject, error) {
	return s.odb.ReadRaw(id)
}

func (s *gitStore) ReadBlob(id gitlib.Hash) (Blob, error) {
	blob, err := s.repo.LookupBlob(id)
	if err != nil {
		return nil, err
	}

	return blob, nil
}

func (s *gitStore) Close() {
	s.odb.Free()
	s.repo.Free()
}
