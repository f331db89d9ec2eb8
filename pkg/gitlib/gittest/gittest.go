// Package gittest builds throwaway libgit2 repositories for tests.
package gittest

import (
	"testing"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
)

// Repo is a bare-bones repository initialized in a temp dir.
type Repo struct {
	t      *testing.T
	Path   string
	native *git2go.Repository
}

// NewRepo initializes a non-bare repository under t.TempDir().
// The native handle is freed on test cleanup.
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &Repo{t: t, Path: dir, native: repo}
}

// WriteBlob stores data as a loose blob object. Nothing references it.
func (r *Repo) WriteBlob(data []byte) gitlib.Hash {
	r.t.Helper()

	oid, err := r.native.CreateBlobFromBuffer(data)
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}

// WriteTree stores a flat tree mapping names to blob ids.
func (r *Repo) WriteTree(entries map[string]gitlib.Hash) gitlib.Hash {
	r.t.Helper()

	builder, err := r.native.TreeBuilder()
	require.NoError(r.t, err)

	defer builder.Free()

	for name, id := range entries {
		require.NoError(r.t, builder.Insert(name, id.ToOid(), git2go.FilemodeBlob))
	}

	oid, err := builder.Write()
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}

// WriteObject stores a raw object of the given libgit2 type.
func (r *Repo) WriteObject(data []byte, kind git2go.ObjectType) gitlib.Hash {
	r.t.Helper()

	odb, err := r.native.Odb()
	require.NoError(r.t, err)

	defer odb.Free()

	oid, err := odb.Write(data, kind)
	require.NoError(r.t, err)

	return gitlib.HashFromOid(oid)
}
