package gitlib_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib/gittest"
)

var errStop = errors.New("stop")

func openTestRepo(t *testing.T, path string) *gitlib.Repository {
	t.Helper()

	repo, err := gitlib.OpenRepository(path)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return repo
}

func openTestODB(t *testing.T, repo *gitlib.Repository) *gitlib.ObjectDatabase {
	t.Helper()

	odb, err := repo.ObjectDatabase()
	require.NoError(t, err)

	t.Cleanup(odb.Free)

	return odb
}

// Repository Tests.

func TestOpenRepository(t *testing.T) {
	fixture := gittest.NewRepo(t)

	repo := openTestRepo(t, fixture.Path)

	odb, err := repo.ObjectDatabase()
	require.NoError(t, err)
	odb.Free()
}

func TestOpenRepositoryMissing(t *testing.T) {
	_, err := gitlib.OpenRepository(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open repository")
}

func TestRepositoryFreeTwice(t *testing.T) {
	fixture := gittest.NewRepo(t)

	repo, err := gitlib.OpenRepository(fixture.Path)
	require.NoError(t, err)

	repo.Free()
	repo.Free()
}

// Object Database Tests.

func TestObjectDatabaseForEach(t *testing.T) {
	fixture := gittest.NewRepo(t)
	small := fixture.WriteBlob([]byte("small"))
	large := fixture.WriteBlob(bytes.Repeat([]byte("x"), 4096))
	tree := fixture.WriteTree(map[string]gitlib.Hash{"small.txt": small, "large.txt": large})

	odb := openTestODB(t, openTestRepo(t, fixture.Path))

	seen := make(map[gitlib.Hash]bool)

	err := odb.ForEach(func(id gitlib.Hash) error {
		seen[id] = true

		return nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 3)
	assert.True(t, seen[small])
	assert.True(t, seen[large])
	assert.True(t, seen[tree])
}

func TestObjectDatabaseForEachStops(t *testing.T) {
	fixture := gittest.NewRepo(t)
	fixture.WriteBlob([]byte("one"))
	fixture.WriteBlob([]byte("two"))

	odb := openTestODB(t, openTestRepo(t, fixture.Path))

	calls := 0

	err := odb.ForEach(func(gitlib.Hash) error {
		calls++

		return errStop
	})

	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)
}

func TestObjectDatabaseReadRaw(t *testing.T) {
	fixture := gittest.NewRepo(t)
	blob := fixture.WriteBlob([]byte("hello world"))
	tree := fixture.WriteTree(map[string]gitlib.Hash{"hello.txt": blob})

	odb := openTestODB(t, openTestRepo(t, fixture.Path))

	raw, err := odb.ReadRaw(blob)
	require.NoError(t, err)
	assert.Equal(t, gitlib.KindBlob, raw.Kind)
	assert.Equal(t, int64(11), raw.Size)

	raw, err = odb.ReadRaw(tree)
	require.NoError(t, err)
	assert.Equal(t, gitlib.KindTree, raw.Kind)
	assert.Positive(t, raw.Size)
}

func TestObjectDatabaseReadRawMissing(t *testing.T) {
	fixture := gittest.NewRepo(t)

	odb := openTestODB(t, openTestRepo(t, fixture.Path))

	_, err := odb.ReadRaw(gitlib.NewHash("0123456789abcdef0123456789abcdef01234567"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read object")
}

// Blob Tests.

func TestLookupBlob(t *testing.T) {
	fixture := gittest.NewRepo(t)
	id := fixture.WriteBlob([]byte("test content"))

	repo := openTestRepo(t, fixture.Path)

	blob, err := repo.LookupBlob(id)
	require.NoError(t, err)

	defer blob.Free()

	assert.Equal(t, int64(12), blob.Size())
	assert.Equal(t, []byte("test content"), blob.Contents())
}

func TestLookupBlobWrongKind(t *testing.T) {
	fixture := gittest.NewRepo(t)
	tree := fixture.WriteTree(map[string]gitlib.Hash{"a.txt": fixture.WriteBlob([]byte("a"))})

	repo := openTestRepo(t, fixture.Path)

	_, err := repo.LookupBlob(tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), tree.String())
}

func TestBlobFreeTwice(t *testing.T) {
	fixture := gittest.NewRepo(t)
	id := fixture.WriteBlob([]byte("data"))

	blob, err := openTestRepo(t, fixture.Path).LookupBlob(id)
	require.NoError(t, err)

	blob.Free()
	blob.Free()
}

func TestObjectKindString(t *testing.T) {
	assert.Equal(t, "commit", gitlib.KindCommit.String())
	assert.Equal(t, "tree", gitlib.KindTree.String())
	assert.Equal(t, "blob", gitlib.KindBlob.String())
	assert.Equal(t, "tag", gitlib.KindTag.String())
	assert.Equal(t, "other", gitlib.KindOther.String())
	assert.Equal(t, "other", gitlib.ObjectKind(42).String())
}
