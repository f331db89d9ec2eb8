package reporoot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitbloat/pkg/reporoot"
)

// uniqueMarker is a marker name no real ancestor of t.TempDir() will contain.
const uniqueMarker = ".gitbloat-test-marker"

func mkdirs(t *testing.T, parts ...string) string {
	t.Helper()

	dir := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	return dir
}

// physical resolves dir the way Locate reports roots.
func physical(t *testing.T, dir string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	return resolved
}

func TestLocate_FindsAncestor(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	rootA := mkdirs(t, base, "a")
	mkdirs(t, rootA, uniqueMarker)
	start := mkdirs(t, rootA, "b", "c")

	got, err := reporoot.Locate(start, reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, rootA), got)
}

func TestLocate_StartDirIsRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, uniqueMarker)

	got, err := reporoot.Locate(root, reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, root), got)
}

func TestLocate_InnermostWins(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	mkdirs(t, outer, uniqueMarker)
	inner := mkdirs(t, outer, "sub")
	mkdirs(t, inner, uniqueMarker)
	start := mkdirs(t, inner, "deep")

	got, err := reporoot.Locate(start, reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, inner), got)
}

func TestLocate_NotFound(t *testing.T) {
	t.Parallel()

	start := mkdirs(t, t.TempDir(), "x", "y")

	_, err := reporoot.Locate(start, reporoot.WithMarker(uniqueMarker))
	require.ErrorIs(t, err, reporoot.ErrRootNotFound)
	assert.Contains(t, err.Error(), physical(t, start))
}

func TestLocate_MarkerFileAcceptedByDefault(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, uniqueMarker), []byte("gitdir: elsewhere\n"), 0o600))
	start := mkdirs(t, root, "pkg")

	got, err := reporoot.Locate(start, reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, root), got)
}

func TestLocate_StrictDirRejectsMarkerFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, uniqueMarker), nil, 0o600))

	_, err := reporoot.Locate(root, reporoot.WithMarker(uniqueMarker), reporoot.WithStrictDir())
	require.ErrorIs(t, err, reporoot.ErrRootNotFound)
}

func TestLocate_CustomMatcher(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mkdirs(t, root, uniqueMarker)

	never := func(os.DirEntry) bool { return false }

	_, err := reporoot.Locate(root, reporoot.WithMarker(uniqueMarker), reporoot.WithMatcher(never))
	require.ErrorIs(t, err, reporoot.ErrRootNotFound)
}

func TestLocate_MissingStartDir(t *testing.T) {
	t.Parallel()

	_, err := reporoot.Locate(filepath.Join(t.TempDir(), "missing"), reporoot.WithMarker(uniqueMarker))
	require.Error(t, err)
	assert.NotErrorIs(t, err, reporoot.ErrRootNotFound)
}

// symlinkFixture builds base/x/repo/{marker,sub} and base/y/link -> base/x/repo/sub.
func symlinkFixture(t *testing.T) (root, link string) {
	t.Helper()

	base := t.TempDir()
	root = mkdirs(t, base, "x", "repo")
	mkdirs(t, root, uniqueMarker)
	sub := mkdirs(t, root, "sub")
	link = filepath.Join(mkdirs(t, base, "y"), "link")
	require.NoError(t, os.Symlink(sub, link))

	return root, link
}

func TestLocate_FollowsSymlinkedStartDir(t *testing.T) {
	t.Parallel()

	root, link := symlinkFixture(t)

	got, err := reporoot.Locate(link, reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, root), got)
}

func TestLocate_RelativeFromSymlinkedWorkingDir(t *testing.T) {
	root, link := symlinkFixture(t)

	t.Chdir(link)
	t.Setenv("PWD", link)

	got, err := reporoot.Locate(".", reporoot.WithMarker(uniqueMarker))
	require.NoError(t, err)
	assert.Equal(t, physical(t, root), got)
}

func TestLocate_NotFoundNamesResolvedStart(t *testing.T) {
	start := mkdirs(t, t.TempDir(), "empty")

	t.Chdir(start)

	_, err := reporoot.Locate(".", reporoot.WithMarker(uniqueMarker))
	require.ErrorIs(t, err, reporoot.ErrRootNotFound)
	assert.Contains(t, err.Error(), "above "+physical(t, start))
}
