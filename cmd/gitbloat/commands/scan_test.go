package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitbloat/cmd/gitbloat/commands"
	"github.com/Sumatoshi-tech/gitbloat/pkg/bloat"
	"github.com/Sumatoshi-tech/gitbloat/pkg/config"
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitbloat/pkg/gitlib/gittest"
	"github.com/Sumatoshi-tech/gitbloat/pkg/reporoot"
)

func TestScanCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := commands.NewScanCommand()

	flags := []string{
		"config",
		"path",
		"show",
		"format",
		"detector",
		"marker",
		"strict-marker",
		"no-color",
		"metrics-file",
	}

	for _, flagName := range flags {
		t.Run(flagName, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(flagName)
			require.NotNil(t, flag, "flag --%s should be registered", flagName)
		})
	}
}

func TestScanCommand_ShowDefault(t *testing.T) {
	t.Parallel()

	cmd := commands.NewScanCommand()

	val, err := cmd.Flags().GetInt("show")
	require.NoError(t, err)
	assert.Equal(t, 100, val)
}

// fixtureRepo writes three blobs and one tree, returning the repo and a
// subdirectory to start from.
func fixtureRepo(t *testing.T) (*gittest.Repo, map[string]gitlib.Hash, string) {
	t.Helper()

	repo := gittest.NewRepo(t)
	ids := map[string]gitlib.Hash{
		"small":  repo.WriteBlob(bytes.Repeat([]byte("s"), 10)),
		"large":  repo.WriteBlob(append(bytes.Repeat([]byte("L"), 999), 0)),
		"medium": repo.WriteBlob(bytes.Repeat([]byte("m"), 500)),
	}
	repo.WriteTree(map[string]gitlib.Hash{"small.txt": ids["small"], "medium.txt": ids["medium"]})

	sub := filepath.Join(repo.Path, "src", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	return repo, ids, sub
}

func runScan(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewScanCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestScanCommand_Text(t *testing.T) {
	t.Parallel()

	_, ids, sub := fixtureRepo(t)

	out, err := runScan(t, "--path", sub, "--show", "2", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "Found 3 blobs and 1 trees taking 1.5 KiB\n")
	assert.Contains(t, out, "Here are 2 largest objects:\n")
	assert.Contains(t, out, ids["large"].String())
	assert.Contains(t, out, ids["medium"].String())
	assert.NotContains(t, out, ids["small"].String())
}

func TestScanCommand_JSONPositionalPath(t *testing.T) {
	t.Parallel()

	repo, ids, sub := fixtureRepo(t)

	out, err := runScan(t, sub, "--format", "json", "--detector", "nul")
	require.NoError(t, err)

	var rep struct {
		Root    string      `json:"root"`
		Stats   bloat.Stats `json:"stats"`
		Objects []struct {
			ID    string `json:"id"`
			Size  int64  `json:"size"`
			Class string `json:"class"`
		} `json:"objects"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	wantRoot, err := filepath.EvalSymlinks(repo.Path)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, rep.Root)
	assert.Equal(t, bloat.Stats{Blobs: 3, Trees: 1, BlobBytes: 1510}, rep.Stats)

	require.Len(t, rep.Objects, 3)
	assert.Equal(t, ids["large"].String(), rep.Objects[0].ID)
	assert.Equal(t, "binary", rep.Objects[0].Class)
	assert.Equal(t, int64(500), rep.Objects[1].Size)
	assert.Equal(t, "text", rep.Objects[2].Class)
}

func TestScanCommand_ConfigFile(t *testing.T) {
	t.Parallel()

	_, _, sub := fixtureRepo(t)

	cfgPath := filepath.Join(t.TempDir(), "gitbloat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scan:\n  show: 1\noutput:\n  format: yaml\n"), 0o600))

	out, err := runScan(t, "--config", cfgPath, "--path", sub)
	require.NoError(t, err)

	assert.Contains(t, out, "show: 1\n")
	assert.Contains(t, out, "rank: 1\n")
	assert.NotContains(t, out, "rank: 2\n")
}

func TestScanCommand_MetricsFile(t *testing.T) {
	t.Parallel()

	_, _, sub := fixtureRepo(t)
	metricsPath := filepath.Join(t.TempDir(), "gitbloat.prom")

	_, err := runScan(t, "--path", sub, "--format", "json", "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gitbloat_scan_objects")
}

func TestScanCommand_RootNotFound(t *testing.T) {
	t.Parallel()

	_, err := runScan(t, "--path", t.TempDir(), "--marker", ".gitbloat-absent-marker")
	require.ErrorIs(t, err, reporoot.ErrRootNotFound)
}

func TestScanCommand_StoreOpenFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	_, err := runScan(t, "--path", dir)
	require.ErrorIs(t, err, bloat.ErrStoreOpen)
}

func TestScanCommand_InvalidFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"show", []string{"--show", "0"}, config.ErrInvalidShow},
		{"format", []string{"--format", "xml"}, config.ErrInvalidFormat},
		{"detector", []string{"--detector", "magic"}, config.ErrInvalidDetector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := runScan(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScanCommand_FlagOverridesInvalidConfigValue(t *testing.T) {
	t.Parallel()

	_, _, sub := fixtureRepo(t)

	cfgPath := filepath.Join(t.TempDir(), "gitbloat.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scan:\n  show: 0\n"), 0o600))

	_, err := runScan(t, "--config", cfgPath, "--path", sub)
	require.ErrorIs(t, err, config.ErrInvalidShow)

	out, err := runScan(t, "--config", cfgPath, "--path", sub, "--show", "1", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Here are 1 largest objects:\n")
}
