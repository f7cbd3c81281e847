package pfconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
heuristic_weight: 1.5
cluster_size: 64
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.HeuristicWeight)
	assert.Equal(t, 64, cfg.ClusterSize)
	// untouched fields keep their default value.
	assert.Equal(t, Default().MaxIterations, cfg.MaxIterations)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
