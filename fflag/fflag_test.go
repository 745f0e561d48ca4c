package fflag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEnabled_Defaults(t *testing.T) {
	t.Parallel()
	f, err := NewFFlag("")
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, f.IsEnabled(ParallelSpaceFetch, "a"))
	assert.True(t, f.IsEnabled(IncludeTaskNames, "a"))
	assert.False(t, f.IsEnabled("unknown-flag", "a"))

	var nilFlags *FFlag
	assert.True(t, nilFlags.IsEnabled(IncludeTaskNames, ""))
}

func TestIsEnabled_FromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "flags.yml")
	flags := `parallel-space-fetch:
  variations:
    enabled: true
    disabled: false
  defaultRule:
    variation: disabled
`
	require.NoError(t, os.WriteFile(path, []byte(flags), 0o644))

	f, err := NewFFlag(path)
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, f.IsEnabled(ParallelSpaceFetch, "analysis-1"))
	// not present in the file
	assert.True(t, f.IsEnabled(IncludeTaskNames, "analysis-1"))
}

func TestNewFFlag_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewFFlag(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
