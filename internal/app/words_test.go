package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWordLists(t *testing.T) {
	lists := DefaultWordLists()

	assert.NotEmpty(t, lists.Prefixes)
	assert.NotEmpty(t, lists.Suffixes)
	for _, w := range append(lists.Prefixes, lists.Suffixes...) {
		assert.NotEmpty(t, w)
	}
}

func TestLoadWordLists_FromFiles(t *testing.T) {
	dir := t.TempDir()
	prefixes := filepath.Join(dir, "prefixes.txt")
	require.NoError(t, os.WriteFile(prefixes, []byte("over\n\n  under \r\nout\n"), 0o600))

	lists := LoadWordLists(prefixes, "", discardLogger())

	assert.Equal(t, []string{"over", "under", "out"}, lists.Prefixes)
	assert.Equal(t, DefaultWordLists().Suffixes, lists.Suffixes)
}

func TestLoadWordLists_MissingFileDegradesToEmpty(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")

	lists := LoadWordLists(missing, missing, discardLogger())

	assert.Empty(t, lists.Prefixes)
	assert.Empty(t, lists.Suffixes)
}
