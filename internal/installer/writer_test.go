package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeLog_RollbackDeletesCreatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components", "ui", "button.tsx")

	var log ChangeLog
	require.NoError(t, log.Write(path, "export function Button() {}"))
	require.FileExists(t, path)

	require.NoError(t, log.Rollback())
	assert.NoFileExists(t, path)
}

func TestChangeLog_RollbackRestoresOriginalBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "button.tsx")
	original := []byte("// local edits\nexport function Button() {}\n")
	require.NoError(t, os.WriteFile(path, original, 0644))

	var log ChangeLog
	require.NoError(t, log.Write(path, "// replaced"))

	require.NoError(t, log.Rollback())
	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestChangeLog_FirstTouchSnapshotWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.ts")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	var log ChangeLog
	require.NoError(t, log.Write(path, "first rewrite"))
	require.NoError(t, log.Write(path, "second rewrite"))
	assert.Equal(t, 1, log.Len())

	require.NoError(t, log.Rollback())
	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(restored))
}

func TestChangeLog_RollbackRestoresEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ts")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	var log ChangeLog
	require.NoError(t, log.Write(path, "content"))

	require.NoError(t, log.Rollback())
	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, restored, "an empty file is restored empty, not deleted")
}

func TestChangeLog_EmptyLogRollsBackCleanly(t *testing.T) {
	var log ChangeLog
	assert.Equal(t, 0, log.Len())
	assert.NoError(t, log.Rollback())
}
