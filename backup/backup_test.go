package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.ief")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenCreatesDirAndIndex(t *testing.T) {
	root := t.TempDir()
	store, err := Open(root)
	require.NoError(t, err)

	assert.DirExists(t, store.Dir())
	data, err := os.ReadFile(filepath.Join(store.Dir(), "file-backups.csv"))
	require.NoError(t, err)
	assert.Equal(t, "path,file_id,dttm\n", string(data))

	// Reopening must not truncate the index.
	_, err = Open(root)
	require.NoError(t, err)
}

func TestBackupDeduplicatesUnchangedContent(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	path := writeSource(t, "[ISIS Event Header]\nTitle=x\n")
	file, err := store.File(path)
	require.NoError(t, err)

	require.NoError(t, file.Backup())
	require.NoError(t, file.Backup())

	backups, err := file.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 1, "identical content must not be backed up twice")
}

func TestBackupTakesNewCopyWhenContentChanges(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	path := writeSource(t, "Title=before\n")
	file, err := store.File(path)
	require.NoError(t, err)
	require.NoError(t, file.Backup())

	require.NoError(t, os.WriteFile(path, []byte("Title=after\n"), 0o644))
	require.NoError(t, file.Backup())

	backups, err := file.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 2)

	newest, err := os.ReadFile(backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "Title=after\n", string(newest))
}

func TestRestore(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	original := "[ISIS Event Header]\nTitle=keep me\n"
	path := writeSource(t, original)
	file, err := store.File(path)
	require.NoError(t, err)
	require.NoError(t, file.Backup())

	require.NoError(t, os.WriteFile(path, []byte("Title=clobbered\n"), 0o644))

	backups, err := file.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.NoError(t, backups[0].Restore(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestClearRemovesOnlyOwnBackups(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	pathA := writeSource(t, "Title=a\n")
	pathB := writeSource(t, "Title=b\n")

	fileA, err := store.File(pathA)
	require.NoError(t, err)
	fileB, err := store.File(pathB)
	require.NoError(t, err)
	require.NoError(t, fileA.Backup())
	require.NoError(t, fileB.Backup())

	require.NoError(t, fileA.Clear())

	backupsA, err := fileA.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backupsA)

	backupsB, err := fileB.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backupsB, 1)

	index, err := os.ReadFile(filepath.Join(store.Dir(), "file-backups.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), fileA.ID())
	assert.Contains(t, string(index), fileB.ID())
}

func TestClearDropsIndexRowsForCommaPaths(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "runs, 2026")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "run.ief")
	require.NoError(t, os.WriteFile(path, []byte("Title=x\n"), 0o644))

	file, err := store.File(path)
	require.NoError(t, err)
	require.NoError(t, file.Backup())

	index, err := os.ReadFile(filepath.Join(store.Dir(), "file-backups.csv"))
	require.NoError(t, err)
	require.Contains(t, string(index), file.ID())

	require.NoError(t, file.Clear())

	index, err = os.ReadFile(filepath.Join(store.Dir(), "file-backups.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), file.ID(),
		"a comma in the source path must not leave its index row behind")
}

func TestFileRejectsMissingSource(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = store.File(filepath.Join(t.TempDir(), "missing.ief"))
	assert.Error(t, err)
}

func TestMirroredTreesGetDistinctIDs(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")
	require.NoError(t, os.MkdirAll(dirA, 0o755))
	require.NoError(t, os.MkdirAll(dirB, 0o755))
	pathA := filepath.Join(dirA, "network.ief")
	pathB := filepath.Join(dirB, "network.ief")
	require.NoError(t, os.WriteFile(pathA, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("b"), 0o644))

	fileA, err := store.File(pathA)
	require.NoError(t, err)
	fileB, err := store.File(pathB)
	require.NoError(t, err)

	assert.NotEqual(t, fileA.ID(), fileB.ID())
	assert.False(t, strings.HasPrefix(fileA.ID(), fileB.ID()))
}
