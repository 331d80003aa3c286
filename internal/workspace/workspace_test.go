package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "a.m")

	require.NoError(t, WriteFileAtomic(path, []byte("x = 1;\n"), 0o644))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1;\n", string(got))

	require.NoError(t, os.Chmod(path, 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("x = 2;\n"), 0o644))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
}

func TestLoaderNormalizesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types", "point.m")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("p.x = 1;\r\np.y = 2;\r\n"), 0o644))

	l, err := NewLoader(dir, 0)
	require.NoError(t, err)
	defer l.Close()

	text, err := l.Load("types/point.m")
	require.NoError(t, err)
	assert.Equal(t, "p.x = 1;\np.y = 2;\n", text)

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, text, again)

	// a rewrite with a new mtime is picked up
	require.NoError(t, os.WriteFile(path, []byte("p.z = 3;\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	text, err = l.Load("types/point.m")
	require.NoError(t, err)
	assert.Equal(t, "p.z = 3;\n", text)
}

func TestLoaderRejectsEscapesAndLargeFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.m"), make([]byte, 64), 0o644))

	l, err := NewLoader(dir, 16)
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Load("../outside.m")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = l.Load("big.m")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = l.Load("missing.m")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
