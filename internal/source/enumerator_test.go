package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (and their parent directories) under root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("2021/05/01 12:00:00,http://a.com/,x\n"), 0644))
	}
}

func collect(t *testing.T, e *Enumerator) ([]string, error) {
	t.Helper()
	var paths []string
	for p, err := range e.Paths() {
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func TestPaths_YieldsFilesInYearDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "2020/a.csv", "2020/b.csv", "2021/c.csv")

	paths, err := collect(t, New(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "2020", "a.csv"),
		filepath.Join(root, "2020", "b.csv"),
		filepath.Join(root, "2021", "c.csv"),
	}, paths)
}

func TestPaths_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "2020/a.csv", ".git/config", ".cache/2021/b.csv")

	paths, err := collect(t, New(root))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "2020", "a.csv")}, paths)
}

func TestPaths_IgnoresFilesAtRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "README.md", "2020/a.csv")

	paths, err := collect(t, New(root))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "2020", "a.csv")}, paths)
}

func TestPaths_DoesNotRecurse(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "2020/a.csv", "2020/nested/deep.csv")

	paths, err := collect(t, New(root))
	require.NoError(t, err)
	// The nested directory itself is an entry of the year directory.
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "2020", "a.csv"),
		filepath.Join(root, "2020", "nested"),
	}, paths)
}

func TestPaths_FollowsSymlinkedYearDir(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	writeTree(t, elsewhere, "a.csv")
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(root, "2022")))

	paths, err := collect(t, New(root))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "2022", "a.csv")}, paths)
}

func TestPaths_EmptyRoot(t *testing.T) {
	paths, err := collect(t, New(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestPaths_MissingRootFails(t *testing.T) {
	paths, err := collect(t, New(filepath.Join(t.TempDir(), "phishurl-list")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEnumeration)
	assert.Empty(t, paths)
}

func TestPaths_StopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "2020/a.csv", "2020/b.csv", "2021/c.csv")

	n := 0
	for _, err := range New(root).Paths() {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
}
