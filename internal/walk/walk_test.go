package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func rels(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestCollectFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.m":              "x = 1;\n",
		"lib/util.m":          "y = 2;\n",
		"lib/notes.txt":       "not matlab\n",
		"slprj/gen.m":         "z = 3;\n",
		"model/slprj/cache.m": "z = 3;\n",
		".git/hooks/pre.m":    "z = 3;\n",
		"build/out.m":         "z = 3;\n",
		"build/keep.m":        "z = 3;\n",
		"big.m":               string(make([]byte, 200)),
		".gitignore":          "# generated\nbuild/\n!build/keep.m\n*.tmp\n",
		"scratch/session.tmp": "",
	})

	files, err := Collect(root, Options{
		Include:      []string{"**.m"},
		Exclude:      []string{".git/**", "**/slprj/**"},
		UseGitignore: true,
		MaxFileBytes: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/util.m", "main.m"}, rels(files))
	assert.Equal(t, filepath.Join(root, "main.m"), files[1].AbsPath)
	assert.Equal(t, int64(7), files[1].Size)
}

func TestCollectWithoutGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"build/out.m": "x = 1;\n",
		".gitignore":  "build/\n",
	})
	files, err := Collect(root, Options{Include: []string{"**.m"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"build/out.m"}, rels(files))
}

func TestCollectErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.m": ""})

	_, err := Collect(filepath.Join(root, "a.m"), Options{})
	assert.ErrorIs(t, err, ErrNotDir)

	_, err = Collect(root, Options{Include: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.m":       "",
		"sub/b.m":   "",
		"sub/c.txt": "",
	})
	opt := Options{Include: []string{"**.m"}}

	files, err := Expand(root, nil, opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.m", "sub/b.m"}, rels(files))

	txt := filepath.Join(root, "sub", "c.txt")
	files, err = Expand(root, []string{txt, filepath.Join(root, "sub"), txt}, opt)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, txt, files[0].AbsPath)
	assert.Equal(t, "b.m", files[1].RelPath)
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"**.m"}, []string{".git/**", "**/codegen/**"})
	require.NoError(t, err)
	assert.True(t, m.Included("a.m"))
	assert.True(t, m.Included("x/y/a.m"))
	assert.False(t, m.Included("a.mat"))
	assert.True(t, m.Excluded(".git", true))
	assert.True(t, m.Excluded("codegen", true))
	assert.True(t, m.Excluded("x/codegen/f.m", false))
	assert.False(t, m.Excluded("codegen.m", false))

	all, err := NewMatcher(nil, nil)
	require.NoError(t, err)
	assert.True(t, all.Included("anything"))
}

func TestGitignorePatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("/top.m\nout/\n**/gen/*.m\n!gen/keep.m\n"), 0o644))
	pats, err := parseGitignore(path)
	require.NoError(t, err)

	assert.True(t, matchGitignore(pats, "top.m", false))
	assert.False(t, matchGitignore(pats, "sub/top.m", false))
	assert.True(t, matchGitignore(pats, "a/out", true))
	assert.False(t, matchGitignore(pats, "a/out", false))
	assert.True(t, matchGitignore(pats, "x/gen/f.m", false))
	assert.False(t, matchGitignore(pats, "gen/keep.m", false))
}
