package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWrappedAndFlat(t *testing.T) {
	wrapped := `{"struct": {"Point": {"path": "types/point.m", "name": "p"}}}`
	r, err := Parse([]byte(wrapped), FormatJSON)
	require.NoError(t, err)
	e, ok := r.Lookup("Point")
	require.True(t, ok)
	assert.Equal(t, Entry{Path: "types/point.m", Name: "p"}, e)

	flat := "Shape:\n  path: shapes/shape.m\n  name: s\n"
	r, err = Parse([]byte(flat), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape"}, r.Names())
}

func TestParseEmptyAndInvalid(t *testing.T) {
	r, err := Parse([]byte("  \n"), FormatJSON)
	require.NoError(t, err)
	assert.Zero(t, r.Len())

	_, err = Parse([]byte("{not json"), FormatJSON)
	assert.Error(t, err)
}

func TestLoadMissingIsEmpty(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "types.json"))
	require.NoError(t, err)
	assert.Zero(t, r.Len())
	assert.False(t, r.Has("Point"))
}

func TestAdd(t *testing.T) {
	r := New()
	require.NoError(t, r.Add("Point", Entry{Path: "types/point.m", Name: "p"}))
	assert.ErrorIs(t, r.Add("Point", Entry{Path: "x.m", Name: "q"}), ErrTypeExists)
	assert.ErrorIs(t, r.Add("Point2", Entry{Path: "x.m", Name: "q"}), ErrInvalidName)

	var zero Registry
	require.NoError(t, zero.Add("Line", Entry{Path: "l.m", Name: "l"}))
	assert.True(t, zero.Has("Line"))
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"types.json", "types.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			r := New()
			require.NoError(t, r.Add("Point", Entry{Path: "types/point.m", Name: "p"}))
			require.NoError(t, r.Add("Line", Entry{Path: "types/line.m", Name: "l"}))
			require.NoError(t, r.Save(path))

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(b), "struct")

			back, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, r.Names(), back.Names())
			e, _ := back.Lookup("Line")
			assert.Equal(t, Entry{Path: "types/line.m", Name: "l"}, e)
		})
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "types"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "types", "point.m"), []byte("p.x = 1;\n"), 0o644))

	good := `{"struct": {"Point": {"path": "types/point.m", "name": "p"}}}`
	r, err := Parse([]byte(good), FormatJSON)
	require.NoError(t, err)
	assert.NoError(t, r.Validate(root))

	bad := `{"struct": {
		"Missing": {"path": "types/none.m", "name": "m"},
		"Abs": {"path": "/etc/passwd", "name": "a"},
		"Up": {"path": "../x.m", "name": "u"},
		"Dir": {"path": "types", "name": "d"},
		"Blank": {"path": "", "name": "b.c"},
		"Num1": {"path": "types/point.m", "name": "n"}
	}}`
	r, err = Parse([]byte(bad), FormatJSON)
	require.NoError(t, err)
	err = r.Validate(root)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "struct[Missing]: types/none.m: file not found")
	assert.Contains(t, msg, "struct[Abs]: path must be relative")
	assert.Contains(t, msg, "struct[Up]: path must stay inside the workspace")
	assert.Contains(t, msg, "struct[Dir]: types: is a directory")
	assert.Contains(t, msg, "struct[Blank]: path must be non-empty")
	assert.Contains(t, msg, `struct[Blank]: name "b.c" must be a variable name`)
	assert.Contains(t, msg, "struct[Num1]: name must contain letters only")
}
