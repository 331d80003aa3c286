// Package walk collects the MATLAB sources of a project: a deterministic
// directory walk filtered by include/exclude globs and the root .gitignore.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotDir is returned when the walk root is not a directory.
var ErrNotDir = errors.New("not a directory")

// File is one collected source file.
type File struct {
	RelPath string // root-relative path with forward slashes
	AbsPath string
	Size    int64
}

// Options controls which files Collect returns.
type Options struct {
	Include        []string // globs a file must match; empty means every file
	Exclude        []string // globs for files and directories to skip
	UseGitignore   bool
	FollowSymlinks bool
	MaxFileBytes   int64 // 0 means no limit
}

type walkState struct {
	opt      Options
	root     string
	match    *Matcher
	patterns []gitPattern
	files    []File
}

// Collect walks root and returns the matching files sorted by path.
func Collect(root string, opt Options) ([]File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDir)
	}
	m, err := NewMatcher(opt.Include, opt.Exclude)
	if err != nil {
		return nil, err
	}
	state := &walkState{opt: opt, root: abs, match: m}
	if opt.UseGitignore {
		// a missing or unreadable .gitignore just means no patterns
		state.patterns, _ = parseGitignore(filepath.Join(abs, ".gitignore"))
	}
	if err := filepath.WalkDir(abs, state.visit); err != nil {
		return nil, err
	}
	sort.Slice(state.files, func(i, j int) bool { return state.files[i].RelPath < state.files[j].RelPath })
	return state.files, nil
}

// Expand turns command-line arguments into files. Directories are walked
// with opt; files are taken as given, without include filtering. No
// arguments means root.
func Expand(root string, args []string, opt Options) ([]File, error) {
	if len(args) == 0 {
		args = []string{root}
	}
	var out []File
	seen := make(map[string]struct{})
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		var files []File
		if fi.IsDir() {
			if files, err = Collect(arg, opt); err != nil {
				return nil, err
			}
		} else {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			files = []File{{RelPath: filepath.ToSlash(arg), AbsPath: abs, Size: fi.Size()}}
		}
		for _, f := range files {
			if _, dup := seen[f.AbsPath]; dup {
				continue
			}
			seen[f.AbsPath] = struct{}{}
			out = append(out, f)
		}
	}
	return out, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok {
		return nil
	}
	if rel == "." {
		return nil
	}
	if ws.shouldSkip(rel, d) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		return ws.handleDir(d)
	}
	return ws.handleFile(path, rel, d)
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

func (ws *walkState) shouldSkip(rel string, d fs.DirEntry) bool {
	if ws.match.Excluded(rel, d.IsDir()) {
		return true
	}
	return ws.opt.UseGitignore && matchGitignore(ws.patterns, rel, d.IsDir())
}

func (ws *walkState) handleDir(d fs.DirEntry) error {
	if !ws.opt.FollowSymlinks && isSymlink(d) {
		return filepath.SkipDir
	}
	return nil
}

func (ws *walkState) handleFile(path, rel string, d fs.DirEntry) error {
	if !ws.opt.FollowSymlinks && isSymlink(d) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if ws.opt.MaxFileBytes > 0 && info.Size() > ws.opt.MaxFileBytes {
		return nil
	}
	if !ws.match.Included(rel) {
		return nil
	}
	ws.files = append(ws.files, File{RelPath: rel, AbsPath: path, Size: info.Size()})
	return nil
}

// isSymlink reports whether the DirEntry is a symlink (file or directory).
func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}
