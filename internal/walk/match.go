package walk

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// root matches top-level paths for patterns starting with "**/"
	root glob.Glob
}

func compile(patterns []string) ([]compiledPattern, error) {
	var out []compiledPattern
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		cp := compiledPattern{pattern: p, glob: g}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			if cp.root, err = glob.Compile(rest, '/'); err != nil {
				return nil, fmt.Errorf("glob %q: %w", p, err)
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Matcher applies include and exclude globs to slash-separated relative
// paths. In the globs '*' stays within a path segment and '**' crosses
// segments; a leading "**/" also matches at the top level.
type Matcher struct {
	include []compiledPattern
	exclude []compiledPattern
}

// NewMatcher compiles the include and exclude globs.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	inc, err := compile(include)
	if err != nil {
		return nil, err
	}
	exc, err := compile(exclude)
	if err != nil {
		return nil, err
	}
	return &Matcher{include: inc, exclude: exc}, nil
}

// Included reports whether a file path matches the include globs. An empty
// include list admits everything.
func (m *Matcher) Included(rel string) bool {
	return len(m.include) == 0 || matchesAny(rel, m.include)
}

// Excluded reports whether rel matches an exclude glob. A directory also
// matches patterns for its contents, so ".git/**" excludes ".git".
func (m *Matcher) Excluded(rel string, isDir bool) bool {
	if matchesAny(rel, m.exclude) {
		return true
	}
	return isDir && matchesAny(rel+"/", m.exclude)
}

func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.root != nil && cp.root.Match(path) {
			return true
		}
	}
	return false
}

// ---------------- .gitignore support ----------------

type gitPattern struct {
	neg     bool // pattern starts with '!'
	dirOnly bool // pattern ends with '/'
	rx      *regexp.Regexp
}

// parseGitignore reads a .gitignore file and compiles patterns. Supported:
// comments, blank lines, '!' negation, a leading '/' anchoring to the root,
// a trailing '/' restricting to directories, '**' across directories and
// '*' / '?' within one.
func parseGitignore(path string) ([]gitPattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var res []gitPattern
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		neg := false
		if strings.HasPrefix(line, "!") {
			neg = true
			line = strings.TrimSpace(line[1:])
			if line == "" {
				continue
			}
		}
		dirOnly := strings.HasSuffix(line, "/")
		line = strings.TrimSuffix(line, "/")
		anchored := strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		res = append(res, gitPattern{neg: neg, dirOnly: dirOnly, rx: compileGitGlob(line, anchored)})
	}
	return res, s.Err()
}

func compileGitGlob(g string, anchored bool) *regexp.Regexp {
	esc := regexp.QuoteMeta(g)
	esc = strings.ReplaceAll(esc, `\*\*`, "\x00")
	esc = strings.ReplaceAll(esc, `\*`, "[^/]*")
	esc = strings.ReplaceAll(esc, `\?`, "[^/]")
	esc = strings.ReplaceAll(esc, "\x00", ".*")
	if anchored {
		return regexp.MustCompile("^" + esc + "$")
	}
	return regexp.MustCompile("(^|.*/)" + esc + "$")
}

// matchGitignore applies the patterns in order; the last match decides.
func matchGitignore(pats []gitPattern, rel string, isDir bool) bool {
	ignored := false
	for _, p := range pats {
		if p.dirOnly && !isDir {
			continue
		}
		if p.rx.MatchString(rel) {
			ignored = !p.neg
		}
	}
	return ignored
}
