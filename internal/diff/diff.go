// Package diff renders the unified diff shown by "fix --dry-run". It uses
// github.com/pmezard/go-difflib/difflib to produce classic unified patches
// (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diff

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines when Options.Context is 0.
const DefaultContext = 3

// Options controls patch generation behavior.
type Options struct {
	// Context controls the number of context lines in unified hunks.
	Context int

	// MaxBytes is a guardrail on input size (old+new). When exceeded a
	// placeholder patch is returned. 0 means "no limit".
	MaxBytes int
}

// Unified produces a unified patch from a to b for the file path. Identical
// inputs yield the empty string.
func Unified(path, a, b string, opt Options) string {
	if a == b {
		return ""
	}
	from, to := "a/"+path, "b/"+path
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(from, to)
	}
	ctx := opt.Context
	if ctx <= 0 {
		ctx = DefaultContext
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(a),
		B:        splitLinesKeepNL(b),
		FromFile: from,
		ToFile:   to,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return omitted(from, to)
	}
	return s
}

// splitLinesKeepNL splits into lines and keeps newline characters. A last
// line without a newline gets one so it does not run into the next hunk
// line of the output.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if last := lines[len(lines)-1]; last == "" {
		lines = lines[:len(lines)-1]
	} else if !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(from, to string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", from, to)
}
