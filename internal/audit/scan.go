package audit

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// KeyReference records where a translation key is used.
type KeyReference struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// localeKeyPattern matches top-level `key: { ... }` blocks. The body stops at
// the first closing brace, so a block containing nested braces yields only
// the keys before that brace.
var localeKeyPattern = regexp.MustCompile(`(` + keyChars + `)\s*:\s*\{[^}]*\}`)

// keyChars is one or more letters, digits or underscores in any script.
const keyChars = `[\p{L}\p{N}_]+`

// callPattern matches fn('key') and fn("key") calls, including $fn( and
// this.fn(, but not identifiers that merely end in fn (import(, split().
func callPattern(fn string) *regexp.Regexp {
	prefix := ""
	if fn != "" && isWordByte(fn[0]) {
		prefix = `\b`
	}
	return regexp.MustCompile(prefix + regexp.QuoteMeta(fn) + `\(\s*['"](` + keyChars + `)['"]\s*\)`)
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// extractLocaleKeys returns the distinct keys declared in a locale file.
func extractLocaleKeys(content string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, m := range localeKeyPattern.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// extractCalls returns every key passed to the lookup function with the
// 1-based line of its string literal.
func extractCalls(re *regexp.Regexp, content string) map[string][]int {
	calls := make(map[string][]int)
	line, pos := 1, 0
	for _, idx := range re.FindAllStringSubmatchIndex(content, -1) {
		key := content[idx[2]:idx[3]]
		line += strings.Count(content[pos:idx[2]], "\n")
		pos = idx[2]
		calls[key] = append(calls[key], line)
	}
	return calls
}

// ignoreMatcher skips directories by base name or by path relative to the
// walk root.
type ignoreMatcher []glob.Glob

func compileIgnore(patterns []string) (ignoreMatcher, error) {
	m := make(ignoreMatcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		m = append(m, g)
	}
	return m, nil
}

func (m ignoreMatcher) match(rel, name string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range m {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}

// scanFiles walks root and returns the paths matching pattern, in lexical
// order. Unreadable directories are logged and skipped; a missing root
// yields no files.
func scanFiles(fs afero.Fs, root string, pattern *regexp.Regexp, ignore ignoreMatcher) []string {
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnw("skipping unreadable path", "path", path, "error", err)
			if info != nil && info.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path == root {
				return nil
			}
			rel, _ := filepath.Rel(root, path)
			if ignore.match(rel, info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if pattern.MatchString(filepath.ToSlash(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		log.Warnw("scan aborted", "root", root, "error", err)
	}
	return files
}
