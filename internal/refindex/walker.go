// Package refindex maintains a full-text index over a reference codebase.
// The search_references tool queries it for snippets the model can use as
// implementation inspiration.
package refindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// SourceFile is one indexable file discovered under the reference root.
type SourceFile struct {
	Path    string // relative to the reference root
	AbsPath string
	Lang    string
}

// defaultIgnorePatterns are directories never worth indexing.
var defaultIgnorePatterns = []string{
	".git",
	"node_modules",
	"dist",
	"build",
	"vendor",
	"__pycache__",
	".venv",
	"venv",
	"coverage",
	".cache",
	"target",
	".idea",
	".vscode",
	".DS_Store",
}

var extLangs = map[string]string{
	".go":   "go",
	".py":   "python",
	".ts":   "ts",
	".tsx":  "ts",
	".js":   "js",
	".jsx":  "js",
	".rs":   "rust",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".hpp":  "cpp",
	".md":   "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
}

func detectLang(path string) string {
	return extLangs[strings.ToLower(filepath.Ext(path))]
}

// Walker discovers indexable reference files, honoring .gitignore.
type Walker struct {
	root          string
	ignoreMatcher gitignore.IgnoreParser
}

func NewWalker(root string) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reference root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference root %s is not a directory", root)
	}

	patterns := append([]string(nil), defaultIgnorePatterns...)
	patterns = append(patterns, loadGitignorePatterns(root)...)

	return &Walker{
		root:          root,
		ignoreMatcher: gitignore.CompileIgnoreLines(patterns...),
	}, nil
}

func loadGitignorePatterns(root string) []string {
	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// Ignored reports whether a root-relative path is excluded from indexing.
func (w *Walker) Ignored(relPath string) bool {
	return w.ignoreMatcher.MatchesPath(relPath)
}

// Walk returns every indexable file under the root.
func (w *Walker) Walk() ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		if relPath != "." && w.ignoreMatcher.MatchesPath(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		lang := detectLang(path)
		if lang == "" {
			return nil
		}
		files = append(files, SourceFile{Path: relPath, AbsPath: path, Lang: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk reference root: %w", err)
	}
	return files, nil
}
