// Package gene reads and writes .gene files: one VLS program per UTF-8 text
// file, kept in a plain directory tree.
package gene

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the .gene file suffix.
const Ext = ".gene"

// Normalize turns file text into a single program. Blank lines and lines
// starting with '#' are dropped; the rest are trimmed and joined with '-'.
func Normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "-")
}

// Read loads and normalizes the program in path.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("gene: read %s: %w", path, err)
	}
	return Normalize(string(data)), nil
}

// Write stores program in path, creating parent directories.
func Write(path, program string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("gene: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(program+"\n"), 0644); err != nil {
		return fmt.Errorf("gene: write %s: %w", path, err)
	}
	return nil
}

// IsGene reports whether path has the .gene suffix.
func IsGene(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}

// Walk returns every .gene file under root, sorted.
func Walk(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsGene(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gene: walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Name returns path relative to root without the suffix, using '/' separators.
// "root/trees/oak.gene" becomes "trees/oak".
func Name(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
}
