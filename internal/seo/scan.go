package seo

import (
	"cmp"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/couchcryptid/unit-converter/internal/site"
)

// MissingFile is a page folder lacking one of its expected files.
type MissingFile struct {
	File   string
	Folder string
}

// ScanStaticDir walks every folder below dir (skipping review folders) and
// reports missing index and guide files. Category folders carry no guide
// of their own, so only pair folders are checked for one.
func ScanStaticDir(dir string) ([]MissingFile, error) {
	var missing []MissingFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == dir {
			return nil
		}
		if d.Name() == site.ReviewFolder {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		expected := []string{site.IndexFile}
		if isPairFolder(d.Name()) {
			expected = append(expected, site.GuideFile)
		}
		for _, f := range expected {
			if _, err := os.Stat(filepath.Join(path, f)); err != nil {
				missing = append(missing, MissingFile{File: f, Folder: rel})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan static dir: %w", err)
	}

	slices.SortFunc(missing, func(a, b MissingFile) int {
		return cmp.Or(strings.Compare(a.Folder, b.Folder), strings.Compare(a.File, b.File))
	})
	return missing, nil
}

func isPairFolder(name string) bool {
	from, to, ok := strings.Cut(name, "-to-")
	return ok && from != "" && to != ""
}
