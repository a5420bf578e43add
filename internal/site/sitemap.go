package site

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/unit-converter/internal/domain"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap priorities by page depth.
const (
	PriorityHome     = "1.0"
	PriorityCategory = "0.8"
	PriorityPair     = "0.7"
)

// URLSet is the root element of a sitemap.
type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority"`
}

// BuildSitemap lists the home page, category pages, and pair pages that
// exist under dir. Missing pages are skipped. lastmod is the page's
// modification date.
func BuildSitemap(catalog *domain.Catalog, dir, baseURL string) (URLSet, error) {
	base := strings.TrimRight(baseURL, "/")
	set := URLSet{Xmlns: sitemapNamespace}

	add := func(file, loc, priority string) error {
		info, err := os.Stat(file)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", file, err)
		}
		set.URLs = append(set.URLs, SitemapURL{
			Loc:      loc,
			LastMod:  info.ModTime().UTC().Format("2006-01-02"),
			Priority: priority,
		})
		return nil
	}

	if err := add(filepath.Join(dir, IndexFile), base, PriorityHome); err != nil {
		return URLSet{}, err
	}

	for _, cat := range catalog.Categories() {
		catDir := filepath.Join(dir, cat.ID())
		if err := add(filepath.Join(catDir, IndexFile), joinURL(base, cat.ID()), PriorityCategory); err != nil {
			return URLSet{}, err
		}

		ids := cat.UnitIDs()
		for _, from := range ids {
			for _, to := range ids {
				if from == to {
					continue
				}
				folder := PairFolder(from, to)
				if err := add(filepath.Join(catDir, folder, IndexFile), joinURL(base, cat.ID(), folder), PriorityPair); err != nil {
					return URLSet{}, err
				}
			}
		}
	}

	return set, nil
}

// WriteSitemap encodes set as an indented XML document.
func WriteSitemap(w io.Writer, set URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteSitemapFile writes set to path, creating parent directories.
func WriteSitemapFile(path string, set URLSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sitemap dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sitemap: %w", err)
	}
	if err := WriteSitemap(f, set); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// joinURL joins segments with single slashes and no trailing slash.
func joinURL(base string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, base)
	for _, s := range segments {
		parts = append(parts, strings.Trim(s, "/"))
	}
	return strings.Join(parts, "/")
}
