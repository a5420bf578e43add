// Package site renders the static landing pages, the sitemap, and the
// duplicate-folder cleanup for the converter's public website.
//
// Pages live under a static directory laid out as
//
//	<dir>/index.html
//	<dir>/<category>/index.html
//	<dir>/<category>/<from>-to-<to>/index.html
//	<dir>/<category>/<from>-to-<to>/conversionguide.html   (optional, hand written)
package site

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/unit-converter/internal/domain"
)

const (
	// GuideFile is the hand-written conversion guide embedded into a pair page.
	GuideFile = "conversionguide.html"
	// IndexFile is the rendered page in every folder.
	IndexFile = "index.html"

	brand = "Free Units Converter"
)

// tableValues are the sample inputs of a generated conversion table.
var tableValues = []float64{1, 5, 10, 50, 100}

//go:embed templates/*.gohtml
var templateFS embed.FS

// Options configures a Generator.
type Options struct {
	// SiteURL is the public root, e.g. https://freeunitsconverter.com/.
	SiteURL string
	// Dir is the static pages directory.
	Dir string
	// TemplatePath optionally overrides the "page" and "table" templates.
	TemplatePath string
	Logger       *slog.Logger
}

// Generator renders pages for every category and ordered unit pair of a
// catalog.
type Generator struct {
	converter *domain.Converter
	siteURL   string
	dir       string
	tmpl      *template.Template
	logger    *slog.Logger
}

// Stats summarizes a generation run.
type Stats struct {
	Categories     int
	PairPages      int
	GuidesEmbedded int
}

// NewGenerator parses the page templates and validates the options.
func NewGenerator(converter *domain.Converter, opts Options) (*Generator, error) {
	if opts.SiteURL == "" {
		return nil, errors.New("site url is required")
	}
	if opts.Dir == "" {
		return nil, errors.New("static pages directory is required")
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	if opts.TemplatePath != "" {
		if tmpl, err = tmpl.ParseFiles(opts.TemplatePath); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", opts.TemplatePath, err)
		}
	}

	return &Generator{
		converter: converter,
		siteURL:   withTrailingSlash(opts.SiteURL),
		dir:       opts.Dir,
		tmpl:      tmpl,
		logger:    opts.Logger,
	}, nil
}

// pageData feeds the "page" template.
type pageData struct {
	Title        string
	Description  string
	Canonical    string
	SiteURL      string
	JSONLD       template.JS
	Heading      string
	Intro        string
	Body         template.HTML
	LinksHeading string
	Links        []link
}

type link struct {
	Href string
	Text string
}

// tableData feeds the "table" template.
type tableData struct {
	FromLabel string
	ToLabel   string
	Rows      []tableRow
	Formula   string
}

type tableRow struct {
	From string
	To   string
}

// webPage is the JSON-LD document embedded in every page.
type webPage struct {
	Context     string          `json:"@context"`
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	MainEntity  *unitConversion `json:"mainEntity,omitempty"`
}

type unitConversion struct {
	Type     string `json:"@type"`
	FromUnit string `json:"fromUnit"`
	ToUnit   string `json:"toUnit"`
}

// Generate writes the home page, one index page per category, and one page
// per ordered pair of distinct units.
func (g *Generator) Generate(ctx context.Context) (Stats, error) {
	var stats Stats
	cats := g.converter.Catalog().Categories()

	if err := g.writePage(g.dir, g.homePage(cats)); err != nil {
		return stats, err
	}

	for _, cat := range cats {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		catDir := filepath.Join(g.dir, cat.ID())
		if err := g.writePage(catDir, g.categoryPage(cat)); err != nil {
			return stats, err
		}
		stats.Categories++

		for _, from := range cat.Units() {
			for _, to := range cat.Units() {
				if from.ID == to.ID {
					continue
				}
				embedded, err := g.generatePair(cat, from, to)
				if err != nil {
					return stats, err
				}
				stats.PairPages++
				if embedded {
					stats.GuidesEmbedded++
				}
			}
		}
	}

	g.logger.Info("static pages generated",
		"site_url", g.siteURL,
		"categories", stats.Categories,
		"pair_pages", stats.PairPages,
		"guides_embedded", stats.GuidesEmbedded,
	)
	return stats, nil
}

// generatePair renders one pair page and reports whether an existing guide
// was embedded.
func (g *Generator) generatePair(cat *domain.Category, from, to domain.Unit) (bool, error) {
	pairDir := filepath.Join(g.dir, cat.ID(), PairFolder(from.ID, to.ID))

	body, embedded, err := g.guide(pairDir, cat, from, to)
	if err != nil {
		return false, err
	}

	page, err := g.pairPage(cat, from, to, body)
	if err != nil {
		return false, err
	}
	return embedded, g.writePage(pairDir, page)
}

func (g *Generator) homePage(cats []*domain.Category) pageData {
	labels := make([]string, 0, len(cats))
	links := make([]link, 0, len(cats))
	for _, cat := range cats {
		labels = append(labels, cat.Label())
		links = append(links, link{Href: g.siteURL + cat.ID() + "/", Text: cat.Label() + " Converter"})
	}

	desc := fmt.Sprintf("Convert %s units instantly with our free, accurate, and easy-to-use converter.",
		strings.ToLower(joinList(labels)))
	return pageData{
		Title:        brand + " | " + joinList(labels),
		Description:  desc,
		Canonical:    g.siteURL,
		SiteURL:      g.siteURL,
		JSONLD:       mustJSONLD(webPage{Name: brand, URL: g.siteURL, Description: desc}),
		Heading:      brand,
		Intro:        desc,
		LinksHeading: "Converters",
		Links:        links,
	}
}

func (g *Generator) categoryPage(cat *domain.Category) pageData {
	names := make([]string, 0, len(cat.UnitIDs()))
	for _, id := range cat.UnitIDs() {
		names = append(names, prettyUnit(id))
	}

	title := fmt.Sprintf("%s Converter — %s", cat.Label(), brand)
	desc := fmt.Sprintf("Convert %s instantly.", joinList(names))
	canonical := g.siteURL + cat.ID() + "/"

	var links []link
	for _, from := range cat.UnitIDs() {
		for _, to := range cat.UnitIDs() {
			if from == to {
				continue
			}
			links = append(links, link{
				Href: canonical + PairFolder(from, to) + "/",
				Text: fmt.Sprintf("%s to %s", domain.HumanLabel(from), domain.HumanLabel(to)),
			})
		}
	}

	return pageData{
		Title:        title,
		Description:  desc,
		Canonical:    canonical,
		SiteURL:      g.siteURL,
		JSONLD:       mustJSONLD(webPage{Name: cat.Label() + " Converter", URL: canonical, Description: desc}),
		Heading:      title,
		Intro:        desc,
		LinksHeading: cat.Label() + " conversions",
		Links:        links,
	}
}

func (g *Generator) pairPage(cat *domain.Category, from, to domain.Unit, body template.HTML) (pageData, error) {
	prettyFrom, prettyTo := prettyUnit(from.ID), prettyUnit(to.ID)
	canonical := g.siteURL + cat.ID() + "/" + PairFolder(from.ID, to.ID) + "/"
	desc := fmt.Sprintf("Convert %s to %s instantly with our free, accurate, and easy-to-use %s converter.",
		prettyFrom, prettyTo, strings.ToLower(cat.Label()))

	jsonLD, err := marshalJSONLD(webPage{
		Name:        fmt.Sprintf("%s to %s Converter", prettyFrom, prettyTo),
		URL:         canonical,
		Description: desc,
		MainEntity:  &unitConversion{Type: "UnitConversion", FromUnit: from.ID, ToUnit: to.ID},
	})
	if err != nil {
		return pageData{}, err
	}

	return pageData{
		Title:       fmt.Sprintf("%s to %s Converter | %s", prettyFrom, prettyTo, brand),
		Description: desc,
		Canonical:   canonical,
		SiteURL:     g.siteURL,
		JSONLD:      jsonLD,
		Heading:     fmt.Sprintf("%s to %s Converter", domain.HumanLabel(from.ID), domain.HumanLabel(to.ID)),
		Body:        body,
		Links: []link{
			{Href: g.siteURL + cat.ID() + "/" + PairFolder(to.ID, from.ID) + "/", Text: fmt.Sprintf("%s to %s", domain.HumanLabel(to.ID), domain.HumanLabel(from.ID))},
			{Href: g.siteURL + cat.ID() + "/", Text: "All " + strings.ToLower(cat.Label()) + " conversions"},
		},
		LinksHeading: "Related converters",
	}, nil
}

// guide returns the hand-written guide in pairDir when present, otherwise a
// generated conversion table.
func (g *Generator) guide(pairDir string, cat *domain.Category, from, to domain.Unit) (template.HTML, bool, error) {
	data, err := os.ReadFile(filepath.Join(pairDir, GuideFile))
	switch {
	case err == nil:
		return template.HTML(data), true, nil //nolint:gosec // guides are authored by the site owner
	case !errors.Is(err, fs.ErrNotExist):
		return "", false, fmt.Errorf("read guide: %w", err)
	}

	table := tableData{
		FromLabel: fmt.Sprintf("%s (%s)", domain.HumanLabel(from.ID), from.DisplaySymbol()),
		ToLabel:   fmt.Sprintf("%s (%s)", domain.HumanLabel(to.ID), to.DisplaySymbol()),
	}
	for _, v := range tableValues {
		res, err := g.converter.Do(domain.ConversionRequest{Category: cat.ID(), From: from.ID, To: to.ID, Value: v})
		if err != nil {
			return "", false, fmt.Errorf("convert %s to %s: %w", from.ID, to.ID, err)
		}
		if v == 1 {
			table.Formula = g.converter.Describe(res)
		}
		table.Rows = append(table.Rows, tableRow{
			From: domain.FormatNumber(v) + " " + from.DisplaySymbol(),
			To:   res.Formatted + " " + to.DisplaySymbol(),
		})
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "table", table); err != nil {
		return "", false, fmt.Errorf("render conversion table: %w", err)
	}
	return template.HTML(buf.String()), false, nil //nolint:gosec // produced by html/template
}

func (g *Generator) writePage(dir string, data pageData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return fmt.Errorf("render %s: %w", dir, err)
	}
	path := filepath.Join(dir, IndexFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // public web content
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PairFolder names the folder of a pair page, e.g. "kilometer-to-mile".
func PairFolder(from, to string) string {
	return from + "-to-" + to
}

func marshalJSONLD(p webPage) (template.JS, error) {
	p.Context = "https://schema.org"
	p.Type = "WebPage"
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return template.JS(data), nil //nolint:gosec // encoding/json escapes <, >, and &
}

func mustJSONLD(p webPage) template.JS {
	js, err := marshalJSONLD(p)
	if err != nil {
		panic(err)
	}
	return js
}

func prettyUnit(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// joinList renders "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
