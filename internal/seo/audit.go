// Package seo audits the public converter site: on-page checks of the home
// page, missing files in the static pages folder, and reachability of the
// sitemap and robots.txt. Each run writes a plain-text report and updates a
// ledger of tasks reported so far.
package seo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// Options configures an Auditor.
type Options struct {
	SiteURL    string
	StaticDir  string
	ReportDir  string
	LedgerPath string
	Keywords   []string
}

// Auditor runs SEO audits against one site.
type Auditor struct {
	opts    Options
	fetcher Fetcher
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewAuditor creates an Auditor. A nil clock uses the real clock.
func NewAuditor(opts Options, fetcher Fetcher, clock clockwork.Clock, logger *slog.Logger) (*Auditor, error) {
	if opts.SiteURL == "" {
		return nil, errors.New("site url is required")
	}
	if opts.ReportDir == "" {
		opts.ReportDir = "reports"
	}
	if opts.LedgerPath == "" {
		opts.LedgerPath = filepath.Join(opts.ReportDir, "completed_tasks.json")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	return &Auditor{opts: opts, fetcher: fetcher, clock: clock, logger: logger}, nil
}

// Report is the outcome of one audit run.
type Report struct {
	SiteURL      string
	GeneratedAt  time.Time
	Page         *PageAnalysis
	PageErr      string
	StaticDir    string
	StaticDirErr string
	Missing      []MissingFile
	Tasks        []TaskStatus
	SitemapErr   string
	RobotsErr    string
	Path         string
}

// Run performs one audit, updates the ledger, and writes the report file.
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	now := a.clock.Now()
	report := Report{SiteURL: a.opts.SiteURL, GeneratedAt: now, StaticDir: a.opts.StaticDir}

	var tasks []Task

	page, err := a.auditPage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		a.logger.Warn("home page audit failed", "site_url", a.opts.SiteURL, "error", err)
		report.PageErr = err.Error()
		tasks = append(tasks, Task{Level: LevelHigh, Msg: "Home page is not reachable: " + a.opts.SiteURL})
	} else {
		report.Page = &page
		tasks = append(tasks, pageTasks(a.opts.SiteURL, page)...)
	}

	if a.opts.StaticDir != "" {
		missing, err := a.scanStatic()
		if err != nil {
			report.StaticDirErr = err.Error()
		}
		report.Missing = missing
		for _, m := range missing {
			tasks = append(tasks, Task{Level: LevelMedium, Msg: fmt.Sprintf("Missing %s in folder: %s", m.File, m.Folder)})
		}
	}

	if _, err := a.fetcher.Fetch(ctx, a.opts.SiteURL+"/sitemap.xml"); err != nil {
		report.SitemapErr = err.Error()
		tasks = append(tasks, Task{Level: LevelHigh, Msg: "Publish a sitemap at /sitemap.xml."})
	}
	if _, err := a.fetcher.Fetch(ctx, a.opts.SiteURL+"/robots.txt"); err != nil {
		report.RobotsErr = err.Error()
		tasks = append(tasks, Task{Level: LevelMedium, Msg: "Publish a robots.txt that points at the sitemap."})
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	ledger, err := LoadLedger(a.opts.LedgerPath)
	if err != nil {
		return report, err
	}
	report.Tasks = ledger.Mark(tasks)
	if err := ledger.Save(a.opts.LedgerPath); err != nil {
		return report, err
	}

	path, err := a.writeReport(report)
	if err != nil {
		return report, err
	}
	report.Path = path

	a.logger.Info("seo audit complete",
		"site_url", a.opts.SiteURL,
		"tasks", len(report.Tasks),
		"report", path,
	)
	return report, nil
}

// RunEvery runs an audit now and then once per interval until ctx is
// cancelled. Failed runs are logged and do not stop the schedule.
func (a *Auditor) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid audit interval %s", interval)
	}

	a.runLogged(ctx)

	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("seo audit schedule stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			a.runLogged(ctx)
		}
	}
}

func (a *Auditor) runLogged(ctx context.Context) {
	if _, err := a.Run(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error("seo audit failed", "error", err)
	}
}

func (a *Auditor) auditPage(ctx context.Context) (PageAnalysis, error) {
	res, err := a.fetcher.Fetch(ctx, a.opts.SiteURL)
	if err != nil {
		return PageAnalysis{}, err
	}
	return AnalyzePage(a.opts.SiteURL, res.Status, res.Body, a.opts.Keywords)
}

func (a *Auditor) scanStatic() ([]MissingFile, error) {
	info, err := os.Stat(a.opts.StaticDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, fmt.Errorf("static pages folder not found at %s", a.opts.StaticDir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat static dir: %w", err)
	}
	return ScanStaticDir(a.opts.StaticDir)
}

func (a *Auditor) writeReport(r Report) (string, error) {
	if err := os.MkdirAll(a.opts.ReportDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	name := "seo_report_" + reportTimestamp(r.GeneratedAt) + ".txt"
	path := filepath.Join(a.opts.ReportDir, name)
	if err := os.WriteFile(path, []byte(RenderReport(r)), 0o644); err != nil { //nolint:gosec // report is not sensitive
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

var timestampReplacer = strings.NewReplacer(":", "-", ".", "-")

// reportTimestamp is the UTC ISO-8601 time with ':' and '.' replaced by '-'.
func reportTimestamp(t time.Time) string {
	return timestampReplacer.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

// RenderReport formats r as plain text.
func RenderReport(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SEO Audit Report for %s\n", r.SiteURL)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC1123))

	if p := r.Page; p != nil {
		fmt.Fprintf(&b, "Page loaded successfully: %d\n", p.Status)
		fmt.Fprintf(&b, "Page size: %.2f KB\n", p.SizeKB)
		fmt.Fprintf(&b, "Title tag present: %s\n", yesNo(p.HasTitle))
		fmt.Fprintf(&b, "Meta description present: %s\n", yesNo(p.HasDescription))
		if p.Images == 0 {
			b.WriteString("Images with alt tags: N/A (no images found)\n")
		} else {
			fmt.Fprintf(&b, "Images with alt tags: %d of %d\n", p.ImagesWithAlt, p.Images)
		}
		fmt.Fprintf(&b, "Number of H1 tags: %d\n", p.H1Count)
		fmt.Fprintf(&b, "Links: %d (%d internal)\n", p.Links, p.InternalLinks)
		for _, k := range p.Keywords {
			fmt.Fprintf(&b, "Keyword %q: %d\n", k.Keyword, k.Count)
		}
	} else {
		fmt.Fprintf(&b, "Error fetching page: %s\n", r.PageErr)
	}

	if r.StaticDirErr != "" {
		fmt.Fprintf(&b, "%s\n", r.StaticDirErr)
	}

	groups := GroupByLevel(r.Tasks)
	b.WriteString("\nSEO Task List (Grouped by Priority):\n")
	for _, level := range Levels {
		if len(groups[level]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s Priority ===\n", level)
		for _, t := range groups[level] {
			status := "New"
			if t.SeenBefore {
				status = "Reported before"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", status, t.Msg)
		}
	}

	b.WriteString("\n")
	if r.SitemapErr == "" {
		b.WriteString("Sitemap accessible at /sitemap.xml\n")
	} else {
		fmt.Fprintf(&b, "Sitemap not accessible: %s\n", r.SitemapErr)
	}
	if r.RobotsErr == "" {
		b.WriteString("robots.txt accessible\n")
	} else {
		fmt.Fprintf(&b, "robots.txt not accessible: %s\n", r.RobotsErr)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
