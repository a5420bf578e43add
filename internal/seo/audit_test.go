package seo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodPage = `<!DOCTYPE html>
<html><head>
<title>Kilometer to Mile Converter</title>
<meta name="description" content="Convert kilometers to miles instantly.">
<link rel="sitemap" href="/sitemap.xml">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebPage"}</script>
</head><body>
<img src="/logo.svg" alt="logo">
<h1>Kilometer to Mile</h1>
<p>One kilometer is 0.621371 miles. Kilometer conversions are easy.</p>
<a href="/length/">Length</a>
<a href="https://other.example.org/">Elsewhere</a>
</body></html>`

const poorPage = `<html><head></head><body>
<h1>One</h1><h1>Two</h1>
<img src="a.png"><img src="b.png" alt="b">
</body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSite(t *testing.T, home string, withSitemap, withRobots bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = io.WriteString(w, home)
		case "/sitemap.xml":
			if !withSitemap {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, "<urlset></urlset>")
		case "/robots.txt":
			if !withRobots {
				http.NotFound(w, r)
				return
			}
			_, _ = io.WriteString(w, "User-agent: *\n")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyzePage(t *testing.T) {
	a, err := AnalyzePage("https://units.example.com/", 200, []byte(goodPage), []string{"kilometer", "parsec"})
	require.NoError(t, err)

	assert.True(t, a.HasTitle)
	assert.True(t, a.HasDescription)
	assert.True(t, a.HasSchema)
	assert.True(t, a.MentionsSitemap)
	assert.Equal(t, 1, a.H1Count)
	assert.Equal(t, 1, a.Images)
	assert.Equal(t, 1, a.ImagesWithAlt)
	assert.Equal(t, 2, a.Links)
	assert.Equal(t, 1, a.InternalLinks)

	want := []KeywordCount{{Keyword: "kilometer", Count: 3}, {Keyword: "parsec", Count: 0}}
	if diff := cmp.Diff(want, a.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, pageTasks("https://units.example.com/", PageAnalysis{
		Status: 200, HasTitle: true, HasDescription: true, H1Count: 1, Images: 1, ImagesWithAlt: 1,
		HasSchema: true, Links: 1, MentionsSitemap: true,
	}))
}

func TestPageTasks_PoorPage(t *testing.T) {
	a, err := AnalyzePage("https://units.example.com/", 200, []byte(poorPage), nil)
	require.NoError(t, err)

	tasks := pageTasks("https://units.example.com/", a)
	levels := map[string]Level{}
	for _, task := range tasks {
		levels[task.Msg] = task.Level
	}

	assert.Equal(t, LevelHigh, levels["Add a <title> tag with your primary keyword."])
	assert.Equal(t, LevelMedium, levels["Use only one <h1>; change others to <h2>/<h3>."])
	assert.Equal(t, LevelHigh, levels["Add descriptive alt text to all images."])
	assert.Equal(t, LevelHigh, levels["Add a meta description (~155 chars) with keywords."])
	assert.Equal(t, LevelMedium, levels["Add structured data (JSON-LD schema) for better search visibility."])
	assert.Equal(t, LevelMedium, levels["Add internal links with keyword-rich anchor text."])
	assert.Contains(t, levels, "Reference sitemap.xml from the page and submit it to Google Search Console.")
}

func TestScanStaticDir(t *testing.T) {
	dir := t.TempDir()
	mk := func(rel string, files ...string) {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(p, 0o755))
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(p, f), []byte("x"), 0o644))
		}
	}
	mk("length", "index.html")
	mk("length/meter-to-foot", "index.html", "conversionguide.html")
	mk("length/foot-to-meter", "index.html")
	mk("weight")
	mk("weight/_review/pound-to-gram")

	missing, err := ScanStaticDir(dir)
	require.NoError(t, err)

	want := []MissingFile{
		{File: "conversionguide.html", Folder: "length/foot-to-meter"},
		{File: "index.html", Folder: "weight"},
	}
	if diff := cmp.Diff(want, missing); diff != "" {
		t.Fatalf("missing files mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Mark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	ledger, err := LoadLedger(path)
	require.NoError(t, err)
	assert.Empty(t, ledger.Tasks)

	first := ledger.Mark([]Task{{Level: LevelHigh, Msg: "a"}, {Level: LevelLow, Msg: "b"}})
	assert.False(t, first[0].SeenBefore)
	assert.False(t, first[1].SeenBefore)
	require.NoError(t, ledger.Save(path))

	reloaded, err := LoadLedger(path)
	require.NoError(t, err)
	second := reloaded.Mark([]Task{{Level: LevelHigh, Msg: "a"}, {Level: LevelMedium, Msg: "c"}, {Level: LevelMedium, Msg: "c"}})
	assert.True(t, second[0].SeenBefore)
	assert.False(t, second[1].SeenBefore)
	assert.True(t, second[2].SeenBefore)
	assert.Len(t, reloaded.Tasks, 3)
}

func TestLoadLedger_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadLedger(path)
	require.Error(t, err)
}

func TestAuditor_Run(t *testing.T) {
	srv := newSite(t, poorPage, true, false)
	reportDir := t.TempDir()
	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "volume"), 0o755))

	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 9, 30, 15, 250_000_000, time.UTC))
	auditor, err := NewAuditor(Options{
		SiteURL:   srv.URL + "/",
		StaticDir: staticDir,
		ReportDir: reportDir,
	}, NewClient(5*time.Second), clock, discardLogger())
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(reportDir, "seo_report_2026-03-01T09-30-15-250Z.txt"), report.Path)
	require.NotNil(t, report.Page)
	assert.Equal(t, 2, report.Page.H1Count)
	assert.Empty(t, report.SitemapErr)
	assert.NotEmpty(t, report.RobotsErr)

	data, err := os.ReadFile(report.Path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "SEO Audit Report for "+srv.URL)
	assert.Contains(t, text, "Number of H1 tags: 2")
	assert.Contains(t, text, "=== HIGH Priority ===")
	assert.Contains(t, text, "- [New] Missing index.html in folder: volume")
	assert.Contains(t, text, "robots.txt not accessible")
	assert.Less(t, strings.Index(text, "=== HIGH"), strings.Index(text, "=== MEDIUM"))

	// A second run marks every task as reported before.
	clock.Advance(time.Hour)
	again, err := auditor.Run(context.Background())
	require.NoError(t, err)
	for _, task := range again.Tasks {
		assert.True(t, task.SeenBefore, task.Msg)
	}
	assert.FileExists(t, filepath.Join(reportDir, "completed_tasks.json"))
}

func TestAuditor_Run_SiteDown(t *testing.T) {
	srv := newSite(t, goodPage, true, true)
	url := srv.URL
	srv.Close()

	auditor, err := NewAuditor(Options{SiteURL: url, ReportDir: t.TempDir()}, NewClient(time.Second), nil, discardLogger())
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, report.Page)
	assert.NotEmpty(t, report.PageErr)
	assert.NotEmpty(t, report.SitemapErr)
	assert.Contains(t, RenderReport(report), "Error fetching page")
}

func TestAuditor_Run_MissingStaticDir(t *testing.T) {
	srv := newSite(t, goodPage, true, true)
	auditor, err := NewAuditor(Options{
		SiteURL:   srv.URL,
		StaticDir: filepath.Join(t.TempDir(), "absent"),
		ReportDir: t.TempDir(),
	}, NewClient(5*time.Second), nil, discardLogger())
	require.NoError(t, err)

	report, err := auditor.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report.StaticDirErr, "static pages folder not found")
	assert.Contains(t, RenderReport(report), "static pages folder not found")
}

// countingFetcher serves goodPage for every URL and counts home page fetches.
type countingFetcher struct {
	home  string
	calls atomic.Int64
}

func (f *countingFetcher) Fetch(_ context.Context, url string) (FetchResult, error) {
	if url == f.home {
		f.calls.Add(1)
	}
	return FetchResult{Status: 200, Body: []byte(goodPage)}, nil
}

func TestAuditor_RunEvery(t *testing.T) {
	fetcher := &countingFetcher{home: "https://units.test"}
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	reportDir := t.TempDir()

	auditor, err := NewAuditor(Options{SiteURL: "https://units.test", ReportDir: reportDir}, fetcher, clock, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- auditor.RunEvery(ctx, 24*time.Hour) }()

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	clock.Advance(24 * time.Hour)

	assert.Eventually(t, func() bool { return fetcher.calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		reports, _ := filepath.Glob(filepath.Join(reportDir, "seo_report_*.txt"))
		return len(reports) == 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
}

func TestAuditor_RunEvery_InvalidInterval(t *testing.T) {
	auditor, err := NewAuditor(Options{SiteURL: "https://units.test", ReportDir: t.TempDir()}, &countingFetcher{}, nil, discardLogger())
	require.NoError(t, err)
	require.Error(t, auditor.RunEvery(context.Background(), 0))
}

func TestNewAuditor_RequiresSiteURL(t *testing.T) {
	_, err := NewAuditor(Options{}, &countingFetcher{}, nil, discardLogger())
	require.Error(t, err)
}
