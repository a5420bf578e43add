package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/unit-converter/internal/seo"
	"github.com/spf13/cobra"
)

func newAuditCmd(a *app) *cobra.Command {
	var (
		siteURL  string
		mode     string
		keywords []string
		every    time.Duration
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run an SEO audit of the site and write a report",
		Long: `Fetch the site's home page and run on-page checks, scan the static pages
directory for missing files, and check sitemap.xml and robots.txt. The report
lands in the reports directory; tasks seen in earlier runs are marked.
With --every the audit repeats until interrupted.`,
		Example: `  unitconv audit --mode prd --keywords "unit converter,metric"
  unitconv audit --site https://example.com --every 24h`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			a.bindLocal(cmd, keyStaticDir, "dir")
			a.bindLocal(cmd, keyReportDir, "reports")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if siteURL == "" {
				var err error
				if siteURL, err = a.siteURL(mode); err != nil {
					return err
				}
			}

			auditor, err := seo.NewAuditor(seo.Options{
				SiteURL:   siteURL,
				StaticDir: a.v.GetString(keyStaticDir),
				ReportDir: a.v.GetString(keyReportDir),
				Keywords:  keywords,
			}, seo.NewClient(timeout), nil, a.logger)
			if err != nil {
				return err
			}

			if every > 0 {
				return auditor.RunEvery(cmd.Context(), every)
			}

			report, err := auditor.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), seo.RenderReport(report))
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", report.Path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&siteURL, "site", "", "site to audit (default: the url for --mode)")
	f.StringVar(&mode, "mode", "prd", "site url to use when --site is not given: dev|prd")
	f.StringP("dir", "d", "", "static pages directory (env STATIC_DIR)")
	f.String("reports", "", "report directory (env REPORT_DIR)")
	f.StringSliceVarP(&keywords, "keywords", "k", nil, "keywords to count on the home page")
	f.DurationVar(&every, "every", 0, "repeat the audit at this interval (e.g. 24h)")
	f.DurationVar(&timeout, "timeout", 15*time.Second, "per-request timeout")
	return cmd
}
