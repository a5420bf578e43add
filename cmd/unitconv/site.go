package main

import (
	"fmt"
	"path/filepath"

	"github.com/couchcryptid/unit-converter/internal/site"
	"github.com/spf13/cobra"
)

func newPagesCmd(a *app) *cobra.Command {
	var mode, tmplPath string

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Generate landing pages for every category and unit pair",
		Long: `Render index.html for the home page, each category, and each ordered unit
pair under the static pages directory. An existing conversionguide.html in a
pair folder is embedded in its page; otherwise a conversion table is used.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			a.bindLocal(cmd, keyStaticDir, "out")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			siteURL, err := a.siteURL(mode)
			if err != nil {
				return err
			}
			gen, err := site.NewGenerator(a.converter, site.Options{
				SiteURL:      siteURL,
				Dir:          a.v.GetString(keyStaticDir),
				TemplatePath: tmplPath,
				Logger:       a.logger,
			})
			if err != nil {
				return err
			}

			stats, err := gen.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d pair pages across %d categories (%d guides embedded)\n",
				stats.PairPages, stats.Categories, stats.GuidesEmbedded)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "dev", "site url to use: dev|prd")
	cmd.Flags().StringP("out", "o", "", "static pages directory (env STATIC_DIR)")
	cmd.Flags().StringVar(&tmplPath, "template", "", "template file overriding the built-in page and table templates")
	return cmd
}

func newSitemapCmd(a *app) *cobra.Command {
	var mode, out string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for the pages that exist",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			a.bindLocal(cmd, keyStaticDir, "dir")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			siteURL, err := a.siteURL(mode)
			if err != nil {
				return err
			}
			dir := a.v.GetString(keyStaticDir)
			if out == "" {
				out = filepath.Join(dir, "sitemap.xml")
			}

			set, err := site.BuildSitemap(a.converter.Catalog(), dir, siteURL)
			if err != nil {
				return err
			}
			if err := site.WriteSitemapFile(out, set); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d urls to %s\n", len(set.URLs), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "dev", "site url to use: dev|prd")
	cmd.Flags().StringP("dir", "d", "", "static pages directory (env STATIC_DIR)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <dir>/sitemap.xml)")
	return cmd
}

func newCleanupCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Move reversed duplicate pair folders into _review",
		Long: `Inside each category folder, "a-to-b" and "b-to-a" are the same pair. The
alphabetically first folder is kept and the others move into _review, handing
their conversionguide.html to the kept folder when it has none.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			a.bindLocal(cmd, keyStaticDir, "dir")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := site.Cleanup(cmd.Context(), a.v.GetString(keyStaticDir), dryRun, a.logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			verb := "moved"
			if dryRun {
				verb = "would move"
			}
			for _, m := range report.Guides {
				fmt.Fprintf(w, "%s guide %s -> %s\n", verb, m.From, m.To)
			}
			for _, m := range report.Folders {
				fmt.Fprintf(w, "%s folder %s -> %s\n", verb, m.From, m.To)
			}
			fmt.Fprintf(w, "%d folders, %d guides\n", len(report.Folders), len(report.Guides))
			return nil
		},
	}

	cmd.Flags().StringP("dir", "d", "", "static pages directory (env STATIC_DIR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report moves without touching the filesystem")
	return cmd
}
