package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/couchcryptid/unit-converter/internal/history"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		category  string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between two units",
		Long: `Convert a value between two units of the same category. The category is
inferred from the units unless --category is given. Decimal commas are
accepted ("1,5"). Negative values need a "--" separator.`,
		Example: `  unitconv convert 1 kilometer mile
  unitconv convert -- -40 celsius fahrenheit
  unitconv convert 1,5 liter gallon_us --category volume`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := domain.ParseValue(args[0])
			if err != nil {
				return err
			}
			from, to := normalize(args[1]), normalize(args[2])

			cat := normalize(category)
			if cat == "" {
				if cat, err = inferCategory(a.converter.Catalog(), from, to); err != nil {
					return err
				}
			}

			res, err := a.converter.Do(domain.ConversionRequest{Category: cat, From: from, To: to, Value: value})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.converter.Describe(res))

			if noHistory {
				return nil
			}
			return a.recordHistory(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "unit category (length, weight, temperature, volume)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the conversion in history")
	return cmd
}

func (a *app) recordHistory(cmd *cobra.Command, res domain.ConversionResult) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Push(cmd.Context(), history.Entry{
		Category:  res.Category,
		From:      res.From,
		To:        res.To,
		Input:     res.Input,
		Output:    res.Output,
		Formatted: res.Formatted,
	})
	return err
}

// inferCategory returns the first category that has both units.
func inferCategory(catalog *domain.Catalog, from, to string) (string, error) {
	for _, cat := range catalog.Categories() {
		_, okFrom := cat.Unit(from)
		_, okTo := cat.Unit(to)
		if okFrom && okTo {
			return cat.ID(), nil
		}
	}
	return "", fmt.Errorf("%w: no category has both %q and %q", domain.ErrUnsupportedUnit, from, to)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newCategoriesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List unit categories and their units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.converter.Catalog().Describe()
			w := cmd.OutOrStdout()
			switch format {
			case "table":
				return writeCategoryTable(w, view)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(view); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("invalid --format %q (expected table|json|yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	return cmd
}

func writeCategoryTable(w io.Writer, view domain.CatalogView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tUNIT\tSYMBOL\tLABEL")
	for _, c := range view.Categories {
		for _, u := range c.Units {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, u.ID, u.Symbol, u.Label)
		}
	}
	return tw.Flush()
}
