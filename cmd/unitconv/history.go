package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/couchcryptid/unit-converter/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conversions yet")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tCATEGORY\tCONVERSION")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Category, a.describeEntry(e))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.MaxEntries, "number of entries to show")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every history entry (favorites are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})
	return cmd
}

func (a *app) describeEntry(e history.Entry) string {
	return a.converter.Describe(domain.ConversionResult{
		Category: e.Category,
		From:     e.From,
		To:       e.To,
		Input:    e.Input,
		Output:   e.Output,
	})
}

func newFavoriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <category> <from> <to> [value]",
		Short: "Add a unit pair to favorites, or remove it if already saved",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := history.Favorite{Category: normalize(args[0]), From: normalize(args[1]), To: normalize(args[2])}
			if len(args) == 4 {
				value, err := domain.ParseValue(args[3])
				if err != nil {
					return err
				}
				f.Value = domain.FormatNumber(value)
			}
			if err := a.checkPair(f.Category, f.From, f.To); err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			added, err := store.ToggleFavorite(cmd.Context(), f)
			if err != nil {
				return err
			}
			verb := "removed"
			if added {
				verb = "added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s favorite %s\n", verb, f.Key())
			return nil
		},
	}
}

func (a *app) checkPair(category, from, to string) error {
	cat, err := a.converter.Catalog().Category(category)
	if err != nil {
		return err
	}
	for _, id := range []string{from, to} {
		if _, ok := cat.Unit(id); !ok {
			return fmt.Errorf("%w: %q in category %q", domain.ErrUnsupportedUnit, id, category)
		}
	}
	return nil
}

func newFavoritesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List saved unit pairs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			favs, err := store.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			if len(favs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no favorites yet")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tFROM\tTO\tVALUE")
			for _, f := range favs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Category, f.From, f.To, f.Value)
			}
			return tw.Flush()
		},
	}
}
