package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ReviewFolder receives duplicate pair folders inside each category.
const ReviewFolder = "_review"

// Move records one rename performed (or planned) by Cleanup.
type Move struct {
	From string
	To   string
}

// CleanupReport lists what Cleanup moved.
type CleanupReport struct {
	Folders []Move
	Guides  []Move
}

// Cleanup treats "a-to-b" and "b-to-a" inside a category folder as the same
// pair. The alphabetically first folder is kept. The others move into the
// category's _review folder, and their conversion guide moves into the kept
// folder unless it already has one. With dryRun nothing is touched.
func Cleanup(ctx context.Context, dir string, dryRun bool, logger *slog.Logger) (CleanupReport, error) {
	var report CleanupReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("read static dir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() || e.Name() == ReviewFolder {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := cleanupCategory(filepath.Join(dir, e.Name()), dryRun, logger, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func cleanupCategory(catDir string, dryRun bool, logger *slog.Logger, report *CleanupReport) error {
	entries, err := os.ReadDir(catDir)
	if err != nil {
		return fmt.Errorf("read category dir: %w", err)
	}

	pairs := make(map[string][]string)
	var keys []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ReviewFolder {
			continue
		}
		from, to, ok := splitPair(e.Name())
		if !ok {
			continue
		}
		key := pairKey(from, to)
		if _, seen := pairs[key]; !seen {
			keys = append(keys, key)
		}
		pairs[key] = append(pairs[key], e.Name())
	}
	slices.Sort(keys)

	for _, key := range keys {
		folders := pairs[key]
		if len(folders) < 2 {
			continue
		}
		slices.SortFunc(folders, compareFolders)

		keep := filepath.Join(catDir, folders[0])
		reviewDir := filepath.Join(catDir, ReviewFolder)
		if !dryRun {
			if err := os.MkdirAll(reviewDir, 0o755); err != nil {
				return fmt.Errorf("create review dir: %w", err)
			}
		}

		for _, folder := range folders[1:] {
			src := filepath.Join(catDir, folder)
			if err := moveGuide(src, keep, dryRun, logger, report); err != nil {
				return err
			}

			dst := filepath.Join(reviewDir, folder)
			logger.Info("moving duplicate folder", "from", src, "to", dst, "dry_run", dryRun)
			if !dryRun {
				if err := os.Rename(src, dst); err != nil {
					return fmt.Errorf("move %s to review: %w", folder, err)
				}
			}
			report.Folders = append(report.Folders, Move{From: src, To: dst})
		}
	}
	return nil
}

// moveGuide moves src's conversion guide into keep when keep has none.
func moveGuide(src, keep string, dryRun bool, logger *slog.Logger, report *CleanupReport) error {
	guideSrc := filepath.Join(src, GuideFile)
	guideDst := filepath.Join(keep, GuideFile)

	if _, err := os.Stat(guideSrc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat guide: %w", err)
	}
	if _, err := os.Stat(guideDst); err == nil {
		logger.Warn("kept folder already has a guide, leaving duplicate for review", "guide", guideSrc)
		return nil
	}

	logger.Info("moving guide", "from", guideSrc, "to", guideDst, "dry_run", dryRun)
	if !dryRun {
		if err := os.Rename(guideSrc, guideDst); err != nil {
			return fmt.Errorf("move guide: %w", err)
		}
	}
	report.Guides = append(report.Guides, Move{From: guideSrc, To: guideDst})
	return nil
}

func splitPair(folder string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(folder, "-to-")
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

// pairKey is the same for a pair and its reverse.
func pairKey(from, to string) string {
	if to < from {
		from, to = to, from
	}
	return PairFolder(from, to)
}

func compareFolders(a, b string) int {
	fromA, toA, _ := splitPair(a)
	fromB, toB, _ := splitPair(b)
	if c := strings.Compare(fromA, fromB); c != 0 {
		return c
	}
	return strings.Compare(toA, toB)
}
