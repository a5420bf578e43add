package seo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Level is a task priority.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Levels in report order.
var Levels = []Level{LevelHigh, LevelMedium, LevelLow}

// Task is one suggested fix.
type Task struct {
	Level Level  `json:"level"`
	Msg   string `json:"msg"`
}

// TaskStatus marks whether a task was already reported by an earlier run.
type TaskStatus struct {
	Task
	SeenBefore bool
}

// pageTasks derives suggestions from the on-page checks.
func pageTasks(pageURL string, a PageAnalysis) []Task {
	var tasks []Task
	add := func(l Level, msg string) { tasks = append(tasks, Task{Level: l, Msg: msg}) }

	if !a.HasTitle {
		add(LevelHigh, "Add a <title> tag with your primary keyword.")
	}
	switch {
	case a.H1Count == 0:
		add(LevelHigh, "Add at least one <h1> with your main keyword.")
	case a.H1Count > 1:
		add(LevelMedium, "Use only one <h1>; change others to <h2>/<h3>.")
	}
	switch {
	case a.Images > 0 && a.ImagesWithAlt < a.Images:
		add(LevelHigh, "Add descriptive alt text to all images.")
	case a.Images == 0:
		add(LevelLow, "Consider adding at least one branded logo image with alt text.")
	}
	if !a.HasDescription {
		add(LevelHigh, "Add a meta description (~155 chars) with keywords.")
	}
	if !a.HasSchema {
		add(LevelMedium, "Add structured data (JSON-LD schema) for better search visibility.")
	}
	if a.Links == 0 {
		add(LevelMedium, "Add internal links with keyword-rich anchor text.")
	}
	if !a.MentionsSitemap {
		add(LevelLow, "Reference sitemap.xml from the page and submit it to Google Search Console.")
	}
	for _, k := range a.Keywords {
		if k.Count == 0 {
			add(LevelMedium, fmt.Sprintf("Add keyword %q to page %s", k.Keyword, pageURL))
		}
	}
	return tasks
}

// Ledger is the record of every task reported so far.
type Ledger struct {
	Tasks []Task `json:"tasks"`
}

// LoadLedger reads the ledger at path. A missing file is an empty ledger.
func LoadLedger(path string) (Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Ledger{Tasks: []Task{}}, nil
	}
	if err != nil {
		return Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return Ledger{}, fmt.Errorf("decode ledger %s: %w", path, err)
	}
	return l, nil
}

// Save writes the ledger as indented JSON.
func (l Ledger) Save(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // not sensitive
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// Mark flags tasks already in the ledger and appends the new ones. Tasks
// match on their message.
func (l *Ledger) Mark(tasks []Task) []TaskStatus {
	seen := make(map[string]bool, len(l.Tasks))
	for _, t := range l.Tasks {
		seen[t.Msg] = true
	}

	out := make([]TaskStatus, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskStatus{Task: t, SeenBefore: seen[t.Msg]})
		if !seen[t.Msg] {
			l.Tasks = append(l.Tasks, t)
			seen[t.Msg] = true
		}
	}
	return out
}

// GroupByLevel buckets statuses by level, keeping their order.
func GroupByLevel(statuses []TaskStatus) map[Level][]TaskStatus {
	groups := make(map[Level][]TaskStatus, len(Levels))
	for _, s := range statuses {
		groups[s.Level] = append(groups[s.Level], s)
	}
	return groups
}
