// Package report renders the daily multi-group market analysis.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"

	"stockanalyze/fetch"
	"stockanalyze/pkg/id"
)

// Generator builds per-date Markdown reports for configured symbol groups
// and caches them on disk so repeat runs for the same date are free.
type Generator struct {
	coordinator *fetch.Coordinator
	outDir      string
	now         func() time.Time
}

func NewGenerator(coordinator *fetch.Coordinator, outDir string) *Generator {
	return &Generator{coordinator: coordinator, outDir: outDir, now: time.Now}
}

// path is the cache location for a date's report.
func (g *Generator) path(date string) string {
	return filepath.Join(g.outDir, fmt.Sprintf("market_analysis_%s.md", date))
}

// Generate renders the report for the requested date (today when empty) and
// returns its path and content. An existing report for the date is reused
// unless force is set.
func (g *Generator) Generate(ctx context.Context, groups []Group, date string, force bool) (string, string, error) {
	if date == "" {
		date = g.now().Format("2006-01-02")
	}
	path := g.path(date)

	if !force {
		if cached, err := os.ReadFile(path); err == nil {
			log.Info().Str("path", path).Msg("using cached report")
			return path, string(cached), nil
		}
	}

	// One pass through the coordinator warms every series before the
	// per-group rendering reads them back.
	results := g.coordinator.Load(ctx, AllSymbols(groups))
	bySymbol := make(map[string]fetch.Result, len(results))
	for _, r := range results {
		bySymbol[r.Symbol] = r
	}

	runID := id.New()
	var w strings.Builder
	fmt.Fprintf(&w, "# Market Analysis Report (%s)\n\n", date)
	fmt.Fprintf(&w, "Run: %s\n\n", runID)

	for _, group := range groups {
		fmt.Fprintf(&w, "## %s\n\n", group.Name)
		for _, symbol := range group.Symbols {
			res := bySymbol[symbol]
			if res.Err != nil {
				fmt.Fprintf(&w, "### %s\n\nAnalysis unavailable: %v\n\n", symbol, res.Err)
				continue
			}
			RenderSymbol(&w, AnalyzeSymbol(res.Series, date))
		}
		w.WriteString("---\n\n")
	}

	content := w.String()
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return "", "", fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("report: write %s: %w", path, err)
	}
	log.Info().Str("path", path).Str("run", runID).Int("groups", len(groups)).Msg("report generated")
	return path, content, nil
}
