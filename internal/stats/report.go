package stats

import (
	"strings"
	"time"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/model"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Period  history.Period
	Entries []history.Entry
	Window  []history.Entry
	Summary history.Summary
}

// BuildReport filters entries by period and set, orders them by date and
// trims them to the configured limits.
func BuildReport(entries []history.Entry, cfg model.HistoryConfig, now time.Time) Report {
	period := cfg.Period
	if period == "" {
		period = history.PeriodAll
	}
	filtered := history.Filter(entries, period, now)
	if cfg.Set != "" {
		filtered = filterSet(filtered, cfg.Set)
	}
	sorted := history.SortByDate(filtered)
	if cfg.Last > 0 && len(sorted) > cfg.Last {
		sorted = sorted[len(sorted)-cfg.Last:]
	}
	return Report{
		Period:  period,
		Entries: sorted,
		Window:  lastEntries(sorted, cfg.CurveWindow),
		Summary: history.Summarize(sorted),
	}
}

func filterSet(entries []history.Entry, set string) []history.Entry {
	out := make([]history.Entry, 0, len(entries))
	for _, e := range entries {
		if e.SetID == set || strings.EqualFold(e.SetTitle, set) {
			out = append(out, e)
		}
	}
	return out
}

func lastEntries(entries []history.Entry, window int) []history.Entry {
	if window <= 0 || len(entries) <= window {
		return entries
	}
	return entries[len(entries)-window:]
}
