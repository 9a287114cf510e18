package stats

import "github.com/verte-zerg/studydeck/internal/history"

// TopSets returns the titles of the n most studied sets.
func TopSets(entries []history.Entry, n int) []string {
	perSet := history.Summarize(entries).PerSet
	if n <= 0 || len(perSet) == 0 {
		return nil
	}
	if n > len(perSet) {
		n = len(perSet)
	}
	out := make([]string, 0, n)
	for _, s := range perSet[:n] {
		out = append(out, s.Title)
	}
	return out
}
