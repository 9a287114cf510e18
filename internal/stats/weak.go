package stats

import (
	"sort"

	"github.com/verte-zerg/studydeck/internal/history"
)

// WeakSets returns the titles of the n sets with the lowest average score.
func WeakSets(entries []history.Entry, n int) []string {
	perSet := history.Summarize(entries).PerSet
	if n <= 0 || len(perSet) == 0 {
		return nil
	}
	sort.SliceStable(perSet, func(i, j int) bool {
		if perSet[i].AverageScore == perSet[j].AverageScore {
			return perSet[i].Title < perSet[j].Title
		}
		return perSet[i].AverageScore < perSet[j].AverageScore
	})
	if n > len(perSet) {
		n = len(perSet)
	}
	out := make([]string, 0, n)
	for _, s := range perSet[:n] {
		out = append(out, s.Title)
	}
	return out
}
