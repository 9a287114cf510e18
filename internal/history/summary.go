package history

import (
	"sort"
	"time"
)

// Summary aggregates a list of entries.
type Summary struct {
	Count        int
	AverageScore float64
	BestScore    int
	WorstScore   int
	Latest       time.Time
	PerSet       []SetCount
}

// SetCount counts sessions of one study set.
type SetCount struct {
	Title        string
	Sessions     int
	AverageScore float64
}

// Summarize aggregates entries. An empty input yields a zero Summary.
func Summarize(entries []Entry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(entries), BestScore: entries[0].Score, WorstScore: entries[0].Score}
	type acc struct {
		sessions int
		total    int
	}
	perSet := map[string]*acc{}
	total := 0
	for _, e := range entries {
		total += e.Score
		if e.Score > s.BestScore {
			s.BestScore = e.Score
		}
		if e.Score < s.WorstScore {
			s.WorstScore = e.Score
		}
		if e.Date.After(s.Latest) {
			s.Latest = e.Date
		}
		a, ok := perSet[e.SetTitle]
		if !ok {
			a = &acc{}
			perSet[e.SetTitle] = a
		}
		a.sessions++
		a.total += e.Score
	}
	s.AverageScore = float64(total) / float64(len(entries))
	for title, a := range perSet {
		s.PerSet = append(s.PerSet, SetCount{
			Title:        title,
			Sessions:     a.sessions,
			AverageScore: float64(a.total) / float64(a.sessions),
		})
	}
	sort.Slice(s.PerSet, func(i, j int) bool {
		if s.PerSet[i].Sessions == s.PerSet[j].Sessions {
			return s.PerSet[i].Title < s.PerSet[j].Title
		}
		return s.PerSet[i].Sessions > s.PerSet[j].Sessions
	})
	return s
}

// SortByDate returns a copy of entries ordered oldest first. Entries with
// equal dates keep their relative order.
func SortByDate(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
