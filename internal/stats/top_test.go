package stats

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/studydeck/internal/history"
)

func rankedEntries() []history.Entry {
	return []history.Entry{
		{SetTitle: "Verbs", Score: 90},
		{SetTitle: "Nouns", Score: 40},
		{SetTitle: "Verbs", Score: 70},
		{SetTitle: "Capitals", Score: 40},
		{SetTitle: "Nouns", Score: 60},
		{SetTitle: "Verbs", Score: 80},
	}
}

func TestTopSets(t *testing.T) {
	top := TopSets(rankedEntries(), 2)
	if !reflect.DeepEqual(top, []string{"Verbs", "Nouns"}) {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopSets(rankedEntries(), 10); len(got) != 3 {
		t.Fatalf("expected all 3 sets, got %v", got)
	}
	if got := TopSets(nil, 2); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestWeakSets(t *testing.T) {
	weak := WeakSets(rankedEntries(), 2)
	if !reflect.DeepEqual(weak, []string{"Capitals", "Nouns"}) {
		t.Fatalf("unexpected order: %v", weak)
	}
	if got := WeakSets(rankedEntries(), 0); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
