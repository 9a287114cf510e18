package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/studydeck/internal/history"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
	if got := MovingAverage([]float64{1, 2}, 1); got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected copy for window 1, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5}); got != "++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, history.PeriodWeek, rankedEntries()); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Summary (Last 7 days)",
		"Sessions: 6",
		"Avg score: 63.3",
		"Best score: 90",
		"Most studied: Verbs, Nouns, Capitals",
		"Needs practice: Capitals, Nouns, Verbs",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, history.PeriodAll, nil); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No study sessions found.") {
		t.Fatalf("unexpected empty summary: %q", buf.String())
	}
}

func TestRenderHistoryTableNewestFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	entries := []history.Entry{
		{ID: "0123456789", SetTitle: "Old", Date: base, Score: 50, Correct: 1, Total: 2},
		{ID: "new", SetTitle: "New", Date: base.Add(time.Hour), Score: 100},
	}
	var buf bytes.Buffer
	if err := RenderHistoryTable(&buf, entries); err != nil {
		t.Fatalf("RenderHistoryTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "New") || !strings.Contains(lines[1], "-") {
		t.Fatalf("expected newest row first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "1/2") || !strings.HasSuffix(lines[2], "01234567") {
		t.Fatalf("unexpected oldest row %q", lines[2])
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurvesWithSize(&buf, rankedEntries(), 3, 40, 5, false); err != nil {
		t.Fatalf("RenderCurves failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Score Curve\n") || !strings.Contains(out, "Avg of 3") {
		t.Fatalf("unexpected curve output:\n%s", out)
	}
	buf.Reset()
	if err := RenderCurves(&buf, nil, 3); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for empty history, got %q (%v)", buf.String(), err)
	}
}

func TestDurationLabel(t *testing.T) {
	if got := DurationLabel(61500); got != "1:01" {
		t.Fatalf("unexpected label %q", got)
	}
}
