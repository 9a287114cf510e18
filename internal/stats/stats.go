// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/studydeck/internal/history"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Scores extracts the scores of entries in order.
func Scores(entries []history.Entry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(e.Score)
	}
	return out
}

// RenderSummary prints a summary block for entries.
func RenderSummary(w io.Writer, period history.Period, entries []history.Entry) error {
	if _, err := fmt.Fprintf(w, "Summary (%s)\n", period.Label()); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No study sessions found.")
		return err
	}
	s := history.Summarize(entries)
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", s.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg score: %.1f\n", s.AverageScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best score: %d\n", s.BestScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Last studied: %s\n", s.Latest.Local().Format("2006-01-02 15:04")); err != nil {
		return err
	}
	if top := TopSets(entries, 3); len(top) > 0 {
		if _, err := fmt.Fprintf(w, "Most studied: %s\n", strings.Join(top, ", ")); err != nil {
			return err
		}
	}
	if weak := WeakSets(entries, 3); len(weak) > 0 {
		if _, err := fmt.Fprintf(w, "Needs practice: %s\n", strings.Join(weak, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHistoryTable prints one row per entry, newest first.
func RenderHistoryTable(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	sorted := history.SortByDate(entries)
	headers := []string{"Date", "Set", "Score", "Correct", "ID"}
	rows := make([][]string, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		rows = append(rows, []string{
			e.Date.Local().Format("2006-01-02 15:04"),
			e.SetTitle,
			fmt.Sprintf("%d%%", e.Score),
			correctLabel(e),
			shortID(e.ID),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints the moving-average score curve.
func RenderCurves(w io.Writer, entries []history.Entry, window int) error {
	return RenderCurvesWithSize(w, entries, window, 0, 10, false)
}

// RenderCurvesWithSize prints the score curve sized to a given total width.
func RenderCurvesWithSize(w io.Writer, entries []history.Entry, window, totalWidth, height int, useColor bool) error {
	if len(entries) == 0 {
		return nil
	}
	scores := Scores(history.SortByDate(entries))

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Score Curve", []Series{
		{Name: "Score", Values: scores},
		{Name: fmt.Sprintf("Avg of %d", window), Values: MovingAverage(scores, window)},
	}, width, height, useColor)
}

func correctLabel(e history.Entry) string {
	if e.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", e.Correct, e.Total)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// DurationLabel formats a session duration as m:ss.
func DurationLabel(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	mins := int(d / time.Minute)
	secs := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", mins, secs)
}
