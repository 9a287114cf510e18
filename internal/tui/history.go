package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/model"
	"github.com/verte-zerg/studydeck/internal/stats"
)

const plotHeight = 10

// historyScreen shows the sessions of one period.
type historyScreen struct {
	app        *App
	period     history.Period
	window     int
	report     stats.Report
	rows       []history.Entry
	table      table.Model
	curve      viewport.Model
	showCurve  bool
	confirming bool
	width      int
	height     int
}

func newHistoryScreen(a *App, period history.Period) *historyScreen {
	if period == "" {
		period = a.opts.History.Period
	}
	if period == "" {
		period = history.PeriodAll
	}
	window := a.opts.History.CurveWindow
	if window <= 0 {
		window = model.DefaultCurveWindow
	}
	s := &historyScreen{
		app:    a,
		period: period,
		window: window,
		width:  80,
		height: 24,
		curve:  viewport.New(80, plotHeight),
	}
	s.table = table.New(
		table.WithColumns(historyColumns(80)),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	s.table.SetStyles(tableStyles())
	s.refresh()
	return s
}

func historyColumns(width int) []table.Column {
	set := maxInt(12, width-17-7-8-6-5)
	return []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Set", Width: set},
		{Title: "Score", Width: 7},
		{Title: "Correct", Width: 8},
		{Title: "Time", Width: 6},
	}
}

func (s *historyScreen) refresh() {
	s.report = stats.BuildReport(s.app.history.Entries(), model.HistoryConfig{
		Period:      s.period,
		CurveWindow: s.window,
	}, s.app.now())

	s.rows = make([]history.Entry, 0, len(s.report.Entries))
	for i := len(s.report.Entries) - 1; i >= 0; i-- {
		s.rows = append(s.rows, s.report.Entries[i])
	}
	rows := make([]table.Row, 0, len(s.rows))
	for _, e := range s.rows {
		correct := "-"
		if e.Total > 0 {
			correct = fmt.Sprintf("%d/%d", e.Correct, e.Total)
		}
		rows = append(rows, table.Row{
			e.Date.Local().Format("2006-01-02 15:04"),
			e.SetTitle,
			fmt.Sprintf("%d%%", e.Score),
			correct,
			stats.DurationLabel(e.DurationMs),
		})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(maxInt(0, len(rows)-1))
	}
	s.renderCurve()
}

func (s *historyScreen) renderCurve() {
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, s.report.Entries, s.window, s.width, plotHeight, true); err != nil {
		s.curve.SetContent(fmt.Sprintf("Failed to render curve: %v", err))
		return
	}
	s.curve.SetContent(strings.TrimRight(buf.String(), "\n"))
}

func (s *historyScreen) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if s.confirming {
		return s.updateConfirm(key)
	}
	switch key.String() {
	case "esc":
		return s.app.back()
	case "left", "h":
		return s.app.navigate(periodPath(s.movePeriod(-1)))
	case "right", "l":
		return s.app.navigate(periodPath(s.movePeriod(1)))
	case "c":
		s.showCurve = !s.showCurve
		return nil
	case "=":
		s.window = nextCurveWindow(s.window)
		s.renderCurve()
		return nil
	case "-":
		s.window = prevCurveWindow(s.window)
		s.renderCurve()
		return nil
	case "d":
		if _, ok := s.selected(); ok && !s.showCurve {
			s.confirming = true
		}
		return nil
	}
	var cmd tea.Cmd
	if s.showCurve {
		s.curve, cmd = s.curve.Update(msg)
		return cmd
	}
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *historyScreen) updateConfirm(key tea.KeyMsg) tea.Cmd {
	s.confirming = false
	if key.String() != "y" {
		return nil
	}
	e, ok := s.selected()
	if !ok {
		return nil
	}
	if !s.app.history.Delete(e.ID) {
		s.app.logger.Warn("history entry not found", zap.String("id", e.ID))
		s.app.setError(fmt.Errorf("entry %s not found", e.ID))
		return nil
	}
	s.app.setStatus("Deleted session of %q", e.SetTitle)
	s.refresh()
	return nil
}

func (s *historyScreen) selected() (history.Entry, bool) {
	idx := s.table.Cursor()
	if idx < 0 || idx >= len(s.rows) {
		return history.Entry{}, false
	}
	return s.rows[idx], true
}

func (s *historyScreen) movePeriod(delta int) history.Period {
	periods := history.Periods()
	idx := 0
	for i, p := range periods {
		if p == s.period {
			idx = i
		}
	}
	return periods[(idx+delta+len(periods))%len(periods)]
}

func periodPath(p history.Period) string {
	return Route{Screen: ScreenHistory, Period: p}.String()
}

func (s *historyScreen) resize(width, height int) {
	s.width = width
	s.height = height
	tabsHeight := lipgloss.Height(s.renderTabs())
	cardsHeight := lipgloss.Height(s.renderCards())
	s.table.SetColumns(historyColumns(width))
	s.table.SetWidth(width)
	s.table.SetHeight(maxInt(3, height-tabsHeight-cardsHeight-1))
	s.curve.Width = width
	s.curve.Height = maxInt(1, height-tabsHeight-1)
	s.renderCurve()
}

func (s *historyScreen) renderTabs() string {
	periods := history.Periods()
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		if p == s.period {
			parts = append(parts, activeNavStyle.Render(p.Label()))
			continue
		}
		parts = append(parts, inactiveNavStyle.Render(p.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (s *historyScreen) renderCards() string {
	sum := s.report.Summary
	if sum.Count == 0 {
		return ""
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", sum.Count)),
		metricCard("Avg score", fmt.Sprintf("%.1f", sum.AverageScore)),
		metricCard("Best", fmt.Sprintf("%d%%", sum.BestScore)),
		metricCard("Worst", fmt.Sprintf("%d%%", sum.WorstScore)),
	}
	if weak := stats.WeakSets(s.report.Entries, 1); len(weak) > 0 && len(sum.PerSet) > 1 {
		cards = append(cards, metricCard("Needs practice", truncateLine(weak[0], 20)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (s *historyScreen) view(width, height int) string {
	tabs := s.renderTabs()
	if len(s.rows) == 0 {
		return tabs + "\n\n" + fmt.Sprintf("No study sessions in %s.", strings.ToLower(s.period.Label()))
	}
	if s.confirming {
		e, _ := s.selected()
		prompt := fmt.Sprintf("Delete the %s session of %q?\n\n%s",
			e.Date.Local().Format("2006-01-02 15:04"), e.SetTitle,
			mutedStyle.Render("y: delete  any other key: cancel"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(prompt))
	}
	if s.showCurve {
		return tabs + "\n" + s.curve.View()
	}
	return tabs + "\n" + s.renderCards() + "\n" + s.table.View()
}

func (s *historyScreen) help() string {
	if s.showCurve {
		return "left/right: period  c: table  -/=: window  scroll: up/down  esc: back"
	}
	return "left/right: period  c: curve  d: delete  esc: back"
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
