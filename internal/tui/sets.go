package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

// setsScreen lists the stored sets.
type setsScreen struct {
	app        *App
	sets       []studyset.Set
	table      table.Model
	confirming bool
}

func newSetsScreen(a *App) *setsScreen {
	s := &setsScreen{app: a}
	s.table = table.New(
		table.WithColumns(setColumns(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s.table.SetStyles(tableStyles())
	s.reload()
	return s
}

func setColumns(width int) []table.Column {
	title := maxInt(12, width-16-10-8-16-4)
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Kind", Width: 16},
		{Title: "Items", Width: 6},
		{Title: "Best", Width: 6},
		{Title: "Updated", Width: 16},
	}
}

func (s *setsScreen) reload() {
	s.sets = s.app.sets.List()
	best := bestScores(s.app.history.Entries())
	rows := make([]table.Row, 0, len(s.sets))
	for _, set := range s.sets {
		bestLabel := "-"
		if score, ok := best[set.ID]; ok {
			bestLabel = fmt.Sprintf("%d%%", score)
		}
		rows = append(rows, table.Row{
			set.Title,
			set.Kind.Label(),
			fmt.Sprintf("%d", len(set.Items)),
			bestLabel,
			set.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(maxInt(0, len(rows)-1))
	}
}

func bestScores(entries []history.Entry) map[string]int {
	best := map[string]int{}
	for _, e := range entries {
		if e.SetID == "" {
			continue
		}
		if prev, ok := best[e.SetID]; !ok || e.Score > prev {
			best[e.SetID] = e.Score
		}
	}
	return best
}

func (s *setsScreen) selected() (studyset.Set, bool) {
	idx := s.table.Cursor()
	if idx < 0 || idx >= len(s.sets) {
		return studyset.Set{}, false
	}
	return s.sets[idx], true
}

func (s *setsScreen) update(msg tea.Msg) tea.Cmd {
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
	case "n":
		return s.app.navigate("create")
	case "enter":
		if set, ok := s.selected(); ok {
			return s.app.navigate("study/" + set.ID)
		}
		return nil
	case "e":
		if set, ok := s.selected(); ok {
			return s.app.navigate("edit/" + set.ID)
		}
		return nil
	case "d":
		if _, ok := s.selected(); ok {
			s.confirming = true
		}
		return nil
	}
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (s *setsScreen) updateConfirm(key tea.KeyMsg) tea.Cmd {
	s.confirming = false
	if key.String() != "y" {
		return nil
	}
	set, ok := s.selected()
	if !ok {
		return nil
	}
	if err := s.app.sets.Delete(set.ID); err != nil {
		s.app.logger.Warn("failed to delete set", zap.String("id", set.ID), zap.Error(err))
		s.app.setError(err)
		return nil
	}
	s.app.setStatus("Deleted %q", set.Title)
	s.reload()
	return nil
}

func (s *setsScreen) resize(width, height int) {
	s.table.SetColumns(setColumns(width))
	s.table.SetWidth(width)
	s.table.SetHeight(maxInt(1, height-3))
}

func (s *setsScreen) view(width, height int) string {
	if len(s.sets) == 0 {
		return titleStyle.Render("Study sets") + "\n\nNo sets yet. Press n to create one."
	}
	body := titleStyle.Render("Study sets") + "\n\n" + s.table.View()
	if s.confirming {
		set, _ := s.selected()
		box := modalStyle.Render(fmt.Sprintf("Delete %q?\n\n%s", set.Title, mutedStyle.Render("y: delete  any other key: cancel")))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	}
	return strings.TrimRight(body, "\n")
}

func (s *setsScreen) help() string {
	return "enter: study  e: edit  d: delete  n: new  esc: back"
}
