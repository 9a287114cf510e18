package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/stats"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

const recentScores = 20

type menuItem struct {
	label string
	desc  string
	path  string
}

// menu is a vertical list of destinations.
type menu struct {
	items  []menuItem
	cursor int
}

func (m *menu) update(a *App, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)
	case "enter", " ":
		return a.navigate(m.items[m.cursor].path)
	default:
		if n := digit(msg.String()); n >= 1 && n <= len(m.items) {
			m.cursor = n - 1
			return a.navigate(m.items[m.cursor].path)
		}
	}
	return nil
}

func (m *menu) view() string {
	lines := make([]string, 0, len(m.items))
	for i, item := range m.items {
		label := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+label)+"  "+mutedStyle.Render(item.desc))
			continue
		}
		lines = append(lines, "  "+label+"  "+mutedStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}

func digit(key string) int {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '0')
}

type homeScreen struct {
	app      *App
	menu     menu
	sets     int
	sessions int
	recent   []float64
}

func newHomeScreen(a *App) *homeScreen {
	entries := history.SortByDate(a.history.Entries())
	if len(entries) > recentScores {
		entries = entries[len(entries)-recentScores:]
	}
	return &homeScreen{
		app: a,
		menu: menu{items: []menuItem{
			{label: "Study", desc: "Pick a set and start a session", path: "sets"},
			{label: "Create", desc: "Create a new study set", path: "create"},
			{label: "History", desc: "Review past sessions", path: "history"},
		}},
		sets:     len(a.sets.List()),
		sessions: len(a.history.Entries()),
		recent:   stats.Scores(entries),
	}
}

func (s *homeScreen) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.String() == "q" {
		return tea.Quit
	}
	return s.menu.update(s.app, key)
}

func (s *homeScreen) view(width, height int) string {
	lines := []string{
		titleStyle.Render("What would you like to do?"),
		"",
		s.menu.view(),
		"",
		mutedStyle.Render(fmt.Sprintf("Sets: %d  Sessions: %d", s.sets, s.sessions)),
	}
	if len(s.recent) > 0 {
		lines = append(lines, mutedStyle.Render("Recent scores: ")+stats.Sparkline(s.recent))
	}
	return strings.Join(lines, "\n")
}

func (s *homeScreen) help() string {
	return "up/down: move  enter: open  1-3: jump  q: quit"
}

type createScreen struct {
	app  *App
	menu menu
}

func newCreateScreen(a *App) *createScreen {
	items := make([]menuItem, 0, len(studyset.Kinds()))
	for _, kind := range studyset.Kinds() {
		items = append(items, menuItem{
			label: kind.Label(),
			desc:  kind.Description(),
			path:  "create/" + string(kind),
		})
	}
	return &createScreen{app: a, menu: menu{items: items}}
}

func (s *createScreen) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Type == tea.KeyEsc {
		return s.app.back()
	}
	return s.menu.update(s.app, key)
}

func (s *createScreen) view(width, height int) string {
	return titleStyle.Render("Choose the kind of set") + "\n\n" + s.menu.view()
}

func (s *createScreen) help() string {
	return "up/down: move  enter: choose  esc: back"
}
