package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/studydeck/internal/studyset"
)

// editorScreen edits one set as a YAML document.
type editorScreen struct {
	app   *App
	set   studyset.Set
	isNew bool
	area  textarea.Model
	err   string
}

func newEditorScreen(a *App, route Route) (screen, tea.Cmd, error) {
	set := templateSet(route.Kind)
	isNew := route.SetID == ""
	if !isNew {
		stored, err := a.sets.Get(route.SetID)
		if err != nil {
			return nil, nil, err
		}
		set = stored
	}
	doc := set
	doc.ID = ""
	data, err := studyset.MarshalYAML(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode set: %w", err)
	}

	area := textarea.New()
	area.ShowLineNumbers = true
	area.CharLimit = 0
	area.MaxHeight = 0
	area.Cursor.SetMode(cursor.CursorStatic)
	area.SetValue(string(data))
	cmd := area.Focus()
	return &editorScreen{app: a, set: set, isNew: isNew, area: area}, cmd, nil
}

func (s *editorScreen) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return s.app.back()
		case "ctrl+s":
			return s.save()
		}
	}
	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return cmd
}

func (s *editorScreen) save() tea.Cmd {
	set, err := parseEditedSet(s.area.Value())
	if err != nil {
		s.err = err.Error()
		return nil
	}
	set.ID = s.set.ID
	set.CreatedAt = s.set.CreatedAt
	saved, err := s.app.sets.Save(set)
	if err != nil {
		s.err = err.Error()
		return nil
	}
	s.err = ""
	s.app.setStatus("Saved %q", saved.Title)
	return s.app.navigate("sets")
}

func parseEditedSet(doc string) (studyset.Set, error) {
	sets, err := studyset.ParseYAML([]byte(doc))
	if err != nil {
		return studyset.Set{}, err
	}
	if len(sets) != 1 {
		return studyset.Set{}, errors.New("the editor holds exactly one set")
	}
	return sets[0], nil
}

func (s *editorScreen) resize(width, height int) {
	s.area.SetWidth(width)
	s.area.SetHeight(maxInt(1, height-3))
}

func (s *editorScreen) view(width, height int) string {
	title := "Edit " + s.set.Title
	if s.isNew {
		title = fmt.Sprintf("New %s set", s.set.Kind.Label())
	}
	lines := []string{titleStyle.Render(title), "", s.area.View()}
	if s.err != "" {
		lines = append(lines, errorStyle.Render(truncateLine(s.err, width)))
	}
	return strings.Join(lines, "\n")
}

func (s *editorScreen) help() string {
	return "ctrl+s: save  esc: discard"
}

// templateSet returns a valid example set of kind to start editing from.
func templateSet(kind studyset.Kind) studyset.Set {
	set := studyset.Set{Title: "Untitled", Kind: kind}
	switch kind {
	case studyset.KindQA:
		set.Items = []studyset.Item{
			{Prompt: "What is the capital of France?", Answer: "Paris"},
		}
	case studyset.KindMultipleChoice:
		set.Items = []studyset.Item{
			{Prompt: "2 + 2", Answer: "4", Choices: []string{"3", "4", "5"}},
		}
	case studyset.KindClassification:
		set.Categories = []string{"fruit", "vegetable"}
		set.Items = []studyset.Item{
			{Prompt: "apple", Category: "fruit"},
			{Prompt: "leek", Category: "vegetable"},
		}
	default:
		set.Kind = studyset.KindFlashcard
		set.Items = []studyset.Item{
			{Prompt: "bonjour", Answer: "hello"},
		}
	}
	return set
}
