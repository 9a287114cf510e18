package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/session"
	"github.com/verte-zerg/studydeck/internal/stats"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

type studyPhase int

const (
	phaseAsk studyPhase = iota
	phaseReveal
	phaseFeedback
	phaseDone
)

// studyScreen runs one session over a set.
type studyScreen struct {
	app     *App
	set     studyset.Set
	session *session.Session
	input   textinput.Model
	phase   studyPhase
	last    session.Result
	entry   history.Entry
}

func newStudyScreen(a *App, route Route) (screen, tea.Cmd, error) {
	set, err := a.sets.Get(route.SetID)
	if err != nil {
		return nil, nil, err
	}
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorStatic)
	s := &studyScreen{app: a, set: set, input: input}
	return s, s.restart(), nil
}

func (s *studyScreen) restart() tea.Cmd {
	s.session = session.New(s.set, s.app.rnd)
	s.phase = phaseAsk
	s.last = session.Result{}
	s.entry = history.Entry{}
	s.input.Reset()
	s.input.Placeholder = placeholderFor(s.set.Kind)
	if s.set.Kind == studyset.KindFlashcard {
		s.input.Blur()
		return nil
	}
	return s.input.Focus()
}

func placeholderFor(kind studyset.Kind) string {
	switch kind {
	case studyset.KindMultipleChoice, studyset.KindClassification:
		return "number or answer"
	default:
		return "your answer"
	}
}

func (s *studyScreen) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	if key.Type == tea.KeyEsc {
		return s.app.back()
	}
	switch s.phase {
	case phaseAsk:
		return s.updateAsk(key)
	case phaseReveal:
		switch key.String() {
		case "y":
			s.record(s.session.Mark(true))
		case "n":
			s.record(s.session.Mark(false))
		}
		return nil
	case phaseFeedback:
		if key.Type == tea.KeyEnter || key.String() == " " {
			s.advance()
		}
		return nil
	default:
		switch key.String() {
		case "enter", "h":
			return s.app.navigate("history")
		case "r":
			return s.restart()
		}
		return nil
	}
}

func (s *studyScreen) updateAsk(key tea.KeyMsg) tea.Cmd {
	if s.set.Kind == studyset.KindFlashcard {
		switch key.String() {
		case " ", "enter":
			s.phase = phaseReveal
		case "tab":
			s.record(s.session.Skip())
		}
		return nil
	}
	switch key.Type {
	case tea.KeyEnter:
		if strings.TrimSpace(s.input.Value()) == "" {
			return nil
		}
		s.record(s.session.Answer(s.input.Value()))
		s.input.Reset()
		return nil
	case tea.KeyTab:
		s.record(s.session.Skip())
		s.input.Reset()
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(key)
	return cmd
}

func (s *studyScreen) record(r session.Result) {
	s.last = r
	if s.set.Kind == studyset.KindFlashcard {
		s.advance()
		return
	}
	s.phase = phaseFeedback
}

func (s *studyScreen) advance() {
	if !s.session.Done() {
		s.phase = phaseAsk
		return
	}
	s.finish()
}

func (s *studyScreen) finish() {
	if s.phase == phaseDone {
		return
	}
	s.phase = phaseDone
	s.input.Blur()
	s.entry = s.app.history.Add(s.session.Entry(s.app.now()))
	s.app.logger.Info("session saved",
		zap.String("set", s.set.ID),
		zap.Int("score", s.entry.Score),
		zap.Int("total", s.entry.Total),
	)
	s.app.setStatus("Saved score %d%% for %q", s.entry.Score, s.set.Title)
}

func (s *studyScreen) resize(width, height int) {
	s.input.Width = maxInt(10, width-4)
}

func (s *studyScreen) view(width, height int) string {
	idx, total := s.session.Position()
	header := titleStyle.Render(s.set.Title) + "  " + mutedStyle.Render(s.set.Kind.Label())
	if s.phase == phaseDone {
		return header + "\n\n" + s.renderDone(width)
	}
	progress := mutedStyle.Render(fmt.Sprintf("Item %d/%d  Correct %d", minInt(idx+1, total), total, s.session.Correct()))
	lines := []string{header, progress, ""}
	if s.phase == phaseFeedback {
		lines = append(lines, s.renderFeedback(width))
		return strings.Join(lines, "\n")
	}
	item, _ := s.session.Current()
	lines = append(lines, selectedStyle.Render(item.Prompt), "")
	switch {
	case s.phase == phaseReveal:
		lines = append(lines, cardValueStyle.Render(item.Answer), "", mutedStyle.Render("Did you know it? y/n"))
	case s.set.Kind == studyset.KindFlashcard:
		lines = append(lines, mutedStyle.Render("Press space to reveal the answer"))
	default:
		for i, choice := range s.session.Choices() {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, choice))
		}
		lines = append(lines, "", s.input.View())
	}
	return strings.Join(lines, "\n")
}

func (s *studyScreen) renderFeedback(width int) string {
	r := s.last
	if r.Correct {
		return correctStyle.Render("Correct!") + "\n\n" + mutedStyle.Render("Press enter to continue")
	}
	given := r.Given
	if given == "" {
		given = "(skipped)"
	}
	lines := []string{
		incorrectStyle.Render("Not quite."),
		"",
		mutedStyle.Render("You said: ") + given,
		mutedStyle.Render("Answer:   ") + renderAnswerDiff(r.Expected, r.Given, maxInt(10, width-10)),
		"",
		mutedStyle.Render("Press enter to continue"),
	}
	return strings.Join(lines, "\n")
}

func (s *studyScreen) renderDone(width int) string {
	cards := []string{
		metricCard("Score", fmt.Sprintf("%d%%", s.entry.Score)),
		metricCard("Correct", fmt.Sprintf("%d/%d", s.entry.Correct, s.entry.Total)),
		metricCard("Time", stats.DurationLabel(s.entry.DurationMs)),
	}
	block := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if width < 40 {
		block = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	lines := []string{block}
	var missed []string
	for _, r := range s.session.Results() {
		if !r.Correct {
			missed = append(missed, fmt.Sprintf("  %s: %s", r.Prompt, r.Expected))
		}
	}
	if len(missed) > 0 {
		lines = append(lines, "", mutedStyle.Render("To review:"))
		lines = append(lines, missed...)
	}
	return strings.Join(lines, "\n")
}

func (s *studyScreen) help() string {
	switch {
	case s.phase == phaseDone:
		return "enter: history  r: again  esc: sets"
	case s.set.Kind == studyset.KindFlashcard && s.phase == phaseReveal:
		return "y: knew it  n: did not  esc: quit session"
	case s.set.Kind == studyset.KindFlashcard:
		return "space: reveal  tab: skip  esc: quit session"
	default:
		return "enter: answer  tab: skip  esc: quit session"
	}
}
