// Package session runs one pass over a study set and scores it.
package session

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

// Result is the outcome of one answered item.
type Result struct {
	Prompt   string
	Expected string
	Given    string
	Correct  bool
}

// Session walks the items of a set once.
type Session struct {
	set       studyset.Set
	items     []studyset.Item
	choices   [][]string
	pos       int
	correct   int
	results   []Result
	startedAt time.Time
	endedAt   time.Time
}

// New starts a session over set. Items and choices are shuffled with
// rnd; a nil rnd keeps the stored order.
func New(set studyset.Set, rnd *rand.Rand) *Session {
	items := shuffleItems(rnd, set.Items)
	choices := make([][]string, len(items))
	for i, item := range items {
		switch set.Kind {
		case studyset.KindMultipleChoice:
			choices[i] = shuffleStrings(rnd, item.Choices)
		case studyset.KindClassification:
			choices[i] = append([]string(nil), set.Categories...)
		}
	}
	return &Session{
		set:       set,
		items:     items,
		choices:   choices,
		startedAt: time.Now(),
	}
}

// Set returns the set being studied.
func (s *Session) Set() studyset.Set {
	return s.set
}

// Current returns the item awaiting an answer.
func (s *Session) Current() (studyset.Item, bool) {
	if s.Done() {
		return studyset.Item{}, false
	}
	return s.items[s.pos], true
}

// Position returns the zero-based index of the current item and the
// item count.
func (s *Session) Position() (int, int) {
	return s.pos, len(s.items)
}

// Choices returns the options for the current item: shuffled choices
// for multiple-choice, the set categories for classification.
func (s *Session) Choices() []string {
	if s.Done() {
		return nil
	}
	return s.choices[s.pos]
}

// Answer grades a typed or selected answer for the current item. For
// multiple-choice and classification, input may be the option text or
// its 1-based number.
func (s *Session) Answer(input string) Result {
	item, ok := s.Current()
	if !ok {
		return Result{}
	}
	var expected string
	var correct bool
	switch s.set.Kind {
	case studyset.KindMultipleChoice:
		expected = item.Answer
		input = s.resolveChoice(input)
		correct = matches(expected, input)
	case studyset.KindClassification:
		expected = item.Category
		input = s.resolveChoice(input)
		correct = matches(expected, input)
	default:
		expected = item.Answer
		correct = matchesAny(expected, input)
	}
	return s.record(item, expected, input, correct)
}

// Mark records a self-graded flashcard.
func (s *Session) Mark(known bool) Result {
	item, ok := s.Current()
	if !ok {
		return Result{}
	}
	given := "unknown"
	if known {
		given = "known"
	}
	return s.record(item, item.Answer, given, known)
}

// Skip records the current item as wrong without an answer.
func (s *Session) Skip() Result {
	item, ok := s.Current()
	if !ok {
		return Result{}
	}
	expected := item.Answer
	if s.set.Kind == studyset.KindClassification {
		expected = item.Category
	}
	return s.record(item, expected, "", false)
}

func (s *Session) record(item studyset.Item, expected, given string, correct bool) Result {
	r := Result{Prompt: item.Prompt, Expected: expected, Given: given, Correct: correct}
	s.results = append(s.results, r)
	if correct {
		s.correct++
	}
	s.pos++
	if s.Done() {
		s.endedAt = time.Now()
	}
	return r
}

// resolveChoice maps input to an option. Option text wins over a
// 1-based number, so numeric options grade as typed.
func (s *Session) resolveChoice(input string) string {
	input = strings.TrimSpace(input)
	choices := s.Choices()
	for _, choice := range choices {
		if matches(choice, input) {
			return input
		}
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(choices) {
		return input
	}
	return choices[n-1]
}

// Done reports whether every item was answered.
func (s *Session) Done() bool {
	return s.pos >= len(s.items)
}

// Correct returns the number of correct answers so far.
func (s *Session) Correct() int {
	return s.correct
}

// Answered returns the number of answered items.
func (s *Session) Answered() int {
	return len(s.results)
}

// Results returns a copy of the graded answers.
func (s *Session) Results() []Result {
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Score returns the percentage of correct answers, rounded, 0 when
// nothing was answered.
func (s *Session) Score() int {
	return Score(s.correct, len(s.results))
}

// Entry builds the history entry for the session.
func (s *Session) Entry(now time.Time) history.Entry {
	end := s.endedAt
	if end.IsZero() {
		end = now
	}
	return history.Entry{
		SetID:      s.set.ID,
		SetTitle:   s.set.Title,
		Date:       now,
		Score:      s.Score(),
		Correct:    s.correct,
		Total:      len(s.results),
		DurationMs: end.Sub(s.startedAt).Milliseconds(),
	}
}

// Score converts correct/total into a 0..100 score.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return history.ClampScore(int(math.Round(float64(correct) / float64(total) * 100)))
}

func matchesAny(expected, given string) bool {
	for _, alt := range strings.Split(expected, "|") {
		if matches(alt, given) {
			return true
		}
	}
	return false
}

func matches(expected, given string) bool {
	e := Normalize(expected)
	return e != "" && e == Normalize(given)
}

// Normalize lowercases s and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
