// Package studyset defines study sets and stores them in a key-value
// store.
package studyset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	ErrInvalidSet = errors.New("invalid study set")
	ErrNotFound   = errors.New("study set not found")
)

// Kind is the study mode of a set.
type Kind string

// Supported kinds.
const (
	KindFlashcard      Kind = "flashcard"
	KindQA             Kind = "qa"
	KindMultipleChoice Kind = "multiple-choice"
	KindClassification Kind = "classification"
)

// Kinds lists the kinds in menu order.
func Kinds() []Kind {
	return []Kind{KindFlashcard, KindQA, KindMultipleChoice, KindClassification}
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidSet, s)
}

// Label returns the display name of k.
func (k Kind) Label() string {
	switch k {
	case KindFlashcard:
		return "Flashcards"
	case KindQA:
		return "Q&A"
	case KindMultipleChoice:
		return "Multiple choice"
	case KindClassification:
		return "Classification"
	default:
		return string(k)
	}
}

// Description returns a one-line explanation of k.
func (k Kind) Description() string {
	switch k {
	case KindFlashcard:
		return "Flip a card, then mark whether you knew it"
	case KindQA:
		return "Type the answer to each question"
	case KindMultipleChoice:
		return "Pick the right answer from a list"
	case KindClassification:
		return "Sort each item into its category"
	default:
		return ""
	}
}

// Item is one question of a set.
type Item struct {
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Answer   string   `json:"answer,omitempty" yaml:"answer,omitempty"`
	Choices  []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Set is a named collection of items studied in one mode.
type Set struct {
	ID         string    `json:"id" yaml:"id,omitempty"`
	Title      string    `json:"title" yaml:"title"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Categories []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Items      []Item    `json:"items" yaml:"items"`
	CreatedAt  time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"-"`
}

// Validate checks the fields each kind requires.
func (s Set) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidSet)
	}
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: %q has no items", ErrInvalidSet, s.Title)
	}
	if s.Kind == KindClassification && len(s.Categories) < 2 {
		return fmt.Errorf("%w: classification needs at least 2 categories", ErrInvalidSet)
	}
	for i, item := range s.Items {
		if err := s.validateItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Set) validateItem(item Item) error {
	if strings.TrimSpace(item.Prompt) == "" {
		return fmt.Errorf("%w: prompt is empty", ErrInvalidSet)
	}
	switch s.Kind {
	case KindFlashcard, KindQA:
		if strings.TrimSpace(item.Answer) == "" {
			return fmt.Errorf("%w: answer is empty", ErrInvalidSet)
		}
	case KindMultipleChoice:
		if len(item.Choices) < 2 {
			return fmt.Errorf("%w: needs at least 2 choices", ErrInvalidSet)
		}
		if !containsFold(item.Choices, item.Answer) {
			return fmt.Errorf("%w: answer %q is not a choice", ErrInvalidSet, item.Answer)
		}
	case KindClassification:
		if !containsFold(s.Categories, item.Category) {
			return fmt.Errorf("%w: category %q is not listed", ErrInvalidSet, item.Category)
		}
	}
	return nil
}

func containsFold(values []string, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
