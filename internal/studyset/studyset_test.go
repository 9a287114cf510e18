package studyset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/studydeck/internal/kvstore"
)

func flashcards() Set {
	return Set{
		Title: "Capitals",
		Kind:  KindFlashcard,
		Items: []Item{
			{Prompt: "France", Answer: "Paris"},
			{Prompt: "Japan", Answer: "Tokyo"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		set  Set
		ok   bool
	}{
		{"flashcard", flashcards(), true},
		{"empty title", Set{Kind: KindFlashcard, Items: []Item{{Prompt: "a", Answer: "b"}}}, false},
		{"unknown kind", Set{Title: "x", Kind: "essay", Items: []Item{{Prompt: "a", Answer: "b"}}}, false},
		{"no items", Set{Title: "x", Kind: KindQA}, false},
		{"qa missing answer", Set{Title: "x", Kind: KindQA, Items: []Item{{Prompt: "a"}}}, false},
		{"mc ok", Set{Title: "x", Kind: KindMultipleChoice, Items: []Item{{Prompt: "2+2", Answer: "4", Choices: []string{"3", "4"}}}}, true},
		{"mc answer not a choice", Set{Title: "x", Kind: KindMultipleChoice, Items: []Item{{Prompt: "2+2", Answer: "5", Choices: []string{"3", "4"}}}}, false},
		{"mc one choice", Set{Title: "x", Kind: KindMultipleChoice, Items: []Item{{Prompt: "2+2", Answer: "4", Choices: []string{"4"}}}}, false},
		{"classification ok", Set{Title: "x", Kind: KindClassification, Categories: []string{"fruit", "veg"}, Items: []Item{{Prompt: "apple", Category: "Fruit"}}}, true},
		{"classification one category", Set{Title: "x", Kind: KindClassification, Categories: []string{"fruit"}, Items: []Item{{Prompt: "apple", Category: "fruit"}}}, false},
		{"classification unlisted", Set{Title: "x", Kind: KindClassification, Categories: []string{"fruit", "veg"}, Items: []Item{{Prompt: "salt", Category: "mineral"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidSet), "got %v", err)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Multiple-Choice ")
	require.NoError(t, err)
	assert.Equal(t, KindMultipleChoice, k)
	_, err = ParseKind("essay")
	assert.Error(t, err)
	for _, k := range Kinds() {
		assert.NotEmpty(t, k.Label())
		assert.NotEmpty(t, k.Description())
	}
}

func TestRepositorySaveListDelete(t *testing.T) {
	st := kvstore.NewMemory()
	repo := NewRepository(st, nil)
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	saved, err := repo.Save(flashcards())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, fixed, saved.CreatedAt)

	second := flashcards()
	second.Title = "Rivers"
	savedSecond, err := repo.Save(second)
	require.NoError(t, err)

	reloaded := NewRepository(st, nil)
	sets := reloaded.List()
	require.Len(t, sets, 2)
	assert.Equal(t, "Capitals", sets[0].Title)
	assert.Equal(t, "Rivers", sets[1].Title)

	saved.Title = "World capitals"
	_, err = repo.Save(saved)
	require.NoError(t, err)
	got, err := repo.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "World capitals", got.Title)
	assert.Len(t, repo.List(), 2)

	require.NoError(t, repo.Delete(saved.ID))
	assert.True(t, errors.Is(repo.Delete(saved.ID), ErrNotFound))
	_, err = repo.Get(saved.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	sets = repo.List()
	require.Len(t, sets, 1)
	assert.Equal(t, savedSecond.ID, sets[0].ID)
}

func TestRepositorySaveRejectsInvalid(t *testing.T) {
	repo := NewRepository(kvstore.NewMemory(), nil)
	_, err := repo.Save(Set{Title: "empty", Kind: KindQA})
	assert.True(t, errors.Is(err, ErrInvalidSet))
	assert.Empty(t, repo.List())
}

func TestRepositoryListSkipsCorruptedSet(t *testing.T) {
	st := kvstore.NewMemory()
	repo := NewRepository(st, nil)
	saved, err := repo.Save(flashcards())
	require.NoError(t, err)
	require.NoError(t, st.Set(SetKey(saved.ID), "{not json"))
	assert.Empty(t, NewRepository(st, nil).List())
}

func TestRepositorySaveKeepsSetWhenStoreIsFull(t *testing.T) {
	st := &kvstore.Memory{Quota: 64}
	repo := NewRepository(st, nil)

	saved, err := repo.Save(flashcards())
	require.NoError(t, err)
	_, stored, err := st.Get(SetKey(saved.ID))
	require.NoError(t, err)
	assert.False(t, stored)

	got, err := repo.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Capitals", got.Title)
	sets := repo.List()
	require.Len(t, sets, 1)
	assert.Equal(t, saved.ID, sets[0].ID)
}

func TestRepositoryReconcileReadsStoreOnce(t *testing.T) {
	st := kvstore.NewMemory()
	repo := NewRepository(st, nil)
	assert.Empty(t, repo.List())

	other := NewRepository(st, nil)
	saved, err := other.Save(flashcards())
	require.NoError(t, err)

	repo.Reconcile()
	sets := repo.List()
	require.Len(t, sets, 1)
	assert.Equal(t, saved.ID, sets[0].ID)

	_, err = other.Save(Set{Title: "Rivers", Kind: KindFlashcard, Items: []Item{{Prompt: "Nile", Answer: "Egypt"}}})
	require.NoError(t, err)
	repo.Reconcile()
	assert.Len(t, repo.List(), 1)
}

func TestParseYAMLSingleAndList(t *testing.T) {
	single := `
title: Verbs
kind: qa
items:
  - prompt: "past of go"
    answer: "went"
`
	sets, err := ParseYAML([]byte(single))
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, KindQA, sets[0].Kind)
	assert.Equal(t, "went", sets[0].Items[0].Answer)

	list := `
- title: Fruit or veg
  kind: classification
  categories: [fruit, vegetable]
  items:
    - {prompt: apple, category: fruit}
    - {prompt: leek, category: vegetable}
- title: Sums
  kind: multiple-choice
  items:
    - prompt: "2+2"
      answer: "4"
      choices: ["3", "4", "5"]
`
	sets, err = ParseYAML([]byte(list))
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, []string{"fruit", "vegetable"}, sets[0].Categories)
	assert.Equal(t, []string{"3", "4", "5"}, sets[1].Items[0].Choices)
}

func TestParseYAMLRejectsInvalid(t *testing.T) {
	_, err := ParseYAML([]byte("title: x\nkind: qa\nitems: []\n"))
	assert.True(t, errors.Is(err, ErrInvalidSet))
	_, err = ParseYAML([]byte(""))
	assert.Error(t, err)
	_, err = ParseYAML([]byte("title: [unclosed"))
	assert.Error(t, err)
}

func TestParseTSV(t *testing.T) {
	in := "# comment\nhola\thello\n\nadiós\tgoodbye\n"
	set, err := ParseTSV(strings.NewReader(in), "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", set.Title)
	assert.Equal(t, KindFlashcard, set.Kind)
	assert.Equal(t, []Item{{Prompt: "hola", Answer: "hello"}, {Prompt: "adiós", Answer: "goodbye"}}, set.Items)

	_, err = ParseTSV(strings.NewReader("no tab here\n"), "x")
	assert.True(t, errors.Is(err, ErrInvalidSet))
}

func TestLoadFileAndExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "capitals.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("France\tParis\n"), 0o644))
	sets, err := LoadFile(tsv)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "capitals", sets[0].Title)

	data, err := MarshalYAML(flashcards())
	require.NoError(t, err)
	yamlPath := filepath.Join(dir, "capitals.yaml")
	require.NoError(t, os.WriteFile(yamlPath, data, 0o644))
	sets, err = LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, flashcards().Items, sets[0].Items)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalYAMLList(t *testing.T) {
	a := flashcards()
	b := flashcards()
	b.Title = "Other"
	data, err := MarshalYAML(a, b)
	require.NoError(t, err)
	sets, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Len(t, sets, 2)
}
