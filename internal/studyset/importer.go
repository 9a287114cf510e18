package studyset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads sets from path. Files ending in .txt or .tsv hold one
// "prompt<TAB>answer" flashcard per line; anything else is YAML.
func LoadFile(path string) ([]Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".tsv":
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		set, err := ParseTSV(bytes.NewReader(data), title)
		if err != nil {
			return nil, err
		}
		return []Set{set}, nil
	default:
		return ParseYAML(data)
	}
}

// ParseYAML decodes one set or a list of sets.
func ParseYAML(data []byte) ([]Set, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSet)
	}
	var sets []Set
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Decode(&sets); err != nil {
			return nil, fmt.Errorf("failed to decode sets: %w", err)
		}
	} else {
		var set Set
		if err := node.Decode(&set); err != nil {
			return nil, fmt.Errorf("failed to decode set: %w", err)
		}
		sets = []Set{set}
	}
	var errs []error
	for i, set := range sets {
		if err := set.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("set %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sets, nil
}

// ParseTSV reads "prompt<TAB>answer" lines into a flashcard set.
// Blank lines and lines starting with '#' are skipped.
func ParseTSV(r io.Reader, title string) (Set, error) {
	set := Set{Title: title, Kind: KindFlashcard}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompt, answer, ok := strings.Cut(line, "\t")
		if !ok {
			return Set{}, fmt.Errorf("%w: line %d has no tab separator", ErrInvalidSet, lineNo)
		}
		set.Items = append(set.Items, Item{
			Prompt: strings.TrimSpace(prompt),
			Answer: strings.TrimSpace(answer),
		})
	}
	if err := scanner.Err(); err != nil {
		return Set{}, err
	}
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// MarshalYAML encodes sets for export.
func MarshalYAML(sets ...Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	var value any = sets
	if len(sets) == 1 {
		value = sets[0]
	}
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
