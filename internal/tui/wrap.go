package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders expected rune by rune against given: matching
// runes (ignoring case) are green, mismatches red and runes the answer
// never reached are underlined.
func buildStyledRunes(expected, given []rune) []styledRune {
	out := make([]styledRune, 0, len(expected))
	for i, want := range expected {
		displayed := want
		style := missingStyle
		if i < len(given) {
			switch {
			case sameRune(want, given[i]):
				style = correctStyle
			case want == ' ':
				displayed = wrongSpace
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: want == ' ',
		})
	}
	return out
}

func sameRune(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

// renderAnswerDiff word-wraps the styled expected answer to width.
func renderAnswerDiff(expected, given string, width int) string {
	return wrapStyledRunes(buildStyledRunes([]rune(expected), []rune(given)), width)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
