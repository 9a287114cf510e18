package tui

import (
	"strings"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

// Screen identifies a top-level view.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenSets
	ScreenCreate
	ScreenEditor
	ScreenStudy
	ScreenHistory
)

const homePath = "home"

// Route is a parsed route token.
type Route struct {
	Screen Screen
	Kind   studyset.Kind
	SetID  string
	Period history.Period
}

// ParseRoute parses a route token such as "study/<id>" or
// "history/week". A bare "history" leaves Period empty so the screen
// opens the configured default period. Unknown tokens report false.
func ParseRoute(path string) (Route, bool) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	head, rest, _ := strings.Cut(path, "/")
	switch head {
	case "home":
		return Route{Screen: ScreenHome}, rest == ""
	case "sets":
		return Route{Screen: ScreenSets}, rest == ""
	case "create":
		if rest == "" {
			return Route{Screen: ScreenCreate}, true
		}
		kind, err := studyset.ParseKind(rest)
		if err != nil {
			return Route{}, false
		}
		return Route{Screen: ScreenEditor, Kind: kind}, true
	case "edit":
		return Route{Screen: ScreenEditor, SetID: rest}, rest != ""
	case "study":
		return Route{Screen: ScreenStudy, SetID: rest}, rest != ""
	case "history":
		if rest == "" {
			return Route{Screen: ScreenHistory}, true
		}
		period, err := history.ParsePeriod(rest)
		if err != nil {
			return Route{}, false
		}
		return Route{Screen: ScreenHistory, Period: period}, true
	}
	return Route{}, false
}

// String returns the canonical token for r.
func (r Route) String() string {
	switch r.Screen {
	case ScreenSets:
		return "sets"
	case ScreenCreate:
		return "create"
	case ScreenEditor:
		if r.SetID != "" {
			return "edit/" + r.SetID
		}
		return "create/" + string(r.Kind)
	case ScreenStudy:
		return "study/" + r.SetID
	case ScreenHistory:
		if r.Period == "" {
			return "history"
		}
		return "history/" + string(r.Period)
	default:
		return homePath
	}
}

// Parent returns the token esc navigates to.
func (r Route) Parent() string {
	switch r.Screen {
	case ScreenEditor:
		if r.SetID != "" {
			return "sets"
		}
		return "create"
	case ScreenStudy:
		return "sets"
	default:
		return homePath
	}
}
