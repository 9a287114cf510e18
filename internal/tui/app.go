// Package tui provides the Bubble Tea study interface.
//
// The current screen is derived from the router: every navigation pushes
// a route token and the screen changes when the router reports the new
// route. Tokens written by other processes go through the same path.
package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/logging"
	"github.com/verte-zerg/studydeck/internal/model"
	"github.com/verte-zerg/studydeck/internal/router"
	"github.com/verte-zerg/studydeck/internal/session"
	"github.com/verte-zerg/studydeck/internal/studyset"
)

// Deps wires the App to its collaborators.
type Deps struct {
	Router *router.Router
	// Flush, when set, runs after every Push to deliver queued route
	// notifications.
	Flush   func()
	History *history.Repository
	Sets    *studyset.Repository
	Logger  *zap.Logger
	Options model.Options
	Rand    *rand.Rand
}

type screen interface {
	update(msg tea.Msg) tea.Cmd
	view(width, height int) string
	help() string
}

type resizer interface {
	resize(width, height int)
}

type routeChangedMsg struct {
	path string
}

type navErrMsg struct {
	err error
}

// App is the root Bubble Tea model.
type App struct {
	router  *router.Router
	flush   func()
	history *history.Repository
	sets    *studyset.Repository
	logger  *zap.Logger
	opts    model.Options
	now     func() time.Time
	rnd     *rand.Rand

	width  int
	height int

	route  Route
	screen screen
	status string
	errMsg string
}

// NewApp builds the App. The first screen opens in Init.
func NewApp(d Deps) *App {
	a := &App{
		router:  d.Router,
		flush:   d.Flush,
		history: d.History,
		sets:    d.Sets,
		logger:  logging.OrNop(d.Logger),
		opts:    d.Options,
		now:     d.Options.Clock(),
		rnd:     d.Rand,
	}
	if a.rnd == nil && a.opts.Study.Shuffle {
		a.rnd = session.NewRand()
	}
	return a
}

// Bridge forwards route changes to send, usually tea.Program.Send. It
// returns a func that stops forwarding.
func (a *App) Bridge(send func(tea.Msg)) func() {
	return a.router.OnRouteChange(func(route string) {
		send(routeChangedMsg{path: route})
	})
}

// Route returns the route of the open screen.
func (a *App) Route() Route {
	return a.route
}

// Init implements tea.Model. It re-reads the repositories once the
// program is running and opens the router's current route. An empty
// route navigates home once the router has synchronized.
func (a *App) Init() tea.Cmd {
	a.history.Reconcile()
	a.sets.Reconcile()
	if !a.router.IsReady() {
		a.logger.Warn("router not started, waiting for a route change")
		return nil
	}
	route := a.router.Route()
	if route == "" {
		return a.navigate(homePath)
	}
	return a.openPath(route)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil
	case routeChangedMsg:
		return a, a.openPath(msg.path)
	case navErrMsg:
		a.logger.Error("failed to navigate", zap.Error(msg.err))
		a.errMsg = msg.err.Error()
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.status = ""
		a.errMsg = ""
	}
	if a.screen == nil {
		return a, nil
	}
	return a, a.screen.update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}
	footer := a.renderFooter()
	footerHeight := strings.Count(footer, "\n") + 1
	bodyHeight := a.bodyHeight(footerHeight)
	body := ""
	if a.screen != nil {
		body = a.screen.view(a.width, bodyHeight)
	}
	return strings.Join([]string{
		fitLines(a.renderHeader(), a.width, 1),
		fitLines(body, a.width, bodyHeight),
		fitLines(footer, a.width, footerHeight),
	}, "\n")
}

func (a *App) bodyHeight(footerHeight int) int {
	return maxInt(1, a.height-1-footerHeight)
}

func (a *App) resize() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	if r, ok := a.screen.(resizer); ok {
		r.resize(a.width, a.bodyHeight(2))
	}
}

func (a *App) renderHeader() string {
	header := titleStyle.Render("studydeck")
	if a.screen != nil {
		header += "  " + routeStyle.Render("#"+a.route.String())
	}
	return header
}

func (a *App) renderFooter() string {
	help := "ctrl+c: quit"
	if a.screen != nil {
		help = a.screen.help() + "  " + help
	}
	footer := footerStyle.Render(truncateLine(help, a.width))
	switch {
	case a.errMsg != "":
		footer += "\n" + errorStyle.Render(truncateLine(a.errMsg, a.width))
	case a.status != "":
		footer += "\n" + statusStyle.Render(truncateLine(a.status, a.width))
	}
	return footer
}

// navigate pushes path. The screen changes when the router reports the
// route, which happens on the router's goroutine or inside Flush.
func (a *App) navigate(path string) tea.Cmd {
	return func() tea.Msg {
		if err := a.router.Push(path); err != nil {
			return navErrMsg{err: err}
		}
		if a.flush != nil {
			a.flush()
		}
		return nil
	}
}

func (a *App) back() tea.Cmd {
	return a.navigate(a.route.Parent())
}

func (a *App) openPath(path string) tea.Cmd {
	route, ok := ParseRoute(path)
	if !ok {
		if path != "" {
			a.logger.Info("unknown route", zap.String("route", path))
			a.errMsg = fmt.Sprintf("Unknown route %q", path)
		}
		return a.navigate(homePath)
	}
	s, cmd, err := a.build(route)
	if err != nil {
		a.logger.Warn("failed to open route", zap.String("route", path), zap.Error(err))
		a.errMsg = err.Error()
		return a.navigate(route.Parent())
	}
	a.logger.Debug("route opened", zap.String("route", route.String()))
	a.route = route
	a.screen = s
	a.resize()
	return cmd
}

func (a *App) build(route Route) (screen, tea.Cmd, error) {
	switch route.Screen {
	case ScreenSets:
		return newSetsScreen(a), nil, nil
	case ScreenCreate:
		return newCreateScreen(a), nil, nil
	case ScreenEditor:
		return newEditorScreen(a, route)
	case ScreenStudy:
		return newStudyScreen(a, route)
	case ScreenHistory:
		return newHistoryScreen(a, route.Period), nil, nil
	default:
		return newHomeScreen(a), nil, nil
	}
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
}

func (a *App) setError(err error) {
	a.errMsg = err.Error()
}
