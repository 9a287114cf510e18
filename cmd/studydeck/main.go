// Package main provides the CLI entrypoint for studydeck.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/studydeck/internal/config"
	"github.com/verte-zerg/studydeck/internal/history"
	"github.com/verte-zerg/studydeck/internal/kvstore"
	"github.com/verte-zerg/studydeck/internal/logging"
	"github.com/verte-zerg/studydeck/internal/model"
	"github.com/verte-zerg/studydeck/internal/router"
	"github.com/verte-zerg/studydeck/internal/stats"
	"github.com/verte-zerg/studydeck/internal/store"
	"github.com/verte-zerg/studydeck/internal/studyset"
	"github.com/verte-zerg/studydeck/internal/tui"
)

const (
	defaultShuffle = true
	shortIDLen     = 8
)

var (
	rootRoute     string
	rootEphemeral bool
	rootShuffle   bool
	rootDBPath    string
	rootRoutePath string
	rootLogPath   string
	rootDebug     bool

	historyPeriod string
	historySet    string
	historyLast   int
	historyWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studydeck",
		Short:         "Terminal flashcards and quizzes",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runStudyCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&rootRoutePath, "route-file", config.DefaultRoutePath(), "file holding the current route")
	rootCmd.PersistentFlags().StringVar(&rootLogPath, "log", config.DefaultLogPath(), "log file path, or stderr")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "enable debug logging")

	rootCmd.Flags().StringVar(&rootRoute, "route", "", "open a route on start, e.g. history/week")
	rootCmd.Flags().BoolVar(&rootEphemeral, "ephemeral", false, "keep sets, history and route in memory only")
	rootCmd.Flags().BoolVar(&rootShuffle, "shuffle", defaultShuffle, "shuffle the items of each session")

	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSetsCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env holds the collaborators shared by the commands.
type env struct {
	opts    model.Options
	logger  *zap.Logger
	kv      kvstore.KeyValueStore
	history *history.Repository
	sets    *studyset.Repository
	closers []func() error
}

func openEnv(cmd *cobra.Command, ephemeral bool) (*env, error) {
	opts, err := loadOptions(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(opts.LogPath, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	e := &env{opts: opts, logger: logger}
	e.closers = append(e.closers, func() error {
		// Best-effort flush.
		_ = logger.Sync()
		return nil
	})
	if ephemeral {
		e.kv = kvstore.NewMemory()
	} else {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		e.kv = st
		e.closers = append(e.closers, st.Close)
	}
	e.history = history.NewRepository(e.kv, logger)
	e.sets = studyset.NewRepository(e.kv, logger)
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			logErrf("failed to close: %v\n", err)
		}
	}
}

func runStudyCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd, rootEphemeral)
	if err != nil {
		return err
	}
	defer e.close()

	route := router.StripHash(strings.TrimSpace(rootRoute))
	var (
		fragments router.FragmentStore
		flush     func()
	)
	if rootEphemeral {
		mem := router.NewMemory(route)
		fragments = mem
		flush = func() { mem.Settle() }
	} else {
		if cmd.Flags().Changed("route") {
			if err := router.WriteFragmentFile(e.opts.RoutePath, route); err != nil {
				return fmt.Errorf("failed to write route: %w", err)
			}
		}
		file, err := router.OpenFile(e.opts.RoutePath, e.logger)
		if err != nil {
			return fmt.Errorf("failed to open route file: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				logErrf("failed to close route file: %v\n", cerr)
			}
		}()
		fragments = file
	}

	r := router.New(fragments)
	r.Start()
	defer r.Stop()

	app := tui.NewApp(tui.Deps{
		Router:  r,
		Flush:   flush,
		History: e.history,
		Sets:    e.sets,
		Logger:  e.logger,
		Options: e.opts,
	})
	program := tea.NewProgram(app, tea.WithAltScreen())
	stop := app.Bridge(program.Send)
	defer stop()

	e.logger.Info("studydeck started",
		zap.String("route", r.Route()),
		zap.Bool("ephemeral", rootEphemeral),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show study history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyPeriod, "period", "", "period filter: all, week, month or year")
	cmd.Flags().StringVar(&historySet, "set", "", "set id or title filter")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyWindow, "window", model.DefaultCurveWindow, "moving average window")
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one session by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	})
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	report := stats.BuildReport(e.history.Entries(), e.opts.History, e.opts.Clock()())
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Period, report.Entries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Entries) == 0 {
		return nil
	}
	if err := stats.RenderHistoryTable(out, report.Entries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurves(out, report.Window, e.opts.History.CurveWindow); err != nil {
		return fmt.Errorf("failed to render curve: %w", err)
	}
	return nil
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	entries := e.history.Entries()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	id, err := matchID(ids, args[0])
	if err != nil {
		return err
	}
	if !e.history.Delete(id) {
		return fmt.Errorf("session %s not found", args[0])
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", shortID(id))
	return err
}

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "List study sets",
		Args:  cobra.NoArgs,
		RunE:  runSetsCmd,
	}
}

func runSetsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	sets := e.sets.List()
	if len(sets) == 0 {
		logErrln("No sets yet. Import one with: studydeck import <file>")
		return nil
	}
	rows := make([][]string, 0, len(sets))
	for _, set := range sets {
		rows = append(rows, []string{
			shortID(set.ID),
			set.Title,
			set.Kind.Label(),
			fmt.Sprintf("%d", len(set.Items)),
			set.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	headers := []string{"ID", "Title", "Kind", "Items", "Updated"}
	if err := stats.WriteTable(cmd.OutOrStdout(), headers, rows, map[int]bool{3: true}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import sets from a YAML or tab-separated file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	sets, err := studyset.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	for _, set := range sets {
		saved, err := e.sets.Save(set)
		if err != nil {
			return fmt.Errorf("failed to save %q: %w", set.Title, err)
		}
		e.logger.Info("set imported", zap.String("id", saved.ID), zap.String("file", args[0]))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %q (%d items)\n", shortID(saved.ID), saved.Title, len(saved.Items)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Print a set as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.close()

	sets := e.sets.List()
	ids := make([]string, 0, len(sets))
	for _, set := range sets {
		ids = append(ids, set.ID)
	}
	id, err := matchID(ids, args[0])
	if err != nil {
		return err
	}
	set, err := e.sets.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load set: %w", err)
	}
	data, err := studyset.MarshalYAML(set)
	if err != nil {
		return fmt.Errorf("failed to encode set: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <route>",
		Short: "Navigate a running studydeck to a route",
		Args:  cobra.ExactArgs(1),
		RunE:  runOpenCmd,
	}
}

func runOpenCmd(cmd *cobra.Command, args []string) error {
	route := router.StripHash(strings.TrimSpace(args[0]))
	if _, ok := tui.ParseRoute(route); !ok {
		return fmt.Errorf("unknown route %q", args[0])
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := router.WriteFragmentFile(opts.RoutePath, route); err != nil {
		return fmt.Errorf("failed to write route: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadOptions(cmd *cobra.Command) (model.Options, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Options{}, fmt.Errorf("failed to load config: %w", err)
	}
	return resolveOptions(cmd, fileCfg)
}

// resolveOptions merges fileCfg into the flag values. Flags set on the
// command line win.
func resolveOptions(cmd *cobra.Command, fileCfg config.FileConfig) (model.Options, error) {
	applyConfig(cmd, "db", &rootDBPath, fileCfg.Storage.DBPath)
	applyConfig(cmd, "route-file", &rootRoutePath, fileCfg.Storage.RoutePath)
	applyConfig(cmd, "log", &rootLogPath, fileCfg.Log.Path)
	applyConfig(cmd, "debug", &rootDebug, fileCfg.Log.Debug)
	applyConfig(cmd, "shuffle", &rootShuffle, fileCfg.Study.Shuffle)
	applyConfig(cmd, "period", &historyPeriod, fileCfg.Study.DefaultPeriod)
	applyConfig(cmd, "window", &historyWindow, fileCfg.Study.CurveWindow)

	period, err := history.ParsePeriod(historyPeriod)
	if err != nil {
		return model.Options{}, fmt.Errorf("invalid --period value: %w", err)
	}
	opts := model.Options{
		Study: model.StudyConfig{Shuffle: rootShuffle},
		History: model.HistoryConfig{
			Period:      period,
			Set:         strings.TrimSpace(historySet),
			Last:        historyLast,
			CurveWindow: historyWindow,
		},
		DBPath:    rootDBPath,
		RoutePath: rootRoutePath,
		LogPath:   rootLogPath,
		Debug:     rootDebug,
	}
	if err := validateOptions(opts); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if flag := cmd.Flag(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func validateOptions(opts model.Options) error {
	if opts.History.CurveWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if opts.History.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if opts.DBPath == "" {
		return fmt.Errorf("--db must not be empty")
	}
	if opts.RoutePath == "" {
		return fmt.Errorf("--route-file must not be empty")
	}
	if opts.LogPath == "" {
		return fmt.Errorf("--log must not be empty")
	}
	return nil
}

// matchID returns the id equal to arg, or the only id starting with it.
func matchID(ids []string, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("id must not be empty")
	}
	var matches []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no id matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studydeck configuration
# Uncomment a value to enable it. CLI flags override config values.

[study]
# shuffle = %t            # Shuffle the items of each session
# default-period = "all"  # History period: all, week, month or year
# curve-window = %d        # Moving average window of the score curve

[storage]
# db = %q
# route-file = %q

[log]
# path = %q
# debug = false
`,
		defaultShuffle,
		model.DefaultCurveWindow,
		config.DefaultDBPath(),
		config.DefaultRoutePath(),
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
