package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/aqx/internal/catalog"
	"github.com/oakwood-commons/aqx/internal/completion"
	"github.com/oakwood-commons/aqx/internal/config"
	"github.com/oakwood-commons/aqx/internal/formatter"
	"github.com/oakwood-commons/aqx/internal/history"
	"github.com/oakwood-commons/aqx/internal/ui"
	"github.com/oakwood-commons/aqx/pkg/logger"
	"github.com/oakwood-commons/aqx/pkg/settings"
)

// isTerminal is replaced in tests.
var isTerminal = ui.IsTerminal

// app holds the flag values and the resolved state of one invocation.
type app struct {
	run   *settings.Run
	debug bool

	// root command only
	value    string
	snapshot bool
	width    int
	height   int

	cfg      config.Config
	catalogs *catalog.Set
	logFile  io.Closer
}

// NewRootCmd builds the aqx command tree. Each call returns an independent
// tree, so tests can execute it repeatedly.
func NewRootCmd() *cobra.Command {
	a := &app{run: settings.NewCliParams()}

	rootCmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Query bar with inline completion for field filter expressions",
		Long: `aqx edits filter expressions such as

  host="api" && status=="200" || title!="login"

with one inline suggestion at a time: field names from a catalog, operators,
closing quotes, logical connectives and values you submitted before.

Without a subcommand aqx opens the interactive query bar and prints the last
submitted query on exit, so it can be piped to a search backend.`,
		Example: `  aqx
  aqx --catalog vulnerabilities --value 'severity=="high"'
  aqx parse 'host="api" && status=="200"' -o json
  aqx suggest 'host="a'
  aqx serve --addr 127.0.0.1:8080`,
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.prepare,
		PersistentPostRunE: a.finish,
		RunE:               a.runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.run.ConfigFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/aqx/config.yaml)")
	pf.StringVarP(&a.run.Catalog, "catalog", "c", "", "field catalog to use (default from config)")
	pf.StringVar(&a.run.History.Backend, "history-backend", "", "history backend: memory|file|sqlite (default from config)")
	pf.StringVar(&a.run.History.Path, "history-path", "", "history directory (file) or database (sqlite)")
	pf.BoolVar(&a.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&a.run.NoColor, "no-color", false, "disable color output")
	pf.StringVar(&a.run.LogFile, "log-file", "", "write JSON logs to this file instead of stderr")

	f := rootCmd.Flags()
	f.StringVar(&a.value, "value", "", "initial query text")
	f.BoolVar(&a.snapshot, "snapshot", false, "render a single frame and exit; honors --width/--height")
	f.IntVar(&a.width, "width", 0, "snapshot width in columns (default terminal width)")
	f.IntVar(&a.height, "height", 0, "snapshot height in rows (default terminal height)")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(
		newParseCmd(a),
		newSuggestCmd(a),
		newHistoryCmd(a),
		newCatalogsCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// prepare sets up logging and loads the merged configuration.
func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	a.run.MinLogLevel = logger.LevelFor(a.debug)
	a.run.Interactive = cmd.Parent() == nil && !a.snapshot

	w, err := a.logOutput(cmd)
	if err != nil {
		return err
	}
	lgr := logger.Init(a.run.MinLogLevel, w)
	// Attach basic context about the command
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithLogger(ctx, lgr))

	path := config.ResolvePath(a.run.ConfigFile)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.run.History.Backend != "" {
		cfg.History.Backend = a.run.History.Backend
	}
	if a.run.History.Path != "" {
		cfg.History.Path = a.run.History.Path
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	set, err := cfg.CatalogSet()
	if err != nil {
		return fmt.Errorf("build catalogs: %w", err)
	}
	a.cfg = cfg
	a.catalogs = set

	if th, err := ui.ThemeByName(cfg, ""); err == nil {
		formatter.SetTableTheme(formatter.TableColors{
			HeaderFG:       th.PromptFG,
			HeaderBG:       th.SelectedBG,
			KeyColor:       th.ChipFG,
			ValueColor:     th.InputFG,
			SeparatorColor: th.Border,
		})
	}
	lgr.V(1).Info("configuration loaded", "path", path, "catalogs", set.Names(), "history_backend", cfg.History.Backend)
	return nil
}

// logOutput picks where logs go. The interactive query bar owns the terminal,
// so it logs nowhere unless a file is given or --debug is set.
func (a *app) logOutput(cmd *cobra.Command) (io.Writer, error) {
	if a.run.LogFile != "" {
		f, err := os.OpenFile(a.run.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		return f, nil
	}
	if a.run.Interactive && !a.debug {
		return io.Discard, nil
	}
	return cmd.ErrOrStderr(), nil
}

func (a *app) finish(_ *cobra.Command, _ []string) error {
	logger.Sync()
	if a.logFile != nil {
		err := a.logFile.Close()
		a.logFile = nil
		return err
	}
	return nil
}

// catalog returns the catalog named by --catalog, or the default one.
func (a *app) catalog(name string) (*catalog.Catalog, error) {
	if name == "" {
		name = a.run.Catalog
	}
	return a.catalogs.Get(name)
}

// engine returns the suggestion engine configured for this run.
func (a *app) engine() *completion.Engine {
	if a.cfg.StepwiseNegationEnabled() {
		return completion.NewEngine(completion.WithStepwiseNegation())
	}
	return completion.NewEngine()
}

// openHistory opens the configured history backend. The returned func
// releases it and is never nil.
func (a *app) openHistory(ctx context.Context) (*history.Store, func(), error) {
	lgr := logger.FromContext(ctx)
	opts := []history.Option{
		history.WithNamespace(a.cfg.History.Namespace),
		history.WithCapacity(a.cfg.History.Capacity),
		history.WithLogger(lgr.WithName("history")),
	}
	noop := func() {}

	if a.cfg.History.Backend == config.BackendMemory {
		return history.New(history.NewMemoryKV(), opts...), noop, nil
	}
	path, err := a.cfg.HistoryPath()
	if err != nil {
		return nil, noop, err
	}
	switch a.cfg.History.Backend {
	case config.BackendSQLite:
		kv, err := history.OpenSQLiteKV(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open history database: %w", err)
		}
		return history.New(kv, opts...), func() {
			if err := kv.Close(); err != nil {
				lgr.V(1).Info("closing history database failed", "error", err.Error())
			}
		}, nil
	default:
		kv, err := history.NewFileKV(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open history directory: %w", err)
		}
		return history.New(kv, opts...), noop, nil
	}
}

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	cat, err := a.catalog("")
	if err != nil {
		return err
	}
	hist, closeHist, err := a.openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer closeHist()

	theme, err := ui.ThemeByName(a.cfg, "")
	if err != nil {
		return err
	}
	keys, err := ui.KeyMapFromConfig(a.cfg.UI.Keys)
	if err != nil {
		return fmt.Errorf("ui keys: %w", err)
	}

	opts := ui.Options{
		AppName:     a.cfg.App.Name,
		Catalog:     cat,
		History:     hist,
		Engine:      a.engine(),
		Value:       a.value,
		Placeholder: a.cfg.UI.Placeholder,
		PanelHeight: a.cfg.UI.PanelHeight,
		Theme:       &theme,
		Keys:        &keys,
		NoColor:     a.run.NoColor,
		Debug:       a.debug,
		Width:       a.width,
		Height:      a.height,
		Logger:      logger.FromContext(cmd.Context()).WithName("ui"),
	}

	if a.snapshot {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSnapshot(opts))
		return nil
	}
	if !isTerminal() {
		return fmt.Errorf("the interactive query bar needs a terminal; use --snapshot, 'aqx parse' or 'aqx suggest' instead")
	}

	last, err := ui.Run(ui.NewModel(opts))
	if err != nil {
		return fmt.Errorf("query bar: %w", err)
	}
	if last != "" {
		fmt.Fprintln(cmd.OutOrStdout(), last)
	}
	return nil
}
