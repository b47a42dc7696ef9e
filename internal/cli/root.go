package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/tally/internal/config"
	"github.com/sandeepkv93/tally/internal/logging"
	"github.com/sandeepkv93/tally/internal/storage"
	"github.com/sandeepkv93/tally/internal/transfer"
	"github.com/sandeepkv93/tally/internal/update"
)

type App struct {
	ConfigFile string
	NoColor    bool

	cfg     config.Config
	log     logging.Logger
	engine  *transfer.Engine
	notice  string
	closers []io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tally",
		Short:        "Record completions and give them away",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tally

  # Scriptable commands
  tally add
  tally list --json
  tally give 1704877200000
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.ConfigFile, "config", "", "Path to the yaml config file (default: $XDG_CONFIG_HOME/tally/tally.yml)")
	flags.String("db", "", "Path to the store (sqlite database or json file)")
	flags.String("driver", "", "Storage driver (sqlite|file|memory)")
	flags.String("log-file", "", "Write logs to this file")
	flags.Duration("hold", 0, "How long to hold the add button to arm reset")
	flags.BoolVar(&app.NoColor, "no-color", false, "Disable colours")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newGiveCmd(app))

	return cmd
}

func (a *App) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	log, logCloser, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, logCloser)
	a.log = log.With("cmd", cmd.Name())

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, storeCloser, err := storage.Open(ctx, storage.Options{
		Driver: cfg.StorageDriver,
		Path:   cfg.StoragePath,
		Strict: cfg.StrictDecoding,
	}, a.log)
	if err != nil {
		if store == nil {
			return err
		}
		a.notice = fmt.Sprintf("storage unavailable (%v): changes stay in memory", err)
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+a.notice)
	}
	if storeCloser != nil {
		a.closers = append(a.closers, storeCloser)
	}

	a.engine = transfer.NewEngine(store,
		transfer.WithClock(func() time.Time { return time.Now().In(loc) }),
		transfer.WithLogger(a.log),
	)
	if err := a.engine.Seed(ctx); err != nil && !errors.Is(err, storage.ErrStorageUnavailable) {
		return err
	}
	a.log.Debug(ctx, "store opened", "driver", cfg.StorageDriver, "path", cfg.StoragePath)
	return nil
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func runTUI(cmd *cobra.Command, app *App) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := update.NewModel(ctx, app.engine, update.Options{
		HoldDuration:         app.cfg.HoldDuration,
		Logger:               app.log,
		DesktopNotifications: app.cfg.DesktopNotifications,
		Notifier:             update.ExecDesktopNotifier{},
		StartupNotice:        app.notice,
	})
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tally failed: %w", err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
