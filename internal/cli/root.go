// Package cli wires the cobra command tree: the TUI, a headless countdown,
// an interactive shell and the offline cache server.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/luccascomvoce/temporizador/internal/app"
	"github.com/luccascomvoce/temporizador/internal/config"
	"github.com/luccascomvoce/temporizador/internal/logging"
	"github.com/luccascomvoce/temporizador/internal/ui"
	"github.com/luccascomvoce/temporizador/internal/ui/theme"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0"

var (
	cfgPath   string
	verbosity int
	themeName string

	cfg       *config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

// NewRootCmd creates the root CLI command. Without a subcommand it starts
// the TUI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "temporizador",
		Short:         "Temporizador de contagem regressiva para o terminal",
		Long:          "Temporizador HH:MM:SS com edição por teclado, roda do mouse e arraste, histórico e cache offline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "caminho do arquivo de configuração")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "aumenta o detalhe do log (-v, -vv, -vvv)")
	cmd.Flags().StringVar(&themeName, "theme", "", "tema desta sessão (light, dark)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return teardown()
	}

	cmd.AddCommand(
		newRunCmd(),
		newShellCmd(),
		newSettingsCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the config file and opens the log file. The shell calls
// commands repeatedly, so an already loaded config is kept.
func setup() error {
	if cfg == nil {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logCloser != nil {
		// inside the shell the level belongs to the log command
		return nil
	}

	l, closer, err := logging.Setup(cfg.LogPath(), logLevel())
	if err != nil {
		return err
	}
	logger = l
	logCloser = closer
	logger.Debug("config loaded", "path", cfgPath, "data_dir", cfg.DataDir)
	return nil
}

func teardown() error {
	if logCloser == nil || inShell {
		return nil
	}
	logger = slog.New(slog.DiscardHandler)
	slog.SetDefault(logger)
	err := logCloser.Close()
	logCloser = nil
	return err
}

// logLevel prefers -v flags over the configured level
func logLevel() slog.Level {
	if verbosity > 0 {
		return logging.FromVerbosity(verbosity)
	}
	l, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("invalid log level in config", "level", cfg.Log.Level)
	}
	return l
}

// openApp opens the database. Only the TUI takes the instance lock.
func openApp(lock bool) (*app.App, error) {
	return app.New(cfg, app.Options{Lock: lock, Logger: logger})
}

func runTUI() error {
	if themeName != "" {
		if _, ok := theme.ByName(themeName); !ok {
			return fmt.Errorf("unknown theme %q (use light or dark)", themeName)
		}
	}

	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	model := ui.NewRootModel(application, themeName)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	logger.Info("tui started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "temporizador v%s\n", Version)
		},
	}
}
