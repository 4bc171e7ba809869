package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-console/internal"
	"github.com/rocketscienceinc/tictactoe-console/internal/config"
)

var errUnknownLogLevel = errors.New("unknown log level")

// main - is the entry point of the application. It parses flags, loads the configuration and plays one game.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		store      string
		first      string
		oneBased   bool
	)

	cmd := &cobra.Command{
		Use:          "tictactoe",
		Short:        "Two-player Tic-Tac-Toe on the console.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := initConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				conf.LogLevel = logLevel
			}
			if flags.Changed("storage") {
				conf.Storage = store
			}
			if flags.Changed("first-player") {
				conf.FirstPlayer = first
			}
			if flags.Changed("one-based") {
				conf.OneBasedInput = oneBased
			}

			if err = conf.Validate(); err != nil {
				return err
			}

			logger, err := initLogger(conf)
			if err != nil {
				return err
			}

			if err = app.RunApp(logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default is ./config.yml)")
	flags.StringVar(&logLevel, "log-level", "", `log level ("debug", "info", "warn", "error")`)
	flags.StringVar(&store, "storage", "", `board storage ("memory", "redis")`)
	flags.StringVar(&first, "first-player", "", `mark that moves first ("X", "O")`)
	flags.BoolVar(&oneBased, "one-based", false, "count rows and columns from 1 instead of 0")

	return cmd
}

// initialize config. Without --config the default ./config.yml is optional; an
// explicit path must exist.
func initConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	path = filepath.Join(baseDir, "./config.yml")
	if _, err = os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		path = ""
	}

	return config.Load(path)
}

// initialize logger. Logs go to stderr so they never mix with the board.
func initLogger(conf *config.Config) (*slog.Logger, error) {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLogLevel, conf.LogLevel)
	}

	options := &slog.HandlerOptions{Level: level}

	if conf.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, options)), nil
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, options)), nil
}
