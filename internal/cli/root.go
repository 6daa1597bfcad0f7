// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/quill/internal/config"
	"github.com/aidanlsb/quill/internal/logging"
	"github.com/aidanlsb/quill/internal/ui"
)

var (
	// Global flags
	configPath     string
	contentDirFlag string
	dbPathFlag     string
	logLevelFlag   string

	// Resolved values
	cfg    *config.Config
	logger = logging.Discard()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - structured extraction for markdown content",
	Long: `Quill reads markdown content (projects, blog posts, ideas, resumes) and
extracts structured records: typed entities, technologies, images, tags and
validation findings. Records can be synced into a local SQLite index.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix the config file or pass --config with a valid one")
		}
		cfg = loaded
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureCodeTheme(cfg.UI.CodeTheme)
		logger = logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&contentDirFlag, "content-dir", "", "Content directory (overrides content_dir in config)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Index database path (overrides database in config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
}

// loadConfig reads the config file named by --config, or the default one,
// and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	var loaded *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	loaded.Apply(config.Overrides{
		ContentDir: contentDirFlag,
		Database:   dbPathFlag,
		LogLevel:   logLevelFlag,
	})
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// getConfig returns the loaded config, falling back to defaults for commands
// that skip loading.
func getConfig() *config.Config {
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg
}
