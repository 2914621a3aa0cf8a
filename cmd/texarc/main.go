package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/texarc/texarc/internal/config"
)

var (
	cfg     *config.Config
	cfgFile string

	alignment  int
	cachePath  string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "texarc",
	Short: "Localized texture archive extraction and rebuild tool",
	Long: `texarc converts a game's paired texture archives (a raw data file plus its
companion '_info.bin' table) into an editable YAML manifest and standalone
resource files, and builds an edited manifest back into a byte-correct
info+data pair.

An archive 'X.bin' is extracted into 'X_tex.yaml' plus a directory 'X_tex/'
holding one file per archived resource. Rebuilding consumes the manifest and
that directory and emits 'X.bin' and 'X_info.bin' again.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("alignment") {
			cfg.Alignment = alignment
		}
		if cmd.Flags().Changed("cache") {
			cfg.CachePath = cachePath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"alignment", cfg.Alignment,
			"cache_path", cfg.CachePath,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is texarc.yaml in pwd or home)")
	rootCmd.PersistentFlags().IntVar(&alignment, "alignment", 0, "data-file payload alignment (power of two, format default 4)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "compression cache database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
