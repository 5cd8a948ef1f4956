package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LeJamon/goPredictd/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	debugLog   bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "predictd",
	Short: "predictd - binary prediction market node",
	Long: `predictd runs a single-operator chain hosting binary prediction markets:
a proposal registry, a constant-product market per proposal and a staked
oracle that reviews proposals, uploads results and settles disputes.`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (default ./predictd.toml if present)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// loadConfig reads --conf, falling back to ./predictd.toml and then to the
// built-in defaults.
func loadConfig() (*config.Config, error) {
	paths := config.ConfigPaths{Main: configFile}
	if configFile == "" {
		def := config.DefaultConfigPaths()
		if _, err := os.Stat(def.Main); err == nil {
			paths = def
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return config.LoadConfig(paths)
}

// newLogger builds the process logger from the [log] section. --debug and
// --quiet override the configured level.
func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	switch {
	case debugLog:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
