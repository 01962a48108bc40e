package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/opengovern/quip-bridge/config"
	"github.com/opengovern/quip-bridge/logger"
	"github.com/opengovern/quip-bridge/quip"
)

var (
	cfgFile  string
	logLevel string
	pretty   bool

	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by the main package with ldflags values.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:           "quipbridge",
	Short:         "Rate-limit aware client for the Quip Automation API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command; ctx reaches every RunE via cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (QUIP_* environment variables override it)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console logs")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quipbridge %s (commit %s, built %s)\n",
			versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
	},
}

var (
	errNoToken      = errors.New("no API token: set QUIP_TOKEN or quip.token in the config file")
	errInvalidToken = errors.New("token rejected by Quip")
)

// newClient loads configuration and builds a client from it.
func newClient() (*quip.Client, logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, errNoToken
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logger.New(level, pretty || cfg.Log.Pretty)

	c, err := quip.New(cfg.Token,
		quip.WithBaseURL(cfg.BaseURL),
		quip.WithRequestsPerSecond(cfg.Rate.RPS, cfg.Rate.Burst),
		quip.WithProviderConfig(cfg.ProviderConfig()),
		quip.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	return c, log, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
