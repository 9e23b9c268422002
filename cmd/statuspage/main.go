package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientcmd "github.com/ar0085/status-page/internal/cmd/client"
	serverrun "github.com/ar0085/status-page/internal/cmd/server"
	cfgpkg "github.com/ar0085/status-page/internal/config"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
	logpkg "github.com/ar0085/status-page/pkg/log"
	"github.com/spf13/cobra"
)

func main() {
	// Respect STATUSPAGE_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("STATUSPAGE_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "statuspage",
		Short: "Status page CLI",
		Long:  "statuspage is a single-binary multi-tenant status page service. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the status page server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			configPath, _ := cmd.Flags().GetString("config")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			brokerURL, _ := cmd.Flags().GetString("broker-url")
			sendBuf, _ := cmd.Flags().GetInt("send-buf")
			doSeed, _ := cmd.Flags().GetBool("seed")

			mode := pebblestore.FsyncModeAlways
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if brokerURL != "" {
				cfg.Broker.URL = brokerURL
			}
			if sendBuf > 0 {
				cfg.SessionSendBuffer = sendBuf
			}
			if logLevel != "" {
				_ = os.Setenv("STATUSPAGE_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("STATUSPAGE_LOG_FORMAT", logFormat)
			}
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
				Seed:          doSeed,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("config", "", "Config file path (JSON or YAML)")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("STATUSPAGE_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("STATUSPAGE_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().String("broker-url", os.Getenv("STATUSPAGE_BROKER_URL"), "RabbitMQ URL for multi-instance fan-out (optional)")
	serverStartCmd.Flags().Int("send-buf", 0, "Per-session send buffer size (default 64)")
	serverStartCmd.Flags().Bool("seed", false, "Seed a demo organization on startup")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// resource commands
	rootCmd.AddCommand(clientcmd.NewOrgCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewServiceCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewIncidentCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewMaintenanceCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewStatusCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewEventsCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewWatchCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("STATUSPAGE_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
