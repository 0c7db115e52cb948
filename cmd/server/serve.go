package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-mcp/internal/config"
	"github.com/KirkDiggler/dnd-mcp/internal/errors"
)

var (
	storageBackend string
	dataDir        string
	logLevel       string
	adminPort      int
	contentAPI     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP tools over stdio",
	Long: `Serve the D&D 5e tools to an MCP client over stdin/stdout.
Logs go to stderr. Configuration comes from the environment; flags override it.`,
	RunE: runServe,
}

func init() {
	// storage flags are shared with the keys commands
	rootCmd.PersistentFlags().StringVar(&storageBackend, "backend", config.BackendMemory, "storage backend: memory, disk, sqlite or redis")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./save_data", "directory for the disk and sqlite backends")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	serveCmd.Flags().IntVar(&adminPort, "admin-port", 0, "admin gRPC port for health and reflection; 0 disables it")
	serveCmd.Flags().BoolVar(&contentAPI, "content-api", true, "look spells and items up in the D&D 5e API")
}

// loadConfig reads the environment and applies any flags the user set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Storage.Backend = storageBackend
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DiskDirectory = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("admin-port") {
		cfg.AdminGRPCPort = adminPort
	}
	if flags.Changed("content-api") {
		cfg.Content.APIEnabled = contentAPI
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// setupLogging installs a JSON handler on stderr; stdout belongs to the
// MCP transport
func setupLogging(cfg config.Config) {
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	if cfg.AdminGRPCPort > 0 {
		admin, err := startAdmin(ctx, cfg.AdminGRPCPort, a.store)
		if err != nil {
			return err
		}
		defer admin.Stop()
	}

	slog.InfoContext(ctx, "Serving MCP over stdio",
		"version", version,
		"backend", cfg.Storage.Backend,
		"content_api", cfg.Content.APIEnabled,
	)

	if err := a.mcp.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return err
	}

	slog.Info("MCP session ended")
	return nil
}
