package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stylizerd/internal/config"
	"stylizerd/internal/httpapi"
	"stylizerd/internal/manager"
	"stylizerd/internal/registry"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// buildRootCmd constructs the Cobra command tree. The root runs the server so
// `stylizerd` alone serves with defaults.
func buildRootCmd() *cobra.Command {
	cfg := config.Config{
		Addr:      envOr("STYLIZERD_ADDR", ":8080"),
		ModelsDir: envOr("STYLIZERD_MODELS_DIR", "~/models/faces"),
		LogLevel:  envOr("STYLIZERD_LOG_LEVEL", "info"),
		MaxBodyMB: envIntOr("STYLIZERD_MAX_BODY_MB", 8),
	}
	var configPath string
	var corsOrigins string

	root := &cobra.Command{
		Use:           "stylizerd",
		Short:         "Face stylization daemon over local model bundles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			fileCfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", configPath, err)
			}
			// Flags and env take precedence over the file for values the
			// user set explicitly; file fills the rest.
			mergeConfig(&cfg, fileCfg, cmd)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg, corsOrigins)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", envOr("STYLIZERD_CONFIG", ""), "Path to a yaml/json/toml config file")
	pf.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address, e.g. :8080")
	pf.StringVar(&cfg.ModelsDir, "models-dir", cfg.ModelsDir, "Directory to scan for model bundles")
	pf.StringVar(&cfg.DefaultModel, "default-model", envOr("STYLIZERD_DEFAULT_MODEL", ""), "Default model id when request omits ?model")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	pf.IntVar(&cfg.MaxBodyMB, "max-body-mb", cfg.MaxBodyMB, "Maximum image upload size in MiB")
	pf.IntVar(&cfg.EngineThreads, "engine-threads", envIntOr("STYLIZERD_ENGINE_THREADS", 0), "Threads for engine runtimes that support it (0=default)")
	pf.BoolVar(&cfg.CORSEnabled, "cors", cfg.CORSEnabled, "Enable CORS middleware")
	pf.StringVar(&corsOrigins, "cors-origins", "*", "Comma-separated allowed CORS origins")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (same as the bare root command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg, corsOrigins)
		},
	}
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List model bundles found in the models directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := registry.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%dpx\t%s\n", m.ID, m.Version, m.OutputSize, m.Path)
			}
			return nil
		},
	}
	root.AddCommand(serveCmd, modelsCmd)
	return root
}

// mergeConfig fills cfg fields from fileCfg unless the matching flag was set
// on the command line.
func mergeConfig(cfg *config.Config, fileCfg config.Config, cmd *cobra.Command) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if fileCfg.Addr != "" && !changed("addr") {
		cfg.Addr = fileCfg.Addr
	}
	if fileCfg.ModelsDir != "" && !changed("models-dir") {
		cfg.ModelsDir = fileCfg.ModelsDir
	}
	if fileCfg.DefaultModel != "" && !changed("default-model") {
		cfg.DefaultModel = fileCfg.DefaultModel
	}
	if fileCfg.LogLevel != "" && !changed("log-level") {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.MaxBodyMB != 0 && !changed("max-body-mb") {
		cfg.MaxBodyMB = fileCfg.MaxBodyMB
	}
	if fileCfg.EngineThreads != 0 && !changed("engine-threads") {
		cfg.EngineThreads = fileCfg.EngineThreads
	}
	if fileCfg.CORSEnabled && !changed("cors") {
		cfg.CORSEnabled = true
	}
	if len(fileCfg.CORSOrigins) > 0 {
		cfg.CORSOrigins = fileCfg.CORSOrigins
	}
}

func runServe(cfg config.Config, corsOrigins string) error {
	logger := newLogger(cfg.LogLevel)

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("load model bundles: %w", err)
	}
	if len(reg) == 0 {
		logger.Warn().Str("dir", cfg.ModelsDir).Msg("no model bundles found")
	}

	mgr := manager.New(manager.Config{
		Registry:     reg,
		DefaultModel: cfg.DefaultModel,
		Threads:      cfg.EngineThreads,
		Logger:       &logger,
	})
	defer mgr.Close()

	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(int64(cfg.MaxBodyMB) << 20)
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = splitCSV(corsOrigins)
	}
	httpapi.SetCORSOptions(cfg.CORSEnabled, origins,
		[]string{"GET", "POST", "OPTIONS"}, []string{"Content-Type"})

	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).
			Int("bundles", len(reg)).Msg("stylizerd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-baseCtx.Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
