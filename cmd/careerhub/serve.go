package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/career-hub/internal/calculators"
	"github.com/jonathan/career-hub/internal/config"
	"github.com/jonathan/career-hub/internal/db"
	"github.com/jonathan/career-hub/internal/insights"
	"github.com/jonathan/career-hub/internal/llm"
	"github.com/jonathan/career-hub/internal/logging"
	"github.com/jonathan/career-hub/internal/quiz"
	"github.com/jonathan/career-hub/internal/server"
	"github.com/jonathan/career-hub/internal/server/ratelimit"
	"github.com/jonathan/career-hub/internal/wages"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the calculators, wage insights and quiz sessions as JSON endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveConfig)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tokenConfig, err := config.NewSessionTokenConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	srvCfg, err := buildServerConfig(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srvCfg.Tokens = server.NewSessionTokenService(tokenConfig)

	srv, err := server.New(srvCfg)
	if err != nil {
		for _, fn := range srvCfg.OnShutdown {
			fn()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// buildServerConfig wires every dependency except the token service.
func buildServerConfig(ctx context.Context, cfg config.Config, logger *zap.Logger) (server.Config, error) {
	ref, err := calculators.LoadReference()
	if err != nil {
		return server.Config{}, err
	}

	report, err := loadReport(ctx, cfg.WageData)
	if err != nil {
		return server.Config{}, err
	}

	lib, err := quiz.LoadLibrary()
	if err != nil {
		return server.Config{}, err
	}

	srvCfg := server.Config{
		Port:          cfg.Port,
		AllowedOrigin: cfg.AllowedOrigin,
		Logger:        logger,
		Reference:     ref,
		Report:        report,
		Engine:        insights.New(insights.DefaultThresholds()),
		RateLimit:     ratelimit.LoadConfig(),
	}
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour

	var store quiz.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return server.Config{}, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return server.Config{}, err
		}
		qs := db.NewQuizStore(database, ttl)
		store = qs
		srvCfg.Stats = qs
		srvCfg.Sweep = func(ctx context.Context) (int, error) {
			n, err := qs.DeleteExpired(ctx)
			return int(n), err
		}
		srvCfg.OnShutdown = append(srvCfg.OnShutdown, database.Close)
		logger.Info("quiz sessions stored in postgres")
	} else {
		mem := quiz.NewMemoryStore(ttl)
		store = mem
		srvCfg.Sweep = func(context.Context) (int, error) {
			return mem.Sweep(), nil
		}
		logger.Info("quiz sessions stored in memory")
	}
	srvCfg.Quiz = quiz.NewService(lib, store, quiz.WithLogger(logger))

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			for _, fn := range srvCfg.OnShutdown {
				fn()
			}
			return server.Config{}, err
		}
		srvCfg.Narrator = insights.NewNarrator(client)
		srvCfg.OnShutdown = append(srvCfg.OnShutdown, func() { _ = client.Close() })
	}

	return srvCfg, nil
}

// loadReport returns the embedded sample, or the given files merged in order.
func loadReport(ctx context.Context, paths []string) (*wages.Report, error) {
	if len(paths) == 0 {
		return wages.Sample()
	}
	reports, err := wages.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	return wages.Merge(reports...)
}
