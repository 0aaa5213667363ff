package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/emotion-atlas/pkg/server"
	"github.com/de-tools/emotion-atlas/pkg/services/archival"
	"github.com/de-tools/emotion-atlas/pkg/services/analysis"
	"github.com/de-tools/emotion-atlas/pkg/services/config"
	"github.com/de-tools/emotion-atlas/pkg/services/messages"
	"github.com/de-tools/emotion-atlas/pkg/store/archive"
	"github.com/de-tools/emotion-atlas/pkg/store/duckdb"
	messagestore "github.com/de-tools/emotion-atlas/pkg/store/duckdb/messages"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Emotion Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (EMOTION_ATLAS_* environment variables take precedence)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  cfg.Database.Path,
		Threads: cfg.Database.Threads,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	store, err := messagestore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create message store: %w", err)
	}

	var archiver archive.Archiver = archive.NewNoop()
	if cfg.Archive.Enabled {
		s3Archiver, err := archive.NewS3Archiver(ctx, archive.Settings{
			Bucket: cfg.Archive.Bucket,
			Prefix: cfg.Archive.Prefix,
			Region: cfg.Archive.Region,
		})
		if err != nil {
			return fmt.Errorf("failed to create report archiver: %w", err)
		}

		runner := archival.NewRunner(s3Archiver, archival.RunnerConfig{
			QueueSize:     cfg.Archive.QueueSize,
			RetryAttempts: cfg.Archive.RetryAttempts,
			SleepInterval: cfg.Archive.RetryInterval,
		})
		runnerCtx, stopRunner := context.WithCancel(ctx)
		go runner.Run(runnerCtx)
		defer func() {
			stopRunner()
			<-runner.Done()
		}()

		archiver = runner
		logger.Info().Str("bucket", cfg.Archive.Bucket).Msg("report archiving enabled")
	}

	policy, err := analysis.ParseVocabularyPolicy(cfg.Analysis.Vocabulary)
	if err != nil {
		return err
	}
	analyzer := analysis.NewAnalyzer(analysis.Options{
		Vocabulary: policy,
		Categories: cfg.Analysis.Categories,
	})

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		RateLimit: server.RateLimit{
			Disabled: cfg.RateLimit.Disabled,
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		},
		Dependencies: server.Dependencies{
			Analyzer: analyzer,
			Messages: messages.NewService(analyzer, store, archiver),
			DB:       db,
			Logger:   logger,
		},
	})

	logger.Info().Str("database", cfg.Database.Path).Msg("configuration loaded")
	return api.Start()
}
