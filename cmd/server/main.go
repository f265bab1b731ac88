package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"teamup/internal/config"
	"teamup/internal/db"
	"teamup/internal/email"
	"teamup/internal/events"
	"teamup/internal/jobs"
	"teamup/internal/logging"
	"teamup/internal/metrics"
	"teamup/internal/server"
	"teamup/internal/wordfilter"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The filter is mandatory: without word lists nothing can be screened.
	words, err := config.LoadWordLists(cfg.WordsFile)
	if err != nil {
		log.Fatal("failed to load word lists", zap.String("file", cfg.WordsFile), zap.Error(err))
	}
	for _, issue := range wordfilter.Lint(words.Forbidden, words.Unnecessary) {
		log.Warn("word list issue", zap.String("issue", issue.String()))
	}
	filter := wordfilter.New(words.Forbidden, words.Unnecessary)
	forbidden, unnecessary := filter.Sizes()
	log.Info("content filter loaded",
		zap.Int("forbidden", forbidden),
		zap.Int("unnecessary", unnecessary))

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("migrations completed successfully")

	if cfg.IsDev() {
		if err := database.SeedDevData(ctx); err != nil {
			log.Warn("failed to seed development data", zap.Error(err))
		}
	}

	metrics.Init(database, log.Named("metrics"))

	notifier := email.NewNotifier(cfg, database, log)
	if !cfg.IsEmailEnabled() {
		log.Info("email notifications disabled")
	}

	svc := events.NewService(database, filter, events.Options{
		MaxAge:   cfg.EventMaxAge,
		Notifier: notifier,
		Logger:   log.Named("events"),
	})

	srv := server.New(cfg, log)
	if err := srv.RegisterRoutes(ctx, database, svc, filter); err != nil {
		log.Fatal("failed to register routes", zap.Error(err))
	}

	sweeper := jobs.NewStatusSweeper(database, cfg.StatusSweepInterval, log.Named("sweeper"))
	go sweeper.Start(ctx)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server exited")
}
