package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Vovarama1992/sales-bot/internal/ai"
	"github.com/Vovarama1992/sales-bot/internal/chat"
	"github.com/Vovarama1992/sales-bot/internal/config"
	"github.com/Vovarama1992/sales-bot/internal/dialog"
	"github.com/Vovarama1992/sales-bot/internal/knowledge"
	"github.com/Vovarama1992/sales-bot/internal/logger"
	"github.com/Vovarama1992/sales-bot/internal/observability"
	"github.com/Vovarama1992/sales-bot/internal/store"
)

// app — собранные зависимости процесса
type app struct {
	cfg        config.Config
	log        *zap.Logger
	registry   *prometheus.Registry
	metrics    *observability.Metrics
	svc        dialog.Service
	transcript *store.PostgresTranscript
	db         *sql.DB
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	client, err := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		Model:          cfg.OpenAIModel,
		EmbeddingModel: cfg.OpenAIEmbeddingModel,
	}, log)
	if err != nil {
		return nil, err
	}

	docs, err := knowledge.LoadCorpus(cfg.KnowledgeDir)
	if err != nil {
		return nil, fmt.Errorf("knowledge: %w", err)
	}
	log.Info("knowledge loaded", zap.String("dir", cfg.KnowledgeDir), zap.Int("documents", len(docs)))

	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	a.metrics = observability.NewMetrics(cfg.MetricsNamespace, a.registry)

	notifier := chat.NewAdminNotifier(cfg.NotifyURL, cfg.NotifyToken, cfg.AdminNumber, log)
	opts := []dialog.Option{
		dialog.WithLogger(log),
		dialog.WithMetrics(a.metrics),
		dialog.WithNotifier(notifier),
		dialog.WithRetrieval(dialog.RetrievalConfig{
			TopK:      cfg.RAGTopK,
			MinScore:  cfg.RAGMinScore,
			MaxChunks: cfg.RAGMaxChunks,
		}),
	}

	// без DATABASE_URL архив просто не пишется
	if cfg.DatabaseURL != "" {
		a.db, err = store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.transcript, err = store.NewPostgresTranscript(ctx, a.db)
		if err != nil {
			a.db.Close()
			return nil, err
		}
		opts = append(opts, dialog.WithTranscript(a.transcript))
	} else {
		log.Warn("DATABASE_URL not set, transcript archive disabled")
	}

	a.svc = dialog.NewService(
		store.NewMemoryStates(),
		knowledge.NewRetriever(client, docs, log),
		dialog.NewAIGenerator(client, dialog.Tools(notifier)...),
		opts...,
	)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
