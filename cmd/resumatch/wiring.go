package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/config"
	"github.com/kailas-cloud/resumatch/internal/domain"
	logpkg "github.com/kailas-cloud/resumatch/internal/logger"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	openaiEmb "github.com/kailas-cloud/resumatch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/resumatch/internal/usecase/embedding"
	matchuc "github.com/kailas-cloud/resumatch/internal/usecase/match"
)

// app is the composition root shared by every subcommand.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	encoder domain.Embedder
	budget  *embeddinguc.BudgetTracker
	match   *matchuc.Service
}

func newApp(env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	// Registered explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterScoringMetrics()

	encCfg := cfg.Embedding.Encoder
	provCfg := cfg.Embedding.Providers[encCfg.Provider]
	budget := newBudgetTracker(encCfg.Provider, provCfg.Budget, logger)

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	var budgetChecker embeddinguc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	encoder := buildEmbedder(encCfg, provCfg, budgetChecker, logger)
	logger.Info("Sentence encoder configured",
		zap.String("provider", encCfg.Provider),
		zap.String("model", encCfg.Model),
		zap.Int("dimensions", encCfg.Dimensions),
		zap.Bool("instruction", encCfg.Instruction != ""),
	)

	matchSvc := matchuc.New(encoder, logger).
		WithDefaults(matchuc.Options{
			Weights:    cfg.Scoring.Weights,
			Thresholds: cfg.Scoring.Thresholds,
			TopK:       cfg.Scoring.TopK,
		}).
		WithWorkers(cfg.Scoring.BatchWorkers).
		WithMaxBatchSize(cfg.Scoring.MaxBatchSize)

	return &app{
		env:     env,
		cfg:     cfg,
		logger:  logger,
		encoder: encoder,
		budget:  budget,
		match:   matchSvc,
	}, nil
}

func (a *app) close() { _ = a.logger.Sync() }

// newBudgetTracker returns nil when the provider has no token limits.
func newBudgetTracker(provider string, cfg config.BudgetConfig, logger *zap.Logger) *embeddinguc.BudgetTracker {
	if cfg.DailyTokenLimit <= 0 && cfg.MonthlyTokenLimit <= 0 {
		return nil
	}
	action := embeddinguc.BudgetActionWarn
	if cfg.Action == "reject" {
		action = embeddinguc.BudgetActionReject
	}
	return embeddinguc.NewBudgetTracker(
		provider, cfg.DailyTokenLimit, cfg.MonthlyTokenLimit, action, logger,
	)
}

// encoderHealthChecker adapts the embedder chain to health.EncoderChecker.
type encoderHealthChecker struct {
	embedder domain.Embedder
}

func newEncoderHealthChecker(embedder domain.Embedder) *encoderHealthChecker {
	return &encoderHealthChecker{embedder: embedder}
}

func (h *encoderHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("encoder health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Instrumented -> Instruction.
func buildEmbedder(
	encCfg config.EncoderConfig,
	provCfg config.ProviderConfig,
	budget embeddinguc.BudgetChecker,
	logger *zap.Logger,
) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      encCfg.Model,
		Dimensions: encCfg.Dimensions,
		Provider:   encCfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(
		base, encCfg.Provider, encCfg.Model, budget, logger,
	)

	if encCfg.Instruction != "" {
		return domain.NewInstructionEmbedder(embedder, encCfg.Instruction)
	}
	return embedder
}
