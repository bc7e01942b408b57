package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	"github.com/kailas-cloud/resumatch/internal/metrics"
)

// Default batch limits.
const (
	DefaultWorkers      = 4
	DefaultMaxBatchSize = 100
)

// Candidate is one resume of a batch, identified by its file name.
type Candidate struct {
	ID   string
	Text domain.TextInput
}

// Analysis is a scored pair plus the keyword breakdown behind the overlap signal.
type Analysis struct {
	Scores          domain.Scores
	MatchedKeywords []string
	MissingKeywords []string
}

// Service scores resumes against job descriptions. It holds no per-call state;
// the embedder is the only shared resource.
type Service struct {
	embed        Embedder
	defaults     Options
	workers      int
	maxBatchSize int
	logger       *zap.Logger
}

// New creates a match service. A nil logger disables logging.
func New(embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embed:        embed,
		defaults:     DefaultOptions(),
		workers:      DefaultWorkers,
		maxBatchSize: DefaultMaxBatchSize,
		logger:       logger,
	}
}

// WithDefaults replaces the options applied before per-call overrides.
func (s *Service) WithDefaults(o Options) *Service {
	s.defaults = o
	return s
}

// WithWorkers bounds the number of resumes scored concurrently in a batch.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Defaults returns the service-level options.
func (s *Service) Defaults() Options { return s.defaults }

// MaxBatchSize returns the largest batch ScoreBatch accepts.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Score compares one resume with one job description.
func (s *Service) Score(ctx context.Context, resume, job domain.TextInput, opts ...Option) (domain.Scores, error) {
	a, err := s.Analyze(ctx, resume, job, opts...)
	if err != nil {
		return domain.Scores{}, err
	}
	return a.Scores, nil
}

// Analyze runs the four scorers and aggregates them. Degenerate inputs
// score 0 locally; only encoder failures are returned.
func (s *Service) Analyze(ctx context.Context, resume, job domain.TextInput, opts ...Option) (Analysis, error) {
	o := s.defaults.apply(opts)
	r, j := resume.Normalize(), job.Normalize()
	start := time.Now()

	lex := LexicalSimilarity(r, j)
	rel := RelevanceScore(r, j)
	kw := KeywordOverlapScore(r, j, o.TopK)

	sem, err := s.semanticSimilarity(ctx, r, j)
	if err != nil {
		metrics.ScoringErrorsTotal.WithLabelValues("semantic").Inc()
		s.logger.Warn("Semantic scoring failed",
			zap.Bool("resume_sequence", resume.IsSequence()),
			zap.Int("resume_len", len(r)),
			zap.Int("job_len", len(j)),
			zap.Error(err),
		)
		return Analysis{}, fmt.Errorf("semantic similarity: %w", err)
	}

	scores := Aggregate(lex, sem, rel, kw.Score, o.Weights, o.Thresholds)

	metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	metrics.FinalScore.Observe(scores.Final)
	metrics.LabelsTotal.WithLabelValues(string(scores.Label)).Inc()

	s.logger.Debug("Resume scored",
		zap.Bool("resume_sequence", resume.IsSequence()),
		zap.Bool("job_sequence", job.IsSequence()),
		zap.Float64("lexical", scores.Lexical),
		zap.Float64("semantic", scores.Semantic),
		zap.Float64("relevance", scores.Relevance),
		zap.Float64("keyword", scores.Keyword),
		zap.Float64("final", scores.Final),
		zap.String("label", string(scores.Label)),
		zap.Duration("duration", time.Since(start)),
	)

	return Analysis{
		Scores:          scores,
		MatchedKeywords: kw.Matched,
		MissingKeywords: kw.Missing,
	}, nil
}

// ScoreBatch scores every candidate independently against job. Failures are
// reported per item and never abort the batch. Results keep input order.
func (s *Service) ScoreBatch(
	ctx context.Context, job domain.TextInput, candidates []Candidate, opts ...Option,
) []dombatch.Result {
	results := make([]dombatch.Result, len(candidates))

	if len(candidates) > s.maxBatchSize {
		for i, c := range candidates {
			results[i] = dombatch.NewError(
				c.ID,
				fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidRequest),
			)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, c := range candidates {
		g.Go(func() error {
			if strings.TrimSpace(c.Text.Normalize()) == "" {
				results[i] = dombatch.NewError(c.ID,
					fmt.Errorf("no extractable text found: %w", domain.ErrEmptyInput))
				return nil
			}
			if err := ctx.Err(); err != nil {
				results[i] = dombatch.NewError(c.ID, fmt.Errorf("batch cancelled: %w", err))
				return nil
			}

			scores, err := s.Score(ctx, c.Text, job, opts...)
			if err != nil {
				results[i] = dombatch.NewError(c.ID, err)
				return nil
			}
			results[i] = dombatch.NewOK(c.ID, scores)
			return nil
		})
	}
	_ = g.Wait() // workers report through results

	return results
}
