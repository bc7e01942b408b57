package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// semanticSimilarity embeds both documents and returns their cosine in [-1,1].
// Every failure wraps domain.ErrEncoding; no fallback score is substituted.
func (s *Service) semanticSimilarity(ctx context.Context, resume, job string) (float64, error) {
	if s.embed == nil {
		return 0, fmt.Errorf("encoder unavailable: %w", domain.ErrEncoding)
	}
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(job) == "" {
		return 0, fmt.Errorf("%w: %w", domain.ErrEncoding, domain.ErrEmptyInput)
	}

	res, err := domain.EmbedAll(ctx, s.embed, []string{resume, job})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	cos, ok := domain.CosineFloat32(res.Embeddings[0], res.Embeddings[1])
	if !ok {
		return 0, fmt.Errorf(
			"degenerate embeddings (dims %d/%d): %w",
			len(res.Embeddings[0]), len(res.Embeddings[1]), domain.ErrEncoding,
		)
	}
	return cos, nil
}
