package match

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Embedder vectorizes text into embeddings. The instance is shared by every
// call and must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
