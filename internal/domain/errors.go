package domain

import "errors"

var (
	// ErrEncoding signals that a document could not be turned into an embedding.
	// Semantic scoring never substitutes a zero score for it.
	ErrEncoding = errors.New("encoding failed")
	// ErrEmptyInput signals an empty document where the encoder needs text.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidRequest signals a malformed scoring request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
