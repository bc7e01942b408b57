package match

import "github.com/kailas-cloud/resumatch/internal/domain"

// DefaultTopK is the number of job-description keywords checked for overlap.
const DefaultTopK = 50

// Options are the per-call aggregation settings.
type Options struct {
	Weights    domain.Weights
	Thresholds domain.Thresholds
	TopK       int
}

// DefaultOptions returns the default weights, thresholds and top-K.
func DefaultOptions() Options {
	return Options{
		Weights:    domain.DefaultWeights(),
		Thresholds: domain.DefaultThresholds(),
		TopK:       DefaultTopK,
	}
}

// Option overrides one setting for a single call.
type Option func(*Options)

// WithWeights overrides the signal weights. They are used as given.
func WithWeights(w domain.Weights) Option {
	return func(o *Options) { o.Weights = w }
}

// WithThresholds overrides the label cut-offs.
func WithThresholds(t domain.Thresholds) Option {
	return func(o *Options) { o.Thresholds = t }
}

// WithTopK overrides the keyword count. Zero or less disables the signal.
func WithTopK(k int) Option {
	return func(o *Options) { o.TopK = k }
}

func (o Options) apply(opts []Option) Options {
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
