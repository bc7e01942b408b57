package chi

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
	matchuc "github.com/kailas-cloud/resumatch/internal/usecase/match"
)

// ErrorCode is the machine-readable error kind of an API error response.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeEmptyInput             ErrorCode = "empty_input"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeRateLimited            ErrorCode = "rate_limited"
	CodeEmbeddingQuotaExceeded ErrorCode = "embedding_quota_exceeded"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeEncodingFailed         ErrorCode = "encoding_failed"
	CodeTimeout                ErrorCode = "timeout"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// scoringParams are the per-request overrides shared by both score endpoints.
// top_k is capped at the keyword vocabulary size (5000 terms).
type scoringParams struct {
	Weights    *domain.Weights    `json:"weights,omitempty"`
	Thresholds *domain.Thresholds `json:"thresholds,omitempty"`
	TopK       *int               `json:"top_k,omitempty" validate:"omitempty,min=0,max=5000"`
}

// ScoreRequest is the body of POST /v1/score. Resume and job accept either a
// string or an array of strings.
type ScoreRequest struct {
	Resume  domain.TextInput `json:"resume" validate:"required"`
	Job     domain.TextInput `json:"job" validate:"required"`
	Explain bool             `json:"explain,omitempty"`
	scoringParams
}

// ScoreResponse is the body of a successful POST /v1/score.
type ScoreResponse struct {
	domain.Scores
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
}

// BatchResumeItem is one resume of a batch. ID defaults to a generated UUID.
type BatchResumeItem struct {
	ID   string           `json:"id,omitempty" validate:"omitempty,max=256"`
	Text domain.TextInput `json:"text"`
}

// BatchScoreRequest is the body of POST /v1/score/batch.
type BatchScoreRequest struct {
	Job     domain.TextInput  `json:"job" validate:"required"`
	Resumes []BatchResumeItem `json:"resumes" validate:"required,min=1,dive"`
	scoringParams
}

// BatchResultItem is the outcome for one resume.
type BatchResultItem struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Scores *domain.Scores `json:"scores,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchScoreResponse is the JSON body of a successful POST /v1/score/batch.
type BatchScoreResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UsageResponse is the body of GET /v1/usage. TokensRemaining is -1 when unlimited.
type UsageResponse struct {
	Period          string `json:"period"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	Provider        string `json:"provider,omitempty"`
	TokensUsed      int64  `json:"tokens_used"`
	TokensLimit     int64  `json:"tokens_limit"`
	TokensRemaining int64  `json:"tokens_remaining"`
	IsExhausted     bool   `json:"is_exhausted"`
	ResetsAt        string `json:"resets_at"`
}

// newValidator returns a validator that sees TextInput as its normalized
// string, so "required" rejects absent or empty documents.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if t, ok := field.Interface().(domain.TextInput); ok {
			return t.Normalize()
		}
		return nil
	}, domain.TextInput{})
	return v
}

// validationMessage returns the first field error in a readable form.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		if f.Param() != "" {
			return fmt.Sprintf("%s: failed %s=%s", f.Namespace(), f.Tag(), f.Param())
		}
		return fmt.Sprintf("%s: failed %s", f.Namespace(), f.Tag())
	}
	return "invalid request"
}

// options converts the overrides into match options, validating each one.
func (p scoringParams) options() ([]matchuc.Option, error) {
	var opts []matchuc.Option
	if p.Weights != nil {
		if err := p.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		opts = append(opts, matchuc.WithWeights(*p.Weights))
	}
	if p.Thresholds != nil {
		if err := p.Thresholds.Validate(); err != nil {
			return nil, fmt.Errorf("thresholds: %w", err)
		}
		opts = append(opts, matchuc.WithThresholds(*p.Thresholds))
	}
	if p.TopK != nil {
		opts = append(opts, matchuc.WithTopK(*p.TopK))
	}
	return opts, nil
}

func batchResultToDTO(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{ID: r.ID(), Status: string(r.Status())}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    errorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
		return item
	}
	scores := r.Scores()
	item.Scores = &scores
	return item
}

func usageReportToDTO(r domusage.Report) UsageResponse {
	return UsageResponse{
		Period:          string(r.Period()),
		PeriodStart:     r.PeriodStart().Format(time.RFC3339),
		PeriodEnd:       r.PeriodEnd().Format(time.RFC3339),
		Provider:        r.Provider(),
		TokensUsed:      r.TokensUsed(),
		TokensLimit:     r.TokensLimit(),
		TokensRemaining: r.TokensRemaining(),
		IsExhausted:     r.IsExhausted(),
		ResetsAt:        r.PeriodEnd().Format(time.RFC3339),
	}
}
