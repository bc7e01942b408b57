package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorMapping is checked in order; the first sentinel in the chain wins.
// ErrEmptyInput precedes ErrEncoding because an empty document is the
// caller's fault even though the encoder reports it. Provider errors also
// wrap their cause, so rate limits and timeouts precede the generic 502.
var errorMapping = []struct {
	sentinel error
	status   int
	code     ErrorCode
}{
	{domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrEmptyInput, http.StatusBadRequest, CodeEmptyInput},
	{domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
	{domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, CodeEmbeddingQuotaExceeded},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError},
	{domain.ErrEncoding, http.StatusBadGateway, CodeEncodingFailed},
}

func defaultErrorHandlers() []errorHandler {
	hs := make([]errorHandler, len(errorMapping))
	for i, m := range errorMapping {
		hs[i] = sentinelHandler(m.sentinel, m.status, m.code)
	}
	return hs
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// errorCode classifies err for per-item batch errors.
func errorCode(err error) ErrorCode {
	for _, m := range errorMapping {
		if errors.Is(err, m.sentinel) {
			return m.code
		}
	}
	return CodeInternalError
}

// safeDomainMessage returns a client-safe message. Validation and empty-input
// errors carry the full chain since they only describe the request; provider
// failures are reduced to their sentinel.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrEmptyInput) {
		return err.Error()
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.sentinel) {
			return m.sentinel.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used() {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
