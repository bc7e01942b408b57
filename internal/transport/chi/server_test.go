package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	domusage "github.com/kailas-cloud/resumatch/internal/domain/usage"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/resumatch/internal/usecase/match"
	usageuc "github.com/kailas-cloud/resumatch/internal/usecase/usage"
)

// --- Mocks ---

// mockEmbedder maps every word to one of 16 dimensions and counts it.
type mockEmbedder struct {
	err       error
	healthErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	vec := make([]float32, 16)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		vec[len(w)%16]++
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: 3}, nil
}

func (m *mockEmbedder) HealthCheck(_ context.Context) error { return m.healthErr }

type mockBudget struct {
	counters domusage.Counters
}

func (m *mockBudget) Snapshot() domusage.Counters { return m.counters }

func newTestRouter(emb *mockEmbedder) http.Handler {
	svc := matchuc.New(emb, zap.NewNop()).WithMaxBatchSize(3)
	budget := &mockBudget{counters: domusage.Counters{
		Provider: "local", DailyUsed: 250, DailyLimit: 1000, MonthlyUsed: 4000,
	}}
	srv := NewServer(svc, healthuc.New(emb, nil), usageuc.New(budget), zap.NewNop())
	r := gochi.NewRouter()
	srv.Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

const (
	resumeText = "Python developer with 5 years experience in machine learning and data pipelines"
	jobText    = "Looking for a Python developer with machine learning experience"
)

// --- Score ---

func TestScore_OK(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})
	body := fmt.Sprintf(`{"resume":%q,"job":%q}`, resumeText, jobText)

	rr := do(t, h, http.MethodPost, "/v1/score", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp ScoreResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Lexical != 1 || resp.Relevance != 1 || resp.Keyword != 0.16 {
		t.Errorf("unexpected scores: %+v", resp.Scores)
	}
	if resp.Label == "" {
		t.Error("expected a label")
	}
	if resp.MatchedKeywords != nil {
		t.Error("keywords only returned with explain")
	}
	if got := rr.Header().Get("X-Embedding-Tokens"); got != "6" {
		t.Errorf("X-Embedding-Tokens = %q, want 6", got)
	}
}

func TestScore_SequenceInputAndExplain(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})
	body := fmt.Sprintf(`{"resume":["Python developer","machine learning"],"job":%q,"explain":true,"top_k":10}`, jobText)

	rr := do(t, h, http.MethodPost, "/v1/score", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp ScoreResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.MatchedKeywords) == 0 || len(resp.MissingKeywords) == 0 {
		t.Errorf("expected keyword breakdown, got %+v", resp)
	}
	if len(resp.MatchedKeywords)+len(resp.MissingKeywords) != 10 {
		t.Errorf("expected 10 keywords, got %d", len(resp.MatchedKeywords)+len(resp.MissingKeywords))
	}
}

func TestScore_WeightsOverride(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})
	body := fmt.Sprintf(`{"resume":%q,"job":%q,"weights":{"lexical":1,"semantic":0,"relevance":0,"keyword":0}}`,
		resumeText, jobText)

	rr := do(t, h, http.MethodPost, "/v1/score", body)
	var resp ScoreResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Final != 1 || resp.Label != domain.LabelStrong {
		t.Errorf("expected final 1 Strong, got %+v", resp.Scores)
	}
}

func TestScore_Errors(t *testing.T) {
	tests := []struct {
		name     string
		emb      *mockEmbedder
		body     string
		wantCode int
		wantErr  ErrorCode
	}{
		{"malformed json", &mockEmbedder{}, `{"resume":`, http.StatusBadRequest, CodeBadRequest},
		{"unknown field", &mockEmbedder{}, `{"resume":"a b","job":"c d","foo":1}`, http.StatusBadRequest, CodeBadRequest},
		{"object input", &mockEmbedder{}, `{"resume":{"x":1},"job":"c"}`, http.StatusBadRequest, CodeBadRequest},
		{"missing job", &mockEmbedder{}, `{"resume":"Go engineer"}`, http.StatusBadRequest, CodeValidationFailed},
		{"negative top_k", &mockEmbedder{}, `{"resume":"a","job":"b","top_k":-1}`, http.StatusBadRequest, CodeValidationFailed},
		{"top_k above vocabulary cap", &mockEmbedder{}, `{"resume":"a","job":"b","top_k":5001}`, http.StatusBadRequest, CodeValidationFailed},
		{
			"bad thresholds", &mockEmbedder{},
			`{"resume":"a","job":"b","thresholds":{"strong":0.3,"moderate":0.5}}`,
			http.StatusBadRequest, CodeValidationFailed,
		},
		{
			"negative weight", &mockEmbedder{},
			`{"resume":"a","job":"b","weights":{"lexical":-1,"semantic":1,"relevance":0,"keyword":0}}`,
			http.StatusBadRequest, CodeValidationFailed,
		},
		{"blank resume", &mockEmbedder{}, `{"resume":"   ","job":"Go engineer"}`, http.StatusBadRequest, CodeEmptyInput},
		{
			"quota", &mockEmbedder{err: fmt.Errorf("budget check: %w", domain.ErrEmbeddingQuotaExceeded)},
			`{"resume":"Go engineer","job":"Go engineer"}`, http.StatusPaymentRequired, CodeEmbeddingQuotaExceeded,
		},
		{
			"provider down", &mockEmbedder{err: fmt.Errorf("503: %w", domain.ErrEmbeddingProviderError)},
			`{"resume":"Go engineer","job":"Go engineer"}`, http.StatusBadGateway, CodeEmbeddingProviderError,
		},
		{
			"provider rate limit",
			&mockEmbedder{err: fmt.Errorf("429: %w: %w", domain.ErrRateLimited, domain.ErrEmbeddingProviderError)},
			`{"resume":"Go engineer","job":"Go engineer"}`, http.StatusTooManyRequests, CodeRateLimited,
		},
		{
			"provider timeout",
			&mockEmbedder{err: fmt.Errorf("embedding request: %w: %w", context.DeadlineExceeded, domain.ErrEmbeddingProviderError)},
			`{"resume":"Go engineer","job":"Go engineer"}`, http.StatusGatewayTimeout, CodeTimeout,
		},
		{
			"encoder failure", &mockEmbedder{err: fmt.Errorf("model not loaded")},
			`{"resume":"Go engineer","job":"Go engineer"}`, http.StatusBadGateway, CodeEncodingFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newTestRouter(tt.emb), http.MethodPost, "/v1/score", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if e := decodeError(t, rr); e.Code != tt.wantErr {
				t.Errorf("code = %q, want %q (%s)", e.Code, tt.wantErr, e.Message)
			}
		})
	}
}

func TestScore_ProviderMessageIsNotLeaked(t *testing.T) {
	emb := &mockEmbedder{err: fmt.Errorf("dial tcp 10.0.0.7:443: %w", domain.ErrEmbeddingProviderError)}
	rr := do(t, newTestRouter(emb), http.MethodPost, "/v1/score", `{"resume":"a b","job":"a b"}`)

	if e := decodeError(t, rr); strings.Contains(e.Message, "10.0.0.7") {
		t.Errorf("internal detail leaked: %q", e.Message)
	}
}

// --- Batch ---

func TestScoreBatch_JSON(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})
	body := fmt.Sprintf(`{"job":%q,"resumes":[{"id":"alice.pdf","text":%q},{"text":["Go","Kafka"]},{"id":"empty.pdf","text":[]}]}`,
		jobText, resumeText)

	rr := do(t, h, http.MethodPost, "/v1/score/batch", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp BatchScoreResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 3 || resp.Succeeded != 2 || resp.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
	if resp.Items[0].ID != "alice.pdf" || resp.Items[0].Scores == nil {
		t.Errorf("unexpected first item: %+v", resp.Items[0])
	}
	if _, err := uuid.Parse(resp.Items[1].ID); err != nil {
		t.Errorf("expected generated uuid, got %q", resp.Items[1].ID)
	}
	if e := resp.Items[2].Error; e == nil || e.Code != CodeEmptyInput {
		t.Errorf("expected empty_input error, got %+v", resp.Items[2])
	}
}

func TestScoreBatch_Table(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})
	body := fmt.Sprintf(`{"job":%q,"resumes":[{"id":"alice.pdf","text":%q}]}`, jobText, resumeText)

	rr := do(t, h, http.MethodPost, "/v1/score/batch?format=table", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	out := rr.Body.String()
	if !strings.Contains(out, "FILE") || !strings.Contains(out, "alice.pdf") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestScoreBatch_Validation(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})

	tests := []struct {
		name string
		body string
	}{
		{"no resumes", `{"job":"Go engineer","resumes":[]}`},
		{"missing job", `{"resumes":[{"text":"Go"}]}`},
		{"too many", `{"job":"Go","resumes":[{"text":"a"},{"text":"b"},{"text":"c"},{"text":"d"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/v1/score/batch", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
			}
			if e := decodeError(t, rr); e.Code != CodeValidationFailed {
				t.Errorf("code = %q", e.Code)
			}
		})
	}
}

// --- Health / metrics / routing ---

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(&mockEmbedder{}), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["encoder"] != "ok" {
		t.Errorf("unexpected health: %+v", resp)
	}

	rr = do(t, newTestRouter(&mockEmbedder{healthErr: fmt.Errorf("down")}), http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestGetUsage(t *testing.T) {
	h := newTestRouter(&mockEmbedder{})

	rr := do(t, h, http.MethodGet, "/v1/usage", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var day UsageResponse
	if err := json.NewDecoder(rr.Body).Decode(&day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if day.Period != "day" || day.TokensUsed != 250 || day.TokensRemaining != 750 || day.Provider != "local" {
		t.Errorf("unexpected daily usage: %+v", day)
	}
	if day.ResetsAt != day.PeriodEnd {
		t.Errorf("resets_at %q != period_end %q", day.ResetsAt, day.PeriodEnd)
	}

	rr = do(t, h, http.MethodGet, "/v1/usage?period=month", "")
	var month UsageResponse
	if err := json.NewDecoder(rr.Body).Decode(&month); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if month.TokensUsed != 4000 || month.TokensRemaining != -1 || month.IsExhausted {
		t.Errorf("unexpected monthly usage: %+v", month)
	}

	rr = do(t, h, http.MethodGet, "/v1/usage?period=year", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := do(t, newTestRouter(&mockEmbedder{}), http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected default collectors in output")
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := do(t, newTestRouter(&mockEmbedder{}), http.MethodGet, "/v1/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	rr = do(t, newTestRouter(&mockEmbedder{}), http.MethodGet, "/v1/score", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rr.Code)
	}
}
