package batch

import (
	"github.com/kailas-cloud/resumatch/internal/domain"
)

// ItemStatus is the scoring outcome of a single resume in a batch.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// errorCell replaces every score column of a failed row.
const errorCell = "Error"

// Result is the outcome of scoring one resume against the batch's job description.
type Result struct {
	id     string
	status ItemStatus
	scores domain.Scores
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id string, scores domain.Scores) Result {
	return Result{id: id, status: StatusOK, scores: scores}
}

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the resume identifier (usually the uploaded file name).
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Scores returns the scores; zero for failed items.
func (r Result) Scores() domain.Scores { return r.scores }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Row is the display form of a result: scores rounded to two decimals, or
// "Error" in every score column with the message in place of the label.
type Row struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Lexical  any    `json:"lexical"`
	Semantic any    `json:"semantic"`
	Final    any    `json:"final"`
	Label    string `json:"label"`
}

// Row renders the result for display.
func (r Result) Row() Row {
	if r.status == StatusError {
		msg := errorCell
		if r.err != nil {
			msg = r.err.Error()
		}
		return Row{
			ID: r.id, Status: string(r.status),
			Lexical: errorCell, Semantic: errorCell, Final: errorCell,
			Label: msg,
		}
	}
	s := r.scores.Round(2)
	return Row{
		ID: r.id, Status: string(r.status),
		Lexical: s.Lexical, Semantic: s.Semantic, Final: s.Final,
		Label: string(s.Label),
	}
}

// Rows renders a batch in input order.
func Rows(results []Result) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = r.Row()
	}
	return rows
}
