package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumatch/internal/config"
	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	"github.com/kailas-cloud/resumatch/internal/report"
	matchuc "github.com/kailas-cloud/resumatch/internal/usecase/match"
)

var scoreCmd = &cobra.Command{
	Use:   "score --job <file> <resume>...",
	Short: "Score plain-text resumes against a job description",
	Long: `Score one or more plain-text resumes against a job description file and
print one row per resume. Each resume is scored independently.

Examples:
  resumatch score --job backend.txt alice.txt bob.txt
  resumatch score -j backend.txt --top-k 30 -o json resumes/*.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var (
	scoreJobPath string
	scoreOutput  string
	scoreTopK    int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobPath, "job", "j", "", "Path to the job description text file (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "table", "Output format (table, json)")
	scoreCmd.Flags().IntVar(&scoreTopK, "top-k", matchuc.DefaultTopK, "Number of job keywords checked for overlap")

	if err := scoreCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	if scoreOutput != "table" && scoreOutput != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", scoreOutput)
	}

	job, err := os.ReadFile(scoreJobPath)
	if err != nil {
		return fmt.Errorf("failed to read job description %s: %w", scoreJobPath, err)
	}
	candidates, err := readCandidates(args)
	if err != nil {
		return err
	}

	a, err := newApp(config.GetEnv())
	if err != nil {
		return err
	}
	defer a.close()

	var opts []matchuc.Option
	if cmd.Flags().Changed("top-k") {
		opts = append(opts, matchuc.WithTopK(scoreTopK))
	}

	results := a.match.ScoreBatch(cmd.Context(), domain.TextOf(string(job)), candidates, opts...)
	return writeResults(cmd.OutOrStdout(), scoreOutput, results)
}

// readCandidates loads every resume file; the base name identifies the row.
func readCandidates(paths []string) ([]matchuc.Candidate, error) {
	candidates := make([]matchuc.Candidate, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume %s: %w", p, err)
		}
		candidates = append(candidates, matchuc.Candidate{
			ID:   filepath.Base(p),
			Text: domain.TextOf(string(data)),
		})
	}
	return candidates, nil
}

type scoreRow struct {
	File   string         `json:"file"`
	Scores *domain.Scores `json:"scores,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func writeResults(w io.Writer, format string, results []dombatch.Result) error {
	if format == "table" {
		return report.Table(w, dombatch.Rows(results))
	}

	rows := make([]scoreRow, len(results))
	for i, r := range results {
		rows[i] = scoreRow{File: r.ID()}
		if r.Err() != nil {
			rows[i].Error = r.Err().Error()
			continue
		}
		scores := r.Scores()
		rows[i].Scores = &scores
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
