// Command resumatch scores resumes against job descriptions, either as an
// HTTP API (serve) or over local text files (score).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumatch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "resumatch",
	Short: "Resume to job description match scorer",
	Long: `resumatch compares a resume with a job description using four signals
(TF-IDF cosine, sentence-embedding cosine, BM25 relevance and keyword overlap)
and labels the weighted result Strong, Moderate or Weak.

Configuration is read from config/<ENV>.yaml (ENV defaults to local).`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "resumatch %s\n", version.Version)
		fmt.Fprintf(out, "  commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  built:  %s\n", version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
