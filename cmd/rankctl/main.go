// Package main implements rankctl, a command-line client that ranks resume files
// against a job description without the API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumerank/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "rankctl",
	Short:         "Rank resumes against a job description",
	Long:          "rankctl scores resumes (txt, pdf, docx) against a job description by semantic similarity and keyword coverage, and writes feedback and spreadsheet reports.",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
