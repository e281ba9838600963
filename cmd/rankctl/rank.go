package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumerank/internal/bootstrap"
	"github.com/kailas-cloud/resumerank/internal/config"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
	"github.com/kailas-cloud/resumerank/internal/ingest"
	logpkg "github.com/kailas-cloud/resumerank/internal/logger"
	exportuc "github.com/kailas-cloud/resumerank/internal/usecase/export"
	feedbackuc "github.com/kailas-cloud/resumerank/internal/usecase/feedback"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank resume files against a job description",
	Long: "Ranks every --resume file (or every supported file in a --resume directory) against the job description " +
		"and prints the ranked table. Optional outputs: an xlsx workbook, a combined feedback PDF and per-candidate TXT feedback.",
	RunE: runRank,
}

type rankOptions struct {
	configPath  string
	jobPath     string
	jobText     string
	resumes     []string
	weight      float64
	maxKeywords int
	xlsxOut     string
	pdfOut      string
	feedbackDir string
	verbose     bool
}

var rankOpts rankOptions

func init() {
	f := rankCmd.Flags()
	f.StringVarP(&rankOpts.configPath, "config", "c", "config/local.yaml", "Path to the config file")
	f.StringVarP(&rankOpts.jobPath, "job", "j", "", "Path to the job description (txt, pdf, docx)")
	f.StringVar(&rankOpts.jobText, "job-text", "", "Job description text (instead of --job)")
	f.StringArrayVarP(&rankOpts.resumes, "resume", "r", nil, "Resume file or directory (repeatable, required)")
	f.Float64VarP(&rankOpts.weight, "weight", "w", -1, "Similarity weight in [0, 1] (default from config)")
	f.IntVarP(&rankOpts.maxKeywords, "max-keywords", "k", 0, "Number of job keywords to check (default from config)")
	f.StringVar(&rankOpts.xlsxOut, "xlsx", "", "Write the ranking workbook to this path")
	f.StringVar(&rankOpts.pdfOut, "pdf", "", "Write combined candidate feedback PDF to this path")
	f.StringVar(&rankOpts.feedbackDir, "feedback-dir", "", "Write one <resume>.feedback.txt per candidate into this directory")
	f.BoolVarP(&rankOpts.verbose, "verbose", "v", false, "Log embedding calls to stderr")

	rankCmd.MarkFlagsMutuallyExclusive("job", "job-text")
	rankCmd.MarkFlagsOneRequired("job", "job-text")
	if err := rankCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, err := config.ReadFile(rankOpts.configPath)
	if err != nil {
		return err //nolint:wrapcheck // already describes the path
	}
	if err := cfg.ValidateEngine(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := ""
	if rankOpts.verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger("cli", level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emb, err := bootstrap.NewEmbedding(ctx, &cfg, nil, logger)
	if err != nil {
		return err //nolint:wrapcheck // names the vectorizer
	}
	ranking := bootstrap.NewRanking(&cfg, emb.Scorer(), logger)
	composer := bootstrap.NewComposer(&cfg)
	exports := bootstrap.NewExports(&cfg, nil, composer)

	return rank(ctx, rankOpts, ranking, exports, composer, cmd.OutOrStdout())
}

// rank loads the inputs, runs the ranking and writes every requested output.
func rank(
	ctx context.Context, opts rankOptions,
	ranking *rankinguc.Service, exports *exportuc.Service, composer *feedbackuc.Composer,
	out io.Writer,
) error {
	job := opts.jobText
	if opts.jobPath != "" {
		in, err := ingest.ReadFile(opts.jobPath)
		if err != nil {
			return fmt.Errorf("job description: %w", err)
		}
		job = in.Text
	}

	docs, err := loadResumes(opts.resumes)
	if err != nil {
		return err
	}

	req := rankinguc.Request{JobDescription: job, Documents: docs, MaxKeywords: opts.maxKeywords}
	if opts.weight >= 0 {
		req.Weight = &opts.weight
	}
	list, err := ranking.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	if err := printTable(out, list); err != nil {
		return err
	}

	if opts.xlsxOut != "" {
		data, err := exports.Workbook(list)
		if err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		if err := writeOutput(opts.xlsxOut, data); err != nil {
			return err
		}
	}
	if opts.pdfOut != "" {
		data, err := exports.FeedbackDocument(list)
		if err != nil {
			return fmt.Errorf("feedback pdf: %w", err)
		}
		if err := writeOutput(opts.pdfOut, data); err != nil {
			return err
		}
	}
	if opts.feedbackDir != "" {
		for _, fb := range composer.ComposeAll(list) {
			name := filepath.Join(opts.feedbackDir, fb.DocumentID+".feedback.txt")
			if err := writeOutput(name, []byte(fb.String()+"\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadResumes reads files and the supported files of directories, in argument order.
func loadResumes(paths []string) ([]domrank.Input, error) {
	var docs []domrank.Input
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("resume %s: %w", p, err)
		}
		if !info.IsDir() {
			in, err := ingest.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("resume: %w", err)
			}
			docs = append(docs, in)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("resume dir %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, err := ingest.DetectFormat(e.Name(), ""); err != nil {
				continue
			}
			in, err := ingest.ReadFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, fmt.Errorf("resume: %w", err)
			}
			docs = append(docs, in)
		}
	}
	return docs, nil
}

func printTable(out io.Writer, list domrank.RankedList) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME\tCOMPOSITE\tSIMILARITY\tCOVERAGE\tMISSING")
	for _, r := range list.Results() {
		missing := strings.Join(r.Missing().Items(), ", ")
		if r.Degraded() {
			missing = "(similarity unavailable) " + missing
		}
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.1f%%\t%s\n",
			r.Rank(), r.DocumentID(), r.Composite(), r.Similarity(), r.Coverage()*100, missing)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if list.Partial() {
		fmt.Fprintln(out, "Interrupted: the list above ranks only the resumes scored before cancellation.")
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // report files are meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
