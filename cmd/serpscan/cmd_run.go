package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/serp-visibility/internal/entity"
	"github.com/user/serp-visibility/internal/export"
	"github.com/user/serp-visibility/internal/usecase"
)

type runFlags struct {
	brand        string
	keywords     []string
	keywordsFile string
	job          string
	features     []string
	mode         string
	format       string
	output       string
	indexPaths   bool
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan keywords once and export the brand mentions",
	Example: `  serpscan run --brand Acme --keyword "acme shoes" --keyword "running shoes"
  serpscan run --job jobs/acme.yaml --mode summary --format csv --output acme.csv
  serpscan run --brand Acme --keywords-file keywords.txt --features organic_results,ads`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runScan(cmd.Context(), runOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.brand, "brand", "", "brand name to look for")
	f.StringArrayVarP(&runOpts.keywords, "keyword", "k", nil, "keyword to search (repeatable)")
	f.StringVar(&runOpts.keywordsFile, "keywords-file", "", "file with one keyword per line")
	f.StringVar(&runOpts.job, "job", "", "YAML job file with brand, keywords, features and mode")
	f.StringSliceVar(&runOpts.features, "features", nil, "only report these SERP features")
	f.StringVar(&runOpts.mode, "mode", "", "detail or summary (default detail)")
	f.StringVarP(&runOpts.format, "format", "f", string(export.FormatTable), "output format: table, csv or json")
	f.StringVarP(&runOpts.output, "output", "o", "", "write the export to this file instead of stdout")
	f.BoolVar(&runOpts.indexPaths, "index-paths", false, "attribute list items by index when classifying")
}

func runScan(ctx context.Context, f runFlags, stdout, stderr io.Writer) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}

	var job usecase.RunRequest
	if f.job != "" {
		if job, err = loadJob(f.job); err != nil {
			return err
		}
	}
	var fileKeywords []string
	if f.keywordsFile != "" {
		if fileKeywords, err = readKeywordsFile(f.keywordsFile); err != nil {
			return err
		}
	}
	req := mergeRequest(job, f, fileKeywords)

	a, err := newApp(prometheus.NewRegistry(), f.indexPaths)
	if err != nil {
		return err
	}
	defer a.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	// An interrupt stops the run between keywords; what was collected is still exported.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := a.scanner.Run(ctx, req)
	if err != nil {
		return err
	}

	out := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := export.Write(out, format, res); err != nil {
		return err
	}
	if f.output != "" {
		a.logger.Info("export written", zap.String("path", f.output), zap.String("format", string(format)))
	}

	reportFailures(stderr, res)
	if res.Partial {
		fmt.Fprintln(stderr, "run interrupted, results are partial")
	}
	return nil
}

func reportFailures(w io.Writer, res *entity.RunResult) {
	if len(res.Failed) == 0 {
		return
	}
	fmt.Fprintf(w, "%d of %d keywords failed:\n", len(res.Failed), res.Scanned+len(res.Failed))
	for _, fk := range res.Failed {
		fmt.Fprintf(w, "  %s [%s] %s\n", fk.Keyword, fk.ErrorType, fk.FailureReason)
	}
}
