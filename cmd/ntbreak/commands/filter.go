package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ntbreak/internal/filter"
	"github.com/Sumatoshi-tech/ntbreak/internal/observability"
	"github.com/Sumatoshi-tech/ntbreak/internal/report"
	"github.com/Sumatoshi-tech/ntbreak/internal/tree"
)

const spanFilterFile = "ntbreak.filter_file"

// FilterCommand holds the flags of the filter command.
type FilterCommand struct {
	report        string
	overwrite     bool
	replace       bool
	pattern       string
	workers       int
	summaryFormat string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand() *cobra.Command {
	fc := &FilterCommand{}

	cmd := &cobra.Command{
		Use:   "filter <input_dir> <output_dir>",
		Short: "Copy N-Triples files, dropping malformed statements and blank lines",
		Long: `Copy every N-Triples file under input_dir to the same path under
output_dir, keeping only lines that parse as exactly one statement. Each
rejected line is written to the report.`,
		Args: cobra.ExactArgs(2),
		RunE: fc.run,
	}

	cmd.Flags().StringVar(&fc.report, "report", "", "Report file path (required)")
	cmd.Flags().BoolVar(&fc.overwrite, "overwrite", false, "Replace an existing output directory")
	cmd.Flags().BoolVar(&fc.replace, "replace", false, "Replace an existing report file")
	cmd.Flags().StringVar(&fc.pattern, "pattern", "", "Doublestar pattern of files to filter (default **/*.nt)")
	cmd.Flags().IntVar(&fc.workers, "workers", 0, "Files filtered concurrently (default from config)")
	cmd.Flags().StringVar(&fc.summaryFormat, "summary-format", "", "Summary format: text, json, yaml")

	_ = cmd.MarkFlagRequired("report")

	return cmd
}

func (fc *FilterCommand) run(cmd *cobra.Command, args []string) (err error) {
	err = checkWorkers(cmd, fc.workers)
	if err != nil {
		return err
	}

	overrides := globalOverrides(cmd)
	overrides.Pattern = fc.pattern
	overrides.Workers = fc.workers
	overrides.SummaryFormat = fc.summaryFormat

	sess, err := newSession(cmd, observability.ModeFilter, overrides)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, sess.close(context.Background()))
	}()

	locs, err := validateTree(args[0], args[1], fc.report, fc.overwrite, fc.replace)
	if err != nil {
		return err
	}

	rep, err := openRun(locs, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, rep.Close())
	}()

	cfg := sess.cfg.Break

	err = rep.Logf("Filtering %s into %s", locs.in, locs.out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := tree.Walk(ctx, locs.in, locs.out, cfg.Pattern)
	if err != nil {
		return err
	}

	sess.logger.InfoContext(ctx, "filter started", "files", len(files), "workers", cfg.Workers)

	ff := &fileFilter{sess: sess, rep: rep, summary: &report.FilterSummary{}}

	err = tree.Run(ctx, files, cfg.Workers, ff.filter)
	if err != nil {
		return err
	}

	for _, line := range ff.summary.Lines() {
		err = rep.Logf("%s", line)
		if err != nil {
			return err
		}
	}

	return report.RenderFilter(cmd.OutOrStdout(), cfg.SummaryFormat, ff.summary)
}

// fileFilter filters one tree file at a time and accumulates the summary.
type fileFilter struct {
	sess *session
	rep  *report.Report

	mu      sync.Mutex
	summary *report.FilterSummary
}

func (ff *fileFilter) filter(ctx context.Context, f tree.File) error {
	ctx, span := ff.sess.tracer.Start(ctx, spanFilterFile, trace.WithAttributes(
		attribute.String("ntbreak.file", f.Rel),
		attribute.String("ntbreak.run_id", ff.sess.runID),
	))
	defer span.End()

	ctx = observability.WithFile(ctx, f.Rel)
	start := time.Now()

	var rejectErr error

	counts, err := filter.File(f.Input, f.Output, func(line string) {
		if rejectErr == nil {
			rejectErr = ff.rep.Printf("%s:  %s", f.Rel, line)
		}
	})

	err = errors.Join(err, rejectErr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filter failed")

		return fmt.Errorf("filter %s: %w", f.Rel, err)
	}

	span.SetAttributes(
		attribute.Int("ntbreak.good", counts.Good),
		attribute.Int("ntbreak.bad", counts.Bad),
		attribute.Int("ntbreak.blank", counts.Blank),
	)

	ff.sess.metrics.RecordFilter(ctx, counts.Good, counts.Bad, counts.Blank, time.Since(start))

	if counts.Bad > 0 {
		ff.sess.logger.WarnContext(ctx, "rejected statements", "bad", counts.Bad)
	}

	ff.mu.Lock()
	ff.summary.Add(counts.Good, counts.Bad, counts.Blank)
	ff.mu.Unlock()

	return nil
}
