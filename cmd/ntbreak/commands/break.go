package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ntbreak/internal/breaker"
	"github.com/Sumatoshi-tech/ntbreak/internal/config"
	"github.com/Sumatoshi-tech/ntbreak/internal/observability"
	"github.com/Sumatoshi-tech/ntbreak/internal/report"
	"github.com/Sumatoshi-tech/ntbreak/internal/tree"
)

const spanSplitFile = "ntbreak.split_file"

// BreakCommand holds the flags of the break command.
type BreakCommand struct {
	report        string
	maxTriples    int
	overwrite     bool
	replace       bool
	pattern       string
	workers       int
	summaryFormat string
}

// NewBreakCommand creates the break command.
func NewBreakCommand() *cobra.Command {
	bc := &BreakCommand{}

	cmd := &cobra.Command{
		Use:   "break <input_dir> <output_dir>",
		Short: "Split N-Triples files without separating blank-node statements",
		Long: `Split every N-Triples file under input_dir into files of at most
--max-triples lines, mirrored under output_dir. Statements sharing a blank
node always land in the same output file; when that makes a file larger
than the bound a warning is reported.`,
		Args: cobra.ExactArgs(2),
		RunE: bc.run,
	}

	cmd.Flags().StringVar(&bc.report, "report", "", "Report file path (required)")
	cmd.Flags().IntVar(&bc.maxTriples, "max-triples", 0, "Maximum triples per output file (at least 100; default from config)")
	cmd.Flags().BoolVar(&bc.overwrite, "overwrite", false, "Replace an existing output directory")
	cmd.Flags().BoolVar(&bc.replace, "replace", false, "Replace an existing report file")
	cmd.Flags().StringVar(&bc.pattern, "pattern", "", "Doublestar pattern of files to split (default **/*.nt)")
	cmd.Flags().IntVar(&bc.workers, "workers", 0, "Files split concurrently (default from config)")
	cmd.Flags().Bool("compress", false, "Write LZ4-compressed output files")
	cmd.Flags().StringVar(&bc.summaryFormat, "summary-format", "", "Summary format: text, json, yaml")

	_ = cmd.MarkFlagRequired("report")

	return cmd
}

func (bc *BreakCommand) overrides(cmd *cobra.Command) (config.Overrides, error) {
	// Zero overrides fall back to config, so an explicit small value is
	// rejected here instead of being ignored.
	if cmd.Flags().Changed("max-triples") && bc.maxTriples < config.MinMaxTriples {
		return config.Overrides{}, fmt.Errorf("%w: %d", config.ErrMaxTriplesTooSmall, bc.maxTriples)
	}

	err := checkWorkers(cmd, bc.workers)
	if err != nil {
		return config.Overrides{}, err
	}

	o := globalOverrides(cmd)
	o.MaxTriples = bc.maxTriples
	o.Pattern = bc.pattern
	o.Workers = bc.workers
	o.Compress = changedBool(cmd, "compress")
	o.SummaryFormat = bc.summaryFormat

	return o, nil
}

func (bc *BreakCommand) run(cmd *cobra.Command, args []string) (err error) {
	overrides, err := bc.overrides(cmd)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, observability.ModeBreak, overrides)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, sess.close(context.Background()))
	}()

	locs, err := validateTree(args[0], args[1], bc.report, bc.overwrite, bc.replace)
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

	err = rep.Logf("Breaking %s into %s (at most %d triples per file)", locs.in, locs.out, cfg.MaxTriples)
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

	sess.logger.InfoContext(ctx, "break started", "files", len(files), "max_triples", cfg.MaxTriples, "workers", cfg.Workers)

	splitter := &fileSplitter{sess: sess, rep: rep, cfg: cfg, summary: &report.BreakSummary{}}

	err = tree.Run(ctx, files, cfg.Workers, splitter.split)
	if err != nil {
		return err
	}

	err = rep.Logf("%s", splitter.summary.Closing())
	if err != nil {
		return err
	}

	return report.RenderBreak(cmd.OutOrStdout(), cfg.SummaryFormat, splitter.summary)
}

// fileSplitter splits one tree file at a time and accumulates the summary.
type fileSplitter struct {
	sess *session
	rep  *report.Report
	cfg  config.BreakConfig

	mu      sync.Mutex
	summary *report.BreakSummary
}

func (sp *fileSplitter) split(ctx context.Context, f tree.File) error {
	ctx, span := sp.sess.tracer.Start(ctx, spanSplitFile, trace.WithAttributes(
		attribute.String("ntbreak.file", f.Rel),
		attribute.String("ntbreak.run_id", sp.sess.runID),
		attribute.Int("ntbreak.max_triples", sp.cfg.MaxTriples),
	))
	defer span.End()

	ctx = observability.WithFile(ctx, f.Rel)
	start := time.Now()
	base, ext := chunkBase(f.Output)

	res, err := breaker.SplitFile(f.Input, base, sp.cfg.MaxTriples,
		breaker.WithExtension(ext),
		breaker.WithCompression(sp.cfg.Compress),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "split failed")

		return fmt.Errorf("break %s: %w", f.Rel, err)
	}

	span.SetAttributes(
		attribute.Int("ntbreak.lines", res.LineCount),
		attribute.Int("ntbreak.chunks", res.FilesWritten),
	)

	sp.sess.metrics.RecordSplit(ctx, res.FilesWritten, res.LineCount, len(res.Plan.Oversized), time.Since(start))

	err = sp.rep.Logf("Broke %s (%d lines) into %d files", f.Rel, res.LineCount, res.FilesWritten)
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		sp.sess.logger.WarnContext(ctx, "size bound exceeded", "detail", w)

		err = sp.rep.Logf("WARNING %s: %s", f.Rel, w)
		if err != nil {
			return err
		}
	}

	sp.mu.Lock()
	sp.summary.Add(f.Rel, res.FilesWritten, res.LineCount, res.Warnings)
	sp.mu.Unlock()

	return nil
}

// chunkBase splits an output path into the chunk base name and the
// extension chunks carry, ignoring a compression suffix on the input.
func chunkBase(output string) (base, ext string) {
	trimmed := strings.TrimSuffix(output, breaker.CompressedExtension)
	ext = filepath.Ext(trimmed)

	return strings.TrimSuffix(trimmed, ext), ext
}
