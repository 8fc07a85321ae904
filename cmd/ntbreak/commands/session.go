package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ntbreak/internal/config"
	"github.com/Sumatoshi-tech/ntbreak/internal/observability"
	"github.com/Sumatoshi-tech/ntbreak/internal/report"
	"github.com/Sumatoshi-tech/ntbreak/internal/tree"
	"github.com/Sumatoshi-tech/ntbreak/internal/version"
)

// session bundles the per-invocation state shared by break and filter.
type session struct {
	cfg       *config.Config
	runID     string
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.RunMetrics
	providers observability.Providers
	server    *observability.MetricsServer
}

// newSession loads configuration, applies flag overrides and starts
// observability for mode.
func newSession(cmd *cobra.Command, mode observability.AppMode, overrides config.Overrides) (*session, error) {
	cfg, err := config.LoadConfig(globalString(cmd, flagConfig))
	if err != nil {
		return nil, err
	}

	err = overrides.Apply(cfg)
	if err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}

	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = cfg.Telemetry.MetricsAddr != ""
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = cmd.ErrOrStderr()
	obsCfg.RunID = uuid.NewString()

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	sess := &session{
		cfg:       cfg,
		runID:     obsCfg.RunID,
		logger:    providers.Logger,
		tracer:    providers.Tracer,
		providers: providers,
	}

	sess.metrics, err = observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	if providers.MetricsHandler != nil {
		sess.server, err = observability.StartMetricsServer(cfg.Telemetry.MetricsAddr, providers.MetricsHandler, sess.logger)
		if err != nil {
			return nil, errors.Join(err, providers.Shutdown(context.Background()))
		}
	}

	return sess, nil
}

// close stops the metrics server and flushes telemetry.
func (sess *session) close(ctx context.Context) error {
	var serverErr error
	if sess.server != nil {
		serverErr = sess.server.Shutdown(ctx)
	}

	return errors.Join(serverErr, sess.providers.Shutdown(ctx))
}

// treeArgs holds the validated directories and report path of a run.
type treeArgs struct {
	in     string
	out    string
	report string
}

// validateTree checks the input, output and report locations before any
// file is touched.
func validateTree(in, out, reportPath string, overwrite, replace bool) (treeArgs, error) {
	absIn, err := tree.ValidateInput(in)
	if err != nil {
		return treeArgs{}, err
	}

	absOut, err := filepath.Abs(out)
	if err != nil {
		return treeArgs{}, fmt.Errorf("resolve %s: %w", out, err)
	}

	err = tree.CheckDisjoint(absIn, absOut)
	if err != nil {
		return treeArgs{}, err
	}

	absOut, err = tree.ValidateOutput(out, overwrite)
	if err != nil {
		return treeArgs{}, err
	}

	absReport, err := tree.ValidateReportPath(reportPath, replace)
	if err != nil {
		return treeArgs{}, err
	}

	return treeArgs{in: absIn, out: absOut, report: absReport}, nil
}

// openRun prepares the output directory, then opens the report. The report
// is opened second so a report placed inside the output tree survives.
func openRun(args treeArgs, echo io.Writer) (*report.Report, error) {
	err := tree.PrepareOutput(args.out)
	if err != nil {
		return nil, err
	}

	return report.Open(args.report, echo)
}
