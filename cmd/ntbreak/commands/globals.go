// Package commands implements the ntbreak sub-commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ntbreak/internal/config"
)

const (
	flagConfig       = "config"
	flagLogLevel     = "log-level"
	flagLogJSON      = "log-json"
	flagOTLPEndpoint = "otlp-endpoint"
	flagMetricsAddr  = "metrics-addr"
)

// RegisterGlobalFlags adds the flags shared by every sub-command to root.
func RegisterGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()

	flags.String(flagConfig, "", "Config file (default: .ntbreak.yaml in the working directory or $HOME)")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn, error")
	flags.Bool(flagLogJSON, false, "Emit JSON logs")
	flags.String(flagOTLPEndpoint, "", "OTLP gRPC collector address for traces and metrics")
	flags.String(flagMetricsAddr, "", "Serve Prometheus metrics on this address during the run")
}

// globalString returns a global flag value, or "" when the flag is not
// registered on the command tree.
func globalString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}

	return v
}

// changedBool returns a pointer to a bool flag value when it was set on the
// command line, nil otherwise.
func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}

	return &v
}

// globalOverrides collects the global flags that override loaded config.
func globalOverrides(cmd *cobra.Command) config.Overrides {
	return config.Overrides{
		LogLevel:     globalString(cmd, flagLogLevel),
		LogJSON:      changedBool(cmd, flagLogJSON),
		OTLPEndpoint: globalString(cmd, flagOTLPEndpoint),
		MetricsAddr:  globalString(cmd, flagMetricsAddr),
	}
}

// checkWorkers rejects an explicit --workers value below one. Zero
// overrides fall back to config, so the value would otherwise be ignored.
func checkWorkers(cmd *cobra.Command, workers int) error {
	if cmd.Flags().Changed("workers") && workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1, got %d", config.ErrInvalidWorkers, workers)
	}

	return nil
}
