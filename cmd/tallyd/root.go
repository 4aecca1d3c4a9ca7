package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagLogLevel = "log-level"
	flagDebug    = "debug"
	flagMetrics  = "metrics"
)

type rootOptions struct {
	logLevel string
	debug    bool
	logOut   io.Writer
}

// logger builds the process logger, filtered by the configured level.
func (o *rootOptions) logger() (log.Logger, error) {
	allow, err := log.AllowLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(o.logOut)).With("module", "tally")
	return log.NewFilter(logger, allow), nil
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &rootOptions{logOut: logOut}

	root := &cobra.Command{
		Use:           "tallyd",
		Short:         "Proportional distribution ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, flagLogLevel, "info", "minimal log level: debug, info, error or none")
	root.PersistentFlags().BoolVar(&opts.debug, flagDebug, false, "return full error details, including stack traces")

	root.AddCommand(
		newValidateCmd(opts),
		newRunCmd(opts),
		newPathsCmd(),
	)
	return root
}
