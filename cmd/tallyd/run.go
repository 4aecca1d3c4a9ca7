package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tallyweave/tally/app"
	tallyapp "github.com/tallyweave/tally/cmd/tallyd/app"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run <genesis.json>",
		Short: "Initialize from genesis and execute JSON requests read line by line from stdin",
		Long: `Each input line is a JSON request, each output line the JSON result:

  {"op": "deliver", "caller": "sigs/ed25519/0A0B", "path": "receipt/claim", "msg": {}}
  {"op": "check", "caller": "sigs/ed25519/0A0B", "path": "receipt/deposit", "msg": {...}}
  {"op": "query", "path": "/receipt/pending", "data": "<member address>"}

Empty lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			d, codec, err := tallyapp.Application(logger, reg, opts.debug)
			if err != nil {
				return err
			}
			if err := d.InitChain(gen, tallyapp.Initializers()); err != nil {
				return err
			}

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				srv := &http.Server{Addr: metricsAddr, Handler: mux}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						logger.Error("metrics server", "err", err)
					}
				}()
				defer srv.Close()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			sh := newShell(d, codec)
			return sh.Run(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, flagMetrics, "", "address to serve prometheus metrics on, disabled when empty")
	return cmd
}
