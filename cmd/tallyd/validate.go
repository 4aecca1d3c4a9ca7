package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tallyweave/tally/app"
	tallyapp "github.com/tallyweave/tally/cmd/tallyd/app"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>",
		Short: "Load a genesis file into an empty state and report problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			gen, err := app.LoadGenesis(args[0])
			if err != nil {
				return err
			}
			d, _, err := tallyapp.Application(logger, nil, opts.debug)
			if err != nil {
				return err
			}
			if err := d.InitChain(gen, tallyapp.Initializers()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "genesis for chain %s is valid\n", d.ChainID())
			return nil
		},
	}
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the message paths the application handles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range tallyapp.TxCodec().Paths() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	}
}
