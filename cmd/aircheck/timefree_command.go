package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTimefreeCommand(ctx *commandContext) *cobra.Command {
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "timefree <station>",
		Short: "Record a finished broadcast from the time-shift window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			path, err := runner.RecordTimefree(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start, YYYYMMDDHHMMSS (required)")
	cmd.Flags().StringVar(&to, "to", "", "Window end, YYYYMMDDHHMMSS (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
