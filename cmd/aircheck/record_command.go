package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "record <station>",
		Short: "Record a live broadcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			path, err := runner.RecordLive(cmd.Context(), args[0], minutes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Recording length in minutes (required)")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}
