package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aircheck/internal/nhk"
)

func newOndemandCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ondemand",
		Short: "Browse and record ondemand programs",
	}

	cmd.AddCommand(newOndemandArrivalsCommand(ctx))
	cmd.AddCommand(newOndemandDateCommand(ctx))
	cmd.AddCommand(newOndemandEpisodesCommand(ctx))
	cmd.AddCommand(newOndemandRecordCommand(ctx))
	return cmd
}

func newOndemandArrivalsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "arrivals",
		Short: "List newly published programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureOndemand()
			if err != nil {
				return err
			}
			corners, err := client.NewArrivals(cmd.Context())
			if err != nil {
				return err
			}
			printCorners(cmd, corners)
			return nil
		},
	}
}

func newOndemandDateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "date <YYYYMMDD>",
		Short: "List programs broadcast on a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureOndemand()
			if err != nil {
				return err
			}
			corners, err := client.CornersByDate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCorners(cmd, corners)
			return nil
		},
	}
}

func newOndemandEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <site-id> <corner-id>",
		Short: "List the published episodes of a series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.ensureOndemand()
			if err != nil {
				return err
			}
			series, err := client.Series(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(series.Episodes))
			for i, p := range nhk.Programs(series, time.Now()) {
				playable := "yes"
				if !p.IsRecordable() {
					playable = "no"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", i), p.Title, p.OnairDate, playable, p.ClosedAt})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Title", "Air Date", "Playable", "Closes"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newOndemandRecordCommand(ctx *commandContext) *cobra.Command {
	var episode int

	cmd := &cobra.Command{
		Use:   "record <site-id> <corner-id>",
		Short: "Record one episode of a series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			path, err := runner.RecordOndemand(cmd.Context(), args[0], args[1], episode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "Episode index as shown by the episodes command (default newest)")
	return cmd
}

func printCorners(cmd *cobra.Command, corners []nhk.Corner) {
	rows := make([][]string, 0, len(corners))
	for _, c := range corners {
		rows = append(rows, []string{c.Title, c.RadioBroadcast, c.OnairDate, c.SeriesSiteID, c.CornerSiteID})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Title", "Channel", "Air Date", "Site ID", "Corner"},
		rows,
		nil,
	))
}
