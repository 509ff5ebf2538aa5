package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aircheck/internal/radiko"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var filter string
	var area string

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search programs by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeFilter, err := parseTimeFilter(filter)
			if err != nil {
				return err
			}
			client, cfg, err := ctx.ensureBroadcast()
			if err != nil {
				return err
			}
			areaID := area
			if areaID == "" {
				areaID = cfg.Radiko.AreaID
			}

			programs, err := client.Search(cmd.Context(), args[0], timeFilter, areaID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(programs) == 0 {
				fmt.Fprintln(out, "No programs matched")
				return nil
			}
			rows := make([][]string, 0, len(programs))
			for _, p := range programs {
				rows = append(rows, []string{p.Station, p.Title, p.StartTime, p.EndTime, p.Performer})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Station", "Title", "Start", "End", "Performer"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "past", "Time filter: past, today, or future")
	cmd.Flags().StringVarP(&area, "area", "a", "", "Area id (defaults to the configured area)")
	return cmd
}

func parseTimeFilter(value string) (radiko.TimeFilter, error) {
	switch value {
	case "past":
		return radiko.FilterPast, nil
	case "today":
		return radiko.FilterToday, nil
	case "future":
		return radiko.FilterFuture, nil
	default:
		return "", fmt.Errorf("unknown time filter %q (want past, today, or future)", value)
	}
}
