package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStationsCommand(ctx *commandContext) *cobra.Command {
	var area string

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List stations available in an area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.ensureBroadcast()
			if err != nil {
				return err
			}
			areaID := area
			if areaID == "" {
				areaID = cfg.Radiko.AreaID
			}

			stations, err := client.StationList(cmd.Context(), areaID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stations))
			for _, s := range stations {
				rows = append(rows, []string{s.ID, s.Name})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stations in %s:\n", areaID)
			fmt.Fprintln(out, renderTable([]string{"ID", "Name"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&area, "area", "a", "", "Area id (defaults to the configured area)")
	return cmd
}
