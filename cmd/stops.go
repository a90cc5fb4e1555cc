package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Lists all stops in the feed",
	Args:  cobra.NoArgs,
	RunE:  stops,
}

func init() {
	rootCmd.AddCommand(stopsCmd)
}

func stops(cmd *cobra.Command, args []string) error {
	board, reg, err := loadBoard()
	if err != nil {
		return err
	}
	if reg != nil {
		defer reg.Close()
	}

	stops, err := board.ListStops()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(stops))
	for id := range stops {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return stops[ids[i]].Name < stops[ids[j]].Name
	})

	for _, id := range ids {
		stop := stops[id]
		if stop.Code != "" {
			fmt.Printf("%s: %s (%s)\n", id, stop.Name, stop.Code)
		} else {
			fmt.Printf("%s: %s\n", id, stop.Name)
		}
	}

	return nil
}
