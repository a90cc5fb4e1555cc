package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week <route_id> <stop_id>",
	Short: "Lists a line's departures from a stop over the next 7 days",
	Args:  cobra.ExactArgs(2),
	RunE:  week,
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func week(cmd *cobra.Command, args []string) error {
	routeID, stopID := args[0], args[1]

	board, reg, err := loadBoard()
	if err != nil {
		return err
	}
	if reg != nil {
		defer reg.Close()
	}

	events, err := board.WeekSchedule(routeID, stopID)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("no departures in the next 7 days")
		return nil
	}

	for _, event := range events {
		fmt.Printf("%s %s %s → %s\n",
			event.Start.Format(time.RFC3339),
			event.RouteID,
			event.StopName,
			event.Headsign,
		)
	}

	return nil
}
