package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var departuresCmd = &cobra.Command{
	Use:   "departures <stop_id>",
	Short: "Lists the next departures per line from a stop",
	Args:  cobra.ExactArgs(1),
	RunE:  departures,
}

func init() {
	rootCmd.AddCommand(departuresCmd)
}

func departures(cmd *cobra.Command, args []string) error {
	stopID := args[0]

	board, reg, err := loadBoard()
	if err != nil {
		return err
	}
	if reg != nil {
		defer reg.Close()
	}

	byLine, err := board.NextDepartures(stopID)
	if err != nil {
		return err
	}

	if len(byLine) == 0 {
		fmt.Println("no upcoming departures")
		return nil
	}

	lines := make([]string, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	for _, line := range lines {
		for _, departure := range byLine[line] {
			fmt.Printf("%s %s %s\n", line, departure.Time.Format(time.RFC3339), departure.Headsign)
		}
	}

	return nil
}
