package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate pattern store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(stats)
			}

			fmt.Printf("Patterns:           %d\n", stats.TotalPatterns)
			fmt.Printf("  Corrections:      %d\n", stats.Corrections)
			fmt.Printf("  Observations:     %d\n", stats.Observations)
			fmt.Printf("Promoted:           %d\n", stats.Promoted)
			fmt.Printf("Total applications: %d\n", stats.TotalApplications)
			return nil
		},
	}
}
