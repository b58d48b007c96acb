package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/extract"
	"github.com/jleechanorg/memlearn/internal/logging"
)

func newLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <text>",
		Short: "Extract and store behavioral patterns from a correction",
		Long: `Extract behavioral patterns from a free-text user correction and store them.

Each matched template becomes one pattern with an initial confidence score;
text matching no template is stored as a single low-signal observation.

Example:
  memlearn learn "Don't use inline imports, use module-level imports instead."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			s, cfg, root, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			activity := logging.NewActivityLogger(cfg.DataDir(root), cfg.Logging.Level)
			defer activity.Close()

			ctx := cmd.Context()
			candidates := extract.New().Extract(text)

			type stored struct {
				ID         string   `json:"id"`
				Category   string   `json:"category"`
				Fragments  []string `json:"fragments"`
				Context    []string `json:"context"`
				Confidence float64  `json:"confidence"`
			}
			results := []stored{}
			for _, c := range candidates {
				id, err := s.Create(ctx, c)
				if err != nil {
					return fmt.Errorf("failed to store pattern: %w", err)
				}
				results = append(results, stored{
					ID:         id,
					Category:   string(c.Category),
					Fragments:  c.Fragments,
					Context:    c.ContextTags,
					Confidence: c.Confidence,
				})
			}
			if err := s.Sync(ctx); err != nil {
				return fmt.Errorf("failed to persist patterns: %w", err)
			}

			stats, err := s.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			activity.Log(map[string]any{
				"event":    "learn",
				"patterns": len(results),
			})

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"patterns":          results,
					"total_corrections": stats.Corrections,
				})
			}

			for _, r := range results {
				fmt.Printf("%s  [%s]  confidence %.2f  context %s\n",
					r.ID, r.Category, r.Confidence, strings.Join(r.Context, ","))
			}
			fmt.Printf("Stored %d pattern(s); %d correction(s) learned in total.\n",
				len(results), stats.Corrections)
			return nil
		},
	}
}
