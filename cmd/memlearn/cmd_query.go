package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/models"
	"github.com/jleechanorg/memlearn/internal/query"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [tag]...",
		Short: "Retrieve actionable patterns by context",
		Long: `Retrieve stored patterns above the actionable confidence threshold,
optionally filtered by context tags (any match) and category, sorted by
confidence descending.

Examples:
  memlearn query
  memlearn query git coding
  memlearn query --category never-rule
  memlearn query summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			engine := query.NewEngine(s)
			ctx := cmd.Context()
			jsonOut, _ := cmd.Flags().GetBool("json")

			if len(args) == 1 && args[0] == "summary" {
				summary, err := engine.Summarize(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(summary)
				}
				printSummary(summary)
				return nil
			}

			categoryFlag, _ := cmd.Flags().GetString("category")
			category := models.Category(categoryFlag)
			if categoryFlag != "" && !category.Valid() {
				return fmt.Errorf("unknown category: %s", categoryFlag)
			}
			limit, _ := cmd.Flags().GetInt("limit")

			patterns, err := engine.Relevant(ctx, query.Options{
				Tags:     args,
				Category: category,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				if patterns == nil {
					patterns = []models.Pattern{}
				}
				return json.NewEncoder(os.Stdout).Encode(patterns)
			}

			if len(patterns) == 0 {
				fmt.Println("No actionable patterns found.")
				return nil
			}
			for _, p := range patterns {
				fmt.Printf("%.2f  %s  [%s]  %s  (%s)\n",
					p.Confidence, p.ID, p.Category,
					strings.Join(p.Fragments, " | "),
					strings.Join(p.ContextTags, ","))
			}
			return nil
		},
	}
	cmd.Flags().String("category", "", "Restrict results to one category")
	cmd.Flags().Int("limit", 0, "Maximum number of patterns to return (0 = all)")
	return cmd
}

func printSummary(s *query.Summary) {
	fmt.Printf("Total patterns: %d\n", s.TotalPatterns)
	fmt.Printf("Confidence: %d high, %d medium, %d low\n",
		s.HighConfidence, s.MedConfidence, s.LowConfidence)
	fmt.Printf("Promoted: %d, promotable: %d\n", s.Promoted, s.Promotable)

	if len(s.ByCategory) > 0 {
		fmt.Println("By category:")
		categories := make([]string, 0, len(s.ByCategory))
		for c := range s.ByCategory {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-22s %d\n", c, s.ByCategory[models.Category(c)])
		}
	}

	if len(s.ByTag) > 0 {
		fmt.Println("By context tag:")
		tags := make([]string, 0, len(s.ByTag))
		for tag := range s.ByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Printf("  %-22s %d\n", tag, s.ByTag[tag])
		}
	}
}
