package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/feedback"
	"github.com/jleechanorg/memlearn/internal/logging"
)

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback <pattern-id>... --message <text>",
		Short: "Apply follow-up feedback to stored patterns",
		Long: `Classify a follow-up user message and adjust the confidence of the
identified patterns. Positive feedback raises confidence, negative and
correcting feedback lower it; neutral feedback leaves it unchanged but
still counts as a successful application.

Example:
  memlearn feedback always-rule_20260830_120000_0 --message "perfect, thanks"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, _ := cmd.Flags().GetString("message")
			if message == "" {
				return fmt.Errorf("--message is required and cannot be empty")
			}

			s, cfg, root, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			activity := logging.NewActivityLogger(cfg.DataDir(root), cfg.Logging.Level)
			defer activity.Close()

			ctx := cmd.Context()
			reports, err := feedback.NewTracker(s).Apply(ctx, args, message)
			if err != nil {
				return err
			}
			if err := s.Sync(ctx); err != nil {
				return fmt.Errorf("failed to persist feedback: %w", err)
			}

			activity.Log(map[string]any{
				"event":          "feedback",
				"classification": string(feedback.Classify(message)),
				"patterns":       len(args),
			})

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(reports)
			}

			for _, r := range reports {
				if !r.Found {
					fmt.Printf("%s  not found\n", r.ID)
					continue
				}
				fmt.Printf("%s  %s  %.2f -> %.2f\n",
					r.ID, r.Classification, r.OldConfidence, r.NewConfidence)
			}
			return nil
		},
	}
	cmd.Flags().String("message", "", "The feedback message to classify and apply")
	return cmd
}
