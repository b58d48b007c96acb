package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/logging"
	"github.com/jleechanorg/memlearn/internal/promote"
)

func newPromotableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promotable",
		Short: "List patterns ready for promotion",
		Long: `List patterns that meet every promotion criterion: high confidence,
enough feedback applications, and a proven success rate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, root, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			promoter := promote.NewPromoter(s, cfg.RulesPath(root), cfg.BackupDir(root), cfg.Rules.KeepBackups)
			patterns, err := promoter.Promotable(cmd.Context())
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				type promotable struct {
					ID          string  `json:"id"`
					Rule        string  `json:"rule"`
					Confidence  float64 `json:"confidence"`
					Applied     int     `json:"applied_count"`
					SuccessRate float64 `json:"success_rate"`
				}
				out := make([]promotable, 0, len(patterns))
				for i := range patterns {
					p := &patterns[i]
					out = append(out, promotable{
						ID:          p.ID,
						Rule:        promote.RenderRule(p),
						Confidence:  p.Confidence,
						Applied:     p.AppliedCount,
						SuccessRate: p.SuccessRate(),
					})
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}

			if len(patterns) == 0 {
				fmt.Println("No patterns are ready for promotion.")
				return nil
			}
			for i := range patterns {
				p := &patterns[i]
				fmt.Printf("%.2f  %s  applied %d  success %.0f%%\n      %s\n",
					p.Confidence, p.ID, p.AppliedCount, p.SuccessRate()*100,
					promote.RenderRule(p))
			}
			return nil
		},
	}
}

func newPromoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Write promotable patterns into the rules document",
		Long: `Render every promotable pattern as a rule and insert the rules into the
configured rules document (CLAUDE.md by default). A timestamped backup of
the document is taken first; existing content is never modified, only
added to.

Use --dry-run to preview the rules and the would-be backup path without
touching the document or the store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			s, cfg, root, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			activity := logging.NewActivityLogger(cfg.DataDir(root), cfg.Logging.Level)
			defer activity.Close()

			promoter := promote.NewPromoter(s, cfg.RulesPath(root), cfg.BackupDir(root), cfg.Rules.KeepBackups)
			result, err := promoter.Promote(cmd.Context(), dryRun)
			if errors.Is(err, promote.ErrNoRulesDocument) {
				return fmt.Errorf("rules document %s does not exist; create it first", cfg.RulesPath(root))
			}
			if err != nil {
				return err
			}
			if err := s.Sync(cmd.Context()); err != nil {
				return fmt.Errorf("failed to persist promotion state: %w", err)
			}

			if !dryRun && len(result.Rules) > 0 {
				activity.Log(map[string]any{
					"event":    "promote",
					"patterns": len(result.Rules),
					"backup":   result.BackupPath,
				})
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			if len(result.Rules) == 0 {
				fmt.Println("No patterns are ready for promotion.")
				return nil
			}
			verb := "Promoted"
			if dryRun {
				verb = "Would promote"
			}
			fmt.Printf("%s %d rule(s) into %s:\n", verb, len(result.Rules), result.RulesPath)
			for _, r := range result.Rules {
				fmt.Printf("  - %s\n", r.Rule)
			}
			if result.BackupPath != "" {
				noun := "Backup"
				if dryRun {
					noun = "Would back up to"
				}
				fmt.Printf("%s: %s\n", noun, result.BackupPath)
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Preview promotion without writing anything")
	return cmd
}

func newBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List rules document backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			backups, err := promote.ListBackups(cfg.BackupDir(root))
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				if backups == nil {
					backups = []promote.Backup{}
				}
				return json.NewEncoder(os.Stdout).Encode(backups)
			}

			if len(backups) == 0 {
				fmt.Println("No backups found.")
				return nil
			}
			for _, b := range backups {
				fmt.Printf("%s  %s  %d bytes\n",
					b.Name, b.Timestamp.Format("2006-01-02 15:04:05"), b.Size)
			}
			return nil
		},
	}
}

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <backup-name>",
		Short: "Restore the rules document from a backup",
		Long: `Restore the rules document verbatim from a named backup. The pattern
store is untouched: patterns promoted since the backup keep their promoted
flags, so the store reflects promotion history rather than document state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, root, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			// Accept a bare timestamp as well as the full file name.
			if !strings.HasPrefix(name, "rules-backup-") {
				name = "rules-backup-" + name + ".md"
			}

			err = promote.Rollback(cfg.RulesPath(root), cfg.BackupDir(root), name)
			if errors.Is(err, promote.ErrNoBackup) {
				return fmt.Errorf("no backup named %s; run 'memlearn backups' to list them", name)
			}
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status":   "restored",
					"backup":   name,
					"document": cfg.RulesPath(root),
				})
			}
			fmt.Printf("Restored %s from %s\n", cfg.RulesPath(root), name)
			return nil
		},
	}
}
