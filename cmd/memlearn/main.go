package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jleechanorg/memlearn/internal/config"
	"github.com/jleechanorg/memlearn/internal/store"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "memlearn",
		Short: "Pattern learning and promotion for AI agent corrections",
		Long: `memlearn learns durable behavioral rules from free-text user corrections.

It extracts candidate patterns from corrections, tracks their confidence
through feedback, and promotes proven patterns into the project's rules
document (CLAUDE.md by default) with timestamped backups.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Workspace root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newLearnCmd(),
		newFeedbackCmd(),
		newQueryCmd(),
		newStatsCmd(),
		newPromotableCmd(),
		newPromoteCmd(),
		newBackupsCmd(),
		newRollbackCmd(),
		newMCPCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("memlearn version %s\n", version)
			}
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize pattern learning in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			dataDir := store.DataDir(root)
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			manifestPath := filepath.Join(dataDir, "manifest.yaml")
			if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
				manifest := `# memlearn manifest
version: "1.0"
created: %s

# Patterns learned from corrections are stored in this directory
# Run 'memlearn learn <text>' to extract patterns from a correction
# Run 'memlearn query' to see actionable patterns
`
				content := fmt.Sprintf(manifest, time.Now().Format(time.RFC3339))
				if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
					return fmt.Errorf("failed to create manifest.yaml: %w", err)
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "initialized",
					"dir":    dataDir,
				})
			} else {
				fmt.Printf("Initialized memlearn in %s\n", dataDir)
			}
			return nil
		},
	}
}

// loadConfig loads and validates the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, root, nil
}

// openStore opens the configured pattern store for a command.
func openStore(cmd *cobra.Command) (store.PatternStore, *config.Config, string, error) {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, "", err
	}
	s, err := store.Open(cfg.Store.Backend, cfg.DataDir(root))
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open pattern store: %w", err)
	}
	return s, cfg, root, nil
}
