package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/db"
	"github.com/example/lorebook/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the lorebook database",
		Long:  `Create the lorebook database (default ~/.lorebook/lorebook.db) or migrate an existing one to the current schema.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}

			fmt.Printf("Initializing lorebook database at %s\n", cfg.DBPath)

			// Opening the database creates or migrates the schema
			if _, err := wire.DB(); err != nil {
				return err
			}

			fmt.Println("✓ Database initialized successfully")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  lorebook seed")
			fmt.Printf("  lorebook --campaign %s journal show\n", db.DemoCampaignID)
			return nil
		},
	}
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo campaign",
		Long:  fmt.Sprintf("Load a small sample journal into campaign %s. Fails if it was already loaded.", db.DemoCampaignID),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := wire.DB()
			if err != nil {
				return err
			}
			if err := db.SeedFixtures(database); err != nil {
				return err
			}
			fmt.Printf("✓ Seeded demo campaign %s\n", db.DemoCampaignID)
			return nil
		},
	}
}
