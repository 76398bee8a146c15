package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/ports/primary"
	"github.com/example/lorebook/internal/wire"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect a whole campaign journal",
}

var journalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show acts, chapters and master notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.ShowJournal(NewContext(), campaignID)
	},
}

var journalCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every act and chapter position is dense",
	Long: `Verify that the acts of the campaign, and the chapters of every act,
occupy positions 0..n-1 with no gaps or duplicates. Exits non-zero when any
scope has problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.CheckJournal(NewContext(), campaignID)
	},
}

var journalLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent journal changes",
	Long:  "Show the audit trail of journal changes, newest first (default 50)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		entityType, _ := cmd.Flags().GetString("type")
		entityID, _ := cmd.Flags().GetString("entity")
		if limit <= 0 {
			limit = 50
		}

		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.Log(NewContext(), primary.JournalLogFilters{
			CampaignID: campaignID,
			EntityType: entityType,
			EntityID:   entityID,
			Limit:      limit,
		})
	},
}

func init() {
	journalLogCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries")
	journalLogCmd.Flags().StringP("type", "t", "", "Filter by entity type (act|chapter|master_note)")
	journalLogCmd.Flags().StringP("entity", "e", "", "Filter by entity ID")

	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalCheckCmd)
	journalCmd.AddCommand(journalLogCmd)
}

// JournalCmd returns the journal command
func JournalCmd() *cobra.Command {
	return journalCmd
}
