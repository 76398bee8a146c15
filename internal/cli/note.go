package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/wire"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage master notes (free-form campaign notes)",
	Long:  "Create, list, update and delete a campaign's master notes",
}

var noteCreateCmd = &cobra.Command{
	Use:   "create [content]",
	Short: "Create a new master note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.CreateNote(NewContext(), campaignID, args[0])
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List master notes, newest first",
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
		return adapter.ListNotes(NewContext(), campaignID)
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update [note-id] [content]",
	Short: "Replace a master note's content",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "note"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.UpdateNote(NewContext(), globalCampaignID, args[0], args[1])
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete [note-id]",
	Short: "Delete a master note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "note"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.DeleteNote(NewContext(), globalCampaignID, args[0])
	},
}

func init() {
	noteCmd.AddCommand(noteCreateCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)
}

// NoteCmd returns the note command
func NoteCmd() *cobra.Command {
	return noteCmd
}
