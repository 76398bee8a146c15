package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/wire"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter",
	Short: "Manage chapters (ordered scenes of an act)",
	Long:  "Create, list, reorder and delete the chapters of an act",
}

var chapterCreateCmd = &cobra.Command{
	Use:   "create [act-id] [title]",
	Short: "Append a new chapter to an act",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		content, _ := cmd.Flags().GetString("content")
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.CreateChapter(NewContext(), globalCampaignID, args[0], args[1], content)
	},
}

var chapterListCmd = &cobra.Command{
	Use:   "list [act-id]",
	Short: "List an act's chapters in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.ListChapters(NewContext(), globalCampaignID, args[0])
	},
}

var chapterUpdateCmd = &cobra.Command{
	Use:   "update [act-id] [chapter-id] [title]",
	Short: "Change a chapter's title and content",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		if err := validateEntityID(args[1], "chapter"); err != nil {
			return err
		}
		var content *string
		if cmd.Flags().Changed("content") {
			c, _ := cmd.Flags().GetString("content")
			content = &c
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.UpdateChapter(NewContext(), globalCampaignID, args[0], args[1], args[2], content)
	},
}

var chapterDeleteCmd = &cobra.Command{
	Use:   "delete [act-id] [chapter-id]",
	Short: "Delete a chapter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		if err := validateEntityID(args[1], "chapter"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.DeleteChapter(NewContext(), globalCampaignID, args[0], args[1])
	},
}

var chapterReorderCmd = &cobra.Command{
	Use:   "reorder [act-id] [chapter-id | chapter-id=order]...",
	Short: "Reorder an act's chapters",
	Long: `Reorder an act's chapters. Arguments after the act id follow the same
rules as 'lorebook act reorder'.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.ReorderChapters(NewContext(), globalCampaignID, args[0], args[1:])
	},
}

func init() {
	chapterCreateCmd.Flags().String("content", "", "Chapter content")
	chapterUpdateCmd.Flags().String("content", "", "New chapter content (kept when omitted)")

	chapterCmd.AddCommand(chapterCreateCmd)
	chapterCmd.AddCommand(chapterListCmd)
	chapterCmd.AddCommand(chapterUpdateCmd)
	chapterCmd.AddCommand(chapterDeleteCmd)
	chapterCmd.AddCommand(chapterReorderCmd)
}

// ChapterCmd returns the chapter command
func ChapterCmd() *cobra.Command {
	return chapterCmd
}
