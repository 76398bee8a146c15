package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/wire"
)

var actCmd = &cobra.Command{
	Use:   "act",
	Short: "Manage acts (ordered story arcs of a campaign)",
	Long:  "Create, list, reorder and delete the acts of a campaign journal",
}

var actCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Append a new act to the campaign",
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
		return adapter.CreateAct(NewContext(), campaignID, args[0])
	},
}

var actListCmd = &cobra.Command{
	Use:   "list",
	Short: "List acts in order",
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
		return adapter.ListActs(NewContext(), campaignID)
	},
}

var actShowCmd = &cobra.Command{
	Use:   "show [act-id]",
	Short: "Show an act and its chapters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.ShowAct(NewContext(), campaignID, args[0])
	},
}

var actUpdateCmd = &cobra.Command{
	Use:   "update [act-id] [title]",
	Short: "Rename an act",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.UpdateAct(NewContext(), globalCampaignID, args[0], args[1])
	},
}

var actDeleteCmd = &cobra.Command{
	Use:   "delete [act-id]",
	Short: "Delete an act and all of its chapters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateEntityID(args[0], "act"); err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.DeleteAct(NewContext(), globalCampaignID, args[0])
	},
}

var actReorderCmd = &cobra.Command{
	Use:   "reorder [act-id | act-id=order]...",
	Short: "Reorder acts",
	Long: `Reorder acts. Bare ids are placed in argument order; id=order pairs
give explicit orders. Naming only some acts permutes them among the
positions they already hold.

Examples:
  lorebook act reorder act-b act-a act-c
  lorebook act reorder act-c=0 act-a=1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := requireCampaign()
		if err != nil {
			return err
		}
		adapter, err := wire.JournalAdapter()
		if err != nil {
			return err
		}
		return adapter.ReorderActs(NewContext(), campaignID, args)
	},
}

func init() {
	actCmd.AddCommand(actCreateCmd)
	actCmd.AddCommand(actListCmd)
	actCmd.AddCommand(actShowCmd)
	actCmd.AddCommand(actUpdateCmd)
	actCmd.AddCommand(actDeleteCmd)
	actCmd.AddCommand(actReorderCmd)
}

// ActCmd returns the act command
func ActCmd() *cobra.Command {
	return actCmd
}
