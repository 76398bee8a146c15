package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/cli"
	"github.com/example/lorebook/internal/version"
	"github.com/example/lorebook/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "lorebook",
		Short:   "Lorebook - ordered campaign journals for tabletop games",
		Version: version.String(),
		Long: `Lorebook keeps a campaign journal: ordered acts, ordered chapters inside
each act, and unordered master notes. Positions always stay dense.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Bootstrap(cmd)
		},
	}
	cli.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Journal entities
	rootCmd.AddCommand(cli.ActCmd())
	rootCmd.AddCommand(cli.ChapterCmd())
	rootCmd.AddCommand(cli.NoteCmd())
	rootCmd.AddCommand(cli.JournalCmd())

	err := rootCmd.Execute()
	_ = wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
