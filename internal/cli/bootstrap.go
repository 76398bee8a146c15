// Package cli provides CLI commands for the lorebook application.
package cli

import (
	gocontext "context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/lorebook/internal/config"
	"github.com/example/lorebook/internal/ctxutil"
	"github.com/example/lorebook/internal/logging"
	"github.com/example/lorebook/internal/wire"
)

// Persistent flag names registered on the root command.
const (
	flagCampaign = "campaign"
	flagDB       = "db"
	flagActor    = "actor"
)

// globalActorID stores the actor for the current CLI invocation.
// Set once at startup by Bootstrap().
var globalActorID string

// globalCampaignID is the campaign used when a command gets no --campaign.
var globalCampaignID string

// AddPersistentFlags registers the flags every command understands.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringP(flagCampaign, "c", "", "Campaign ID (default $LOREBOOK_CAMPAIGN)")
	root.PersistentFlags().String(flagDB, "", "SQLite database path (default $LOREBOOK_DB_PATH)")
	root.PersistentFlags().String(flagActor, "", "Actor recorded in the journal log (default $LOREBOOK_ACTOR)")
}

// Bootstrap loads configuration, applies flag overrides and configures the
// service wiring. Should be called once at CLI startup in PersistentPreRunE.
func Bootstrap(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString(flagDB); path != "" {
		if cfg.DBPath, err = config.ExpandPath(path); err != nil {
			return err
		}
	}
	if actor, _ := cmd.Flags().GetString(flagActor); actor != "" {
		cfg.Actor = actor
	}
	if campaign, _ := cmd.Flags().GetString(flagCampaign); campaign != "" {
		cfg.Campaign = campaign
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger, err := logging.New(level, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	globalActorID = cfg.Actor
	globalCampaignID = cfg.Campaign
	wire.Configure(cfg, logger)
	return nil
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if Bootstrap() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// requireCampaign returns the campaign from --campaign or the environment.
func requireCampaign() (string, error) {
	if globalCampaignID == "" {
		return "", fmt.Errorf("no campaign selected\nHint: Use --campaign or set LOREBOOK_CAMPAIGN")
	}
	return globalCampaignID, nil
}
