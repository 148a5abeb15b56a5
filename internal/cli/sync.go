package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync unsynced check-in records now",
	Long: `Sync unsynced check-in records now.

Runs one sync pass against the remote directory: offline placeholder
records are resolved to their registered location first, then every
unsynced record is submitted. Records the remote does not acknowledge
stay queued for the next pass.

Examples:
  patrol sync`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("sync", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	scheduler := syncer.New(database, client, syncer.Options{
		Interval: cfg.Sync.Interval,
		DeviceID: deviceID(cfg, database),
	})

	pending, err := database.CountUnsynced()
	if err != nil {
		return trackCLIError("sync", fmt.Errorf("count unsynced: %w", err))
	}
	if pending == 0 {
		fmt.Println("No records waiting to sync.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	fmt.Printf("%s (%d pending)\n", headerStyle.Render("SYNCING"), pending)

	result, err := scheduler.RunPass(ctx)
	if err != nil {
		if errors.Is(err, syncer.ErrPassInProgress) {
			fmt.Println("A sync pass is already running.")
			return nil
		}
		return trackCLIError("sync", err)
	}

	telemetryClient.TrackSyncPass(result.Synced, result.Skipped, result.Failed, result.Remaining)

	if result.Aborted {
		fmt.Println("No connectivity; nothing was synced.")
		return nil
	}

	fmt.Printf("Done! Synced: %d", result.Synced)
	if result.Skipped > 0 {
		fmt.Printf(", Skipped (unregistered): %d", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Printf(", Failed: %d", result.Failed)
	}
	fmt.Println()
	if result.Remaining > 0 {
		fmt.Printf("%d record(s) still pending.\n", result.Remaining)
	}
	return nil
}
