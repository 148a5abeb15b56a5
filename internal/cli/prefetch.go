package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/internal/syncer"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Warm the local tag-to-location cache",
	Long: `Warm the local tag-to-location cache.

Bulk-fetches every registered mapping from the remote directory so
that offline reads resolve to real location names instead of
placeholders.`,
	Args: cobra.NoArgs,
	RunE: runPrefetch,
}

func runPrefetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("prefetch", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	scheduler := syncer.New(database, client, syncer.Options{
		Interval: cfg.Sync.Interval,
	})

	warmed, err := scheduler.WarmCache(ctx)
	if err != nil {
		return trackCLIError("prefetch", fmt.Errorf("fetch mappings: %w", err))
	}

	telemetryClient.TrackCacheWarmed(warmed)

	if warmed == 0 {
		fmt.Println("The directory has no registered locations yet.")
		return nil
	}
	fmt.Printf("Cached %d location mapping(s).\n", warmed)
	return nil
}
