package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	recordsToday bool
	recordsLimit int
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List recorded check-ins",
	Long: `List recorded check-ins, newest first.

Shows the location label, check-in time, and sync status of each
record, plus the number still waiting to sync.`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&recordsToday, "today", false, "only show today's records")
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 20, "maximum number of records to show")
}

func runRecords(cmd *cobra.Command, args []string) error {
	_, database, _, err := openDeps()
	if err != nil {
		return trackCLIError("records", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	records, err := database.ListRecords()
	if err != nil {
		return trackCLIError("records", fmt.Errorf("list records: %w", err))
	}

	unsynced, err := database.CountUnsynced()
	if err != nil {
		return trackCLIError("records", fmt.Errorf("count unsynced: %w", err))
	}

	if len(records) == 0 {
		fmt.Println("No check-ins recorded yet.")
		return nil
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)

	fmt.Printf("CHECK-INS (%d total, %d pending sync)\n", len(records), unsynced)
	fmt.Println("──────────────────────────────────────────────────")

	shown := 0
	for _, record := range records {
		if recordsToday && record.CheckInTime.Before(startOfDay) {
			continue
		}
		if recordsLimit > 0 && shown >= recordsLimit {
			break
		}
		badge := "✓"
		if !record.IsSynced {
			badge = "…"
		}
		fmt.Printf("  %s %s\n", badge, record.LocationLabel)
		fmt.Printf("    %s  tag %s  (%s)\n",
			record.CheckInTime.Format("2006-01-02 15:04:05"),
			record.TagID,
			record.SyncBadge(),
		)
		fmt.Println()
		shown++
	}

	if shown == 0 {
		fmt.Println("No records match the filter.")
	}
	return nil
}
