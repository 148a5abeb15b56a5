package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and sync status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	unsynced, err := database.CountUnsynced()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("count unsynced: %w", err))
	}

	mappings, err := database.ListLocationMappings()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("list mappings: %w", err))
	}

	connectivity := "offline"
	if client.IsConnectivityAvailable(ctx) {
		connectivity = "online"
	}

	lastSync := "never"
	if raw, err := database.GetSyncMeta(models.SyncMetaLastSyncTime); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			lastSync = formatTimeSince(t)
		}
	}

	fmt.Println("PATROL STATUS")
	fmt.Println("──────────────────────────────────────────────────")
	fmt.Printf("  Directory:        %s (%s)\n", cfg.API.BaseURL, connectivity)
	fmt.Printf("  Pending sync:     %d record(s)\n", unsynced)
	fmt.Printf("  Cached locations: %d\n", len(mappings))
	fmt.Printf("  Last sync:        %s\n", lastSync)
	return nil
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
