// Package cli provides the command-line interface for patrol.
package cli

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/qsswgl/patrol/internal/config"
	"github.com/qsswgl/patrol/internal/db"
	"github.com/qsswgl/patrol/internal/directory"
	"github.com/qsswgl/patrol/internal/telemetry"
	"github.com/qsswgl/patrol/pkg/version"
)

var telemetryClient telemetry.Client

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "patrol",
	Short: "Offline-first NFC check-in",
	Long: `Offline-first NFC check-in.

Records tag reads as durable local check-ins and reconciles them with
the remote directory whenever connectivity allows. Check-ins are never
lost to a network failure: offline reads are labeled from the local
cache or a deterministic placeholder and drained by the background sync.

Telemetry:
  Telemetry is enabled by default, always anonymous, and never includes
  tag ids, location names, or IP addresses.

  Opt-out with:
  	PATROL_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "patrol" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(updateCheckCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
	)
}

// openDeps loads configuration and opens the database and directory
// client shared by most commands. The caller owns closing the database.
func openDeps() (*config.Config, *db.DB, directory.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, nil, err
	}

	client := directory.New(directory.Config{
		BaseURL:           cfg.API.BaseURL,
		WriteTimeout:      cfg.API.WriteTimeout,
		CheckTimeout:      cfg.API.CheckTimeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})

	return cfg, database, client, nil
}

// deviceID picks the identifier attached to submitted check-ins: the
// configured device name, or the persistent anonymous ID.
func deviceID(cfg *config.Config, database *db.DB) string {
	if cfg.DeviceName != "" {
		return cfg.DeviceName
	}
	return database.GetOrCreateTrackingID()
}

// trackCLIError reports a command failure to telemetry and passes the
// error through unchanged.
func trackCLIError(commandName string, err error) error {
	telemetryClient.TrackCLIError(commandName, classifyError(err))
	return err
}

// classifyError buckets an error for telemetry without leaking content.
func classifyError(err error) string {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return "network_error"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "command_error"
	}
}
