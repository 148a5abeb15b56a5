package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/internal/announce"
	"github.com/qsswgl/patrol/internal/engine"
	"github.com/qsswgl/patrol/internal/log"
	"github.com/qsswgl/patrol/internal/syncer"
	"github.com/qsswgl/patrol/internal/tagsource"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Read tag ids continuously and record check-ins",
	Long: `Read tag ids continuously and record check-ins.

Reads one tag id per line from standard input (a keyboard-wedge NFC
reader presents itself as exactly that). Each read becomes a durable
check-in; a background scheduler drains unsynced records every few
minutes and on startup.

Unregistered cards are not registered in this mode; use
'patrol checkin <tag-id>' for the interactive registration flow.

Stop with Ctrl-C or end of input.`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("listen", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	device := deviceID(cfg, database)

	eng := engine.New(database, client, engine.Options{
		Announcer:       announce.LogSink{},
		DuplicateWindow: cfg.Sync.DuplicateWindow,
		DeviceID:        device,
	})

	scheduler := syncer.New(database, client, syncer.Options{
		Interval: cfg.Sync.Interval,
		DeviceID: device,
	})
	if err := scheduler.Start(ctx); err != nil {
		return trackCLIError("listen", fmt.Errorf("start sync scheduler: %w", err))
	}
	defer func() {
		scheduler.Stop()
		scheduler.Wait()
	}()

	// Warm the mapping cache so offline reads resolve to real names.
	if client.IsConnectivityAvailable(ctx) {
		if warmed, err := scheduler.WarmCache(ctx); err != nil {
			log.Errorf("warm mapping cache: %v", err)
		} else if warmed > 0 {
			log.Printf("cached %d location mapping(s)\n", warmed)
		}
	}

	source := tagsource.NewLineSource(os.Stdin)
	if err := source.Start(ctx); err != nil {
		return trackCLIError("listen", fmt.Errorf("start tag source: %w", err))
	}
	defer source.Stop()

	headerStyle := lipgloss.NewStyle().Bold(true)
	fmt.Println(headerStyle.Render("LISTENING"))
	fmt.Println("Scan or type a tag id and press enter.")
	fmt.Println()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-source.Events():
			if !ok {
				return nil
			}
			online := client.IsConnectivityAvailable(ctx)
			outcome, err := eng.HandleTagRead(ctx, event.TagID, event.ReadTime, online)
			if err != nil {
				// Local store failure: surface it, keep listening.
				log.Errorf("handle tag %s: %v", event.TagID, err)
				continue
			}
			telemetryClient.TrackCheckInRecorded(outcome.Kind.String(), online)
			printOutcome(outcome)
			if outcome.Kind == engine.KindCheckedIn {
				// A successful online write is a good moment to drain
				// the backlog too.
				scheduler.Kick()
			}
		}
	}
}
