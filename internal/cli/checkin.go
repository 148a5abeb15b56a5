package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/internal/announce"
	"github.com/qsswgl/patrol/internal/engine"
	"github.com/qsswgl/patrol/internal/models"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin <tag-id>",
	Short: "Record a check-in for a manually entered tag id",
	Long: `Record a check-in for a manually entered tag id.

The tag id is normalized the same way a physical read would be
(colons become dashes, uppercase). If the card is not registered yet,
you will be prompted for a location name to register it.

Examples:
  patrol checkin 04A1B2
  patrol checkin 04:a1:b2:c3`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckin,
}

func runCheckin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("checkin", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	eng := engine.New(database, client, engine.Options{
		Prompter:        stdinPrompter(),
		Announcer:       announce.LogSink{},
		DuplicateWindow: cfg.Sync.DuplicateWindow,
		DeviceID:        deviceID(cfg, database),
	})

	tagID := models.NormalizeTagID(args[0])
	if tagID == "" {
		return trackCLIError("checkin", fmt.Errorf("empty tag id"))
	}

	online := client.IsConnectivityAvailable(ctx)
	outcome, err := eng.HandleTagRead(ctx, tagID, time.Now(), online)
	if err != nil {
		return trackCLIError("checkin", err)
	}

	telemetryClient.TrackCheckInRecorded(outcome.Kind.String(), online)
	printOutcome(outcome)
	return nil
}

// stdinPrompter collects a location name from the terminal. An empty
// line cancels the registration.
func stdinPrompter() engine.Prompter {
	return engine.PrompterFunc(func(ctx context.Context, tagID string) (string, error) {
		fmt.Printf("Card %s is not registered.\n", tagID)
		fmt.Print("Enter a location name (leave blank to cancel): ")

		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", engine.ErrPromptCancelled
		}
		label := strings.TrimSpace(line)
		if label == "" {
			return "", engine.ErrPromptCancelled
		}
		return label, nil
	})
}

// printOutcome renders an engine outcome for the terminal.
func printOutcome(outcome engine.Outcome) {
	switch outcome.Kind {
	case engine.KindCheckedIn:
		fmt.Printf("✓ Checked in at %s\n", outcome.Label)
	case engine.KindAlreadyCheckedIn:
		fmt.Printf("Already checked in at %s (%s)\n",
			outcome.Label, outcome.PreviousTime.Format("15:04:05"))
	case engine.KindCheckedInOffline:
		if outcome.WasPlaceholder {
			fmt.Printf("✓ Checked in offline as %s (location pending)\n", outcome.Label)
		} else {
			fmt.Printf("✓ Checked in offline at %s\n", outcome.Label)
		}
		fmt.Println("  The record will sync when connectivity returns.")
	case engine.KindLocationRegistered:
		fmt.Printf("✓ Location %s registered\n", outcome.Label)
		telemetryClient.TrackLocationRegistered()
	case engine.KindRegistrationFailed:
		fmt.Printf("✗ Registration failed: %s\n", outcome.Reason)
	}
}
