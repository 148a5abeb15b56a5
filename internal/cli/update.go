package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qsswgl/patrol/pkg/version"
)

var updateCheckCmd = &cobra.Command{
	Use:   "update-check",
	Short: "Check whether a newer app version is published",
	Long: `Check whether a newer app version is published.

Compares this build against the version reported by the remote
directory. Downloading and installing updates is handled outside this
tool.`,
	Args: cobra.NoArgs,
	RunE: runUpdateCheck,
}

func runUpdateCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, database, client, err := openDeps()
	if err != nil {
		return trackCLIError("update-check", fmt.Errorf("initialize: %w", err))
	}
	defer func() { _ = database.Close() }()

	latest, err := client.LatestVersion(ctx)
	if err != nil {
		return trackCLIError("update-check", fmt.Errorf("fetch latest version: %w", err))
	}

	fmt.Println(version.Info())
	if version.IsDevBuild() {
		fmt.Printf("Development build; published version is %s.\n", latest)
		return nil
	}
	if version.UpdateAvailable(latest) {
		fmt.Printf("Update available: %s → %s\n", version.Short(), latest)
	} else {
		fmt.Println("You are up to date.")
	}
	return nil
}
