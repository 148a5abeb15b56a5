package telemetry

import (
	"runtime"

	"github.com/qsswgl/patrol/pkg/version"
)

// Event names.
const (
	EventAppStarted         = "app_started"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIError           = "cli_error"
	EventCheckInRecorded    = "checkin_recorded"
	EventLocationRegistered = "location_registered"
	EventCacheWarmed        = "cache_warmed"
	EventSyncPass           = "sync_pass"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":        runtime.GOOS,
		"arch":      runtime.GOARCH,
		"version":   version.Short(),
		"dev_build": version.IsDevBuild(),
	}
}

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string, unsyncedCount int) {
	props := baseProperties()
	props["mode"] = mode
	props["unsynced_count"] = unsyncedCount
	c.Track(EventAppStarted, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks a CLI command failure by error class.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIError, props)
}

// TrackCheckInRecorded tracks one handled tag read. Only the outcome
// classification is sent, never the tag id or location.
func (c *posthogClient) TrackCheckInRecorded(outcomeKind string, online bool) {
	props := baseProperties()
	props["outcome"] = outcomeKind
	props["online"] = online
	c.Track(EventCheckInRecorded, props)
}

// TrackLocationRegistered tracks a successful new-card registration.
func (c *posthogClient) TrackLocationRegistered() {
	c.Track(EventLocationRegistered, baseProperties())
}

// TrackCacheWarmed tracks a bulk directory prefetch.
func (c *posthogClient) TrackCacheWarmed(mappingCount int) {
	props := baseProperties()
	props["mapping_count"] = mappingCount
	c.Track(EventCacheWarmed, props)
}

// TrackSyncPass tracks the result counts of one sync pass.
func (c *posthogClient) TrackSyncPass(synced, skipped, failed, remaining int) {
	props := baseProperties()
	props["synced"] = synced
	props["skipped"] = skipped
	props["failed"] = failed
	props["remaining"] = remaining
	c.Track(EventSyncPass, props)
}
