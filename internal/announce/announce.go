// Package announce provides the fire-and-forget announcement seam.
// Platform builds plug in a speech synthesizer; the core only knows how
// to hand over a line of text.
package announce

import "github.com/qsswgl/patrol/internal/log"

// Sink accepts announcement text. Implementations must never block the
// caller on failure; a dropped announcement is not an error.
type Sink interface {
	Announce(text string)
}

// LogSink writes announcements through the application logger.
type LogSink struct{}

// Announce implements Sink.
func (LogSink) Announce(text string) {
	log.Printf("\U0001F50A %s\n", text)
}

// NoopSink discards announcements (for tests and headless runs).
type NoopSink struct{}

// Announce implements Sink.
func (NoopSink) Announce(string) {}
