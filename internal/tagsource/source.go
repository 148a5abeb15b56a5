// Package tagsource defines where tag-read events come from.
//
// A Source pushes events onto a channel; the engine consumes them at
// its own pace, so read timing is decoupled from processing latency.
package tagsource

import (
	"context"
	"time"
)

// Event is one physical tag read.
type Event struct {
	// TagID is the normalized card serial number.
	TagID string
	// LocationHint is an optional label embedded in the tag payload.
	LocationHint string
	// ReadTime is when the tag was presented.
	ReadTime time.Time
}

// Source emits tag-read events. Start and Stop bound its lifecycle;
// Events is closed once the source has fully stopped.
type Source interface {
	Start(ctx context.Context) error
	Stop()
	Events() <-chan Event
}
