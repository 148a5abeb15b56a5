package engine

import (
	"time"

	"github.com/qsswgl/patrol/internal/models"
)

// OutcomeKind classifies the result of handling a tag read.
type OutcomeKind int

const (
	// KindCheckedIn: resolved online and persisted.
	KindCheckedIn OutcomeKind = iota
	// KindAlreadyCheckedIn: suppressed as a duplicate within the window.
	KindAlreadyCheckedIn
	// KindCheckedInOffline: persisted locally, sync deferred.
	KindCheckedInOffline
	// KindLocationRegistered: new card registered with the directory.
	KindLocationRegistered
	// KindRegistrationFailed: the directory refused the registration,
	// or no label could be collected. Nothing was persisted.
	KindRegistrationFailed
)

// String returns the kind name for logs and telemetry.
func (k OutcomeKind) String() string {
	switch k {
	case KindCheckedIn:
		return "checked_in"
	case KindAlreadyCheckedIn:
		return "already_checked_in"
	case KindCheckedInOffline:
		return "checked_in_offline"
	case KindLocationRegistered:
		return "location_registered"
	case KindRegistrationFailed:
		return "registration_failed"
	default:
		return "unknown"
	}
}

// Outcome describes what a tag read turned into.
type Outcome struct {
	Kind OutcomeKind

	// Label is the location label shown to the user.
	Label string

	// PreviousTime is the earlier check-in time for duplicates.
	PreviousTime time.Time

	// WasPlaceholder is set for offline check-ins whose label had to be
	// synthesized from the tag id.
	WasPlaceholder bool

	// Reason carries the failure description for KindRegistrationFailed.
	Reason string

	// Record is the persisted record, when one was written.
	Record *models.CheckInRecord
}
