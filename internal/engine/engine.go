// Package engine implements the check-in reconciliation engine: the
// decision logic that turns a tag read plus a connectivity state into a
// durable local record, an optional remote write, and a deferred-sync
// obligation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/qsswgl/patrol/internal/announce"
	"github.com/qsswgl/patrol/internal/db"
	"github.com/qsswgl/patrol/internal/directory"
	"github.com/qsswgl/patrol/internal/log"
	"github.com/qsswgl/patrol/internal/models"
)

// ErrPromptCancelled is returned by a Prompter when the user dismisses
// the new-location prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Prompter collects a location name for an unregistered card. The call
// may take arbitrarily long; the engine holds no locks while waiting.
type Prompter interface {
	PromptLocation(ctx context.Context, tagID string) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, tagID string) (string, error)

// PromptLocation implements Prompter.
func (f PrompterFunc) PromptLocation(ctx context.Context, tagID string) (string, error) {
	return f(ctx, tagID)
}

// Options configures an Engine.
type Options struct {
	// Prompter handles the new-card suspend point. Without one,
	// unregistered cards fail registration.
	Prompter Prompter
	// Announcer receives fire-and-forget success announcements.
	Announcer announce.Sink
	// DuplicateWindow is the trailing duplicate-suppression window.
	// Zero means the default of 15 minutes.
	DuplicateWindow time.Duration
	// DeviceID is attached to submitted check-ins.
	DeviceID string
}

// Engine is the reconciliation engine. Safe for concurrent use;
// overlapping reads of the same tag are serialized per tag.
type Engine struct {
	db        *db.DB
	directory directory.Client
	prompter  Prompter
	announcer announce.Sink
	window    time.Duration
	deviceID  string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates an Engine on top of the local store and directory client.
func New(database *db.DB, client directory.Client, opts Options) *Engine {
	window := opts.DuplicateWindow
	if window <= 0 {
		window = 15 * time.Minute
	}
	announcer := opts.Announcer
	if announcer == nil {
		announcer = announce.NoopSink{}
	}
	return &Engine{
		db:        database,
		directory: client,
		prompter:  opts.Prompter,
		announcer: announcer,
		window:    window,
		deviceID:  opts.DeviceID,
		locks:     make(map[string]*sync.Mutex),
	}
}

// tagLock returns the mutex serializing reads of one tag.
func (e *Engine) tagLock(tagID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	mu, ok := e.locks[tagID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[tagID] = mu
	}
	return mu
}

// HandleTagRead converts one (tagID, readTime) event into durable state
// changes. online is a hint only: a remote failure mid-flight degrades
// to offline handling instead of losing the check-in. Store failures
// propagate as hard errors.
func (e *Engine) HandleTagRead(ctx context.Context, tagID string, readTime time.Time, online bool) (Outcome, error) {
	mu := e.tagLock(tagID)
	mu.Lock()

	// Duplicate suppression: one check-in per tag per window. Keyed by
	// tag, so different tags tapped seconds apart both succeed.
	since := readTime.Add(-e.window)
	recent, err := e.db.FindRecentCheckIn(tagID, since)
	if err != nil {
		mu.Unlock()
		return Outcome{}, fmt.Errorf("duplicate check for %s: %w", tagID, err)
	}
	if recent != nil {
		mu.Unlock()
		return Outcome{
			Kind:         KindAlreadyCheckedIn,
			Label:        recent.LocationLabel,
			PreviousTime: recent.CheckInTime,
			Record:       recent,
		}, nil
	}

	if online {
		outcome, handled, err := e.handleOnline(ctx, mu, tagID, readTime)
		if handled || err != nil {
			return outcome, err
		}
		// Remote failure despite the online hint; fall through.
	}

	return e.handleOffline(tagID, readTime, mu)
}

// handleOnline runs the online path. handled is false when the resolve
// call itself failed and the event should degrade to offline handling.
// The tag lock is passed in locked and is released before any remote
// write or prompt.
func (e *Engine) handleOnline(ctx context.Context, mu *sync.Mutex, tagID string, readTime time.Time) (Outcome, bool, error) {
	label, err := e.directory.ResolveTag(ctx, tagID)
	if err != nil {
		log.Errorf("resolve %s failed, falling back to offline: %v", tagID, err)
		return Outcome{}, false, nil
	}

	if label == "" {
		mu.Unlock()
		outcome, err := e.registerNewCard(ctx, tagID, readTime)
		return outcome, true, err
	}

	// Existing card. Persist first; the remote submit is best-effort
	// and the scheduler retries whatever it misses.
	record := &models.CheckInRecord{
		TagID:         tagID,
		LocationLabel: label,
		CheckInTime:   readTime,
		IsSynced:      false,
	}
	if err := e.db.InsertRecord(record); err != nil {
		mu.Unlock()
		return Outcome{}, true, fmt.Errorf("persist check-in for %s: %w", tagID, err)
	}
	mu.Unlock()

	if err := e.db.UpsertLocationMapping(&models.LocationMapping{
		TagID:         tagID,
		LocationLabel: label,
	}); err != nil {
		log.Errorf("cache mapping for %s: %v", tagID, err)
	}

	if e.directory.SubmitCheckIn(ctx, directory.CheckIn{
		TagID:    tagID,
		Label:    label,
		ReadTime: readTime,
		DeviceID: e.deviceID,
	}) {
		if err := e.db.MarkRecordSynced(record.ID, time.Now()); err != nil {
			log.Errorf("mark record %d synced: %v", record.ID, err)
		} else {
			now := time.Now()
			record.IsSynced = true
			record.SyncedTime = &now
		}
	}

	e.announcer.Announce(fmt.Sprintf("%s, %s, check-in recorded", label, readTime.Format("15:04")))

	return Outcome{Kind: KindCheckedIn, Label: label, Record: record}, true, nil
}

// registerNewCard runs the new-card flow: collect a label from the
// user, register it with the directory, and persist the first visit.
// No tag lock is held while the prompt is open.
func (e *Engine) registerNewCard(ctx context.Context, tagID string, readTime time.Time) (Outcome, error) {
	if e.prompter == nil {
		return Outcome{Kind: KindRegistrationFailed, Reason: "card not registered and no prompt available"}, nil
	}

	label, err := e.prompter.PromptLocation(ctx, tagID)
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			return Outcome{Kind: KindRegistrationFailed, Reason: "cancelled"}, nil
		}
		return Outcome{Kind: KindRegistrationFailed, Reason: err.Error()}, nil
	}

	if err := e.directory.RegisterLocation(ctx, tagID, label); err != nil {
		var rejection *directory.RejectionError
		if errors.As(err, &rejection) {
			return Outcome{Kind: KindRegistrationFailed, Reason: rejection.Reason}, nil
		}
		return Outcome{Kind: KindRegistrationFailed, Reason: err.Error()}, nil
	}

	if err := e.db.UpsertLocationMapping(&models.LocationMapping{
		TagID:         tagID,
		LocationLabel: label,
	}); err != nil {
		log.Errorf("cache mapping for %s: %v", tagID, err)
	}

	// Registration is the durable remote action for this visit, so the
	// record is born synced; no separate submit happens for this event.
	now := time.Now()
	record := &models.CheckInRecord{
		TagID:         tagID,
		LocationLabel: models.NewlyRegisteredLabel(label),
		CheckInTime:   readTime,
		IsSynced:      true,
		SyncedTime:    &now,
	}
	mu := e.tagLock(tagID)
	mu.Lock()
	err = e.db.InsertRecord(record)
	mu.Unlock()
	if err != nil {
		return Outcome{}, fmt.Errorf("persist registration record for %s: %w", tagID, err)
	}

	e.announcer.Announce(fmt.Sprintf("location %s registered", label))

	return Outcome{Kind: KindLocationRegistered, Label: label, Record: record}, nil
}

// handleOffline resolves a label from local state only and persists an
// unsynced record. Resolution precedence: mapping cache, then the most
// recent non-placeholder record, then a deterministic placeholder.
// The tag lock is passed in locked.
func (e *Engine) handleOffline(tagID string, readTime time.Time, mu *sync.Mutex) (Outcome, error) {
	label, wasPlaceholder, err := e.resolveOfflineLabel(tagID)
	if err != nil {
		mu.Unlock()
		return Outcome{}, err
	}

	record := &models.CheckInRecord{
		TagID:         tagID,
		LocationLabel: label,
		CheckInTime:   readTime,
		IsSynced:      false,
	}
	err = e.db.InsertRecord(record)
	mu.Unlock()
	if err != nil {
		return Outcome{}, fmt.Errorf("persist offline check-in for %s: %w", tagID, err)
	}

	e.announcer.Announce(fmt.Sprintf("%s, %s, check-in recorded", label, readTime.Format("15:04")))

	return Outcome{
		Kind:           KindCheckedInOffline,
		Label:          label,
		WasPlaceholder: wasPlaceholder,
		Record:         record,
	}, nil
}

func (e *Engine) resolveOfflineLabel(tagID string) (string, bool, error) {
	mapping, err := e.db.GetLocationMapping(tagID)
	if err != nil {
		return "", false, fmt.Errorf("lookup mapping for %s: %w", tagID, err)
	}
	if mapping != nil && mapping.LocationLabel != "" {
		return mapping.LocationLabel, false, nil
	}

	prior, err := e.db.FindLastResolvedRecord(tagID)
	if err != nil {
		return "", false, fmt.Errorf("lookup history for %s: %w", tagID, err)
	}
	if prior != nil {
		return prior.LocationLabel, false, nil
	}

	return models.PlaceholderLabel(tagID), true, nil
}
