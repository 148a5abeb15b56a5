// Package syncer implements the background synchronization loop that
// drains unsynced check-in records to the remote directory with
// idempotent retries.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qsswgl/patrol/internal/db"
	"github.com/qsswgl/patrol/internal/directory"
	"github.com/qsswgl/patrol/internal/log"
	"github.com/qsswgl/patrol/internal/models"
)

// ErrPassInProgress is returned when a sync pass is already running.
// Passes are single-flight: the periodic loop and a user-triggered sync
// share the same guard so a record is never double-submitted by
// overlapping passes.
var ErrPassInProgress = errors.New("sync pass already in progress")

// Result summarizes one sync pass.
type Result struct {
	// Synced is the number of records confirmed by the remote this pass.
	Synced int
	// Skipped counts placeholder records whose tag is still unregistered.
	Skipped int
	// Failed counts submit attempts the remote did not acknowledge.
	Failed int
	// Remaining is the unsynced count after the pass.
	Remaining int
	// Aborted is set when the connectivity probe failed at pass start.
	Aborted bool
}

// Options configures a Scheduler.
type Options struct {
	// Interval between background passes. Zero means 5 minutes.
	Interval time.Duration
	// DeviceID is attached to submitted check-ins.
	DeviceID string
}

// Scheduler owns the background sync loop. Start/Stop bound its
// lifecycle; RunPass can be called directly for user-triggered syncs.
type Scheduler struct {
	db        *db.DB
	directory directory.Client
	interval  time.Duration
	deviceID  string

	passMu sync.Mutex

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	kick    chan struct{}
	done    chan struct{}
}

// New creates a Scheduler over the local store and directory client.
func New(database *db.DB, client directory.Client, opts Options) *Scheduler {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		db:        database,
		directory: client,
		interval:  interval,
		deviceID:  opts.DeviceID,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the background loop. The first pass runs immediately
// (the app-start trigger); later passes run on the interval or when
// Kick is called. Returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop cancels the background loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// Wait blocks until the background loop has exited.
func (s *Scheduler) Wait() {
	<-s.done
}

// Kick requests an immediate pass from the background loop, used when
// connectivity comes back or the user asks for a sync. Non-blocking;
// redundant kicks collapse into one.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// IsRunning reports whether the background loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(s.done)
	}()

	s.runQuietPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runQuietPass(ctx)
		case <-s.kick:
			s.runQuietPass(ctx)
		}
	}
}

// runQuietPass runs one pass, logging instead of surfacing errors.
// Failures are visible through the records' persisted sync state.
func (s *Scheduler) runQuietPass(ctx context.Context) {
	result, err := s.RunPass(ctx)
	switch {
	case errors.Is(err, ErrPassInProgress):
		// A user-triggered pass is already draining the queue.
	case err != nil:
		log.Errorf("background sync pass: %v", err)
	case result.Synced > 0:
		log.Printf("synced %d check-in record(s), %d remaining\n", result.Synced, result.Remaining)
	}
}

// RunPass drains the unsynced queue once. Safe to call concurrently
// with the background loop; the second caller gets ErrPassInProgress.
func (s *Scheduler) RunPass(ctx context.Context) (Result, error) {
	if !s.passMu.TryLock() {
		return Result{}, ErrPassInProgress
	}
	defer s.passMu.Unlock()

	var result Result

	records, err := s.db.ListUnsyncedRecords()
	if err != nil {
		return result, err
	}
	if len(records) == 0 {
		return result, nil
	}

	if !s.directory.IsConnectivityAvailable(ctx) {
		result.Aborted = true
		result.Remaining = len(records)
		return result, nil
	}

	for i := range records {
		record := &records[i]
		if err := ctx.Err(); err != nil {
			break
		}
		switch s.syncRecord(ctx, record) {
		case syncedRecord:
			result.Synced++
		case skippedRecord:
			result.Skipped++
		case failedRecord:
			result.Failed++
		}
	}

	if remaining, err := s.db.CountUnsynced(); err == nil {
		result.Remaining = int(remaining)
	}

	if result.Synced > 0 {
		if err := s.db.SetSyncMeta(models.SyncMetaLastSyncTime, time.Now().Format(time.RFC3339)); err != nil {
			log.Errorf("record last sync time: %v", err)
		}
	}

	return result, nil
}

// WarmCache bulk-fetches the full directory and upserts every mapping
// into the local cache. Returns the number of mappings stored.
func (s *Scheduler) WarmCache(ctx context.Context) (int, error) {
	mappings, err := s.directory.FetchAllMappings(ctx)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, m := range mappings {
		if m.TagID == "" {
			continue
		}
		if err := s.db.UpsertLocationMapping(&models.LocationMapping{
			TagID:         m.TagID,
			LocationLabel: m.Label,
			Category:      m.Category,
		}); err != nil {
			log.Errorf("cache mapping for %s: %v", m.TagID, err)
			continue
		}
		stored++
	}
	return stored, nil
}

type syncStatus int

const (
	syncedRecord syncStatus = iota
	skippedRecord
	failedRecord
)

// syncRecord reconciles one record with the remote. Placeholder labels
// are resolved first and the resolution is persisted before the submit,
// so progress survives a failed upload.
func (s *Scheduler) syncRecord(ctx context.Context, record *models.CheckInRecord) syncStatus {
	label := record.LocationLabel

	if record.HasPlaceholderLabel() {
		resolved, err := s.directory.ResolveTag(ctx, record.TagID)
		if err != nil {
			log.Errorf("resolve %s during sync: %v", record.TagID, err)
			return failedRecord
		}
		if resolved == "" {
			// Still unregistered; never synthesize a label here.
			return skippedRecord
		}
		if err := s.db.UpdateRecordLabel(record.ID, resolved); err != nil {
			log.Errorf("backfill label for record %d: %v", record.ID, err)
			return failedRecord
		}
		if err := s.db.UpsertLocationMapping(&models.LocationMapping{
			TagID:         record.TagID,
			LocationLabel: resolved,
		}); err != nil {
			log.Errorf("cache mapping for %s: %v", record.TagID, err)
		}
		label = resolved
	}

	if !s.directory.SubmitCheckIn(ctx, directory.CheckIn{
		TagID:    record.TagID,
		Label:    label,
		ReadTime: record.CheckInTime,
		DeviceID: s.deviceID,
	}) {
		return failedRecord
	}

	if err := s.db.MarkRecordSynced(record.ID, time.Now()); err != nil {
		log.Errorf("mark record %d synced: %v", record.ID, err)
		return failedRecord
	}
	return syncedRecord
}
