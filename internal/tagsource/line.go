package tagsource

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/qsswgl/patrol/internal/models"
)

// LineSource reads card numbers line by line from an io.Reader. It
// backs the manual-entry path: an operator types or scans a serial and
// presses enter.
type LineSource struct {
	reader io.Reader
	events chan Event

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewLineSource creates a source reading from r (typically stdin).
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{
		reader: r,
		events: make(chan Event, 8),
	}
}

// Start begins reading lines in a background goroutine.
func (s *LineSource) Start(ctx context.Context) error {
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

// Stop cancels reading. The events channel closes once the current
// read returns.
func (s *LineSource) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

// Events implements Source.
func (s *LineSource) Events() <-chan Event {
	return s.events
}

func (s *LineSource) run(ctx context.Context) {
	defer close(s.events)

	scanner := bufio.NewScanner(s.reader)
	for scanner.Scan() {
		tagID := models.NormalizeTagID(scanner.Text())
		if tagID == "" {
			continue
		}
		select {
		case s.events <- Event{TagID: tagID, ReadTime: time.Now()}:
		case <-ctx.Done():
			return
		}
	}
}
