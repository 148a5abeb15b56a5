package tagsource

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, source *LineSource) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-source.Events():
			if !ok {
				return events
			}
			events = append(events, event)
		case <-timeout:
			t.Fatal("timed out waiting for events channel to close")
		}
	}
}

func TestLineSource_EmitsNormalizedTags(t *testing.T) {
	source := NewLineSource(strings.NewReader("04:a1:b2\nffee01\n"))
	require.NoError(t, source.Start(context.Background()))

	events := collectEvents(t, source)
	require.Len(t, events, 2)
	assert.Equal(t, "04-A1-B2", events[0].TagID)
	assert.Equal(t, "FFEE01", events[1].TagID)
	assert.False(t, events[0].ReadTime.IsZero())
}

func TestLineSource_SkipsBlankLines(t *testing.T) {
	source := NewLineSource(strings.NewReader("\n  \n04A1B2\n"))
	require.NoError(t, source.Start(context.Background()))

	events := collectEvents(t, source)
	require.Len(t, events, 1)
	assert.Equal(t, "04A1B2", events[0].TagID)
}

func TestLineSource_ClosesChannelAtEOF(t *testing.T) {
	source := NewLineSource(strings.NewReader(""))
	require.NoError(t, source.Start(context.Background()))

	select {
	case _, ok := <-source.Events():
		assert.False(t, ok, "events channel should close at end of input")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}

func TestLineSource_StartIsIdempotent(t *testing.T) {
	source := NewLineSource(strings.NewReader("04A1B2\n"))
	require.NoError(t, source.Start(context.Background()))
	require.NoError(t, source.Start(context.Background()))

	events := collectEvents(t, source)
	assert.Len(t, events, 1)
}
