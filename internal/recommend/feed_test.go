package recommend

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-engine/internal/types"
)

func TestFeed_FanOut(t *testing.T) {
	feed := NewFeed()
	a, cancelA := feed.Subscribe(4)
	defer cancelA()
	b, cancelB := feed.Subscribe(4)
	defer cancelB()

	entry := &types.StatusHistoryEntry{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		Status:        types.StatusApplied,
		CreatedAt:     feedNow,
	}
	feed.PublishStatusChange(entry)

	for _, ch := range []<-chan Event{a, b} {
		event := <-ch
		assert.Equal(t, EventStatusChange, event.Kind)
		require.NotNil(t, event.StatusChange)
		assert.Equal(t, entry.ID, event.StatusChange.ID)
		assert.Equal(t, feedNow, event.At)
	}
}

func TestFeed_SlowSubscriberDropsOldest(t *testing.T) {
	feed := NewFeed()
	slow, cancel := feed.Subscribe(2)
	defer cancel()

	for i := 0; i < 5; i++ {
		feed.PublishStaleFlag(&StaleFlag{
			ApplicationID: uuid.New(),
			IdleFor:       time.Duration(i) * time.Hour,
		})
	}

	// Buffer holds the newest two; the first three were dropped.
	first := <-slow
	second := <-slow
	assert.Equal(t, 3*time.Hour, first.StaleFlag.IdleFor)
	assert.Equal(t, 4*time.Hour, second.StaleFlag.IdleFor)

	select {
	case extra := <-slow:
		t.Fatalf("unexpected buffered event: %+v", extra)
	default:
	}
}

func TestFeed_CancelClosesChannel(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe(1)

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic or deliver.
	feed.PublishRecommendation(&Recommendation{})
	cancel()
}

func TestFeed_PublishWithoutSubscribers(t *testing.T) {
	feed := NewFeed()
	feed.Publish(Event{Kind: EventRecommendation})
}

func TestFeed_StampsTime(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe(1)
	defer cancel()

	feed.PublishStaleFlag(&StaleFlag{ApplicationID: uuid.New()})
	event := <-ch
	assert.False(t, event.At.IsZero())
}
