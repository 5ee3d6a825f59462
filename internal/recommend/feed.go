package recommend

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-match-engine/internal/types"
)

// Event kinds on the feed
const (
	EventStatusChange   = "status_change"
	EventStaleFlag      = "stale_flag"
	EventRecommendation = "recommendation"
)

// Event is one feed entry. Exactly one of the payload fields is set,
// matching Kind.
type Event struct {
	Kind string    `json:"kind"`
	At   time.Time `json:"at"`

	StatusChange   *types.StatusHistoryEntry `json:"status_change,omitempty"`
	StaleFlag      *StaleFlag                `json:"stale_flag,omitempty"`
	Recommendation *Recommendation           `json:"recommendation,omitempty"`
}

// StaleFlag announces an application that crossed the idle threshold.
type StaleFlag struct {
	ApplicationID uuid.UUID     `json:"application_id"`
	JobID         uuid.UUID     `json:"job_id"`
	IdleFor       time.Duration `json:"idle_for"`
}

// Feed fans events out to subscribers. A slow subscriber loses its oldest
// buffered events rather than blocking publishers or other subscribers.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber with the given buffer size and returns its
// channel plus a cancel function. Cancelling closes the channel.
func (f *Feed) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if existing, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking. When a
// subscriber's buffer is full its oldest event is dropped to make room.
func (f *Feed) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		for {
			select {
			case ch <- event:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// PublishStatusChange puts a transition on the feed.
func (f *Feed) PublishStatusChange(entry *types.StatusHistoryEntry) {
	f.Publish(Event{Kind: EventStatusChange, At: entry.CreatedAt, StatusChange: entry})
}

// PublishStaleFlag puts a stale-application alert on the feed.
func (f *Feed) PublishStaleFlag(flag *StaleFlag) {
	f.Publish(Event{Kind: EventStaleFlag, StaleFlag: flag})
}

// PublishRecommendation puts a new high-score recommendation on the feed.
func (f *Feed) PublishRecommendation(rec *Recommendation) {
	f.Publish(Event{Kind: EventRecommendation, Recommendation: rec})
}
