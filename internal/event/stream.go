package event

import (
	"fmt"
	"time"
)

// DefaultTTL is how long an event stays eligible for frontend pickup once
// appended.
const DefaultTTL = 3000 * time.Millisecond

// Stream is an append-only event buffer with expiry and acknowledgement.
// Exported fields serialize with the owning game state.
type Stream struct {
	Events  []Event `json:"events"`
	Counter int     `json:"counter"`

	// now is swappable for tests; nil means time.Now.
	now func() time.Time
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// WithClock overrides the stream's wall clock. Tests only.
func (s *Stream) WithClock(now func() time.Time) *Stream {
	s.now = now
	return s
}

func (s *Stream) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Append records a new event and returns it. Event IDs follow the
// event_{timestamp}_{n} convention and timestamps are non-decreasing.
func (s *Stream) Append(t Type, data map[string]any) Event {
	s.Counter++
	ts := s.clock().UnixMilli()
	if n := len(s.Events); n > 0 && s.Events[n-1].Timestamp > ts {
		ts = s.Events[n-1].Timestamp
	}
	ev := Event{
		ID:        fmt.Sprintf("event_%d_%d", ts, s.Counter),
		Type:      t,
		Data:      data,
		Timestamp: ts,
		ExpiresAt: ts + DefaultTTL.Milliseconds(),
	}
	s.Events = append(s.Events, ev)
	return ev
}

// Mark flags the event with the given ID as processed by the frontend.
// Returns false if no such event exists.
func (s *Stream) Mark(id string) bool {
	for i := range s.Events {
		if s.Events[i].ID == id {
			s.Events[i].FrontendProcessed = true
			return true
		}
	}
	return false
}

// Find returns the event with the given ID, or nil.
func (s *Stream) Find(id string) *Event {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return &s.Events[i]
		}
	}
	return nil
}

// CleanExpired drops events that are both expired and acknowledged.
func (s *Stream) CleanExpired() {
	now := s.clock().UnixMilli()
	kept := s.Events[:0]
	for _, ev := range s.Events {
		if ev.ExpiresAt <= now && ev.FrontendProcessed {
			continue
		}
		kept = append(kept, ev)
	}
	s.Events = kept
}

// Since returns events appended after the given counter value.
func (s *Stream) Since(counter int) []Event {
	var out []Event
	for _, ev := range s.Events {
		var n int
		if _, err := fmt.Sscanf(ev.ID, "event_%d_%d", new(int64), &n); err == nil && n > counter {
			out = append(out, ev)
		}
	}
	return out
}

// OfType returns all buffered events of the given type, oldest first.
func (s *Stream) OfType(t Type) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Last returns the most recent event, or a zero event if the stream is empty.
func (s *Stream) Last() Event {
	if len(s.Events) == 0 {
		return Event{}
	}
	return s.Events[len(s.Events)-1]
}
