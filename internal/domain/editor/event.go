package editor

import (
	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/rpggio/playmat/internal/domain/selection"
)

// Event is broadcast to subscribers after every change.
type Event struct {
	Kind    activity.Type
	Summary string
	// State is what the render surface should draw: the committed state with
	// any in-progress gesture applied.
	State     project.State
	Selection selection.Snapshot
	// Settled is false for selection changes and gesture updates, which are
	// neither recorded in history nor persisted.
	Settled bool
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive events and returns a function that
// removes it. Events are delivered synchronously, after the session lock is
// released, in the order changes were applied.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// eventLocked builds an event and snapshots the subscriber list.
func (s *Session) eventLocked(kind activity.Type, summary string, settled bool) (Event, []subscriber) {
	ev := Event{
		Kind:      kind,
		Summary:   summary,
		State:     s.viewLocked(),
		Selection: s.selection.Snapshot(),
		Settled:   settled,
	}
	return ev, append([]subscriber(nil), s.subs...)
}

func deliver(ev Event, subs []subscriber) {
	for _, sub := range subs {
		sub.fn(ev)
	}
}
