// Package history keeps a bounded, linear undo/redo log of project snapshots.
package history

import "github.com/rpggio/playmat/internal/domain/project"

// DefaultLimit is the maximum number of entries kept.
const DefaultLimit = 50

// Manager is a linear log of deep snapshots with a cursor. Once the first
// entry is pushed the cursor always points at a valid entry.
//
// Pushing after an undo discards every entry after the cursor. When the log
// exceeds its limit the oldest entries are dropped.
type Manager struct {
	entries   []project.State
	cursor    int
	limit     int
	replaying bool
}

// New returns an empty log holding at most limit entries. A limit below one
// selects DefaultLimit.
func New(limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{cursor: -1, limit: limit}
}

// Push records s as the newest entry. It is a no-op while a replay is running.
func (m *Manager) Push(s project.State) {
	if m.replaying {
		return
	}
	m.entries = append(m.entries[:m.cursor+1], s.Clone())
	if over := len(m.entries) - m.limit; over > 0 {
		m.entries = append([]project.State(nil), m.entries[over:]...)
	}
	m.cursor = len(m.entries) - 1
}

// ReplaceCurrent overwrites the entry at the cursor without moving it. It is
// used for derived updates that must not become their own undo step.
func (m *Manager) ReplaceCurrent(s project.State) {
	if m.replaying || m.cursor < 0 {
		return
	}
	m.entries[m.cursor] = s.Clone()
}

// Reset discards the log and records s as its only entry.
func (m *Manager) Reset(s project.State) {
	m.entries = []project.State{s.Clone()}
	m.cursor = 0
}

// Undo moves the cursor back and returns the entry there. It returns false
// when already at the oldest entry.
func (m *Manager) Undo() (project.State, bool) {
	if m.cursor <= 0 {
		return project.State{}, false
	}
	m.cursor--
	return m.entries[m.cursor].Clone(), true
}

// Redo moves the cursor forward and returns the entry there. It returns false
// when already at the newest entry.
func (m *Manager) Redo() (project.State, bool) {
	if m.cursor >= len(m.entries)-1 {
		return project.State{}, false
	}
	m.cursor++
	return m.entries[m.cursor].Clone(), true
}

// Replay runs apply with Push suppressed, so restoring an entry through the
// normal commit path does not re-enter the log.
func (m *Manager) Replay(apply func()) {
	m.replaying = true
	defer func() { m.replaying = false }()
	apply()
}

// Replaying reports whether a replay is in progress.
func (m *Manager) Replaying() bool {
	return m.replaying
}

// CanUndo reports whether Undo would move the cursor.
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (m *Manager) CanRedo() bool {
	return m.cursor < len(m.entries)-1
}

// Len returns the number of entries.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Cursor returns the index of the current entry, or -1 before the first push.
func (m *Manager) Cursor() int {
	return m.cursor
}

// Entry returns a copy of entry i.
func (m *Manager) Entry(i int) (project.State, bool) {
	if i < 0 || i >= len(m.entries) {
		return project.State{}, false
	}
	return m.entries[i].Clone(), true
}

// Status summarizes the log.
type Status struct {
	Length  int  `json:"length"`
	Cursor  int  `json:"cursor"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// Status returns a summary of the log.
func (m *Manager) Status() Status {
	return Status{Length: m.Len(), Cursor: m.cursor, CanUndo: m.CanUndo(), CanRedo: m.CanRedo()}
}
