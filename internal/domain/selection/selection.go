// Package selection tracks the primary selection and the auxiliary
// multi-selection of the editor.
package selection

import "slices"

// BackgroundID is the primary id used when the background image is selected.
const BackgroundID = "background"

// Snapshot is a copy of the selection. MultiIDs is ordered by toggle time.
type Snapshot struct {
	PrimaryID string   `json:"primaryId,omitempty"`
	MultiIDs  []string `json:"multiIds"`
}

// Manager holds the selection. The zero value is an empty selection.
//
// The primary id is a zone id, BackgroundID or empty. The background never
// joins the multi-selection.
type Manager struct {
	primary string
	multi   []string
}

// New returns an empty selection.
func New() *Manager {
	return &Manager{}
}

// Primary returns the primary id, or "" when nothing is selected.
func (m *Manager) Primary() string {
	return m.primary
}

// IsBackground reports whether the background is the primary selection.
func (m *Manager) IsBackground() bool {
	return m.primary == BackgroundID
}

// MultiIDs returns a copy of the multi-selection, or nil when it is empty.
func (m *Manager) MultiIDs() []string {
	if len(m.multi) == 0 {
		return nil
	}
	return slices.Clone(m.multi)
}

// Contains reports whether id is the primary or in the multi-selection.
func (m *Manager) Contains(id string) bool {
	return id != "" && (m.primary == id || slices.Contains(m.multi, id))
}

// Empty reports whether nothing is selected.
func (m *Manager) Empty() bool {
	return m.primary == "" && len(m.multi) == 0
}

// Replace handles a plain click: the clicked id becomes the only selection.
// An empty id (a click on empty space) clears the selection.
func (m *Manager) Replace(id string) {
	m.primary = id
	m.multi = nil
	if id != "" && id != BackgroundID {
		m.multi = []string{id}
	}
}

// Toggle handles a modifier-held click: id joins or leaves the
// multi-selection and becomes the primary. It returns false, changing
// nothing, for the background or an empty id.
func (m *Manager) Toggle(id string) bool {
	if id == "" || id == BackgroundID {
		return false
	}
	if m.primary == BackgroundID {
		m.primary = ""
	}
	if i := slices.Index(m.multi, id); i >= 0 {
		m.multi = slices.Delete(m.multi, i, i+1)
	} else {
		m.multi = append(m.multi, id)
	}
	m.primary = id
	return true
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.primary = ""
	m.multi = nil
}

// Targets returns the zone ids a property edit applies to: the whole
// multi-selection when the primary belongs to it, otherwise the primary alone.
// The primary is always first.
func (m *Manager) Targets() []string {
	if m.primary == "" || m.primary == BackgroundID {
		return nil
	}
	if !slices.Contains(m.multi, m.primary) {
		return []string{m.primary}
	}
	out := make([]string, 0, len(m.multi))
	out = append(out, m.primary)
	for _, id := range m.multi {
		if id != m.primary {
			out = append(out, id)
		}
	}
	return out
}

// Forget drops ids from the selection. If the primary is among them the
// whole selection is cleared.
func (m *Manager) Forget(ids []string) {
	if slices.Contains(ids, m.primary) {
		m.Clear()
		return
	}
	m.multi = slices.DeleteFunc(m.multi, func(id string) bool {
		return slices.Contains(ids, id)
	})
}

// Retain drops selected zone ids for which exists returns false. The
// background selection is kept.
func (m *Manager) Retain(exists func(id string) bool) {
	if m.primary != "" && m.primary != BackgroundID && !exists(m.primary) {
		m.primary = ""
	}
	m.multi = slices.DeleteFunc(m.multi, func(id string) bool { return !exists(id) })
}

// Snapshot copies the selection.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{PrimaryID: m.primary, MultiIDs: m.MultiIDs()}
}

// Restore replaces the selection with snap.
func (m *Manager) Restore(snap Snapshot) {
	m.primary = snap.PrimaryID
	m.multi = slices.DeleteFunc(slices.Clone(snap.MultiIDs), func(id string) bool { return id == BackgroundID })
}
