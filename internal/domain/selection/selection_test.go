package selection_test

import (
	"testing"

	"github.com/rpggio/playmat/internal/domain/selection"
	"github.com/stretchr/testify/require"
)

func TestReplace(t *testing.T) {
	m := selection.New()
	m.Toggle("a")
	m.Toggle("b")

	m.Replace("c")
	require.Equal(t, "c", m.Primary())
	require.Equal(t, []string{"c"}, m.MultiIDs())

	m.Replace("")
	require.True(t, m.Empty())

	m.Replace(selection.BackgroundID)
	require.True(t, m.IsBackground())
	require.Empty(t, m.MultiIDs(), "background never joins the multi-selection")
}

func TestToggle(t *testing.T) {
	m := selection.New()
	require.True(t, m.Toggle("a"))
	require.True(t, m.Toggle("b"))
	require.Equal(t, "b", m.Primary())
	require.Equal(t, []string{"a", "b"}, m.MultiIDs())

	require.True(t, m.Toggle("a"))
	require.Equal(t, "a", m.Primary(), "primary follows the most recent toggle")
	require.Equal(t, []string{"b"}, m.MultiIDs())

	require.False(t, m.Toggle(selection.BackgroundID))
	require.Equal(t, "a", m.Primary())
}

func TestToggleAfterBackground(t *testing.T) {
	m := selection.New()
	m.Replace(selection.BackgroundID)
	require.True(t, m.Toggle("a"))
	require.Equal(t, "a", m.Primary())
	require.Equal(t, []string{"a"}, m.MultiIDs())
}

func TestTargets(t *testing.T) {
	m := selection.New()
	require.Nil(t, m.Targets())

	m.Replace("a")
	require.Equal(t, []string{"a"}, m.Targets())

	m.Toggle("b")
	m.Toggle("c")
	require.Equal(t, []string{"c", "a", "b"}, m.Targets())

	m.Toggle("c")
	require.Equal(t, "c", m.Primary())
	require.Equal(t, []string{"c"}, m.Targets(), "primary outside the set edits alone")

	m.Replace(selection.BackgroundID)
	require.Nil(t, m.Targets())
}

func TestForget(t *testing.T) {
	m := selection.New()
	m.Toggle("a")
	m.Toggle("b")
	m.Forget([]string{"a"})
	require.Equal(t, "b", m.Primary())
	require.Equal(t, []string{"b"}, m.MultiIDs())

	m.Forget([]string{"b"})
	require.True(t, m.Empty())
}

func TestRetain(t *testing.T) {
	m := selection.New()
	m.Toggle("a")
	m.Toggle("b")
	m.Retain(func(id string) bool { return id == "a" })
	require.Equal(t, "", m.Primary())
	require.Equal(t, []string{"a"}, m.MultiIDs())
}

func TestSnapshotRestore(t *testing.T) {
	m := selection.New()
	m.Toggle("a")
	m.Toggle("b")
	snap := m.Snapshot()

	m.Clear()
	require.True(t, m.Empty())

	m.Restore(snap)
	require.Equal(t, "b", m.Primary())
	require.Equal(t, []string{"a", "b"}, m.MultiIDs())

	snap.MultiIDs[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, m.MultiIDs())
}
