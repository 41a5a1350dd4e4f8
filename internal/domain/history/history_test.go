package history_test

import (
	"fmt"
	"testing"

	"github.com/rpggio/playmat/internal/domain/history"
	"github.com/rpggio/playmat/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func named(name string) project.State {
	return project.SetProjectName(project.Defaults(), name)
}

func TestPush_Bound(t *testing.T) {
	m := history.New(history.DefaultLimit)
	for i := 1; i <= 60; i++ {
		m.Push(named(fmt.Sprintf("push-%d", i)))
	}
	require.Equal(t, 50, m.Len())
	require.Equal(t, 49, m.Cursor())

	first, ok := m.Entry(0)
	require.True(t, ok)
	require.Equal(t, "push-11", first.ProjectName)

	last, _ := m.Entry(49)
	require.Equal(t, "push-60", last.ProjectName)
}

func TestUndoRedoSymmetry(t *testing.T) {
	m := history.New(0)
	s1, _ := project.AddZone(project.Defaults(), project.ZonePatch{})
	s2, _ := project.AddZone(s1, project.ZonePatch{Fill: project.Ptr("red")})
	m.Push(s1)
	m.Push(s2)

	u, ok := m.Undo()
	require.True(t, ok)
	require.Equal(t, s1, u)

	r, ok := m.Redo()
	require.True(t, ok)
	require.Equal(t, s2, r)
}

func TestUndoTruncatesFuture(t *testing.T) {
	m := history.New(0)
	m.Push(named("s1"))
	m.Push(named("s2"))
	m.Push(named("s3"))
	_, ok := m.Undo()
	require.True(t, ok)
	m.Push(named("s4"))

	_, ok = m.Redo()
	require.False(t, ok, "s3 is unreachable")
	require.Equal(t, 3, m.Len())

	cur, _ := m.Entry(m.Cursor())
	require.Equal(t, "s4", cur.ProjectName)
}

func TestUndoNeverPassesInitialEntry(t *testing.T) {
	m := history.New(0)
	_, ok := m.Undo()
	require.False(t, ok)

	m.Push(named("initial"))
	require.Equal(t, 0, m.Cursor())
	_, ok = m.Undo()
	require.False(t, ok)
	_, ok = m.Redo()
	require.False(t, ok)
	require.Equal(t, 0, m.Cursor())
}

func TestReplaySuppressesPush(t *testing.T) {
	m := history.New(0)
	m.Push(named("a"))
	m.Push(named("b"))

	prev, _ := m.Undo()
	m.Replay(func() {
		require.True(t, m.Replaying())
		m.Push(prev)
	})
	require.False(t, m.Replaying())
	require.Equal(t, 2, m.Len())
	require.Equal(t, 0, m.Cursor())
	require.True(t, m.CanRedo())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	m := history.New(0)
	s, _ := project.AddZone(project.Defaults(), project.ZonePatch{})
	m.Push(s)
	s.Zones[0].Fill = "mutated"

	got, _ := m.Entry(0)
	require.NotEqual(t, "mutated", got.Zones[0].Fill)

	got.Zones[0].Fill = "mutated again"
	again, _ := m.Entry(0)
	require.NotEqual(t, "mutated again", again.Zones[0].Fill)
}

func TestReplaceCurrentAndReset(t *testing.T) {
	m := history.New(0)
	m.Push(named("a"))
	m.Push(named("b"))
	m.ReplaceCurrent(named("b-fitted"))
	require.Equal(t, 2, m.Len())
	cur, _ := m.Entry(1)
	require.Equal(t, "b-fitted", cur.ProjectName)

	m.Reset(named("fresh"))
	require.Equal(t, history.Status{Length: 1, Cursor: 0}, m.Status())
}

func TestSmallLimit(t *testing.T) {
	m := history.New(3)
	for i := 0; i < 5; i++ {
		m.Push(named(fmt.Sprint(i)))
	}
	require.Equal(t, 3, m.Len())
	require.Equal(t, 2, m.Cursor())
	first, _ := m.Entry(0)
	require.Equal(t, "2", first.ProjectName)
}
