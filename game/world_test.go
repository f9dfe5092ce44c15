package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldJoinCreatesPlayer(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	ps := w.Join("a")

	assert.Equal(t, "a", ps.ID)
	assert.NotEmpty(t, ps.Name)
	assert.True(t, strings.HasPrefix(ps.Colour, "rgb("))
	assert.Equal(t, 1, ps.Level)
	assert.Equal(t, "", ps.Direction)
	require.Len(t, ps.Segments, 1)
	assert.Equal(t, 1, ps.Segments[0].Age)
	assert.True(t, w.grid.InBounds(Cell{ps.X, ps.Y}))
	assert.Equal(t, 1, w.NumPlayers())
}

func TestWorldJoinNamesFollowSeed(t *testing.T) {
	a := newTestWorld(Options{Wrap: true}).Join("p")
	b := newTestWorld(Options{Wrap: true}).Join("p")
	assert.Equal(t, a.Name, b.Name)
	assert.Contains(t, a.Name, "-")
}

func TestWorldJoinAgainKeepsAppearance(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	first := w.Join("a")
	w.players["a"].Level = 7
	second := w.Join("a")

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Colour, second.Colour)
	assert.Equal(t, 1, second.Level)
	assert.Equal(t, 1, w.NumPlayers())
}

func TestWorldHandlersIgnoreUnknownPlayer(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	assert.False(t, w.SetDirection("ghost", DirUp))
	assert.False(t, w.Rename("ghost", "boo"))
	assert.False(t, w.SetAvatar("ghost", "img"))
	assert.False(t, w.Leave("ghost"))
	assert.Equal(t, 0, w.NumPlayers())
}

func TestWorldSetDirectionRejectsNone(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	w.Join("a")
	assert.False(t, w.SetDirection("a", DirNone))
}

func TestWorldRename(t *testing.T) {
	w := NewWorld(Grid{Width: 10, Height: 10}, Options{}, WithMaxNameLen(5))
	w.Join("a")

	require.True(t, w.Rename("a", "  bob  "))
	p, _ := w.Player("a")
	assert.Equal(t, "bob", p.Name)

	require.True(t, w.Rename("a", ""))
	p, _ = w.Player("a")
	assert.Equal(t, "bob", p.Name)

	require.True(t, w.Rename("a", "蛇蛇蛇蛇蛇蛇蛇"))
	p, _ = w.Player("a")
	assert.Equal(t, "蛇蛇蛇蛇蛇", p.Name)
}

func TestWorldSetAvatar(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	w.Join("a")
	require.True(t, w.SetAvatar("a", "data:image/png;base64,AAAA"))
	p, _ := w.Player("a")
	assert.Equal(t, "data:image/png;base64,AAAA", p.Image)

	require.True(t, w.SetAvatar("a", ""))
	p, _ = w.Player("a")
	assert.Empty(t, p.Image)
}

func TestWorldLeave(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	w.Join("a")
	w.Join("b")
	assert.True(t, w.Leave("a"))
	_, ok := w.Player("a")
	assert.False(t, ok)
	assert.NotContains(t, w.Snapshot().Players, "a")
	assert.Contains(t, w.Snapshot().Players, "b")
}

func TestWorldSnapshotIsDeepCopy(t *testing.T) {
	w := newTestWorld(Options{Wrap: true, MaxCollectibles: 1})
	place(w, "a", Cell{1, 1}, 2, DirRight)
	res := w.Step()

	snap := res.Snapshot
	snap.Players["a"].Segments[0].X = 99
	snap.Collectibles[0].X = 99

	assert.NotEqual(t, 99, w.players["a"].Segments[0].X)
	assert.NotEqual(t, 99, w.collectibles[0].X)
	assert.True(t, snap.Options.Wrap)
	assert.Equal(t, 30, snap.Width)
	assert.Equal(t, 25, snap.Height)
	assert.Equal(t, "right", snap.Players["a"].Direction)
}

func TestWorldSetOptions(t *testing.T) {
	w := newTestWorld(Options{Wrap: true, MaxCollectibles: 1})
	w.SetOptions(Options{Wrap: false, MaxCollectibles: -3})
	o := w.Options()
	assert.False(t, o.Wrap)
	assert.Equal(t, 0, o.MaxCollectibles)

	w.Step()
	assert.Empty(t, w.collectibles)
}

func TestWorldLeaderboard(t *testing.T) {
	w := newTestWorld(Options{Wrap: true})
	place(w, "a", Cell{1, 1}, 2, DirNone)
	place(w, "b", Cell{3, 3}, 5, DirNone)
	place(w, "c", Cell{5, 5}, 2, DirNone)

	lb := w.Leaderboard(0)
	require.Len(t, lb, 3)
	assert.Equal(t, "b", lb[0].ID)
	assert.Equal(t, "a", lb[1].ID)
	assert.Equal(t, "c", lb[2].ID)

	assert.Len(t, w.Leaderboard(2), 2)
}

func TestSpawnCellFallsBackWhenFull(t *testing.T) {
	w := NewWorld(Grid{Width: 2, Height: 1}, Options{Wrap: true})
	place(w, "a", Cell{0, 0}, 1, DirNone)
	place(w, "b", Cell{1, 0}, 1, DirNone)
	// 网格已满，出生仍然在有限次尝试后返回
	c := w.spawnCell()
	assert.True(t, w.grid.InBounds(c))
}
