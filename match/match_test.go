package match

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/engine"
)

func newMatch(t *testing.T, mod func(*config.Config)) *Match {
	t.Helper()
	cfg := config.Default()
	cfg.Match.Seed = 42
	if mod != nil {
		mod(&cfg)
	}
	return New(cfg)
}

// drain empties the message channel.
func drain(m *Match) []Message {
	var out []Message
	for {
		select {
		case msg := <-m.Messages:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func place(t *testing.T, m *Match, id string, x, y float64) {
	t.Helper()
	r := m.Robot(id)
	require.NotNil(t, r, id)
	r.X, r.Y = x, y
	r.Heading, r.DesiredHeading = 0, 0
	r.Turret, r.DesiredTurret = 0, 0
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "STOPPED", StatusStopped.String())
	assert.Equal(t, "READY", StatusReady.String())
	assert.Equal(t, "RUNNING", StatusRunning.String())
	assert.Equal(t, "PAUSED", StatusPaused.String())
	assert.Equal(t, "GAME_OVER", StatusGameOver.String())
	assert.Equal(t, "Compile Error", MsgCompileError.String())
}

func TestSetRosterSpawns(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{
		{ID: "a", Color: "#f00"},
		{ID: "b", Name: "Bravo", Color: "#0f0"},
		{ID: "c", Color: "#00f"},
	}))

	cfg := m.Config()
	w := m.World()
	require.Len(t, w.Robots, 3)
	assert.Equal(t, "a", w.Robots[0].Name)
	assert.Equal(t, "Bravo", w.Robots[1].Name)
	for i, r := range w.Robots {
		assert.GreaterOrEqual(t, r.X, cfg.Spawn.Margin)
		assert.LessOrEqual(t, r.X, cfg.Arena.Width-cfg.Spawn.Margin)
		assert.GreaterOrEqual(t, r.Y, cfg.Spawn.Margin)
		assert.LessOrEqual(t, r.Y, cfg.Arena.Height-cfg.Spawn.Margin)
		assert.Equal(t, r.Heading, math.Trunc(r.Heading))
		for _, o := range w.Robots[i+1:] {
			assert.GreaterOrEqual(t, math.Hypot(r.X-o.X, r.Y-o.Y), cfg.Spawn.Separation)
		}
	}
}

func TestSpawnHeadingsAreIndependent(t *testing.T) {
	m := newMatch(t, nil)
	var bots []Bot
	for i := range 10 {
		bots = append(bots, Bot{ID: fmt.Sprintf("bot-%d", i)})
	}
	require.NoError(t, m.SetRoster(bots))

	differ := 0
	for _, r := range m.World().Robots {
		assert.Equal(t, r.Turret, math.Trunc(r.Turret))
		assert.Equal(t, r.Turret, r.DesiredTurret)
		if r.Turret != r.Heading {
			differ++
		}
	}
	assert.Positive(t, differ, "turret drawn apart from the chassis")
}

func TestSetRosterValidation(t *testing.T) {
	m := newMatch(t, nil)
	assert.ErrorIs(t, m.SetRoster([]Bot{{ID: "a"}, {ID: "a"}}), ErrDuplicateID)
	assert.ErrorIs(t, m.SetRoster([]Bot{{ID: ""}}), ErrEmptyID)
	assert.Empty(t, m.World().Robots)
}

func TestSetRosterRefusedInProgress(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}}))
	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.SetRoster([]Bot{{ID: "b"}}), ErrInProgress)
	require.NoError(t, m.Pause())
	assert.ErrorIs(t, m.SetRoster([]Bot{{ID: "b"}}), ErrInProgress)
	assert.ErrorIs(t, m.Ready(), ErrInProgress)
	assert.Equal(t, []Bot{{ID: "a"}}, m.Roster())
}

func TestSetRosterKeepsPositionAndStats(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}, {ID: "b"}}))
	a := m.Robot("a")
	x, y, heading := a.X, a.Y, a.Heading
	a.Health = 40
	a.Ammo[1] = 3

	// Stopped: stats survive a recompile.
	require.NoError(t, m.SetRoster([]Bot{{ID: "a", Source: "MOVE 3"}, {ID: "b"}}))
	a = m.Robot("a")
	assert.Equal(t, x, a.X)
	assert.Equal(t, y, a.Y)
	assert.Equal(t, heading, a.Heading)
	assert.Equal(t, 40., a.Health)
	assert.Equal(t, 3, a.Ammo[1])
	assert.Equal(t, 1, a.Program.Len())

	// Ready: everybody is fully repaired.
	require.NoError(t, m.Ready())
	assert.Equal(t, StatusReady, m.Status())
	a = m.Robot("a")
	assert.Equal(t, x, a.X)
	assert.Equal(t, 100., a.Health)

	a.Health = 10
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}, {ID: "b"}}))
	assert.Equal(t, 100., m.Robot("a").Health)

	// Removed robots disappear.
	require.NoError(t, m.SetRoster([]Bot{{ID: "b"}}))
	assert.Nil(t, m.Robot("a"))
	assert.Len(t, m.World().Robots, 1)
}

func TestCompileErrorReported(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a", Source: "SET A 1\nBOOM"}}))

	r := m.Robot("a")
	require.NotNil(t, r)
	assert.Error(t, r.Err)
	assert.True(t, r.Alive())

	var found bool
	for _, msg := range drain(m) {
		if msg.Type == MsgCompileError {
			found = true
			assert.Equal(t, "a", msg.RobotID)
			assert.Contains(t, msg.Message, "BOOM")
		}
	}
	assert.True(t, found)
}

func TestLifecycle(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a", Source: "ADD N 1"}, {ID: "b"}}))
	ctx := context.Background()

	assert.False(t, m.Tick(ctx), "stopped")
	assert.ErrorIs(t, m.Pause(), ErrNotRunning)
	assert.ErrorIs(t, m.Resume(), ErrNotPaused)

	require.NoError(t, m.Start())
	assert.Equal(t, StatusRunning, m.Status())
	assert.True(t, m.Tick(ctx))
	assert.Equal(t, 1, m.World().Tick)
	n, _ := m.Robot("a").Regs.Get("N")
	assert.Equal(t, 5., n, "configured cycles per tick")

	require.NoError(t, m.Pause())
	assert.False(t, m.Tick(ctx))
	assert.Equal(t, 1, m.World().Tick)

	require.NoError(t, m.Resume())
	assert.True(t, m.Tick(ctx))
	assert.Equal(t, 2, m.World().Tick)

	m.Stop()
	assert.Equal(t, StatusStopped, m.Status())

	// Restarting from stopped begins a new match at the same place.
	x := m.Robot("a").X
	require.NoError(t, m.Start())
	assert.Equal(t, 0, m.World().Tick)
	assert.Equal(t, x, m.Robot("a").X)
	n, _ = m.Robot("a").Regs.Get("N")
	assert.Zero(t, n)

	var statuses []string
	for _, msg := range drain(m) {
		if msg.Type == MsgStatus {
			statuses = append(statuses, msg.Message)
		}
	}
	assert.Equal(t, []string{"RUNNING", "PAUSED", "RUNNING", "STOPPED", "RUNNING"}, statuses)
}

func TestGameOverWinner(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{
		{ID: "a", Source: "SET AIM 0\nSET WEAPON 2\nFIRE"},
		{ID: "b"},
	}))
	place(t, m, "a", 100, 300)
	place(t, m, "b", 300, 300)

	require.NoError(t, m.Start())
	_, ok := m.Winner()
	assert.False(t, ok)

	m.Robot("b").Health = 1
	assert.True(t, m.Tick(context.Background()))

	assert.Equal(t, StatusGameOver, m.Status())
	winner, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, "a", winner)
	assert.False(t, m.Tick(context.Background()))

	var over, destroyed bool
	for _, msg := range drain(m) {
		switch msg.Type {
		case MsgGameOver:
			over = true
			assert.Equal(t, "a", msg.RobotID)
		case MsgEvent:
			if msg.Event.Kind == engine.EvRobotDestroyed {
				destroyed = true
				assert.Equal(t, "b", msg.Event.RobotID)
			}
		}
	}
	assert.True(t, over)
	assert.True(t, destroyed)

	// Play again: full health at the same place.
	require.NoError(t, m.Start())
	assert.Equal(t, StatusRunning, m.Status())
	assert.Equal(t, 100., m.Robot("b").Health)
	assert.Equal(t, 300., m.Robot("b").X)
}

func TestDrawOnMaxTicks(t *testing.T) {
	m := newMatch(t, func(cfg *config.Config) { cfg.Match.MaxTicks = 3 })
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, StatusGameOver, m.Status())
	assert.Equal(t, 3, m.World().Tick)
	_, ok := m.Winner()
	assert.False(t, ok, "draw")
}

func TestSoloNeverEnds(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}}))
	require.NoError(t, m.Start())
	for range 20 {
		require.True(t, m.Tick(context.Background()))
	}
	assert.Equal(t, StatusRunning, m.Status())
}

func TestRunInterrupted(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestStep(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a", Source: "ADD N 1\nADD N 1"}}))

	require.NoError(t, m.Step(context.Background()))
	n, _ := m.Robot("a").Regs.Get("N")
	assert.Equal(t, 1., n, "one instruction per step")
	assert.Equal(t, 1, m.Robot("a").PC)
	assert.Equal(t, StatusStopped, m.Status())

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Step(context.Background()), ErrInProgress)
}

func TestReset(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}, {ID: "b"}}))
	place(t, m, "a", 1, 1)
	require.NoError(t, m.Start())
	m.Tick(context.Background())

	m.Reset()
	assert.Equal(t, StatusStopped, m.Status())
	assert.Equal(t, 0, m.World().Tick)
	assert.NotEqual(t, 1., m.Robot("a").X)
	assert.Len(t, m.World().Robots, 2)
}

func TestRecompile(t *testing.T) {
	m := newMatch(t, nil)
	require.NoError(t, m.SetRoster([]Bot{{ID: "a"}}))
	x := m.Robot("a").X

	require.NoError(t, m.Recompile("a", "MOVE 5\nTURN 90"))
	assert.Equal(t, 2, m.Robot("a").Program.Len())
	assert.Equal(t, x, m.Robot("a").X)
	assert.Equal(t, "MOVE 5\nTURN 90", m.Roster()[0].Source)

	assert.ErrorIs(t, m.Recompile("zz", ""), ErrUnknownRobot)
}

func TestSeedDeterminism(t *testing.T) {
	bots := []Bot{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	m1, m2 := newMatch(t, nil), newMatch(t, nil)
	require.NoError(t, m1.SetRoster(bots))
	require.NoError(t, m2.SetRoster(bots))
	assert.Equal(t, uint64(42), m1.Seed())
	for i := range bots {
		assert.Equal(t, m1.World().Robots[i].X, m2.World().Robots[i].X)
		assert.Equal(t, m1.World().Robots[i].Heading, m2.World().Robots[i].Heading)
	}
}

func TestMessagesNeverBlock(t *testing.T) {
	m := newMatch(t, func(cfg *config.Config) { cfg.Match.MessageBuffer = 1 })
	require.NoError(t, m.SetRoster([]Bot{{ID: "a", Source: "FIRE"}, {ID: "b", Source: "FIRE"}}))
	require.NoError(t, m.Start())
	for range 50 {
		m.Tick(context.Background())
	}
	assert.Len(t, drain(m), 1)
}
