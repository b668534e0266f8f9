// Package match drives a whole game: the roster, the status machine,
// the tick loop and the reporting around the engine.
//
// A Match is not safe for concurrent use. Viewers call it from their
// own update loop.
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/engine"
	"go.creack.net/robotwar/metrics"
	"go.creack.net/robotwar/spawn"
	"go.creack.net/robotwar/vm"
)

// Status of the match.
type Status int

// Status values.
const (
	StatusStopped Status = iota
	StatusReady
	StatusRunning
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "STOPPED"
	case StatusReady:
		return "READY"
	case StatusRunning:
		return "RUNNING"
	case StatusPaused:
		return "PAUSED"
	case StatusGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// Common errors.
var (
	ErrInProgress   = errors.New("match in progress")
	ErrNotRunning   = errors.New("match not running")
	ErrNotPaused    = errors.New("match not paused")
	ErrUnknownRobot = errors.New("unknown robot")
	ErrDuplicateID  = errors.New("duplicate robot id")
	ErrEmptyID      = errors.New("empty robot id")
)

// Bot is a roster entry.
type Bot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Source string `json:"source"`
}

// Match owns the world and the roster.
type Match struct {
	cfg     config.Config
	engine  *engine.Engine
	spawner *spawn.Spawner
	seed    uint64
	log     zerolog.Logger
	rec     *metrics.Recorder

	status Status
	roster []Bot
	world  engine.World
	winner string

	// Messages is where the match reports what happens.
	// Sends never block: messages are dropped when nobody reads.
	Messages chan Message
}

// Option customizes a match.
type Option func(*Match)

// WithLogger sets the logger. Defaults to a disabled one.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Match) { m.log = log }
}

// WithRecorder sets the metrics recorder. Defaults to one on the global meter.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(m *Match) { m.rec = rec }
}

// New creates a stopped match with an empty roster.
// The seed comes from the config, 0 picks a random one.
func New(cfg config.Config, opts ...Option) *Match {
	seed := cfg.Match.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	m := &Match{
		cfg:      cfg,
		engine:   engine.New(cfg),
		spawner:  spawn.New(cfg, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		seed:     seed,
		log:      zerolog.Nop(),
		Messages: make(chan Message, max(cfg.Match.MessageBuffer, 1)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rec == nil {
		rec, err := metrics.New()
		if err != nil {
			m.log.Warn().Err(err).Msg("Metrics disabled")
		}
		m.rec = rec
	}
	return m
}

// Seed returns the seed of the random source.
func (m *Match) Seed() uint64 { return m.seed }

// Config returns the constants table in use.
func (m *Match) Config() config.Config { return m.cfg }

// Status returns the current status.
func (m *Match) Status() Status { return m.status }

// World returns the current world. It must not be modified.
func (m *Match) World() engine.World { return m.world }

// Roster returns a copy of the roster.
func (m *Match) Roster() []Bot { return append([]Bot(nil), m.roster...) }

// Robot looks up a robot by id.
func (m *Match) Robot(id string) *vm.Robot { return m.world.Robot(id) }

// Winner returns the sole survivor of a finished match.
// ok is false while the match is not over and for a draw.
func (m *Match) Winner() (id string, ok bool) {
	if m.status != StatusGameOver || m.winner == "" {
		return "", false
	}
	return m.winner, true
}

func (m *Match) send(msg Message) {
	select {
	case m.Messages <- msg:
	default:
		m.log.Trace().Stringer("type", msg.Type).Msg("Message dropped")
	}
}

func (m *Match) setStatus(s Status) {
	if m.status == s {
		return
	}
	m.log.Info().Stringer("from", m.status).Stringer("to", s).Int("tick", m.world.Tick).Msg("Status changed")
	m.status = s
	m.send(NewMessage(MsgStatus, "", s.String()))
}

func (m *Match) editable() error {
	if m.status == StatusRunning || m.status == StatusPaused {
		return fmt.Errorf("%w: %s", ErrInProgress, m.status)
	}
	return nil
}

// build compiles a bot into a robot. Compile errors are reported,
// the robot still exists with an empty program.
func (m *Match) build(b Bot, x, y, heading, turret float64) *vm.Robot {
	name := b.Name
	if name == "" {
		name = b.ID
	}
	r := m.engine.Machine().NewRobot(b.ID, b.Color, b.Source, x, y, vm.WithName(name), vm.WithHeading(heading, turret))
	if r.Err != nil {
		m.log.Warn().Err(r.Err).Str("robot", b.ID).Msg("Compile failed")
		m.send(NewMessage(MsgCompileError, b.ID, r.Err.Error()))
	}
	return r
}

// spawnPoints lists the positions of the given robots.
func spawnPoints(robots []*vm.Robot) []spawn.Point {
	out := make([]spawn.Point, 0, len(robots))
	for _, r := range robots {
		out = append(out, spawn.Point{X: r.X, Y: r.Y})
	}
	return out
}

func (m *Match) fresh(b Bot, placed []*vm.Robot) *vm.Robot {
	p := m.spawner.Point(spawnPoints(placed))
	heading, turret := m.spawner.Heading(), m.spawner.Heading()
	return m.build(b, p.X, p.Y, heading, turret)
}

func validate(bots []Bot) error {
	seen := make(map[string]bool, len(bots))
	for i, b := range bots {
		if b.ID == "" {
			return fmt.Errorf("bot %d: %w", i, ErrEmptyID)
		}
		if seen[b.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateID, b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// SetRoster replaces the roster. Refused while the match is in progress.
//
// Robots already in the arena are recompiled in place, keeping their
// position and headings. Their combat stats are kept too, unless the
// match is READY where everybody starts fresh. New robots are spawned
// at a random free point. Robots not in the roster are removed.
func (m *Match) SetRoster(bots []Bot) error {
	if err := m.editable(); err != nil {
		return err
	}
	if err := validate(bots); err != nil {
		return err
	}

	preserve := m.status != StatusReady
	robots := make([]*vm.Robot, 0, len(bots))
	for _, b := range bots {
		prev := m.world.Robot(b.ID)
		if prev == nil {
			robots = append(robots, m.fresh(b, robots))
			m.log.Debug().Str("robot", b.ID).Msg("Robot spawned")
			continue
		}
		r := m.build(b, prev.X, prev.Y, prev.Heading, prev.Turret)
		r.DesiredHeading, r.DesiredTurret = prev.DesiredHeading, prev.DesiredTurret
		if preserve {
			r.Restore(prev)
		}
		robots = append(robots, r)
	}

	m.roster = append([]Bot(nil), bots...)
	m.world.Robots = robots
	m.log.Info().Int("robots", len(robots)).Bool("preserved", preserve).Msg("Roster updated")
	return nil
}

// Recompile replaces the source of a single robot.
func (m *Match) Recompile(id, source string) error {
	bots := m.Roster()
	for i := range bots {
		if bots[i].ID == id {
			bots[i].Source = source
			return m.SetRoster(bots)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownRobot, id)
}

// restart rebuilds every robot with a fresh VM and full stats at its
// current position and clears the arena.
func (m *Match) restart() {
	robots := make([]*vm.Robot, 0, len(m.roster))
	for _, b := range m.roster {
		if prev := m.world.Robot(b.ID); prev != nil {
			robots = append(robots, m.build(b, prev.X, prev.Y, prev.Heading, prev.Turret))
			continue
		}
		robots = append(robots, m.fresh(b, robots))
	}
	m.world = engine.World{Robots: robots}
	m.winner = ""
}

// Ready prepares a new match: fresh robots where they stand.
func (m *Match) Ready() error {
	if err := m.editable(); err != nil {
		return err
	}
	m.restart()
	m.setStatus(StatusReady)
	return nil
}

// Start runs the match. A stopped or finished match is restarted first,
// keeping the positions. A paused match resumes.
func (m *Match) Start() error {
	switch m.status {
	case StatusRunning:
		return nil
	case StatusStopped, StatusGameOver:
		m.restart()
	}
	m.setStatus(StatusRunning)
	return nil
}

// Pause suspends a running match.
func (m *Match) Pause() error {
	if m.status != StatusRunning {
		return fmt.Errorf("%w: %s", ErrNotRunning, m.status)
	}
	m.setStatus(StatusPaused)
	return nil
}

// Resume continues a paused match.
func (m *Match) Resume() error {
	if m.status != StatusPaused {
		return fmt.Errorf("%w: %s", ErrNotPaused, m.status)
	}
	m.setStatus(StatusRunning)
	return nil
}

// Stop halts the match, leaving the arena as is.
func (m *Match) Stop() {
	m.setStatus(StatusStopped)
}

// Reset stops the match and scatters fresh robots at random positions.
func (m *Match) Reset() {
	robots := make([]*vm.Robot, 0, len(m.roster))
	for _, b := range m.roster {
		robots = append(robots, m.fresh(b, robots))
	}
	m.world = engine.World{Robots: robots}
	m.winner = ""
	m.setStatus(StatusStopped)
}

func (m *Match) advance(ctx context.Context, cycles int) {
	m.world = m.engine.Advance(m.world, cycles)
	if m.rec != nil {
		m.rec.Tick(ctx)
		m.rec.RecordAll(ctx, m.world.Events)
	}
	for _, ev := range m.world.Events {
		if ev.Kind == engine.EvRobotDestroyed {
			m.log.Info().Str("robot", ev.RobotID).Str("by", ev.OtherID).Int("tick", ev.Tick).Msg("Robot destroyed")
		}
		m.send(eventMessage(ev))
	}
}

// over tells whether the fight is decided.
func (m *Match) over() bool {
	if len(m.roster) > 1 && len(m.world.Alive()) <= 1 {
		return true
	}
	return m.cfg.Match.MaxTicks > 0 && m.world.Tick >= m.cfg.Match.MaxTicks
}

func (m *Match) finish(ctx context.Context) {
	m.winner = ""
	if alive := m.world.Alive(); len(alive) == 1 {
		m.winner = alive[0].ID
	}
	if m.rec != nil {
		m.rec.MatchOver(ctx, m.winner)
	}
	msg := "Game over, draw"
	if m.winner != "" {
		msg = fmt.Sprintf("Game over, %s wins", m.winner)
	}
	m.log.Info().Str("winner", m.winner).Int("tick", m.world.Tick).Msg("Game over")
	m.send(NewMessage(MsgGameOver, m.winner, msg))
	m.setStatus(StatusGameOver)
}

// Tick advances a running match by one tick with the configured
// instruction budget. It reports whether the tick ran.
func (m *Match) Tick(ctx context.Context) bool {
	if m.status != StatusRunning {
		return false
	}
	m.advance(ctx, m.cfg.VM.Cycles)
	if m.over() {
		m.finish(ctx)
	}
	return true
}

// Step advances the world by one tick with a single instruction per
// robot, for debugging. Refused while running.
func (m *Match) Step(ctx context.Context) error {
	if m.status == StatusRunning {
		return fmt.Errorf("%w: %s", ErrInProgress, m.status)
	}
	m.advance(ctx, 1)
	return nil
}

// Run starts the match and ticks until it is over or ctx is done.
func (m *Match) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	for m.status == StatusRunning {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("match interrupted: %w", err)
		}
		m.Tick(ctx)
	}
	return nil
}
