// Package engine advances the arena one tick at a time:
// robots, weapons, collisions, munitions and effects.
package engine

import (
	"math"

	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/op"
	"go.creack.net/robotwar/vm"
)

// Explosion looks.
const (
	colorHit     = "#f59e0b"
	colorMissile = "#f97316"
	colorCrash   = "#cbd5e1"
)

// Engine runs the simulation. It holds no world state.
type Engine struct {
	cfg     config.Config
	machine *vm.Machine
}

// New creates an engine.
func New(cfg config.Config) *Engine {
	return &Engine{cfg: cfg, machine: vm.New(cfg)}
}

// Config returns the constants table in use.
func (e *Engine) Config() config.Config { return e.cfg }

// Machine returns the vm running the robots, to create them.
func (e *Engine) Machine() *vm.Machine { return e.machine }

// tick is the state of one Advance call.
type tick struct {
	*Engine
	w *World
}

func (t *tick) emit(ev Event) {
	ev.Tick = t.w.Tick
	t.w.Events = append(t.w.Events, ev)
}

func (t *tick) explode(x, y, radius, maxRadius float64, color string) {
	t.w.Explosions = append(t.w.Explosions, Explosion{X: x, Y: y, Radius: radius, MaxRadius: maxRadius, Life: 1, Color: color})
}

func (t *tick) nextID() int {
	t.w.NextID++
	return t.w.NextID
}

// damage applies damage to a living robot. Health bottoms at 0.
func (t *tick) damage(target *vm.Robot, amount float64, sourceID string, weapon op.Weapon) {
	if !target.Alive() || amount <= 0 {
		return
	}
	target.Health = math.Max(0, target.Health-amount)
	t.emit(Event{Kind: EvRobotHit, RobotID: target.ID, OtherID: sourceID, Weapon: weapon, X: target.X, Y: target.Y, Amount: amount})
	if target.Alive() {
		return
	}
	target.Speed = 0
	target.Overheated = false
	target.ClearLock()
	t.emit(Event{Kind: EvRobotDestroyed, RobotID: target.ID, OtherID: sourceID, Weapon: weapon, X: target.X, Y: target.Y})
	t.explode(target.X, target.Y, t.cfg.Robot.Radius, 3*t.cfg.Robot.Radius, target.Color)
}

// Advance runs one tick with the given instruction budget per robot
// and returns the new world. The given world is left untouched.
func (e *Engine) Advance(w World, cycles int) World {
	next := w.Clone()
	next.Events = nil
	t := &tick{Engine: e, w: &next}

	t.robots(cycles)
	t.collisions()
	t.munitions()
	t.effects()

	next.Tick++
	return next
}

// robots runs the per robot phase, in roster order: heat, countdowns,
// program, motion, then the shot. A robot killed by an earlier one
// is skipped for the rest of the tick.
func (t *tick) robots(cycles int) {
	cfg := t.cfg
	for _, r := range t.w.Robots {
		if !r.Alive() {
			continue
		}

		r.Heat = math.Max(0, r.Heat-cfg.Heat.Decay)
		if r.Overheated && r.Heat <= 0 {
			r.Overheated = false
		}

		if r.CollisionCooldown > 0 {
			r.CollisionCooldown--
		}
		if r.LockTimer > 0 {
			r.LockTimer--
			if r.LockTimer == 0 {
				r.ClearLock()
			}
		}
		if r.MissileReload > 0 {
			r.MissileReload--
		}

		t.machine.Step(r, t.w.Robots, cycles, t.w.Tick)
		if r.LastScanTime == t.w.Tick {
			t.emit(Event{Kind: EvScan, RobotID: r.ID, X: r.X, Y: r.Y, Amount: r.LastScanAngle})
		}

		r.Heading = rotate(r.Heading, r.DesiredHeading, cfg.Robot.TurnSpeed)
		rad := r.Heading * math.Pi / 180
		r.X += math.Cos(rad) * r.Speed / 2
		r.Y += math.Sin(rad) * r.Speed / 2

		r.Turret = rotate(r.Turret, r.DesiredTurret, cfg.Robot.TurretSpeed)

		t.trigger(r)
	}
}

// rotate turns from toward target by at most rate degrees, along the shortest path.
func rotate(from, target, rate float64) float64 {
	diff := vm.AngleDiff(from, target)
	if math.Abs(diff) <= rate {
		return vm.NormalizeAngle(target)
	}
	if diff < 0 {
		return vm.NormalizeAngle(from - rate)
	}
	return vm.NormalizeAngle(from + rate)
}

// effects decays the visual records.
func (t *tick) effects() {
	fx := t.cfg.Effects
	explosions := t.w.Explosions[:0]
	for _, ex := range t.w.Explosions {
		ex.Life -= fx.ExplosionDecay
		ex.Radius = math.Min(ex.Radius+fx.ExplosionGrowth, ex.MaxRadius)
		if ex.Life > 0 {
			explosions = append(explosions, ex)
		}
	}
	t.w.Explosions = explosions

	lasers := t.w.Lasers[:0]
	for _, l := range t.w.Lasers {
		l.Life--
		if l.Life > 0 {
			lasers = append(lasers, l)
		}
	}
	t.w.Lasers = lasers
}
