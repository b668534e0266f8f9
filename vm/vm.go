// Package vm runs robot programs: one register machine per robot,
// a fixed instruction budget per tick.
package vm

import (
	"math"

	"go.creack.net/robotwar/asm"
	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/op"
)

// Machine executes robot programs against a constants table.
// It holds no per-robot state and can be shared.
type Machine struct {
	cfg config.Config
}

// New creates a machine.
func New(cfg config.Config) *Machine {
	return &Machine{cfg: cfg}
}

// Config returns the constants table in use.
func (m *Machine) Config() config.Config { return m.cfg }

// Option customizes a new robot.
type Option func(*Robot)

// WithName sets the display name. Defaults to the id.
func WithName(name string) Option {
	return func(r *Robot) { r.Name = name }
}

// WithHeading sets the initial chassis and turret headings.
func WithHeading(chassis, turret float64) Option {
	return func(r *Robot) {
		r.Heading, r.DesiredHeading = NormalizeAngle(chassis), NormalizeAngle(chassis)
		r.Turret, r.DesiredTurret = NormalizeAngle(turret), NormalizeAngle(turret)
	}
}

// NewRobot compiles the source and builds a fresh robot.
// A compile failure is not fatal: the robot gets an empty program
// and the error is kept in Err.
func (m *Machine) NewRobot(id, color, source string, x, y float64, opts ...Option) *Robot {
	r := &Robot{
		ID:             id,
		Name:           id,
		Color:          color,
		X:              x,
		Y:              y,
		Health:         m.cfg.Robot.MaxHealth,
		Weapon:         op.WeaponProjectile,
		LastScanResult: m.cfg.Radar.NotFound,
		LastScanTime:   -1,
	}
	r.Ammo[op.WeaponProjectile] = m.cfg.Projectile.Ammo
	r.Ammo[op.WeaponLaser] = m.cfg.Laser.Ammo
	r.Ammo[op.WeaponMissile] = m.cfg.Missile.Ammo
	for _, opt := range opts {
		opt(r)
	}

	prog, err := asm.Compile(r.Name, source)
	if err != nil {
		r.Err = err
	}
	r.Program = prog
	r.img = load(prog)
	r.Regs = newRegisters(r.img)

	r.Regs.System[op.RegAngle] = r.Heading
	r.Regs.System[op.RegAim] = r.Turret
	r.Regs.System[op.RegTurret] = r.Turret
	r.Regs.System[op.RegWeapon] = float64(r.Weapon)
	r.Regs.System[op.RegRadar] = r.LastScanResult
	return r
}

type opFunc func(m *Machine, r *Robot, ins *instruction, all []*Robot, tick int) (Outcome, bool)

// arith builds the register arithmetic ops. The destination is operand a.
func arith(fn func(a, b float64) (float64, Reason)) opFunc {
	return func(_ *Machine, r *Robot, ins *instruction, _ []*Robot, _ int) (Outcome, bool) {
		v, reason := fn(r.read(ins.a), r.read(ins.b))
		if reason != ReasonNone {
			return ignored(reason), true
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ignored(ReasonNotFinite), true
		}
		if !r.write(ins.a, v) {
			return ignored(ReasonNotWritable), true
		}
		return applied(), true
	}
}

// jump builds the jump ops, taken when cond holds for the comparison flag.
func jump(cond func(flag int) bool) opFunc {
	return func(_ *Machine, r *Robot, ins *instruction, _ []*Robot, _ int) (Outcome, bool) {
		if ins.a.Kind != OperandLabel {
			return ignored(ReasonUnknownLabel), true
		}
		if !cond(r.Flag) {
			return applied(), true
		}
		r.PC = ins.a.Index
		o := applied()
		o.Jumped = true
		return o, false // Manual override of the PC, don't advance it.
	}
}

// The bool result tells whether the PC should advance.
var ops = func() map[op.Code]opFunc {
	ops := map[op.Code]opFunc{}

	ops[op.Set] = arith(func(_, b float64) (float64, Reason) { return b, ReasonNone })
	ops[op.Add] = arith(func(a, b float64) (float64, Reason) { return a + b, ReasonNone })
	ops[op.Sub] = arith(func(a, b float64) (float64, Reason) { return a - b, ReasonNone })
	ops[op.Mul] = arith(func(a, b float64) (float64, Reason) { return math.Floor(a * b), ReasonNone })
	ops[op.Div] = arith(func(a, b float64) (float64, Reason) {
		if b == 0 {
			return 0, ReasonDivByZero
		}
		return math.Floor(a / b), ReasonNone
	})

	ops[op.Cmp] = func(_ *Machine, r *Robot, ins *instruction, _ []*Robot, _ int) (Outcome, bool) {
		a, b := r.read(ins.a), r.read(ins.b)
		switch {
		case a < b:
			r.Flag = -1
		case a > b:
			r.Flag = 1
		default:
			r.Flag = 0
		}
		return applied(), true
	}

	ops[op.Jmp] = jump(func(int) bool { return true })
	ops[op.Jgt] = jump(func(flag int) bool { return flag == 1 })
	ops[op.Jlt] = jump(func(flag int) bool { return flag == -1 })
	ops[op.Jeq] = jump(func(flag int) bool { return flag == 0 })

	// scan. Sweeps the radar cone at the given angle and stores
	// the distance of the nearest robot in RADAR.
	ops[op.Scan] = func(m *Machine, r *Robot, ins *instruction, all []*Robot, tick int) (Outcome, bool) {
		m.scan(r, r.read(ins.a), all, tick)
		return applied(), true
	}

	return ops
}()

// exec runs the instruction at the PC.
func (m *Machine) exec(r *Robot, all []*Robot, tick int) Outcome {
	r.wrapPC()
	pc := r.PC
	ins := &r.img.code[pc]

	out, advance := ignored(ReasonNone), true
	if f, ok := ops[ins.code]; ok {
		out, advance = f(m, r, ins, all, tick)
	}
	out.Code, out.PC, out.Line = ins.code, pc, ins.line
	if advance {
		r.advancePC()
	} else {
		r.wrapPC()
	}
	return out
}

// syncSensors publishes the world state into the sensor registers.
func (m *Machine) syncSensors(r *Robot, tick int) {
	s := &r.Regs.System
	s[op.RegX] = math.Floor(r.X)
	s[op.RegY] = math.Floor(r.Y)
	s[op.RegHealth] = math.Floor(r.Health)
	s[op.RegHeat] = math.Floor(r.Heat)
	s[op.RegRadar] = r.LastScanResult
	s[op.RegWeapon] = float64(r.Weapon)
	s[op.RegAmmo] = float64(r.ActiveAmmo())
	s[op.RegTurret] = r.Turret
	s[op.RegTime] = float64(tick)
}

// writeBack applies the control registers to the robot.
func (m *Machine) writeBack(r *Robot) {
	s := &r.Regs.System

	s[op.RegSpeed] = max(0, min(m.cfg.Robot.MaxSpeed, s[op.RegSpeed]))
	r.Speed = s[op.RegSpeed]

	s[op.RegAngle] = NormalizeAngle(s[op.RegAngle])
	r.DesiredHeading = s[op.RegAngle]

	s[op.RegAim] = NormalizeAngle(s[op.RegAim])
	r.DesiredTurret = s[op.RegAim]

	// Invalid selections are ignored, the register keeps the
	// request until the next sync.
	if w := s[op.RegWeapon]; w == math.Trunc(w) && w > 0 && w <= float64(op.WeaponMissile) && op.Weapon(w).Valid() {
		r.Weapon = op.Weapon(w)
	}
}

// Step runs up to cycles instructions of the robot program for the given tick.
// all is the whole roster, used by the radar. Dead robots don't run.
// Step never panics, bad instructions are Ignored.
func (m *Machine) Step(r *Robot, all []*Robot, cycles, tick int) {
	if !r.Alive() {
		return
	}
	m.syncSensors(r, tick)
	if len(r.img.code) > 0 {
		for range cycles {
			r.LastOutcome = m.exec(r, all, tick)
		}
	}
	m.writeBack(r)
}
