package vm

import (
	"go.creack.net/robotwar/asm/parser"
	"go.creack.net/robotwar/op"
)

// Ammo holds the rounds left, indexed by weapon.
type Ammo [op.WeaponMissile + 1]int

// Robot is the full state of a combatant: physics, combat stats
// and the register machine running its program.
type Robot struct {
	ID    string
	Name  string
	Color string

	X, Y           float64
	Heading        float64 // Physical chassis heading, degrees.
	DesiredHeading float64
	Turret         float64 // Physical turret heading, degrees.
	DesiredTurret  float64
	Speed          float64

	Health            float64
	Heat              float64
	Overheated        bool
	CollisionCooldown int // Invulnerability ticks left.

	Weapon        op.Weapon
	Ammo          Ammo
	MissileReload int // Ticks until the next missile can launch.

	LockID    string // Radar lock, empty when none.
	LockTimer int

	LastScanResult float64
	LastScanAngle  float64
	LastScanTime   int // Tick of the last scan, -1 when never scanned.

	Regs        Registers
	PC          int
	Flag        int // Comparison flag: -1, 0 or 1.
	LastOutcome Outcome

	Program *parser.Program
	Err     error // Compile error, the program is empty when set.

	img *image
}

// Alive reports whether the robot still takes part in the match.
func (r *Robot) Alive() bool { return r.Health > 0 }

// Clone returns a deep copy. The program is immutable and shared.
func (r *Robot) Clone() *Robot {
	c := *r
	c.Regs = r.Regs.clone()
	return &c
}

// Instruction returns the instruction at the program counter.
func (r *Robot) Instruction() (parser.Instruction, bool) {
	return r.Program.At(r.PC)
}

// Locked reports whether the radar lock is live.
func (r *Robot) Locked() bool { return r.LockID != "" && r.LockTimer > 0 }

// ClearLock drops the radar lock.
func (r *Robot) ClearLock() {
	r.LockID = ""
	r.LockTimer = 0
}

// ActiveAmmo returns the ammo of the active weapon.
func (r *Robot) ActiveAmmo() int {
	if !r.Weapon.Valid() {
		return 0
	}
	return r.Ammo[r.Weapon]
}

// Restore copies the combat stats of prev, used when a robot
// gets a new program mid-match.
func (r *Robot) Restore(prev *Robot) {
	r.Health = prev.Health
	r.Heat = prev.Heat
	r.Overheated = prev.Overheated
	r.CollisionCooldown = prev.CollisionCooldown
	r.Weapon = prev.Weapon
	r.Regs.System[op.RegWeapon] = float64(prev.Weapon)
	r.Ammo = prev.Ammo
	r.MissileReload = prev.MissileReload
	r.LockID = prev.LockID
	r.LockTimer = prev.LockTimer
}

// advancePC moves to the next instruction.
func (r *Robot) advancePC() {
	r.PC++
	r.wrapPC()
}

// wrapPC is the only way the program loops: running past the last
// instruction, or jumping to a label placed after it, restarts at 0.
func (r *Robot) wrapPC() {
	if r.PC < 0 || r.PC >= len(r.img.code) {
		r.PC = 0
	}
}

func (r *Robot) read(o Operand) float64 {
	switch o.Kind {
	case OperandLiteral:
		return o.Value
	case OperandSystem:
		return r.Regs.System[o.Index]
	case OperandUser:
		return r.Regs.User[o.Index]
	default:
		return 0
	}
}

// write stores v in a user variable or a control register.
// Sensors are read-only.
func (r *Robot) write(o Operand, v float64) bool {
	switch o.Kind {
	case OperandSystem:
		if !op.Register(o.Index).IsControl() {
			return false
		}
		r.Regs.System[o.Index] = v
	case OperandUser:
		r.Regs.User[o.Index] = v
	default:
		return false
	}
	return true
}
