package engine

import (
	"math"

	"go.creack.net/robotwar/op"
	"go.creack.net/robotwar/vm"
)

// LaserColor is the beam color.
const LaserColor = "#22d3ee"

// trigger fires the robot's active weapon if it asked to, then clears SHOOT.
func (t *tick) trigger(r *vm.Robot) {
	if r.Regs.System[op.RegShoot] != 0 && !r.Overheated && r.ActiveAmmo() > 0 {
		t.fire(r)
	}
	r.Regs.System[op.RegShoot] = 0
}

func (t *tick) fire(r *vm.Robot) {
	cfg := t.cfg
	rad := r.Turret * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	mx, my := r.X+dx*cfg.Robot.MuzzleOffset, r.Y+dy*cfg.Robot.MuzzleOffset

	var heat float64
	switch r.Weapon {
	case op.WeaponProjectile:
		t.w.Projectiles = append(t.w.Projectiles, Projectile{
			ID:      t.nextID(),
			OwnerID: r.ID,
			X:       mx,
			Y:       my,
			VX:      dx * cfg.Projectile.Speed,
			VY:      dy * cfg.Projectile.Speed,
			Damage:  cfg.Projectile.Damage,
			Active:  true,
		})
		r.Ammo[op.WeaponProjectile]--
		heat = cfg.Projectile.Heat
		t.emit(Event{Kind: EvShotFired, RobotID: r.ID, Weapon: op.WeaponProjectile, X: mx, Y: my})

	case op.WeaponLaser:
		// Laser rounds are never consumed.
		victim, dist := t.raycast(r, mx, my, dx, dy)
		beam := LaserBeam{OwnerID: r.ID, X1: mx, Y1: my, X2: mx + dx*dist, Y2: my + dy*dist, Life: cfg.Laser.Fade, Color: LaserColor}
		t.w.Lasers = append(t.w.Lasers, beam)
		ev := Event{Kind: EvLaserFired, RobotID: r.ID, Weapon: op.WeaponLaser, X: beam.X2, Y: beam.Y2}
		if victim != nil {
			ev.OtherID, ev.Amount = victim.ID, cfg.Laser.Damage
		}
		t.emit(ev)
		if victim != nil {
			t.damage(victim, cfg.Laser.Damage, r.ID, op.WeaponLaser)
		}
		heat = cfg.Laser.Heat

	case op.WeaponMissile:
		if r.MissileReload > 0 {
			return
		}
		m := Missile{
			Projectile: Projectile{
				ID:      t.nextID(),
				OwnerID: r.ID,
				X:       mx,
				Y:       my,
				VX:      dx * cfg.Missile.Speed,
				VY:      dy * cfg.Missile.Speed,
				Damage:  cfg.Missile.Damage,
				Active:  true,
			},
			Heading: r.Turret,
			Life:    cfg.Missile.Life,
		}
		if r.Locked() {
			m.TargetID = r.LockID
		}
		t.w.Missiles = append(t.w.Missiles, m)
		r.Ammo[op.WeaponMissile]--
		r.MissileReload = cfg.Missile.Reload
		heat = cfg.Missile.Heat
		t.emit(Event{Kind: EvMissileLaunched, RobotID: r.ID, OtherID: m.TargetID, Weapon: op.WeaponMissile, X: mx, Y: my})

	default:
		return
	}

	r.Heat += heat
	if r.Heat >= cfg.Heat.Max {
		r.Heat = cfg.Heat.Max
		if !r.Overheated {
			r.Overheated = true
			t.emit(Event{Kind: EvOverheated, RobotID: r.ID, X: r.X, Y: r.Y})
		}
	}
}

// raycast finds what a ray from (ox,oy) along the unit vector (dx,dy) hits first:
// a living robot other than shooter, or the wall. It returns the robot, nil for
// the wall, and the distance to the hit point.
func (t *tick) raycast(shooter *vm.Robot, ox, oy, dx, dy float64) (*vm.Robot, float64) {
	best := rayWall(ox, oy, dx, dy, t.cfg.Arena.Width, t.cfg.Arena.Height)
	var victim *vm.Robot
	for _, other := range t.w.Robots {
		if other.ID == shooter.ID || !other.Alive() {
			continue
		}
		if d, ok := rayCircle(ox, oy, dx, dy, other.X, other.Y, t.cfg.Robot.Radius); ok && d < best {
			best, victim = d, other
		}
	}
	return victim, best
}

// rayWall returns the distance from the origin to the arena boundary.
// An origin outside the arena yields 0.
func rayWall(ox, oy, dx, dy, width, height float64) float64 {
	if ox < 0 || oy < 0 || ox > width || oy > height {
		return 0
	}
	tx, ty := math.Inf(1), math.Inf(1)
	switch {
	case dx > 0:
		tx = (width - ox) / dx
	case dx < 0:
		tx = -ox / dx
	}
	switch {
	case dy > 0:
		ty = (height - oy) / dy
	case dy < 0:
		ty = -oy / dy
	}
	return math.Min(tx, ty)
}

// rayCircle returns the distance along the ray to the first intersection
// with the circle. An origin inside the circle hits at 0.
func rayCircle(ox, oy, dx, dy, cx, cy, radius float64) (float64, bool) {
	fx, fy := ox-cx, oy-cy
	c := fx*fx + fy*fy - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := fx*dx + fy*dy
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	d := -b - math.Sqrt(disc)
	if d < 0 {
		return 0, false
	}
	return d, true
}
