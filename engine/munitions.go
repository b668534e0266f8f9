package engine

import (
	"math"

	"go.creack.net/robotwar/op"
	"go.creack.net/robotwar/vm"
)

func (t *tick) outOfBounds(x, y float64) bool {
	return x < 0 || y < 0 || x > t.cfg.Arena.Width || y > t.cfg.Arena.Height
}

// impact returns the first living robot, other than the owner, overlapping
// a munition of the given radius.
func (t *tick) impact(p Projectile, radius float64) *vm.Robot {
	for _, r := range t.w.Robots {
		if !r.Alive() || r.ID == p.OwnerID {
			continue
		}
		if math.Hypot(p.X-r.X, p.Y-r.Y) < t.cfg.Robot.Radius+radius {
			return r
		}
	}
	return nil
}

// munitions moves projectiles and missiles, resolves hits
// and drops the inactive ones.
func (t *tick) munitions() {
	cfg := t.cfg

	projectiles := t.w.Projectiles[:0]
	for _, p := range t.w.Projectiles {
		p.X += p.VX
		p.Y += p.VY
		if t.outOfBounds(p.X, p.Y) {
			p.Active = false
		}
		if p.Active {
			if victim := t.impact(p, cfg.Projectile.Radius); victim != nil {
				p.Active = false
				t.explode(p.X, p.Y, 5, 20, colorHit)
				t.damage(victim, p.Damage, p.OwnerID, op.WeaponProjectile)
			}
		}
		if p.Active {
			projectiles = append(projectiles, p)
		}
	}
	t.w.Projectiles = projectiles

	missiles := t.w.Missiles[:0]
	for _, m := range t.w.Missiles {
		// Move along the current velocity, the new heading applies next tick.
		m.X += m.VX
		m.Y += m.VY
		if t.outOfBounds(m.X, m.Y) {
			m.Active = false
		}
		m.Life--
		if m.Life <= 0 {
			m.Active = false
		}
		if m.Active {
			t.steer(&m)
			rad := m.Heading * math.Pi / 180
			m.VX, m.VY = math.Cos(rad)*cfg.Missile.Speed, math.Sin(rad)*cfg.Missile.Speed
		}
		if m.Active {
			if victim := t.impact(m.Projectile, cfg.Missile.Radius); victim != nil {
				m.Active = false
				t.explode(m.X, m.Y, 10, 40, colorMissile)
				t.damage(victim, m.Damage, m.OwnerID, op.WeaponMissile)
			}
		}
		if m.Active {
			missiles = append(missiles, m)
		}
	}
	t.w.Missiles = missiles
}

// steer turns a homing missile toward its living target,
// at most the missile turn rate per tick.
func (t *tick) steer(m *Missile) {
	if m.TargetID == "" {
		return
	}
	target := t.w.Robot(m.TargetID)
	if target == nil || !target.Alive() {
		return
	}
	m.Heading = rotate(m.Heading, vm.Bearing(m.X, m.Y, target.X, target.Y), t.cfg.Missile.TurnRate)
}
