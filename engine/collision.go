package engine

import (
	"math"

	"go.creack.net/robotwar/op"
	"go.creack.net/robotwar/vm"
)

// crash slows a robot down after an impact and reflects it in SPEED.
func (t *tick) crash(r *vm.Robot) {
	r.Speed = math.Floor(r.Speed * t.cfg.Collision.Bounce)
	r.Regs.System[op.RegSpeed] = r.Speed
}

// collisions resolves walls then robot pairs, in roster order.
func (t *tick) collisions() {
	cfg := t.cfg
	radius := cfg.Robot.Radius
	robots := t.w.Robots

	for i, r := range robots {
		if !r.Alive() {
			continue
		}

		if t.wall(r) && r.Speed > 0 {
			ev := Event{Kind: EvWallCollision, RobotID: r.ID, X: r.X, Y: r.Y}
			if r.Speed > cfg.Collision.Threshold && r.CollisionCooldown == 0 {
				ev.Amount = r.Speed * cfg.Collision.WallDamageFactor
				r.CollisionCooldown = cfg.Collision.Cooldown
			}
			t.emit(ev)
			t.damage(r, ev.Amount, "", 0)
			t.crash(r)
		}

		for _, other := range robots[i+1:] {
			if !r.Alive() {
				break
			}
			if !other.Alive() {
				continue
			}
			dx, dy := other.X-r.X, other.Y-r.Y
			dist := math.Hypot(dx, dy)
			if dist >= 2*radius {
				continue
			}

			// Push apart, half the overlap each. Coincident centers split along x.
			angle := math.Atan2(dy, dx)
			overlap := 2*radius - dist
			mx, my := math.Cos(angle)*overlap/2, math.Sin(angle)*overlap/2
			r.X, r.Y = r.X-mx, r.Y-my
			other.X, other.Y = other.X+mx, other.Y+my

			v1x, v1y := velocity(r)
			v2x, v2y := velocity(other)
			impact := math.Hypot(v1x-v2x, v1y-v2y)

			if impact > cfg.Collision.Threshold && r.CollisionCooldown == 0 && other.CollisionCooldown == 0 {
				dmg := impact * cfg.Collision.DamageFactor
				r.CollisionCooldown = cfg.Collision.Cooldown
				other.CollisionCooldown = cfg.Collision.Cooldown
				t.emit(Event{Kind: EvRobotCollision, RobotID: r.ID, OtherID: other.ID, X: r.X + dx/2, Y: r.Y + dy/2, Amount: dmg})
				t.explode(r.X+dx/2, r.Y+dy/2, 10, 25, colorCrash)
				t.damage(r, dmg, other.ID, 0)
				t.damage(other, dmg, r.ID, 0)
			}

			t.crash(r)
			t.crash(other)
		}
	}
}

// wall clamps the robot inside the arena and reports whether it touched a wall.
func (t *tick) wall(r *vm.Robot) bool {
	radius := t.cfg.Robot.Radius
	w, h := t.cfg.Arena.Width, t.cfg.Arena.Height
	hit := false
	if r.X < radius {
		r.X, hit = radius, true
	} else if r.X > w-radius {
		r.X, hit = w-radius, true
	}
	if r.Y < radius {
		r.Y, hit = radius, true
	} else if r.Y > h-radius {
		r.Y, hit = h-radius, true
	}
	return hit
}

// velocity is the robot motion vector from its physical heading.
func velocity(r *vm.Robot) (float64, float64) {
	rad := r.Heading * math.Pi / 180
	return math.Cos(rad) * r.Speed, math.Sin(rad) * r.Speed
}
