package vm

import (
	"math"

	"go.creack.net/robotwar/op"
)

// NormalizeAngle maps degrees into [0,360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// AngleDiff returns the signed shortest rotation from a to b, in (-180,180].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Bearing returns the heading from (x1,y1) to (x2,y2), in [0,360).
func Bearing(x1, y1, x2, y2 float64) float64 {
	return NormalizeAngle(math.Atan2(y2-y1, x2-x1) * 180 / math.Pi)
}

// scan sweeps the radar cone. The nearest living robot in the cone
// and in range becomes the lock target and its floored distance
// goes to RADAR. Nothing found writes the configured sentinel.
func (m *Machine) scan(r *Robot, angle float64, all []*Robot, tick int) {
	angle = NormalizeAngle(angle)
	cfg := m.cfg.Radar

	var found *Robot
	best := math.Inf(1)
	for _, other := range all {
		if other == nil || other.ID == r.ID || !other.Alive() {
			continue
		}
		dist := math.Hypot(other.X-r.X, other.Y-r.Y)
		if dist > cfg.Range {
			continue
		}
		if math.Abs(AngleDiff(angle, Bearing(r.X, r.Y, other.X, other.Y))) >= cfg.HalfCone {
			continue
		}
		if dist < best {
			best, found = dist, other
		}
	}

	r.LastScanResult = cfg.NotFound
	if found != nil {
		r.LastScanResult = math.Floor(best)
		r.LockID = found.ID
		r.LockTimer = m.cfg.Missile.LockDuration
	}
	r.Regs.System[op.RegRadar] = r.LastScanResult
	r.LastScanAngle = angle
	r.LastScanTime = tick
}
