// Package spawn picks starting positions.
package spawn

import (
	"math"
	"math/rand/v2"

	"go.creack.net/robotwar/config"
)

// Point is a position in the arena.
type Point struct {
	X, Y float64
}

// Spawner draws points inside the arena margin, away from the other robots.
type Spawner struct {
	rng        *rand.Rand
	width      float64
	height     float64
	margin     float64
	separation float64
	attempts   int
}

// New creates a spawner. All randomness comes from rng.
func New(cfg config.Config, rng *rand.Rand) *Spawner {
	return &Spawner{
		rng:        rng,
		width:      cfg.Arena.Width,
		height:     cfg.Arena.Height,
		margin:     cfg.Spawn.Margin,
		separation: cfg.Spawn.Separation,
		attempts:   cfg.Spawn.Attempts,
	}
}

func (s *Spawner) draw() Point {
	return Point{
		X: s.margin + s.rng.Float64()*(s.width-2*s.margin),
		Y: s.margin + s.rng.Float64()*(s.height-2*s.margin),
	}
}

// Point returns a point farther than the minimum separation from every
// existing one. When the arena is too crowded to find one within the
// attempt budget, an unchecked point inside the margin is returned.
func (s *Spawner) Point(existing []Point) Point {
	for range s.attempts {
		p := s.draw()
		if s.clear(p, existing) {
			return p
		}
	}
	return s.draw()
}

func (s *Spawner) clear(p Point, existing []Point) bool {
	for _, o := range existing {
		if math.Hypot(o.X-p.X, o.Y-p.Y) < s.separation {
			return false
		}
	}
	return true
}

// Heading returns a random whole heading, in [0,360).
func (s *Spawner) Heading() float64 {
	return float64(s.rng.IntN(360))
}

// Layout places n robots one after the other, each avoiding the previous ones.
func (s *Spawner) Layout(n int) []Point {
	out := make([]Point, 0, n)
	for range n {
		out = append(out, s.Point(out))
	}
	return out
}
