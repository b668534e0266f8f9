package engine

import (
	"slices"

	"go.creack.net/robotwar/vm"
)

// Projectile is a ballistic slug.
type Projectile struct {
	ID      int
	OwnerID string
	X, Y    float64
	VX, VY  float64
	Damage  float64
	Active  bool
}

// Missile is a homing projectile.
type Missile struct {
	Projectile
	Heading  float64
	Life     int    // Ticks of flight left.
	TargetID string // Homing target, empty for none.
}

// LaserBeam is the visual record of a laser shot.
type LaserBeam struct {
	OwnerID        string
	X1, Y1, X2, Y2 float64
	Life           int // Ticks left.
	Color          string
}

// Explosion is a growing, fading blast.
type Explosion struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Life      float64 // 1 when created, gone at 0.
	Color     string
}

// World is the whole arena at a given tick.
type World struct {
	Tick        int
	Robots      []*vm.Robot
	Projectiles []Projectile
	Missiles    []Missile
	Lasers      []LaserBeam
	Explosions  []Explosion
	Events      []Event // What happened during the last tick.

	NextID int // Next munition id.
}

// Clone deep copies the world.
func (w World) Clone() World {
	c := w
	c.Robots = make([]*vm.Robot, len(w.Robots))
	for i, r := range w.Robots {
		c.Robots[i] = r.Clone()
	}
	c.Projectiles = slices.Clone(w.Projectiles)
	c.Missiles = slices.Clone(w.Missiles)
	c.Lasers = slices.Clone(w.Lasers)
	c.Explosions = slices.Clone(w.Explosions)
	c.Events = slices.Clone(w.Events)
	return c
}

// Robot looks up a robot by id.
func (w World) Robot(id string) *vm.Robot {
	for _, r := range w.Robots {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Alive lists the living robots.
func (w World) Alive() []*vm.Robot {
	var out []*vm.Robot
	for _, r := range w.Robots {
		if r.Alive() {
			out = append(out, r)
		}
	}
	return out
}
