package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/robotwar/config"
)

func newSpawner(seed uint64) *Spawner {
	return New(config.Default(), rand.New(rand.NewPCG(seed, seed)))
}

func TestPointInsideMargin(t *testing.T) {
	s := newSpawner(1)
	for range 1000 {
		p := s.Point(nil)
		assert.GreaterOrEqual(t, p.X, 50.)
		assert.LessOrEqual(t, p.X, 750.)
		assert.GreaterOrEqual(t, p.Y, 50.)
		assert.LessOrEqual(t, p.Y, 550.)
	}
}

func TestLayoutSeparation(t *testing.T) {
	s := newSpawner(2)
	points := s.Layout(10)
	require.Len(t, points, 10)
	for i, a := range points {
		for _, b := range points[i+1:] {
			assert.GreaterOrEqual(t, math.Hypot(a.X-b.X, a.Y-b.Y), 60.)
		}
	}
}

func TestCrowdedFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Spawn.Separation = 10000
	s := New(cfg, rand.New(rand.NewPCG(3, 3)))

	p := s.Point([]Point{{X: 400, Y: 300}})
	assert.GreaterOrEqual(t, p.X, 50.)
	assert.LessOrEqual(t, p.X, 750.)
}

func TestDeterministic(t *testing.T) {
	assert.Equal(t, newSpawner(7).Layout(5), newSpawner(7).Layout(5))
	assert.NotEqual(t, newSpawner(7).Layout(5), newSpawner(8).Layout(5))
}

func TestHeading(t *testing.T) {
	s := newSpawner(4)
	for range 100 {
		h := s.Heading()
		assert.GreaterOrEqual(t, h, 0.)
		assert.Less(t, h, 360.)
		assert.Equal(t, math.Trunc(h), h)
	}
}
