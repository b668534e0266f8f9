// Package metrics counts what happens in the arena with otel instruments.
// Without a meter provider installed the instruments are no-ops.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"go.creack.net/robotwar/engine"
)

// Recorder feeds engine events into counters.
type Recorder struct {
	ticks      metric.Int64Counter
	shots      metric.Int64Counter
	hits       metric.Int64Counter
	damage     metric.Float64Counter
	destroyed  metric.Int64Counter
	collisions metric.Int64Counter
	matches    metric.Int64Counter
}

// New creates a recorder on the global meter.
func New() (*Recorder, error) {
	return NewWithMeter(meter())
}

// NewWithMeter creates a recorder on the given meter.
func NewWithMeter(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}
	var err error

	if r.ticks, err = m.Int64Counter(
		"robotwar.ticks",
		metric.WithDescription("Total simulation ticks"),
	); err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}
	if r.shots, err = m.Int64Counter(
		"robotwar.shots",
		metric.WithDescription("Total shots fired, per weapon"),
	); err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}
	if r.hits, err = m.Int64Counter(
		"robotwar.hits",
		metric.WithDescription("Total damaging hits, per weapon"),
	); err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	if r.damage, err = m.Float64Counter(
		"robotwar.damage",
		metric.WithDescription("Total damage dealt, per weapon"),
	); err != nil {
		return nil, fmt.Errorf("creating damage counter: %w", err)
	}
	if r.destroyed, err = m.Int64Counter(
		"robotwar.destroyed",
		metric.WithDescription("Total robots destroyed"),
	); err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}
	if r.collisions, err = m.Int64Counter(
		"robotwar.collisions",
		metric.WithDescription("Total collisions, per kind"),
	); err != nil {
		return nil, fmt.Errorf("creating collisions counter: %w", err)
	}
	if r.matches, err = m.Int64Counter(
		"robotwar.matches",
		metric.WithDescription("Total finished matches, per outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating matches counter: %w", err)
	}

	return r, nil
}

// weaponName labels hits that have no weapon, i.e. crashes.
func weaponName(ev engine.Event) string {
	if !ev.Weapon.Valid() {
		return "ram"
	}
	return ev.Weapon.String()
}

// Tick counts one simulation tick.
func (r *Recorder) Tick(ctx context.Context) {
	r.ticks.Add(ctx, 1)
}

// Record counts a single event. Kinds without a counter are skipped.
func (r *Recorder) Record(ctx context.Context, ev engine.Event) {
	switch ev.Kind {
	case engine.EvShotFired, engine.EvLaserFired, engine.EvMissileLaunched:
		r.shots.Add(ctx, 1, metric.WithAttributes(attribute.String("weapon", ev.Weapon.String())))
	case engine.EvRobotHit:
		attrs := metric.WithAttributes(attribute.String("weapon", weaponName(ev)))
		r.hits.Add(ctx, 1, attrs)
		r.damage.Add(ctx, ev.Amount, attrs)
	case engine.EvRobotDestroyed:
		r.destroyed.Add(ctx, 1)
	case engine.EvWallCollision:
		r.collisions.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "wall")))
	case engine.EvRobotCollision:
		r.collisions.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "robot")))
	}
}

// RecordAll counts every event of a tick.
func (r *Recorder) RecordAll(ctx context.Context, events []engine.Event) {
	for _, ev := range events {
		r.Record(ctx, ev)
	}
}

// MatchOver counts a finished match. An empty winner is a draw.
func (r *Recorder) MatchOver(ctx context.Context, winner string) {
	outcome := "win"
	if winner == "" {
		outcome = "draw"
	}
	r.matches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
