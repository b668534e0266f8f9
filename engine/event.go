package engine

import (
	"fmt"

	"go.creack.net/robotwar/op"
)

// EventKind enum type.
type EventKind int

// EventKind values.
const (
	_ EventKind = iota
	EvShotFired
	EvLaserFired
	EvMissileLaunched
	EvRobotHit
	EvRobotDestroyed
	EvWallCollision
	EvRobotCollision
	EvScan
	EvOverheated
)

func (k EventKind) String() string {
	switch k {
	case EvShotFired:
		return "Shot Fired"
	case EvLaserFired:
		return "Laser Fired"
	case EvMissileLaunched:
		return "Missile Launched"
	case EvRobotHit:
		return "Robot Hit"
	case EvRobotDestroyed:
		return "Robot Destroyed"
	case EvWallCollision:
		return "Wall Collision"
	case EvRobotCollision:
		return "Robot Collision"
	case EvScan:
		return "Scan"
	case EvOverheated:
		return "Overheated"
	default:
		return "Unknown"
	}
}

// Event is something the simulation did, for audio, visuals and stats.
type Event struct {
	Kind    EventKind
	Tick    int
	RobotID string    // Actor: shooter, scanner, crashed or hit robot.
	OtherID string    // Counterpart: victim, attacker or other crashed robot.
	Weapon  op.Weapon // Set for weapon events.
	X, Y    float64
	Amount  float64 // Damage, or scan angle.
}

func (e Event) String() string {
	switch e.Kind {
	case EvRobotHit:
		return fmt.Sprintf("[%d] %s hit by %s for %.1f", e.Tick, e.RobotID, e.OtherID, e.Amount)
	case EvRobotDestroyed:
		return fmt.Sprintf("[%d] %s destroyed by %s", e.Tick, e.RobotID, e.OtherID)
	case EvRobotCollision:
		return fmt.Sprintf("[%d] %s crashed into %s for %.1f", e.Tick, e.RobotID, e.OtherID, e.Amount)
	case EvShotFired, EvLaserFired, EvMissileLaunched:
		return fmt.Sprintf("[%d] %s: %s (%s)", e.Tick, e.RobotID, e.Kind, e.Weapon)
	default:
		return fmt.Sprintf("[%d] %s: %s", e.Tick, e.RobotID, e.Kind)
	}
}
