package op

// Register is a system register index.
type Register int

// System registers.
// Controls are written by scripts and read by the simulation,
// sensors are written by the simulation before every step.
const (
	RegX      Register = iota // Sensor.
	RegY                      // Sensor.
	RegSpeed                  // Control, 0-10.
	RegAngle                  // Control, desired chassis heading.
	RegAim                    // Control, desired turret heading.
	RegTurret                 // Sensor, physical turret heading.
	RegShoot                  // Control, fire when not 0.
	RegRadar                  // Sensor, last scan distance.
	RegHeat                   // Sensor.
	RegTime                   // Sensor, tick count.
	RegHealth                 // Sensor.
	RegWeapon                 // Control and sensor.
	RegAmmo                   // Sensor, ammo of the active weapon.

	RegisterCount = int(RegAmmo) + 1
)

var registerNames = [RegisterCount]string{
	RegX:      "X",
	RegY:      "Y",
	RegSpeed:  "SPEED",
	RegAngle:  "ANGLE",
	RegAim:    "AIM",
	RegTurret: "TURRET",
	RegShoot:  "SHOOT",
	RegRadar:  "RADAR",
	RegHeat:   "HEAT",
	RegTime:   "TIME",
	RegHealth: "HEALTH",
	RegWeapon: "WEAPON",
	RegAmmo:   "AMMO",
}

func (r Register) String() string {
	if r < 0 || int(r) >= RegisterCount {
		return "UNKNOWN"
	}
	return registerNames[r]
}

// IsControl reports whether the register is meant to be written by scripts.
func (r Register) IsControl() bool {
	switch r {
	case RegSpeed, RegAngle, RegAim, RegShoot, RegWeapon:
		return true
	default:
		return false
	}
}

// LookupRegister finds a system register by its upper-case name.
func LookupRegister(name string) (Register, bool) {
	for i, elem := range registerNames {
		if elem == name {
			return Register(i), true
		}
	}
	return 0, false
}

// Weapon selector values, as written in the WEAPON register.
type Weapon int

// Weapons.
const (
	WeaponProjectile Weapon = 1 // Ballistic slug.
	WeaponLaser      Weapon = 2 // Hitscan.
	WeaponMissile    Weapon = 3 // Homing.
)

// Weapons lists every valid weapon.
var Weapons = []Weapon{WeaponProjectile, WeaponLaser, WeaponMissile}

// Valid reports whether w is a known weapon.
func (w Weapon) Valid() bool {
	return w == WeaponProjectile || w == WeaponLaser || w == WeaponMissile
}

func (w Weapon) String() string {
	switch w {
	case WeaponProjectile:
		return "slug"
	case WeaponLaser:
		return "laser"
	case WeaponMissile:
		return "missile"
	default:
		return "unknown"
	}
}
