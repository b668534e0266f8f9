// Package config holds the constants table of the simulation
// and loads it with viper.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. ROBOTWAR_ARENA_WIDTH.
const EnvPrefix = "ROBOTWAR"

// Arena is the playing field size.
type Arena struct {
	Preset string  `json:"preset" mapstructure:"preset"`
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// Robot chassis settings.
type Robot struct {
	Radius       float64 `json:"radius" mapstructure:"radius"`
	MaxHealth    float64 `json:"maxHealth" mapstructure:"maxHealth"`
	MaxSpeed     float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	TurnSpeed    float64 `json:"turnSpeed" mapstructure:"turnSpeed"`       // Chassis, degrees per tick.
	TurretSpeed  float64 `json:"turretSpeed" mapstructure:"turretSpeed"`   // Degrees per tick.
	MuzzleOffset float64 `json:"muzzleOffset" mapstructure:"muzzleOffset"` // Distance from center where munitions appear.
}

// Heat settings.
type Heat struct {
	Max   float64 `json:"max" mapstructure:"max"`
	Decay float64 `json:"decay" mapstructure:"decay"` // Per tick.
}

// Collision settings.
type Collision struct {
	DamageFactor     float64 `json:"damageFactor" mapstructure:"damageFactor"`
	WallDamageFactor float64 `json:"wallDamageFactor" mapstructure:"wallDamageFactor"`
	Bounce           float64 `json:"bounce" mapstructure:"bounce"`       // Fraction of speed kept after a crash.
	Threshold        float64 `json:"threshold" mapstructure:"threshold"` // Impact speed below which no damage is dealt.
	Cooldown         int     `json:"cooldown" mapstructure:"cooldown"`   // Invulnerability ticks.
}

// Radar settings.
type Radar struct {
	HalfCone float64 `json:"halfCone" mapstructure:"halfCone"` // Degrees on each side of the scan angle.
	Range    float64 `json:"range" mapstructure:"range"`
	NotFound float64 `json:"notFound" mapstructure:"notFound"` // RADAR value when nothing is in the cone.
}

// Projectile is the ballistic weapon.
type Projectile struct {
	Speed  float64 `json:"speed" mapstructure:"speed"`
	Radius float64 `json:"radius" mapstructure:"radius"`
	Damage float64 `json:"damage" mapstructure:"damage"`
	Heat   float64 `json:"heat" mapstructure:"heat"`
	Ammo   int     `json:"ammo" mapstructure:"ammo"`
}

// Laser is the hitscan weapon.
type Laser struct {
	Damage float64 `json:"damage" mapstructure:"damage"`
	Heat   float64 `json:"heat" mapstructure:"heat"`
	Ammo   int     `json:"ammo" mapstructure:"ammo"`
	Fade   int     `json:"fade" mapstructure:"fade"` // Beam visual life, in ticks.
}

// Missile is the homing weapon.
type Missile struct {
	Speed        float64 `json:"speed" mapstructure:"speed"`
	Radius       float64 `json:"radius" mapstructure:"radius"`
	TurnRate     float64 `json:"turnRate" mapstructure:"turnRate"` // Degrees per tick.
	Damage       float64 `json:"damage" mapstructure:"damage"`
	Heat         float64 `json:"heat" mapstructure:"heat"`
	Ammo         int     `json:"ammo" mapstructure:"ammo"`
	Life         int     `json:"life" mapstructure:"life"`
	LockDuration int     `json:"lockDuration" mapstructure:"lockDuration"`
	Reload       int     `json:"reload" mapstructure:"reload"`
}

// Effects drives the explosion animation.
type Effects struct {
	ExplosionDecay  float64 `json:"explosionDecay" mapstructure:"explosionDecay"`   // Life lost per tick, life starts at 1.
	ExplosionGrowth float64 `json:"explosionGrowth" mapstructure:"explosionGrowth"` // Radius gained per tick.
}

// Spawn settings.
type Spawn struct {
	Margin     float64 `json:"margin" mapstructure:"margin"`
	Separation float64 `json:"separation" mapstructure:"separation"`
	Attempts   int     `json:"attempts" mapstructure:"attempts"`
}

// VM settings.
type VM struct {
	Cycles int `json:"cycles" mapstructure:"cycles"` // Instructions per robot per tick.
}

// Match settings.
type Match struct {
	Seed          uint64 `json:"seed" mapstructure:"seed"` // 0 picks a random seed.
	MaxTicks      int    `json:"maxTicks" mapstructure:"maxTicks"`
	MessageBuffer int    `json:"messageBuffer" mapstructure:"messageBuffer"`
}

// Log settings.
type Log struct {
	Level  string `json:"level" mapstructure:"level"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// Config is the full constants table.
type Config struct {
	Arena      Arena      `json:"arena" mapstructure:"arena"`
	Robot      Robot      `json:"robot" mapstructure:"robot"`
	Heat       Heat       `json:"heat" mapstructure:"heat"`
	Collision  Collision  `json:"collision" mapstructure:"collision"`
	Radar      Radar      `json:"radar" mapstructure:"radar"`
	Projectile Projectile `json:"projectile" mapstructure:"projectile"`
	Laser      Laser      `json:"laser" mapstructure:"laser"`
	Missile    Missile    `json:"missile" mapstructure:"missile"`
	Effects    Effects    `json:"effects" mapstructure:"effects"`
	Spawn      Spawn      `json:"spawn" mapstructure:"spawn"`
	VM         VM         `json:"vm" mapstructure:"vm"`
	Match      Match      `json:"match" mapstructure:"match"`
	Log        Log        `json:"log" mapstructure:"log"`
}

// Size is an arena preset.
type Size struct {
	Name          string
	Width, Height float64
}

// Presets are the known arena sizes, by upper-case key.
var Presets = map[string]Size{
	"DUEL":        {"DUEL (Small)", 800, 600},
	"SKIRMISH":    {"SKIRMISH (Medium)", 1200, 900},
	"BATTLEFIELD": {"BATTLEFIELD (Large)", 1600, 1200},
	"WARZONE":     {"WARZONE (Huge)", 2400, 1800},
}

// PresetNames lists the preset keys, sorted by area.
func PresetNames() []string {
	out := make([]string, 0, len(Presets))
	for k := range Presets {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := Presets[out[i]], Presets[out[j]]
		return a.Width*a.Height < b.Width*b.Height
	})
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("arena.preset", "")
	v.SetDefault("arena.width", 800.)
	v.SetDefault("arena.height", 600.)

	v.SetDefault("robot.radius", 20.)
	v.SetDefault("robot.maxHealth", 100.)
	v.SetDefault("robot.maxSpeed", 10.)
	v.SetDefault("robot.turnSpeed", 5.)
	v.SetDefault("robot.turretSpeed", 10.)
	v.SetDefault("robot.muzzleOffset", 25.)

	v.SetDefault("heat.max", 100.)
	v.SetDefault("heat.decay", 1.)

	v.SetDefault("collision.damageFactor", 0.5)
	v.SetDefault("collision.wallDamageFactor", 0.5)
	v.SetDefault("collision.bounce", 0.5)
	v.SetDefault("collision.threshold", 3.)
	v.SetDefault("collision.cooldown", 30)

	v.SetDefault("radar.halfCone", 2.5)
	v.SetDefault("radar.range", 5000.)
	v.SetDefault("radar.notFound", -1.)

	v.SetDefault("projectile.speed", 12.)
	v.SetDefault("projectile.radius", 4.)
	v.SetDefault("projectile.damage", 10.)
	v.SetDefault("projectile.heat", 20.)
	v.SetDefault("projectile.ammo", 50)

	v.SetDefault("laser.damage", 8.)
	v.SetDefault("laser.heat", 40.)
	v.SetDefault("laser.ammo", 999)
	v.SetDefault("laser.fade", 10)

	v.SetDefault("missile.speed", 6.)
	v.SetDefault("missile.radius", 6.)
	v.SetDefault("missile.turnRate", 3.)
	v.SetDefault("missile.damage", 30.)
	v.SetDefault("missile.heat", 50.)
	v.SetDefault("missile.ammo", 3)
	v.SetDefault("missile.life", 180)
	v.SetDefault("missile.lockDuration", 180)
	v.SetDefault("missile.reload", 60)

	v.SetDefault("effects.explosionDecay", 0.05)
	v.SetDefault("effects.explosionGrowth", 2.)

	v.SetDefault("spawn.margin", 50.)
	v.SetDefault("spawn.separation", 60.)
	v.SetDefault("spawn.attempts", 100)

	v.SetDefault("vm.cycles", 5)

	v.SetDefault("match.seed", uint64(0))
	v.SetDefault("match.maxTicks", 0)
	v.SetDefault("match.messageBuffer", 256)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// New returns a viper instance carrying the defaults and the environment overrides.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in table, ignoring the environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		// Defaults are static, this can't fail.
		panic(fmt.Errorf("invalid default config: %w", err))
	}
	return cfg
}

// Load reads the given file on top of the defaults.
// An empty path loads the defaults and the environment only.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.ApplyPreset(cfg.Arena.Preset); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrUnknownPreset is returned when the arena preset doesn't exist.
var ErrUnknownPreset = errors.New("unknown arena preset")

// ApplyPreset sets the arena size from the named preset.
// An empty name is a no-op.
func (c *Config) ApplyPreset(name string) error {
	if name == "" {
		return nil
	}
	p, ok := Presets[strings.ToUpper(name)]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	c.Arena.Preset = strings.ToUpper(name)
	c.Arena.Width, c.Arena.Height = p.Width, p.Height
	return nil
}

// Validate rejects tables the simulation can't run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Arena.Width > 0 && c.Arena.Height > 0, "arena must have a positive size, got %gx%g", c.Arena.Width, c.Arena.Height)
	check(c.Robot.Radius > 0, "robot radius must be positive")
	check(2*c.Robot.Radius < c.Arena.Width && 2*c.Robot.Radius < c.Arena.Height, "robot radius %g doesn't fit in the arena", c.Robot.Radius)
	check(2*c.Spawn.Margin < c.Arena.Width && 2*c.Spawn.Margin < c.Arena.Height, "spawn margin %g doesn't fit in the arena", c.Spawn.Margin)
	check(c.Spawn.Attempts >= 0, "spawn attempts can't be negative")
	check(c.Robot.MaxHealth > 0, "max health must be positive")
	check(c.Robot.MaxSpeed >= 0, "max speed can't be negative")
	check(c.Heat.Max > 0, "max heat must be positive")
	check(c.Heat.Decay >= 0, "heat decay can't be negative")
	check(c.Collision.Bounce >= 0 && c.Collision.Bounce <= 1, "collision bounce must be within [0,1]")
	check(c.Collision.Cooldown >= 0, "collision cooldown can't be negative")
	check(c.Radar.HalfCone > 0, "radar cone must be positive")
	check(c.Projectile.Ammo >= 0 && c.Laser.Ammo >= 0 && c.Missile.Ammo >= 0, "ammo can't be negative")
	check(c.VM.Cycles >= 0, "vm cycles can't be negative")
	check(c.Match.MessageBuffer >= 0, "message buffer can't be negative")
	return errors.Join(errs...)
}
