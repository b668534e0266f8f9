package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 800., cfg.Arena.Width)
	assert.Equal(t, 600., cfg.Arena.Height)
	assert.Equal(t, 20., cfg.Robot.Radius)
	assert.Equal(t, 50, cfg.Projectile.Ammo)
	assert.Equal(t, 999, cfg.Laser.Ammo)
	assert.Equal(t, 3, cfg.Missile.Ammo)
	assert.Equal(t, 180, cfg.Missile.LockDuration)
	assert.Equal(t, 0.05, cfg.Effects.ExplosionDecay)
	assert.Equal(t, 3*cfg.Robot.Radius, cfg.Spawn.Separation)
	assert.Equal(t, 5, cfg.VM.Cycles)
	assert.Equal(t, -1., cfg.Radar.NotFound)
	require.NoError(t, cfg.Validate())
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robotwar.json")
	data := `{
		"arena": { "preset": "skirmish" },
		"vm": { "cycles": 8 },
		"laser": { "damage": 12 }
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "SKIRMISH", cfg.Arena.Preset)
	assert.Equal(t, 1200., cfg.Arena.Width)
	assert.Equal(t, 900., cfg.Arena.Height)
	assert.Equal(t, 8, cfg.VM.Cycles)
	assert.Equal(t, 12., cfg.Laser.Damage)
	// Untouched keys keep the default.
	assert.Equal(t, 40., cfg.Laser.Heat)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robotwar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arena:\n  width: 1000\n  height: 700\nmatch:\n  seed: 42\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000., cfg.Arena.Width)
	assert.Equal(t, 700., cfg.Arena.Height)
	assert.Equal(t, uint64(42), cfg.Match.Seed)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ROBOTWAR_VM_CYCLES", "2")
	t.Setenv("ROBOTWAR_ARENA_PRESET", "warzone")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.VM.Cycles)
	assert.Equal(t, 2400., cfg.Arena.Width)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/robotwar.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_UnknownPreset(t *testing.T) {
	t.Setenv("ROBOTWAR_ARENA_PRESET", "colosseum")
	_, err := Load("")
	require.ErrorIs(t, err, ErrUnknownPreset)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Arena.Width = 0 }},
		{"radius too big", func(c *Config) { c.Robot.Radius = 400 }},
		{"margin too big", func(c *Config) { c.Spawn.Margin = 300 }},
		{"bounce above 1", func(c *Config) { c.Collision.Bounce = 2 }},
		{"negative ammo", func(c *Config) { c.Missile.Ammo = -1 }},
		{"no heat cap", func(c *Config) { c.Heat.Max = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"DUEL", "SKIRMISH", "BATTLEFIELD", "WARZONE"}, PresetNames())
}
