package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpCodeTableIndexedByCode(t *testing.T) {
	for i, elem := range OpCodeTable {
		assert.Equal(t, Code(i), elem.Code, elem.Name)
		got, ok := LookupOpCode(elem.Name)
		assert.True(t, ok)
		assert.Equal(t, elem.Name, got.Name)
		assert.Equal(t, elem.Name, elem.Code.String())
	}
	_, ok := LookupOpCode("set")
	assert.False(t, ok, "lookups are case sensitive, callers upper-case")
	assert.Equal(t, "???", Code(200).String())
}

func TestIsJump(t *testing.T) {
	for _, c := range []Code{Jmp, Jgt, Jlt, Jeq} {
		assert.True(t, c.IsJump(), c.String())
	}
	for _, c := range []Code{Set, Cmp, Scan} {
		assert.False(t, c.IsJump(), c.String())
	}
}

func TestAliases(t *testing.T) {
	a, ok := LookupAlias("FIRE")
	assert.True(t, ok)
	assert.Equal(t, RegShoot, a.Register)
	assert.Equal(t, "1", a.Default)

	a, ok = LookupAlias("MOVE")
	assert.True(t, ok)
	assert.Equal(t, RegSpeed, a.Register)

	_, ok = LookupAlias("SET")
	assert.False(t, ok)
}

func TestRegisters(t *testing.T) {
	for i := range RegisterCount {
		r := Register(i)
		got, ok := LookupRegister(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := LookupRegister("FOO")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Register(-1).String())

	assert.True(t, RegShoot.IsControl())
	assert.True(t, RegWeapon.IsControl())
	assert.False(t, RegRadar.IsControl())
	assert.False(t, RegTime.IsControl())
}

func TestWeapons(t *testing.T) {
	for _, w := range Weapons {
		assert.True(t, w.Valid())
		assert.NotEqual(t, "unknown", w.String())
	}
	assert.False(t, Weapon(0).Valid())
	assert.False(t, Weapon(4).Valid())
	assert.Equal(t, "unknown", Weapon(9).String())
}
