package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/robotwar/asm/parser"
	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/op"
)

func newMachine() *Machine {
	return New(config.Default())
}

func reg(t *testing.T, r *Robot, name string) float64 {
	t.Helper()
	v, ok := r.Regs.Get(name)
	require.True(t, ok, "register %q not found", name)
	return v
}

func TestVariableDiscovery(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "#fff", `
		SET foo 1
		ADD bar foo
		CMP x 10
		JMP LOOP
	LOOP:
		SCAN 45
		MOVE speedy
	`, 100, 100)
	require.NoError(t, r.Err)

	assert.Equal(t, []string{"FOO", "BAR", "SPEEDY"}, r.Regs.Names())
	for _, v := range r.Regs.User {
		assert.Zero(t, v)
	}
	_, ok := r.Regs.Get("LOOP")
	assert.False(t, ok)
	_, ok = r.Regs.Get("45")
	assert.False(t, ok)
}

func TestSetCmpJeq(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", `
		SET A 5
		CMP A 5
		JEQ HIT
		SET B 1
	HIT:
		SET C 1
	`, 100, 100)
	require.NoError(t, r.Err)

	m.Step(r, []*Robot{r}, 4, 0)
	assert.Equal(t, 5., reg(t, r, "A"))
	assert.Equal(t, 0., reg(t, r, "B"))
	assert.Equal(t, 1., reg(t, r, "C"))
	assert.Equal(t, 0, r.Flag)
	assert.Equal(t, 0, r.PC, "ran past the end, wraps")
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"add", "SET A 2\nADD A 3", 5},
		{"sub", "SET A 2\nSUB A 3", -1},
		{"mul floors", "SET A 3\nMUL A 1.5", 4},
		{"div floors", "SET A 7\nDIV A 2", 3},
		{"div negative floors", "SET A -7\nDIV A 2", -4},
		{"div by zero is a no-op", "SET A 7\nDIV A 0", 7},
		{"register operand", "SET B 4\nSET A B", 4},
		{"missing operand reads 0", "SET A 9\nSET A", 0},
		{"hex literal", "SET A 0x10", 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine()
			r := m.NewRobot("a", "", tt.src, 100, 100)
			require.NoError(t, r.Err)
			m.Step(r, nil, 2, 0)
			assert.Equal(t, tt.want, reg(t, r, "A"))
		})
	}
}

func TestOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		result Result
		reason Reason
	}{
		{"applied", "SET A 1", Applied, ReasonNone},
		{"div by zero", "DIV A 0", Ignored, ReasonDivByZero},
		{"literal destination", "SET 5 1", Ignored, ReasonNotWritable},
		{"sensor destination", "SET RADAR 5", Ignored, ReasonNotWritable},
		{"sensor arithmetic", "ADD HEAT 1", Ignored, ReasonNotWritable},
		{"control destination", "SET SPEED 5", Applied, ReasonNone},
		{"unknown label", "JMP NOWHERE", Ignored, ReasonUnknownLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine()
			r := m.NewRobot("a", "", tt.src, 100, 100)
			require.NoError(t, r.Err)
			m.Step(r, nil, 1, 0)
			assert.Equal(t, tt.result, r.LastOutcome.Result)
			assert.Equal(t, tt.reason, r.LastOutcome.Reason)
			assert.Equal(t, 1, r.LastOutcome.Line)
		})
	}
}

func TestJumpOutcome(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "TOP:\nJMP TOP", 100, 100)
	m.Step(r, nil, 1, 0)
	assert.True(t, r.LastOutcome.Jumped)
	assert.Equal(t, op.Jmp, r.LastOutcome.Code)
	assert.Equal(t, 0, r.PC)
}

func TestJumpToRegisterNamedLabel(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "SET N 1\nX:\nADD N 1\nJMP X\nSET N 100", 100, 100)
	require.NoError(t, r.Err)
	m.Step(r, nil, 5, 0)
	assert.Equal(t, 3., reg(t, r, "N"), "SET, ADD, JMP, ADD, JMP")
	assert.Equal(t, 1, r.PC)
	assert.True(t, r.LastOutcome.Jumped)

	// Outside jumps the name still reads the register.
	r = m.NewRobot("a", "", "X:\nSET N X", 42, 100)
	m.Step(r, nil, 1, 0)
	assert.Equal(t, 42., reg(t, r, "N"))
}

func TestSensorsAreReadOnly(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "SET X 5\nSET N X", 100, 100)
	m.Step(r, nil, 2, 0)
	assert.Equal(t, 100., r.X)
	assert.Equal(t, 100., reg(t, r, "N"))
	assert.Equal(t, 100., r.Regs.System[op.RegX])
}

func TestPCWrap(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "ADD A 1", 100, 100)
	m.Step(r, nil, 3, 0)
	assert.Equal(t, 3., reg(t, r, "A"))
	assert.Equal(t, 0, r.PC)
}

func TestLabelAtEndWraps(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "ADD A 1\nJMP END\nADD B 1\nEND:", 100, 100)
	m.Step(r, nil, 4, 0)
	assert.Equal(t, 2., reg(t, r, "A"))
	assert.Equal(t, 0., reg(t, r, "B"))
}

func TestEmptyAndBrokenPrograms(t *testing.T) {
	m := newMachine()

	empty := m.NewRobot("a", "", "; nothing", 100, 100)
	require.NoError(t, empty.Err)
	m.Step(empty, nil, 5, 0)
	assert.Equal(t, 0, empty.PC)

	broken := m.NewRobot("b", "", "SET A 1\nLOL 2", 100, 100)
	require.Error(t, broken.Err)
	assert.True(t, broken.Alive())
	assert.Equal(t, 0, broken.Program.Len())
	m.Step(broken, nil, 5, 0)
	assert.Equal(t, 0, broken.PC)
}

func TestWriteBack(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "SET SPEED 50\nSET ANGLE -90\nSET AIM 725\nSET WEAPON 3", 100, 100)
	m.Step(r, nil, 4, 0)

	assert.Equal(t, 10., r.Speed)
	assert.Equal(t, 10., reg(t, r, "SPEED"))
	assert.Equal(t, 270., r.DesiredHeading)
	assert.Equal(t, 5., r.DesiredTurret)
	assert.Equal(t, op.WeaponMissile, r.Weapon)

	r2 := m.NewRobot("b", "", "SET SPEED -3\nSET WEAPON 7", 100, 100)
	m.Step(r2, nil, 2, 0)
	assert.Equal(t, 0., r2.Speed)
	assert.Equal(t, op.WeaponProjectile, r2.Weapon, "invalid weapon ignored")
}

func TestSensors(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "SET A X\nSET B Y\nSET C TIME\nSET D AMMO", 10.7, 20.2, WithHeading(0, 33))
	r.Health = 55.5
	m.Step(r, nil, 4, 42)

	assert.Equal(t, 10., reg(t, r, "A"))
	assert.Equal(t, 20., reg(t, r, "B"))
	assert.Equal(t, 42., reg(t, r, "C"))
	assert.Equal(t, 50., reg(t, r, "D"))
	assert.Equal(t, 55., reg(t, r, "HEALTH"))
	assert.Equal(t, 33., reg(t, r, "TURRET"))
}

func TestDeadRobotDoesNotRun(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "ADD A 1", 100, 100)
	r.Health = 0
	m.Step(r, nil, 5, 0)
	assert.Equal(t, 0., reg(t, r, "A"))
}

func TestScan(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "SCAN DIR", 100, 100)
	east := m.NewRobot("b", "", "", 200.5, 101, WithName("east"))
	far := m.NewRobot("c", "", "", 400, 100)
	dead := m.NewRobot("d", "", "", 150, 100)
	dead.Health = 0
	all := []*Robot{r, east, far, dead}

	m.Step(r, all, 1, 7)
	assert.Equal(t, 100., reg(t, r, "RADAR"))
	assert.Equal(t, "b", r.LockID)
	assert.Equal(t, 180, r.LockTimer)
	assert.Equal(t, 7, r.LastScanTime)
	assert.True(t, r.Locked())

	// Nothing north.
	require.True(t, r.Regs.Set("DIR", 90))
	m.Step(r, all, 1, 8)
	assert.Equal(t, -1., reg(t, r, "RADAR"))
	assert.Equal(t, 90., r.LastScanAngle)
	assert.Equal(t, "b", r.LockID, "lock is kept until it expires")
}

func TestClone(t *testing.T) {
	m := newMachine()
	r := m.NewRobot("a", "", "ADD A 1", 100, 100)
	c := r.Clone()
	m.Step(c, nil, 1, 0)
	assert.Equal(t, 1., reg(t, c, "A"))
	assert.Equal(t, 0., reg(t, r, "A"))
	assert.Same(t, r.Program, c.Program)
}

func TestRestore(t *testing.T) {
	m := newMachine()
	old := m.NewRobot("a", "", "", 100, 100)
	old.Health = 40
	old.Ammo[op.WeaponMissile] = 1
	old.Weapon = op.WeaponLaser

	next := m.NewRobot("a", "", "MOVE 3", 100, 100)
	next.Restore(old)
	assert.Equal(t, 40., next.Health)
	assert.Equal(t, 1, next.Ammo[op.WeaponMissile])
	assert.Equal(t, op.WeaponLaser, next.Weapon)
}

func TestSymbolPass(t *testing.T) {
	prog := &parser.Program{
		Instructions: []parser.Instruction{
			{OpCode: op.OpCodeTable[op.Set], Operands: []string{"SPEED", "3.5"}},
			{OpCode: op.OpCodeTable[op.Jmp], Operands: []string{"TOP"}},
			{OpCode: op.OpCodeTable[op.Add], Operands: []string{"N", "TOP"}},
		},
		Labels: map[string]int{"TOP": 0},
	}
	img := load(prog)
	require.Len(t, img.code, 3)
	assert.Equal(t, Operand{Kind: OperandSystem, Index: int(op.RegSpeed), Raw: "SPEED"}, img.code[0].a)
	assert.Equal(t, Operand{Kind: OperandLiteral, Value: 3.5, Raw: "3.5"}, img.code[0].b)
	assert.Equal(t, OperandLabel, img.code[1].a.Kind)
	assert.Equal(t, OperandNone, img.code[1].b.Kind)
	assert.Equal(t, Operand{Kind: OperandUser, Index: 0, Raw: "N"}, img.code[2].a)
	assert.Equal(t, []string{"N"}, img.vars)
}

func TestAngles(t *testing.T) {
	assert.Equal(t, 0., NormalizeAngle(360))
	assert.Equal(t, 350., NormalizeAngle(-10))
	assert.Equal(t, 10., AngleDiff(350, 0))
	assert.Equal(t, -10., AngleDiff(0, 350))
	assert.Equal(t, 180., AngleDiff(0, 180))
	assert.InDelta(t, 90., Bearing(0, 0, 0, 10), 1e-9)
}
