package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"go.creack.net/robotwar/engine"
	"go.creack.net/robotwar/match"
	"go.creack.net/robotwar/vm"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

const (
	barHeight  = 36
	logLines   = 6
	scanFade   = 5 // Ticks a radar sweep stays visible.
	gridStep   = 50
	radarReach = 250
)

// Game implements ebiten.Game interface.
type Game struct {
	ctx context.Context
	m   *match.Match
	ui  *ebitenui.UI

	logs []string
}

func NewGame(ctx context.Context, m *match.Match) *Game {
	g := &Game{ctx: ctx, m: m}
	g.ui = newControlBar(g)
	return g
}

func (g *Game) toggle() {
	switch g.m.Status() {
	case match.StatusRunning:
		_ = g.m.Pause()
	case match.StatusPaused:
		_ = g.m.Resume()
	default:
		_ = g.m.Start()
	}
}

func (g *Game) step() {
	if err := g.m.Step(g.ctx); err != nil {
		g.addLog(err.Error())
	}
}

func (g *Game) reset() {
	g.m.Reset()
	g.logs = nil
}

func (g *Game) addLog(msg string) {
	g.logs = append(g.logs, msg)
	if len(g.logs) > logLines {
		g.logs = g.logs[len(g.logs)-logLines:]
	}
}

// drainMessages keeps the last interesting messages for the HUD.
func (g *Game) drainMessages() {
	for {
		select {
		case msg := <-g.m.Messages:
			switch {
			case msg.Type != match.MsgEvent:
				g.addLog(msg.Message)
			case msg.Event.Kind == engine.EvRobotDestroyed, msg.Event.Kind == engine.EvRobotCollision:
				g.addLog(msg.Message)
			}
		default:
			return
		}
	}
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	g.ui.Update()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.step()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reset()
	}

	g.m.Tick(g.ctx)
	g.drainMessages()
	return nil
}

// parseColor reads a "#rrggbb" color, white when invalid.
func parseColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return colornames.White
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func fade(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	a := max(0, min(1, alpha))
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a * 0xff)}
}

func (g *Game) drawArena(screen *ebiten.Image, w engine.World) {
	cfg := g.m.Config()
	oy := float32(barHeight)
	width, height := float32(cfg.Arena.Width), float32(cfg.Arena.Height)
	vector.DrawFilledRect(screen, 0, oy, width, height, colornames.Midnightblue, false)
	for x := float32(gridStep); x < width; x += gridStep {
		vector.StrokeLine(screen, x, oy, x, oy+height, 1, colornames.Darkslategray, false)
	}
	for y := float32(gridStep); y < height; y += gridStep {
		vector.StrokeLine(screen, 0, oy+y, width, oy+y, 1, colornames.Darkslategray, false)
	}
	vector.StrokeRect(screen, 0, oy, width, height, 2, colornames.Slategray, false)

	for _, ex := range w.Explosions {
		vector.DrawFilledCircle(screen, float32(ex.X), oy+float32(ex.Y), float32(ex.Radius), fade(parseColor(ex.Color), ex.Life*0.7), true)
	}
	for _, l := range w.Lasers {
		alpha := float64(l.Life) / float64(max(cfg.Laser.Fade, 1))
		vector.StrokeLine(screen, float32(l.X1), oy+float32(l.Y1), float32(l.X2), oy+float32(l.Y2), 3, fade(parseColor(l.Color), alpha), true)
	}
	for _, r := range w.Robots {
		g.drawRobot(screen, r, w.Tick, oy)
	}
	for _, p := range w.Projectiles {
		vector.DrawFilledCircle(screen, float32(p.X), oy+float32(p.Y), float32(cfg.Projectile.Radius), colornames.Gold, true)
	}
	for _, mi := range w.Missiles {
		vector.DrawFilledCircle(screen, float32(mi.X), oy+float32(mi.Y), float32(cfg.Missile.Radius), colornames.Orangered, true)
		rad := mi.Heading * math.Pi / 180
		tx, ty := mi.X-math.Cos(rad)*12, mi.Y-math.Sin(rad)*12
		vector.StrokeLine(screen, float32(mi.X), oy+float32(mi.Y), float32(tx), oy+float32(ty), 2, colornames.Orange, true)
	}
}

func (g *Game) drawRobot(screen *ebiten.Image, r *vm.Robot, tick int, oy float32) {
	cfg := g.m.Config()
	x, y, radius := float32(r.X), oy+float32(r.Y), float32(cfg.Robot.Radius)
	body := parseColor(r.Color)
	if !r.Alive() {
		vector.StrokeCircle(screen, x, y, radius, 2, colornames.Dimgray, true)
		return
	}

	// Radar sweep.
	if since := tick - r.LastScanTime; r.LastScanTime >= 0 && since <= scanFade {
		reach := radarReach
		if r.LastScanResult >= 0 {
			reach = int(r.LastScanResult)
		}
		alpha := 0.5 * (1 - float64(since)/scanFade)
		for _, side := range []float64{-cfg.Radar.HalfCone, cfg.Radar.HalfCone} {
			rad := (r.LastScanAngle + side) * math.Pi / 180
			ex, ey := r.X+math.Cos(rad)*float64(reach), r.Y+math.Sin(rad)*float64(reach)
			vector.StrokeLine(screen, x, y, float32(ex), oy+float32(ey), 1, fade(colornames.Lime, alpha), true)
		}
	}

	vector.DrawFilledCircle(screen, x, y, radius, body, true)
	if r.Overheated {
		vector.StrokeCircle(screen, x, y, radius+3, 2, colornames.Red, true)
	}

	// Chassis heading and turret.
	hrad := r.Heading * math.Pi / 180
	vector.StrokeLine(screen, x, y, x+float32(math.Cos(hrad))*radius, y+float32(math.Sin(hrad))*radius, 2, colornames.Black, true)
	trad := r.Turret * math.Pi / 180
	muzzle := float32(cfg.Robot.MuzzleOffset)
	vector.StrokeLine(screen, x, y, x+float32(math.Cos(trad))*muzzle, y+float32(math.Sin(trad))*muzzle, 4, colornames.Lightgray, true)

	// Health and heat bars.
	frac := float32(r.Health / cfg.Robot.MaxHealth)
	vector.DrawFilledRect(screen, x-radius, y-radius-10, 2*radius, 3, colornames.Darkred, false)
	vector.DrawFilledRect(screen, x-radius, y-radius-10, 2*radius*frac, 3, colornames.Limegreen, false)
	heat := float32(r.Heat / cfg.Heat.Max)
	vector.DrawFilledRect(screen, x-radius, y-radius-6, 2*radius*heat, 2, colornames.Orange, false)

	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(float64(x-radius), float64(y+radius+2))
	textOp.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, r.Name, fontFace, textOp)
}

func (g *Game) drawHUD(screen *ebiten.Image, w engine.World) {
	cfg := g.m.Config()
	lines := []string{fmt.Sprintf("%s  tick %d  alive %d/%d", g.m.Status(), w.Tick, len(w.Alive()), len(w.Robots))}
	if winner, ok := g.m.Winner(); ok {
		lines = append(lines, "Winner: "+w.Robot(winner).Name)
	}
	lines = append(lines, g.logs...)

	textOp := &text.DrawOptions{}
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.GeoM.Translate(cfg.Arena.Width-360, barHeight+8)
	textOp.ColorScale.ScaleWithColor(colornames.Lightyellow)
	text.Draw(screen, strings.Join(lines, "\n"), fontFace, textOp)
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	w := g.m.World()
	g.drawArena(screen, w)
	g.drawHUD(screen, w)
	g.ui.Draw(screen)
}

// Layout returns the arena size plus the control bar, whatever the window size.
func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	cfg := g.m.Config()
	return int(cfg.Arena.Width), int(cfg.Arena.Height) + barHeight
}
