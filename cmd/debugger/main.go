// Command debugger is a terminal single-step debugger for robot programs.
//
// Keys: n step one instruction, space run/pause, r reset, q quit,
// up/down select the robot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"go.creack.net/robotwar/cli"
	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/disasm"
	"go.creack.net/robotwar/engine"
	"go.creack.net/robotwar/logging"
	"go.creack.net/robotwar/match"
	"go.creack.net/robotwar/vm"
)

type Game struct {
	app *tview.Application

	root *tview.Pages

	robotListView *tview.List
	stateView     *tview.TextView
	registersView *tview.Table
	listingView   *tview.TextView
	logsView      *tview.TextView

	m        *match.Match
	selected int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewGame(ctx context.Context, m *match.Match) *Game {
	app := tview.NewApplication().EnableMouse(true)

	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	logsView := newTextView("")
	logsView.SetTitle("Events").SetBorder(true)
	logsView.ScrollToEnd()

	stateView := newTextView("")
	stateView.SetTitle("Match").SetBorder(true)

	registersView := tview.NewTable().SetBorders(false)
	registersView.SetTitle("Registers").SetBorder(true)

	listingView := newTextView("")
	listingView.SetTitle("Program").SetBorder(true)
	listingView.SetRegions(true)

	robotListView := tview.NewList()
	robotListView.SetBorder(true)
	robotListView.SetTitle("Robots")
	robotListView.ShowSecondaryText(false)

	leftPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(stateView, 0, 1, false).
		AddItem(robotListView, 0, 2, true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(registersView, 0, 3, false).
		AddItem(logsView, 0, 2, false)

	flex := tview.NewFlex().
		AddItem(leftPane, 0, 1, true).
		AddItem(listingView, 0, 2, false).
		AddItem(rightPane, 0, 1, false)

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)

	ctx, cancel := context.WithCancel(ctx)

	g := &Game{
		app:  app,
		root: pages,

		robotListView: robotListView,
		stateView:     stateView,
		registersView: registersView,
		listingView:   listingView,
		logsView:      logsView,

		m:      m,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, r := range m.World().Robots {
		robotListView.AddItem(r.Name, "", 0, nil)
	}
	robotListView.SetChangedFunc(func(index int, _, _ string, _ rune) {
		g.selected = index
		g.Draw()
	})
	return g
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

// toggle runs or pauses the match.
func (g *Game) toggle() {
	var err error
	switch g.m.Status() {
	case match.StatusRunning:
		err = g.m.Pause()
	case match.StatusPaused:
		err = g.m.Resume()
	default:
		err = g.m.Start()
	}
	if err != nil {
		fmt.Fprintf(g.logsView, "[red]%s[:::]\n", tview.Escape(err.Error()))
	}
}

func (g *Game) Init() {
	f := func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			g.Stop()
			return nil
		}
		switch event.Rune() {
		case 'n':
			if err := g.m.Step(g.ctx); err != nil {
				fmt.Fprintf(g.logsView, "[red]%s[:::]\n", tview.Escape(err.Error()))
			}
			g.Draw()
			return nil
		case ' ':
			g.toggle()
			g.Draw()
			return nil
		case 'r':
			g.m.Reset()
			g.logsView.Clear()
			g.Draw()
			return nil
		case 'q':
			g.Stop()
			return nil
		}
		return event
	}
	g.root.SetInputCapture(f)
	go func() {
		for {
			select {
			case msg := <-g.m.Messages:
				g.app.QueueUpdateDraw(func() { g.log(msg) })
			case <-g.ctx.Done():
				return
			}
		}
	}()
}

func (g *Game) log(msg match.Message) {
	// NOTE: tview can't reset the color with [:], so we use tcell default.
	colorCode := "[" + tcell.ColorDefault.String() + ":::]"
	if r := g.m.Robot(msg.RobotID); r != nil && r.Color != "" {
		colorCode = "[" + r.Color + ":::]"
	}
	switch msg.Type {
	case match.MsgEvent:
		if msg.Event.Kind == engine.EvScan {
			return // Too noisy.
		}
	case match.MsgCompileError, match.MsgError:
		colorCode = "[red:::]"
	case match.MsgGameOver, match.MsgStatus:
		colorCode = "[yellow::b:]"
	}
	fmt.Fprintf(g.logsView, "%s%s[:::]\n", colorCode, tview.Escape(strings.TrimSuffix(msg.Message, "\n")))
}

func (g *Game) robot() *vm.Robot {
	robots := g.m.World().Robots
	if g.selected < 0 || g.selected >= len(robots) {
		return nil
	}
	return robots[g.selected]
}

func (g *Game) drawState() {
	w := g.m.World()
	g.stateView.Clear()
	fmt.Fprintf(g.stateView, "Status: %s\n", g.m.Status())
	fmt.Fprintf(g.stateView, "Tick: %d\n", w.Tick)
	fmt.Fprintf(g.stateView, "Alive: %d/%d\n", len(w.Alive()), len(w.Robots))
	fmt.Fprintf(g.stateView, "Munitions: %d slugs, %d missiles\n", len(w.Projectiles), len(w.Missiles))
	fmt.Fprintf(g.stateView, "Seed: %d\n", g.m.Seed())
	if winner, ok := g.m.Winner(); ok {
		fmt.Fprintf(g.stateView, "[yellow::b]Winner: %s[:::]\n", winner)
	}
}

func (g *Game) drawRobotList() {
	for i, r := range g.m.World().Robots {
		deadCode := ""
		if !r.Alive() {
			deadCode = "s"
		}
		attr := "[" + r.Color + "::" + deadCode + ":]"
		g.robotListView.SetItemText(i, fmt.Sprintf("%s%s (%.0f)[:::]", attr, tview.Escape(r.Name), r.Health), "")
	}
}

func (g *Game) drawRegisters(r *vm.Robot) {
	g.registersView.Clear()
	for i, elem := range []string{"register", "value"} {
		cell := tview.NewTableCell(elem).
			SetAttributes(tcell.AttrBold).
			SetAlign(tview.AlignCenter)
		g.registersView.SetCell(0, i, cell).SetFixed(1, i)
	}
	if r == nil {
		return
	}
	for i, reg := range r.Regs.Snapshot() {
		name := tview.NewTableCell(reg.Name)
		if reg.System {
			name.SetTextColor(tcell.ColorLightSkyBlue)
		}
		g.registersView.SetCell(i+1, 0, name)
		g.registersView.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprintf("%g", reg.Value)).SetAlign(tview.AlignRight))
	}
}

func (g *Game) drawListing(r *vm.Robot) {
	g.listingView.Clear()
	if r == nil {
		return
	}
	g.listingView.SetTitle(fmt.Sprintf("Program: %s (pc %d, flag %d)", r.Name, r.PC, r.Flag))
	if r.Err != nil {
		fmt.Fprintf(g.listingView, "[red]%s[:::]\n\n", tview.Escape(r.Err.Error()))
	}
	for _, l := range disasm.Lines(r.Program) {
		for _, label := range l.Labels {
			fmt.Fprintf(g.listingView, "[::b]%s:[:::]\n", label)
		}
		if l.End {
			continue
		}
		txt := tview.Escape(fmt.Sprintf("%3d %4d %s", l.Index, l.Instruction.Line, strings.ReplaceAll(l.Instruction.PrettyPrint(), "\t", "  ")))
		if l.Index == r.PC {
			fmt.Fprintf(g.listingView, "[\"pc\"][::r]%s[:::][\"\"]\n", txt)
			continue
		}
		fmt.Fprintf(g.listingView, "%s\n", txt)
	}
	fmt.Fprintf(g.listingView, "\nLast: %s\n", tview.Escape(r.LastOutcome.String()))
	g.listingView.Highlight("pc").ScrollToHighlight()
}

func (g *Game) Draw() {
	r := g.robot()
	g.drawState()
	g.drawRobotList()
	g.drawRegisters(r)
	g.drawListing(r)
}

func (g *Game) loop(period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-g.ctx.Done():
			return
		}
		g.app.QueueUpdateDraw(func() {
			if g.m.Tick(g.ctx) {
				g.Draw()
			}
		})
	}
}

func main() {
	log.SetFlags(0)
	configFile := flag.String("config", "", "config file (json, yaml or toml)")
	period := flag.Duration("period", 100*time.Millisecond, "tick period when running")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [-default] [-n name] [-c color] <.s path> ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		c, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("fail: %s.", err)
		}
		cfg = c
	}

	bots, err := cli.ParseRoster(flag.Args())
	if err != nil {
		log.Fatalf("Failed to parse CLI roster: %s.", err)
	}

	// The terminal belongs to tview, logs go to a file when asked.
	logger := zerolog.Nop()
	if path := os.Getenv("ROBOTWAR_DEBUG_LOG"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("fail: %s.", err)
		}
		defer func() { _ = f.Close() }() // Best effort.
		logger = logging.New(f, cfg.Log.Level, false)
	}

	m := match.New(cfg, match.WithLogger(logger))
	if err := m.SetRoster(bots); err != nil {
		log.Fatalf("fail: %s.", err)
	}

	g := NewGame(context.Background(), m)
	g.Init()
	g.Draw()
	go g.loop(*period)

	if err := g.app.SetRoot(g.root, true).SetFocus(g.robotListView).Run(); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
