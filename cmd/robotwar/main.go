// Command robotwar runs a headless match and prints the result.
//
//	robotwar [options] [-n name] [-c color] bot.s ...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/k0kubun/pp/v3"

	"go.creack.net/robotwar/cli"
	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/logging"
	"go.creack.net/robotwar/match"
)

// summary is the per robot result.
type summary struct {
	ID      string
	Name    string
	Health  float64
	Heat    float64
	Ammo    [4]int
	X, Y    float64
	Error   string
	Outcome string
}

func run(ctx context.Context, cfg config.Config, args []string, dump bool) error {
	bots, err := cli.ParseRoster(args)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
	m := match.New(cfg, match.WithLogger(logger))
	logger.Info().Uint64("seed", m.Seed()).Float64("width", cfg.Arena.Width).Float64("height", cfg.Arena.Height).Msg("Match created")

	if err := m.SetRoster(bots); err != nil {
		return fmt.Errorf("set roster: %w", err)
	}
	go func() {
		for msg := range m.Messages {
			if msg.Type == match.MsgEvent {
				logger.Debug().Stringer("kind", msg.Event.Kind).Str("robot", msg.RobotID).Msg(msg.Message)
			}
		}
	}()

	if err := m.Run(ctx); err != nil {
		return err
	}

	w := m.World()
	if winner, ok := m.Winner(); ok {
		fmt.Printf("Winner: %s after %d ticks.\n", w.Robot(winner).Name, w.Tick)
	} else {
		fmt.Printf("Draw after %d ticks.\n", w.Tick)
	}
	for _, r := range w.Robots {
		fmt.Printf("  %-12s health %5.1f\n", r.Name, r.Health)
	}

	if dump {
		out := make([]summary, 0, len(w.Robots))
		for _, r := range w.Robots {
			s := summary{
				ID:      r.ID,
				Name:    r.Name,
				Health:  r.Health,
				Heat:    r.Heat,
				Ammo:    r.Ammo,
				X:       r.X,
				Y:       r.Y,
				Outcome: r.LastOutcome.String(),
			}
			if r.Err != nil {
				s.Error = r.Err.Error()
			}
			out = append(out, s)
		}
		pp.Println(out)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	configFile := flag.String("config", "", "config file (json, yaml or toml)")
	preset := flag.String("preset", "", "arena preset, overrides the config")
	ticks := flag.Int("ticks", 0, "stop after that many ticks, 0 for the config value")
	seed := flag.Uint64("seed", 0, "random seed, 0 for the config value")
	dump := flag.Bool("dump", false, "dump the final robot states")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [options] [-default] [-n name] [-c color] <.s path> ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		c, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("fail: %s.", err)
		}
		cfg = c
	}
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			log.Fatalf("fail: %s.", err)
		}
	}
	if *ticks > 0 {
		cfg.Match.MaxTicks = *ticks
	}
	if *seed != 0 {
		cfg.Match.Seed = *seed
	}
	if cfg.Match.MaxTicks == 0 {
		// Bots that never meet would run forever.
		cfg.Match.MaxTicks = 36000
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, flag.Args(), *dump); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
