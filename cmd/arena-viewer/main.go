// Command arena-viewer renders a match in a window.
//
// Keys: space run/pause, n step, r reset.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"go.creack.net/robotwar/cli"
	"go.creack.net/robotwar/config"
	"go.creack.net/robotwar/logging"
	"go.creack.net/robotwar/match"
)

func main() {
	log.SetFlags(0)
	configFile := flag.String("config", "", "config file (json, yaml or toml)")
	preset := flag.String("preset", "", "arena preset, overrides the config")
	autoStart := flag.Bool("run", false, "start the match right away")
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
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			log.Fatalf("fail: %s.", err)
		}
	}

	bots, err := cli.ParseRoster(flag.Args())
	if err != nil {
		log.Fatalf("Failed to parse CLI roster: %s.", err)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
	m := match.New(cfg, match.WithLogger(logger))
	if err := m.SetRoster(bots); err != nil {
		log.Fatalf("fail: %s.", err)
	}
	if *autoStart {
		if err := m.Start(); err != nil {
			log.Fatalf("fail: %s.", err)
		}
	}

	game := NewGame(context.Background(), m)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Robot War")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
