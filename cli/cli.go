// Package cli provides the functions to parse the non-standard roster arguments:
//
//	[-default] [-n name] [-c color] bot.s [-n name] [-c color] bot2.s ...
//
// -n and -c apply to the next robot file only.
// -default adds the stock sentry and target.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.creack.net/robotwar/assets"
	"go.creack.net/robotwar/match"
)

// MaxRobots is the largest roster accepted.
const MaxRobots = 10

// Palette is the color of each robot slot, in order.
var Palette = []string{
	"#ef4444", // Red
	"#f97316", // Orange
	"#f59e0b", // Amber
	"#84cc16", // Lime
	"#22c55e", // Green
	"#06b6d4", // Cyan
	"#3b82f6", // Blue
	"#8b5cf6", // Violet
	"#d946ef", // Fuchsia
	"#f43f5e", // Rose
}

// Entry is a parsed roster argument.
type Entry struct {
	PathName string
	Name     string
	Color    string
	Stock    string // Name of an embedded robot, instead of a file.
}

// valueFlag reads the value of a "-n value" or "-nvalue" flag.
func valueFlag(args []string, i int, flag string) (string, int, error) {
	arg := args[i]
	if arg == flag {
		if i+1 >= len(args) {
			return "", i, fmt.Errorf("missing value for %s flag", flag)
		}
		return args[i+1], i + 1, nil
	}
	v := strings.TrimPrefix(arg, flag)
	if v == "" {
		return "", i, fmt.Errorf("missing value for %s flag", flag)
	}
	return v, i, nil
}

// Parse reads the roster arguments.
func Parse(args []string) ([]*Entry, error) {
	var name, color string
	var entries []*Entry

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error

		switch {
		case arg == "-default" || arg == "--default":
			entries = append(entries,
				&Entry{Stock: assets.Sentry, Name: "Sentry"},
				&Entry{Stock: assets.Target, Name: "Target"},
			)
		case strings.HasPrefix(arg, "-n"):
			if name, i, err = valueFlag(args, i, "-n"); err != nil {
				return nil, err
			}
		case strings.HasPrefix(arg, "-c"):
			if color, i, err = valueFlag(args, i, "-c"); err != nil {
				return nil, err
			}
		case arg == "" || arg[0] == '-':
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			if !strings.HasSuffix(arg, ".s") {
				return nil, fmt.Errorf("invalid file extension for %q, must be .s", arg)
			}
			entries = append(entries, &Entry{PathName: arg, Name: name, Color: color})
			name, color = "", "" // Reset for the next robot.
		}
	}
	if name != "" || color != "" {
		return nil, fmt.Errorf("dangling -n/-c flag without robot file")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no robots provided")
	}
	if len(entries) > MaxRobots {
		return nil, fmt.Errorf("too many robots: %d, max %d", len(entries), MaxRobots)
	}
	return entries, nil
}

// shortName is the file name without directory and extension.
func shortName(pathName string) string {
	return strings.TrimSuffix(filepath.Base(pathName), ".s")
}

// Load reads the sources and builds the roster.
// Ids are derived from the names, made unique. Colors default to the palette slot.
func Load(entries []*Entry) ([]match.Bot, error) {
	bots := make([]match.Bot, 0, len(entries))
	used := map[string]int{}

	for i, e := range entries {
		var src string
		if e.Stock != "" {
			s, err := assets.Source(e.Stock)
			if err != nil {
				return nil, err
			}
			src = s
		} else {
			data, err := os.ReadFile(e.PathName)
			if err != nil {
				return nil, fmt.Errorf("failed to read file %q: %w", e.PathName, err)
			}
			src = string(data)
		}

		name := e.Name
		if name == "" {
			name = shortName(e.PathName)
		}
		id := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		used[id]++
		if n := used[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}
		color := e.Color
		if color == "" {
			color = Palette[i%len(Palette)]
		}
		bots = append(bots, match.Bot{ID: id, Name: name, Color: color, Source: src})
	}
	return bots, nil
}

// ParseRoster parses the arguments and loads the robots.
func ParseRoster(args []string) ([]match.Bot, error) {
	entries, err := Parse(args)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	bots, err := Load(entries)
	if err != nil {
		return nil, fmt.Errorf("load robots: %w", err)
	}
	return bots, nil
}
