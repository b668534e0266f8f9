// Package assets embeds the stock robots.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed bots/*.s
var botsFS embed.FS

// Stock robot names.
const (
	Sentry = "sentry"
	Target = "target"
	Hunter = "hunter"
)

// Bots is the embedded robots directory.
var Bots, _ = fs.Sub(botsFS, "bots")

// Names lists the stock robots.
func Names() []string {
	entries, err := fs.ReadDir(Bots, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".s"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Source returns the source of a stock robot.
func Source(name string) (string, error) {
	buf, err := fs.ReadFile(Bots, path.Clean(name)+".s")
	if err != nil {
		return "", fmt.Errorf("failed to read stock robot %q: %w", name, err)
	}
	return string(buf), nil
}

// MustSource is Source for the names above.
func MustSource(name string) string {
	src, err := Source(name)
	if err != nil {
		panic(err)
	}
	return src
}
