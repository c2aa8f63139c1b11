package main

import (
	"os"

	"golang.org/x/term"
)

// color renders short ANSI escape stanzas around text, auto-detecting
// whether stdout is a terminal the same way the teacher's CLI decides
// whether to print its banners in color.
type color struct {
	enabled bool
}

func autoColor() color {
	return color{enabled: term.IsTerminal(int(os.Stdout.Fd()))}
}

// resolveColor honors an explicit --color mode, falling back to the
// teacher's own terminal auto-detection for "auto".
func resolveColor(mode string) color {
	switch mode {
	case "always":
		return color{enabled: true}
	case "never":
		return color{enabled: false}
	default:
		return autoColor()
	}
}

func (c color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return "\x1b[" + code + "m" + text + "\x1b[0m"
}

func (c color) bold(text string) string   { return c.wrap("1", text) }
func (c color) red(text string) string    { return c.wrap("31", text) }
func (c color) green(text string) string  { return c.wrap("32", text) }
func (c color) yellow(text string) string { return c.wrap("33", text) }
func (c color) cyan(text string) string   { return c.wrap("36", text) }
