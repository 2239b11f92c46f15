// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui decides how diagnostics are drawn on the terminal: whether to
// color them and how wide to wrap them.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto" // Color when writing to a capable terminal
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses s as a ColorMode. The empty string is ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q: must be one of auto, always, never", s)
}

var (
	isTerminalFn = term.IsTerminal
	getSizeFn    = term.GetSize
)

// Colorizer colors text when Enabled.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer for output written to w. In auto mode
// color is used only when w is a terminal, NO_COLOR is unset and TERM is not
// dumb.
func NewColorizer(mode ColorMode, w io.Writer) Colorizer {
	switch mode {
	case ColorAlways:
		return Colorizer{Enabled: true}
	case ColorNever:
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return Colorizer{}
	}
	fd, ok := fileDescriptor(w)
	if !ok || !isTerminalFn(fd) {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// Wrap renders text with attrs when c is enabled and returns it unchanged
// otherwise.
func (c Colorizer) Wrap(text string, attrs ...color.Attribute) string {
	col := color.New(attrs...)
	if c.Enabled {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col.Sprint(text)
}

// Error renders an error label in bold red.
func (c Colorizer) Error(text string) string {
	return c.Wrap(text, color.FgRed, color.Bold)
}

// Width returns the column count of the terminal behind w, or 0 if w is not
// a terminal.
func Width(w io.Writer) int {
	fd, ok := fileDescriptor(w)
	if !ok || !isTerminalFn(fd) {
		return 0
	}
	cols, _, err := getSizeFn(fd)
	if err != nil || cols <= 0 {
		return 0
	}
	return cols
}

func fileDescriptor(w io.Writer) (int, bool) {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}
