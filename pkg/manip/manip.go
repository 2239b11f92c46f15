// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manip rewrites an argument list before it is routed.
package manip

import (
	"maps"
	"strings"

	"github.com/yeetrun/ycli/pkg/arglist"
	"github.com/yeetrun/ycli/pkg/value"
)

// Terminator ends option processing; tokens after it are positional.
const Terminator = "--"

// Manipulator rewrites a List in place.
type Manipulator interface {
	Manipulate(l *arglist.List)
}

// Func adapts an ordinary function to a Manipulator.
type Func func(l *arglist.List)

func (f Func) Manipulate(l *arglist.List) { f(l) }

// Run applies ms to l in order.
func Run(l *arglist.List, ms ...Manipulator) {
	for _, m := range ms {
		m.Manipulate(l)
	}
}

// DefaultAliases returns the first-token aliases installed when none are
// configured.
func DefaultAliases() map[string]string {
	return map[string]string{"-h": "help"}
}

// Alias rewrites the first token when it matches a key of Aliases. Only the
// token's value changes; the list keeps its length.
type Alias struct {
	Aliases map[string]string
}

// NewAlias returns an Alias seeded with DefaultAliases and overlaid with
// extra.
func NewAlias(extra map[string]string) *Alias {
	aliases := DefaultAliases()
	maps.Copy(aliases, extra)
	return &Alias{Aliases: aliases}
}

func (a *Alias) Manipulate(l *arglist.List) {
	first, ok := l.Head()
	if !ok {
		return
	}
	if mapped, ok := a.Aliases[first]; ok {
		l.Set(0, mapped)
	}
}

// Splitter expands bundled short flags and attached values:
//
//	-abc          -> -a -b -c
//	--key=value   -> --key value
//	-k=value      -> -k value
//	-ab=value     -> -a -b value
//
// Negative numbers such as -10 are left alone, as is everything after the
// "--" terminator. Running a Splitter on its own output changes nothing.
type Splitter struct{}

func (Splitter) Manipulate(l *arglist.List) {
	c := l.Cursor()
	for c.Next() {
		tok := c.Value()
		if tok == Terminator {
			return
		}
		if parts := splitToken(tok); parts != nil {
			c.Replace(parts...)
		}
	}
}

// splitToken returns the expansion of tok, or nil when tok stays as is.
func splitToken(tok string) []string {
	if len(tok) < 2 || tok[0] != '-' || tok[1] == '=' || value.IsNumeric(tok) {
		return nil
	}
	name, val, hasValue := tok, "", false
	if idx := strings.Index(tok, "="); idx > 1 && tok[:idx] != Terminator {
		name, val, hasValue = tok[:idx], tok[idx+1:], true
	}
	var parts []string
	if strings.HasPrefix(name, "--") || len(name) <= 2 {
		parts = []string{name}
	} else {
		for _, r := range name[1:] {
			parts = append(parts, "-"+string(r))
		}
	}
	if hasValue {
		parts = append(parts, val)
	}
	if len(parts) == 1 {
		return nil
	}
	return parts
}
