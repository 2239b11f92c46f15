// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usage renders usage text for commands and groups, and the
// diagnostics printed for parse errors.
//
// A Formatter holds no parse state; its methods may be called any number of
// times.
package usage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/ycli/pkg/option"
	"github.com/yeetrun/ycli/pkg/param"
	"github.com/yeetrun/ycli/pkg/route"
	"tailscale.com/util/set"
)

const (
	indent   = "    "
	minAlign = 12
)

// Formatter renders usage text.
type Formatter struct {
	// Width wraps descriptions to this many columns. Zero disables wrapping.
	Width int

	// Global options are listed after the options of the rendered context,
	// such as the help flag the driver registers.
	Global []option.Option
}

// Usage renders the usage block for a resolved command:
//
//	Usage: tester test <testName> [<testerName>] [options]
//
//	Run a test.
//
//	Arguments:
//	    testName      Name of the test
//	Options:
//	    -s, --silent  Silence output
func (f Formatter) Usage(p route.CommandPath) string {
	var b strings.Builder
	opts := f.options(p.Groups, p.Command)

	b.WriteString("Usage: ")
	b.WriteString(p.String())
	if sig := Signature(p.Command.Params); sig != "" {
		b.WriteString(" ")
		b.WriteString(sig)
	}
	if len(opts) > 0 {
		b.WriteString(" [options]")
	}
	b.WriteString("\n")

	if d := p.Command.Description(); d != "" {
		b.WriteString("\n")
		b.WriteString(f.wrap(d, 0))
		b.WriteString("\n")
	}

	var args []row
	for _, prm := range p.Command.Params {
		info := prm.Describe()
		if info.Help != "" {
			args = append(args, row{info.Name, info.Help})
		}
	}
	if len(args) > 0 || len(opts) > 0 {
		b.WriteString("\n")
	}
	f.table(&b, "Arguments:", args)
	f.table(&b, "Options:", optionRows(opts))
	return b.String()
}

// List renders a group's usage line and description followed by its visible
// child groups, then its visible commands.
func (f Formatter) List(groups route.GroupPath) string {
	var b strings.Builder
	g := groups.Last()
	opts := f.options(groups, g.Default)

	b.WriteString("Usage: ")
	b.WriteString(groups.String())
	switch {
	case g.Default != nil:
		b.WriteString(" [<command>]")
	case len(g.Groups)+len(g.Commands) > 0:
		b.WriteString(" <command>")
	}
	if len(opts) > 0 {
		b.WriteString(" [options]")
	}
	b.WriteString("\n")

	if d := g.Description(); d != "" {
		b.WriteString("\n")
		b.WriteString(f.wrap(d, 0))
		b.WriteString("\n")
	}

	var subs, cmds []row
	for _, sub := range g.Groups {
		if !sub.Hidden {
			subs = append(subs, row{sub.Name, sub.Short})
		}
	}
	for _, c := range g.Commands {
		if !c.Hidden {
			cmds = append(cmds, row{c.Name, c.Short})
		}
	}
	if len(subs)+len(cmds)+len(opts) > 0 {
		b.WriteString("\n")
	}
	f.table(&b, "Groups:", subs)
	f.table(&b, "Commands:", cmds)
	f.table(&b, "Options:", optionRows(opts))
	return b.String()
}

// Context renders the usage block for the most specific context err carries:
// the command usage once a command is resolved, otherwise the group list.
// It returns "" for errors that carry no parse context.
func (f Formatter) Context(err error) string {
	var (
		re *route.RouteError
		oe *route.OptionError
		pe *route.ParameterError
	)
	switch {
	case errors.As(err, &pe):
		return f.Usage(pe.Path)
	case errors.As(err, &oe):
		if oe.Command != nil {
			return f.Usage(oe.Path())
		}
		return f.List(oe.Groups)
	case errors.As(err, &re):
		return f.List(re.Groups)
	}
	return ""
}

// Error renders the context usage block followed by a one-line cause.
func (f Formatter) Error(err error) string {
	ctx := f.Context(err)
	if ctx != "" {
		ctx += "\n"
	}
	return ctx + "Error: " + err.Error() + "\n"
}

// Signature renders the positional part of a usage line:
// "<req> [<opt>] <coll> ..." or "[<coll> ...]" for an optional collected
// parameter.
func Signature(params []param.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		info := p.Describe()
		s := "<" + info.Name + ">"
		if info.Kind == param.KindCollected {
			s += " ..."
		}
		if !info.Required {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// options returns every option in scope for the path, innermost first,
// followed by the formatter's globals. Duplicates are dropped.
func (f Formatter) options(groups route.GroupPath, c *route.Command) []option.Option {
	var opts []option.Option
	seen := make(set.Set[option.Option])
	add := func(list []option.Option) {
		for _, o := range list {
			if !seen.Contains(o) {
				seen.Add(o)
				opts = append(opts, o)
			}
		}
	}
	addAll := func(list []option.Option, groups []*option.Group) {
		add(list)
		for _, g := range groups {
			add(g.Options)
		}
	}
	if c != nil {
		addAll(c.Options, c.OptionGroups)
	}
	for i := len(groups) - 1; i >= 0; i-- {
		addAll(groups[i].Options, groups[i].OptionGroups)
	}
	add(f.Global)
	return opts
}

type row struct {
	name string
	desc string
}

func optionRows(opts []option.Option) []row {
	rows := make([]row, 0, len(opts))
	for _, o := range opts {
		info := o.Describe()
		name := strings.Join(info.Names, ", ")
		if info.Placeholder != "" {
			name += " <" + info.Placeholder + ">"
		}
		desc := info.Help
		if info.Variadic {
			desc = strings.TrimSpace(desc + " (repeatable)")
		}
		rows = append(rows, row{name, desc})
	}
	return rows
}

// table writes rows under title with descriptions aligned in one column.
// Continuation lines of multi-line descriptions are re-indented to that
// column.
func (f Formatter) table(b *strings.Builder, title string, rows []row) {
	if len(rows) == 0 {
		return
	}
	width := minAlign
	for _, r := range rows {
		width = max(width, len(r.name))
	}
	col := len(indent) + width + 2

	b.WriteString(title)
	b.WriteString("\n")
	for _, r := range rows {
		if r.desc == "" {
			fmt.Fprintf(b, "%s%s\n", indent, r.name)
			continue
		}
		desc := f.wrap(r.desc, col)
		desc = strings.ReplaceAll(desc, "\n", "\n"+strings.Repeat(" ", col))
		fmt.Fprintf(b, "%s%-*s  %s\n", indent, width, r.name, desc)
	}
}

// wrap word-wraps text to fit f.Width columns when printed starting at
// column start. Existing line breaks are kept.
func (f Formatter) wrap(text string, start int) string {
	avail := f.Width - start
	if f.Width <= 0 || avail <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, avail)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	n := 0
	for i, w := range words {
		switch {
		case i == 0:
		case n+1+len(w) > width:
			b.WriteString("\n")
			n = 0
		default:
			b.WriteString(" ")
			n++
		}
		b.WriteString(w)
		n += len(w)
	}
	return b.String()
}
