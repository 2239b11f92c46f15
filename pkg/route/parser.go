// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"github.com/yeetrun/ycli/pkg/arglist"
	"github.com/yeetrun/ycli/pkg/manip"
	"github.com/yeetrun/ycli/pkg/option"
	"github.com/yeetrun/ycli/pkg/param"
	"github.com/yeetrun/ycli/pkg/value"
	"go.uber.org/zap"
)

// Parser routes an argument list through a command tree.
type Parser struct {
	Root *Group

	// Help, when set, is registered at the root. Recognizing it ends the
	// parse early with Result.Help set.
	Help *option.Flag

	Log *zap.Logger
}

// Result is the outcome of a parse.
type Result struct {
	Groups  GroupPath
	Command *Command // Nil when help was requested before a command resolved

	// Registry holds every option that was in scope, with its bound value.
	Registry *option.Registry

	Help bool
}

// Path returns the resolved command path.
func (r *Result) Path() CommandPath {
	return CommandPath{Groups: r.Groups, Command: r.Command}
}

type parse struct {
	log *zap.Logger
	res *Result
	reg *option.Registry

	params     *param.Iterator // Non-nil once a command is found
	terminated bool            // "--" was seen
}

// Parse consumes l. Tokens are classified one at a time, left to right, by
// their prefix and the current state: routing through groups until a command
// is found, then binding positional tokens to that command's parameters.
// Options may appear anywhere and are resolved against every option in scope
// at that point. On error the Result describes how far parsing got.
func (p *Parser) Parse(l *arglist.List) (*Result, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	ps := &parse{
		log: log,
		res: &Result{Groups: GroupPath{p.Root}},
		reg: option.NewRegistry(log),
	}
	ps.res.Registry = ps.reg

	if p.Help != nil {
		if err := ps.reg.Register([]option.Option{p.Help}, nil); err != nil {
			return ps.res, ps.optionErr(err)
		}
	}
	if err := ps.reg.Register(p.Root.Options, p.Root.OptionGroups); err != nil {
		return ps.res, ps.optionErr(err)
	}

	for !l.Empty() {
		tok, _ := l.Head()
		if ps.routing() {
			if to, ok := ps.res.Groups.Last().Aliases[tok]; ok {
				log.Debug("Applied group alias.", zap.String("from", tok), zap.String("to", to))
				l.Set(0, to)
				tok = to
			}
		}

		if !ps.terminated && tok == manip.Terminator {
			l.Pop()
			ps.terminated = true
			continue
		}

		if ps.isOption(tok) {
			o, err := ps.reg.Recognize(l)
			if err != nil {
				return ps.res, ps.optionErr(err)
			}
			if p.Help != nil && o == p.Help {
				log.Debug("Help requested.", zap.Strings("path", ps.res.Groups.Names()))
				ps.res.Help = true
				return ps.res, nil
			}
			continue
		}

		if ps.routing() {
			if err := ps.route(tok); err != nil {
				return ps.res, err
			}
			l.Pop()
			continue
		}

		if ps.params.Full() {
			return ps.res, &ParameterError{Path: ps.res.Path(), Err: ps.params.Overflow(ps.countPositional(l.Tokens()[1:]))}
		}
		if err := ps.params.Bind(tok); err != nil {
			return ps.res, &ParameterError{Path: ps.res.Path(), Err: err}
		}
		log.Debug("Bound parameter.", zap.String("token", tok))
		l.Pop()
	}

	if ps.routing() {
		d := ps.res.Groups.Last().Default
		if d == nil {
			return ps.res, &RouteError{Groups: ps.res.Groups}
		}
		log.Debug("Using group default command.", zap.Strings("path", ps.res.Groups.Names()))
		if err := ps.found(d); err != nil {
			return ps.res, err
		}
	}

	if err := ps.params.Check(); err != nil {
		return ps.res, &ParameterError{Path: ps.res.Path(), Err: err}
	}
	if err := ps.reg.CheckGroups(); err != nil {
		return ps.res, ps.optionErr(err)
	}
	return ps.res, nil
}

func (ps *parse) routing() bool {
	return ps.res.Command == nil
}

// isOption reports whether tok goes to the option registry. Once a command
// is found, a negative number that is not itself a registered option name is
// positional.
func (ps *parse) isOption(tok string) bool {
	if ps.terminated || !option.IsOption(tok) {
		return false
	}
	if !ps.routing() && value.IsNumeric(tok) {
		_, registered := ps.reg.Lookup(tok)
		return registered
	}
	return true
}

func (ps *parse) route(tok string) error {
	cur := ps.res.Groups.Last()
	g, c, ok := cur.Child(tok)
	if !ok {
		ps.log.Debug("No route.", zap.String("token", tok), zap.Strings("path", ps.res.Groups.Names()))
		return &RouteError{Groups: ps.res.Groups, NotFound: tok}
	}
	if g != nil {
		ps.res.Groups = append(ps.res.Groups, g)
		ps.log.Debug("Entered group.", zap.Strings("path", ps.res.Groups.Names()))
		if err := ps.reg.Register(g.Options, g.OptionGroups); err != nil {
			return ps.optionErr(err)
		}
		return nil
	}
	return ps.found(c)
}

func (ps *parse) found(c *Command) error {
	ps.res.Command = c
	ps.log.Debug("Found command.", zap.String("command", ps.res.Path().String()))
	ps.params = param.NewIterator(c.Params)
	if err := ps.reg.Register(c.Options, c.OptionGroups); err != nil {
		return ps.optionErr(err)
	}
	return nil
}

func (ps *parse) optionErr(err error) error {
	return &OptionError{Groups: ps.res.Groups, Command: ps.res.Command, Err: err}
}

// countPositional counts the tokens in rest that would bind to parameters.
// Values following a registered key are skipped.
func (ps *parse) countPositional(rest []string) int {
	n := 0
	terminated := ps.terminated
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		switch {
		case !terminated && tok == manip.Terminator:
			terminated = true
		case terminated || !option.IsOption(tok):
			n++
		default:
			o, ok := ps.reg.Lookup(tok)
			if !ok {
				if value.IsNumeric(tok) {
					n++
				}
				continue
			}
			if o.Describe().Type != "" {
				i++
			}
		}
	}
	return n
}
