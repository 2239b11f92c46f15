// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package route holds the command tree and the parser that walks an
// argument list through it.
//
// The tree is made of Groups, which hold child groups and commands, and
// Commands, which own positional parameters and a run action. Options can be
// attached at any level and are visible to every command beneath.
package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeetrun/ycli/pkg/option"
	"github.com/yeetrun/ycli/pkg/param"
)

// Command is a leaf of the tree.
type Command struct {
	Name  string
	Short string // One line shown in command lists
	Long  string // Shown in the command's own usage; defaults to Short

	Params       []param.Param
	Options      []option.Option
	OptionGroups []*option.Group

	// Run is invoked after a successful parse. Bound values are read back off
	// Params and Options.
	Run func(ctx context.Context) error

	Hidden bool // Omit from command lists
}

// Description returns Long, falling back to Short.
func (c *Command) Description() string {
	if c.Long != "" {
		return c.Long
	}
	return c.Short
}

// Group is an interior node of the tree.
type Group struct {
	Name  string
	Short string
	Long  string

	Groups   []*Group
	Commands []*Command

	// Aliases rewrite a token at this group's level before child lookup.
	Aliases map[string]string

	Options      []option.Option
	OptionGroups []*option.Group

	// Default runs when the argument list ends at this group, which makes
	// the group act as a command too.
	Default *Command

	Hidden bool
}

// Description returns Long, falling back to Short.
func (g *Group) Description() string {
	if g.Long != "" {
		return g.Long
	}
	return g.Short
}

// Child looks up a direct child by name. Exactly one of the returned group
// and command is non-nil when ok is true.
func (g *Group) Child(name string) (*Group, *Command, bool) {
	for _, sub := range g.Groups {
		if sub.Name == name {
			return sub, nil, true
		}
	}
	for _, c := range g.Commands {
		if c.Name == name {
			return nil, c, true
		}
	}
	return nil, nil, false
}

// GroupPath is the chain of groups walked from the root.
type GroupPath []*Group

// Last returns the deepest group, or nil for an empty path.
func (p GroupPath) Last() *Group {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Names returns the group names in order.
func (p GroupPath) Names() []string {
	names := make([]string, len(p))
	for i, g := range p {
		names[i] = g.Name
	}
	return names
}

func (p GroupPath) String() string {
	return strings.Join(p.Names(), " ")
}

// CommandPath is a resolved group path plus its terminal command.
type CommandPath struct {
	Groups  GroupPath
	Command *Command
}

// IsDefault reports whether the command is the default of its group.
func (p CommandPath) IsDefault() bool {
	return p.Command != nil && p.Groups.Last() != nil && p.Groups.Last().Default == p.Command
}

// String renders the path as typed on the command line. A group's default
// command renders as the group path alone.
func (p CommandPath) String() string {
	if p.Command == nil || p.IsDefault() {
		return p.Groups.String()
	}
	if len(p.Groups) == 0 {
		return p.Command.Name
	}
	return p.Groups.String() + " " + p.Command.Name
}

// TreeError is returned by Validate for a malformed tree.
type TreeError struct {
	Path   string
	Reason string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("invalid command tree at %q: %s", e.Path, e.Reason)
}

// Validate checks the tree before any parse. Names must be non-empty, free
// of whitespace and not "-"-prefixed. Children of a group must have distinct
// names, aliases must point at existing children, and every command's
// parameters must be in order.
func Validate(root *Group) error {
	return validateGroup(GroupPath{root})
}

func validateGroup(path GroupPath) error {
	g := path.Last()
	if err := checkName(g.Name, path.String()); err != nil {
		return err
	}
	seen := make(map[string]bool)
	claim := func(name string) error {
		if seen[name] {
			return &TreeError{Path: path.String(), Reason: fmt.Sprintf("duplicate child %q", name)}
		}
		seen[name] = true
		return nil
	}
	for _, sub := range g.Groups {
		if err := claim(sub.Name); err != nil {
			return err
		}
		if err := validateGroup(append(path[:len(path):len(path)], sub)); err != nil {
			return err
		}
	}
	for _, c := range g.Commands {
		if err := claim(c.Name); err != nil {
			return err
		}
		if err := checkName(c.Name, path.String()+" "+c.Name); err != nil {
			return err
		}
		if err := validateCommand(CommandPath{Groups: path, Command: c}); err != nil {
			return err
		}
	}
	if g.Default != nil {
		if err := validateCommand(CommandPath{Groups: path, Command: g.Default}); err != nil {
			return err
		}
	}
	for from, to := range g.Aliases {
		if _, _, ok := g.Child(to); !ok {
			return &TreeError{Path: path.String(), Reason: fmt.Sprintf("alias %q points at unknown child %q", from, to)}
		}
	}
	return nil
}

// validateCommand leaves names alone since a group's default command may
// be unnamed.
func validateCommand(p CommandPath) error {
	if err := param.Validate(p.Command.Params); err != nil {
		return &TreeError{Path: p.String(), Reason: err.Error()}
	}
	return nil
}

func checkName(name, path string) error {
	if name == "" {
		return &TreeError{Path: path, Reason: "empty name"}
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return &TreeError{Path: path, Reason: fmt.Sprintf("name %q contains whitespace", name)}
	}
	if strings.HasPrefix(name, "-") {
		return &TreeError{Path: path, Reason: fmt.Sprintf("name %q starts with -", name)}
	}
	return nil
}
