// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli is the entry point of a command-line program: it owns the
// command tree, runs the argument manipulators, parses, renders usage and
// errors, and invokes the matched command.
//
//	app := &cli.CLI{
//	    Name:     "tester",
//	    Version:  "1.0.0",
//	    Commands: []*route.Command{testCmd},
//	}
//	os.Exit(app.Go(ctx))
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/yeetrun/ycli/pkg/arglist"
	"github.com/yeetrun/ycli/pkg/manip"
	"github.com/yeetrun/ycli/pkg/option"
	"github.com/yeetrun/ycli/pkg/param"
	"github.com/yeetrun/ycli/pkg/route"
	"github.com/yeetrun/ycli/pkg/tui"
	"github.com/yeetrun/ycli/pkg/usage"
	"go.uber.org/zap"
)

const (
	helpCommand    = "help"
	versionCommand = "version"
	versionFlag    = "--version"
)

// CLI is a command-line program. The zero value of every field except Name
// is usable. A CLI may be run any number of times; each run resets the
// values bound on its options and parameters.
type CLI struct {
	Name        string
	Version     string // Enables the version command and --version when set
	Description string

	Commands     []*route.Command
	Groups       []*route.Group
	Options      []option.Option // Visible to every command
	OptionGroups []*option.Group

	// Aliases rewrite the first argument. They are merged over the default
	// "-h" to "help" mapping.
	Aliases map[string]string

	// Manipulators run after alias substitution and option splitting.
	Manipulators []manip.Manipulator

	Stdout io.Writer // Defaults to os.Stdout
	Stderr io.Writer // Defaults to os.Stderr
	Logger *zap.Logger

	Color tui.ColorMode
	Width int // Usage wrap width; 0 detects it from Stdout

	help *option.Flag
}

// ExitError lets a command's Run select the process exit code. Err, when
// set, is printed like any other run error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Go runs the program against the process arguments and returns the exit
// code.
func (c *CLI) Go(ctx context.Context) int {
	return c.run(ctx, arglist.FromProcessArgs())
}

// GoWithArgs runs the program against args, which exclude the program name.
func (c *CLI) GoWithArgs(ctx context.Context, args []string) int {
	return c.run(ctx, arglist.New(args...))
}

// DebugGo runs the program against a single command line such as
// `tester test "first test" -s`. The first token is the program name and is
// dropped.
func (c *CLI) DebugGo(ctx context.Context, line string) int {
	l, err := arglist.FromString(line)
	if err != nil {
		c.printError(err)
		return 1
	}
	l.Pop()
	return c.run(ctx, l)
}

// Parse validates the command tree, runs the manipulators over l and parses
// it without invoking any command.
func (c *CLI) Parse(l *arglist.List) (*route.Result, error) {
	root := c.Root()
	if err := route.Validate(root); err != nil {
		return nil, err
	}
	manip.Run(l, c.manipulators()...)
	c.logger().Debug("Parsing.", zap.Strings("args", l.Tokens()))
	p := &route.Parser{Root: root, Help: c.helpFlag(), Log: c.logger()}
	return p.Parse(l)
}

// Root returns the command tree: a group named after the program holding
// the user's commands and groups plus the built-in help and version
// commands. A user command of the same name replaces a built-in.
func (c *CLI) Root() *route.Group {
	root := &route.Group{
		Name:         c.Name,
		Long:         c.Description,
		Groups:       c.Groups,
		Commands:     slices.Clone(c.Commands),
		Options:      c.Options,
		OptionGroups: c.OptionGroups,
	}
	if _, _, taken := root.Child(helpCommand); !taken {
		root.Commands = append(root.Commands, c.helpCommand(root))
	}
	if c.Version != "" {
		if _, _, taken := root.Child(versionCommand); !taken {
			root.Commands = append(root.Commands, c.versionCommand())
		}
	}
	return root
}

func (c *CLI) run(ctx context.Context, l *arglist.List) int {
	res, err := c.Parse(l)
	if err != nil {
		c.printError(err)
		return 1
	}
	f := c.formatter()
	if res.Help {
		if res.Command != nil {
			fmt.Fprint(c.stdout(), f.Usage(res.Path()))
		} else {
			fmt.Fprint(c.stdout(), f.List(res.Groups))
		}
		return 0
	}

	cmd := res.Command
	if cmd.Run == nil {
		fmt.Fprint(c.stdout(), f.Usage(res.Path()))
		return 0
	}
	c.logger().Debug("Running command.", zap.String("command", res.Path().String()))
	if err := cmd.Run(ctx); err != nil {
		var ee *ExitError
		if errors.As(err, &ee) {
			if ee.Err != nil {
				c.printError(ee.Err)
			}
			return ee.Code
		}
		c.printError(err)
		return 1
	}
	return 0
}

// printError writes the usage block for the error's context, then the
// cause.
func (c *CLI) printError(err error) {
	w := c.stderr()
	if ctx := c.formatter().Context(err); ctx != "" {
		fmt.Fprintln(w, ctx)
	}
	colors := tui.NewColorizer(c.Color, w)
	fmt.Fprintf(w, "%s %v\n", colors.Error("Error:"), err)
}

func (c *CLI) formatter() usage.Formatter {
	width := c.Width
	if width == 0 {
		width = tui.Width(c.stdout())
	}
	return usage.Formatter{Width: width, Global: []option.Option{c.helpFlag()}}
}

func (c *CLI) manipulators() []manip.Manipulator {
	aliases := maps.Clone(c.Aliases)
	if c.Version != "" {
		if _, ok := aliases[versionFlag]; !ok {
			if aliases == nil {
				aliases = make(map[string]string)
			}
			aliases[versionFlag] = versionCommand
		}
	}
	ms := []manip.Manipulator{manip.NewAlias(aliases), manip.Splitter{}}
	return append(ms, c.Manipulators...)
}

func (c *CLI) helpFlag() *option.Flag {
	if c.help == nil {
		c.help = &option.Flag{Names: []string{"-h", "--help"}, Help: "Show help"}
	}
	return c.help
}

// helpCommand prints the usage of the path named by its arguments, or the
// root listing when there are none.
func (c *CLI) helpCommand(root *route.Group) *route.Command {
	target := &param.Collected[string]{Name: "command", Help: "Command path to describe"}
	return &route.Command{
		Name:   helpCommand,
		Short:  "Show help for a command",
		Params: []param.Param{target},
		Run: func(ctx context.Context) error {
			out, err := c.describe(root, target.Values)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			fmt.Fprint(c.stdout(), out)
			return nil
		},
	}
}

// describe walks names from root and renders the node they reach.
func (c *CLI) describe(root *route.Group, names []string) (string, error) {
	f := c.formatter()
	groups := route.GroupPath{root}
	for i, name := range names {
		g, cmd, ok := groups.Last().Child(name)
		switch {
		case !ok:
			return "", &route.RouteError{Groups: groups, NotFound: name}
		case cmd != nil:
			if i != len(names)-1 {
				return "", &route.RouteError{Groups: groups, NotFound: names[i+1]}
			}
			return f.Usage(route.CommandPath{Groups: groups, Command: cmd}), nil
		}
		groups = append(groups, g)
	}
	return f.List(groups), nil
}

func (c *CLI) versionCommand() *route.Command {
	return &route.Command{
		Name:  versionCommand,
		Short: "Print the version",
		Run: func(ctx context.Context) error {
			fmt.Fprintf(c.stdout(), "%s %s\n", c.Name, c.Version)
			return nil
		},
	}
}

func (c *CLI) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func (c *CLI) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}

func (c *CLI) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
