// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"errors"
	"fmt"

	"github.com/yeetrun/ycli/pkg/param"
)

// RouteError is returned when routing hits a token that names no child of
// the current group, or when the arguments end before a command is reached.
type RouteError struct {
	Groups   GroupPath // The groups walked before the failure
	NotFound string    // The unmatched token; empty when the arguments ran out
}

func (e *RouteError) Error() string {
	if e.NotFound == "" {
		if len(e.Groups) > 1 {
			return fmt.Sprintf("'%s' requires a command", e.Groups)
		}
		return "no command specified"
	}
	if len(e.Groups) > 1 {
		return fmt.Sprintf("unknown command in group '%s': %s", e.Groups, e.NotFound)
	}
	return fmt.Sprintf("unknown command: %s", e.NotFound)
}

// OptionError wraps a failure from the option registry with the context it
// happened in. Command is nil when the failure came before a command was
// resolved.
type OptionError struct {
	Groups  GroupPath
	Command *Command
	Err     error
}

func (e *OptionError) Error() string {
	return e.Err.Error()
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// Path returns the context of the failure as a CommandPath.
func (e *OptionError) Path() CommandPath {
	return CommandPath{Groups: e.Groups, Command: e.Command}
}

// ParameterError wraps an arity or binding failure for a resolved command.
// Err is a *param.ArityError or *param.BindError.
type ParameterError struct {
	Path CommandPath
	Err  error
}

func (e *ParameterError) Error() string {
	var ae *param.ArityError
	if errors.As(e.Err, &ae) {
		return fmt.Sprintf("'%s' %v", e.Path, e.Err)
	}
	return fmt.Sprintf("'%s': %v", e.Path, e.Err)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}
