// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"strings"
)

// Restriction bounds how many options of a Group may be passed.
type Restriction int

const (
	AtMostOne Restriction = iota
	ExactlyOne
	AtLeastOne
)

func (r Restriction) String() string {
	switch r {
	case AtMostOne:
		return "at most one"
	case ExactlyOne:
		return "exactly one"
	case AtLeastOne:
		return "at least one"
	}
	return fmt.Sprintf("Restriction(%d)", int(r))
}

func (r Restriction) allows(n int) bool {
	switch r {
	case AtMostOne:
		return n <= 1
	case ExactlyOne:
		return n == 1
	case AtLeastOne:
		return n >= 1
	}
	return true
}

// Group restricts how many of its options a single parse may set. The count
// is of distinct options, so repeating one option counts once.
type Group struct {
	Options     []Option
	Restriction Restriction
}

// AtMostOneOf returns a Group of mutually exclusive options.
func AtMostOneOf(opts ...Option) *Group {
	return &Group{Options: opts, Restriction: AtMostOne}
}

// ExactlyOneOf returns a Group requiring exactly one of opts.
func ExactlyOneOf(opts ...Option) *Group {
	return &Group{Options: opts, Restriction: ExactlyOne}
}

// AtLeastOneOf returns a Group requiring one or more of opts.
func AtLeastOneOf(opts ...Option) *Group {
	return &Group{Options: opts, Restriction: AtLeastOne}
}

// GroupError is returned when a Group's restriction is violated.
type GroupError struct {
	Group *Group
	Count int // Distinct member options that were set
}

func (e *GroupError) Error() string {
	names := make([]string, len(e.Group.Options))
	for i, o := range e.Group.Options {
		names[i] = o.Describe().DisplayName()
	}
	if len(names) == 1 && e.Group.Restriction != AtMostOne {
		return fmt.Sprintf("must pass the following option: %s", names[0])
	}
	return fmt.Sprintf("must pass %s of: %s", e.Group.Restriction, strings.Join(names, ", "))
}
