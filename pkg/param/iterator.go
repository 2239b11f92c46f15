// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package param

import (
	"errors"
	"fmt"

	"github.com/yeetrun/ycli/pkg/value"
)

// ArityError is returned when a command receives too few or too many
// positional tokens.
type ArityError struct {
	Min     int
	Max     int  // Meaningful only when Bounded
	Bounded bool // False when a collected parameter lifts the upper bound
	Got     int
}

func (e *ArityError) Error() string {
	var expected string
	last := e.Min
	switch {
	case !e.Bounded:
		expected = fmt.Sprintf("at least %d", e.Min)
	case e.Max == e.Min:
		expected = fmt.Sprintf("exactly %d", e.Min)
	default:
		expected = fmt.Sprintf("between %d and %d", e.Min, e.Max)
		last = e.Max
	}
	noun := "arguments"
	if last == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("requires %s %s, got %d", expected, noun, e.Got)
}

// BindError is returned when a positional token fails conversion or
// validation for its parameter.
type BindError struct {
	Param Info
	Value string
	Err   error // *value.ConversionError or *value.ValidationError
}

func (e *BindError) Error() string {
	var ce *value.ConversionError
	if errors.As(e.Err, &ce) {
		return fmt.Sprintf("illegal type passed to %s: expected %s, got %q", e.Param.Name, ce.Type, e.Value)
	}
	return fmt.Sprintf("invalid value passed to %s: %v", e.Param.Name, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Iterator hands out a command's parameter slots in declaration order and
// binds tokens to them. Declared slots are yielded once each; a trailing
// collected parameter is then yielded for every remaining token.
type Iterator struct {
	params []Param
	pos    int
	bound  int

	min     int
	max     int
	bounded bool
}

// NewIterator resets every parameter in params and returns an iterator over
// them. params is expected to have passed Validate.
func NewIterator(params []Param) *Iterator {
	it := &Iterator{params: params, bounded: true}
	for _, p := range params {
		p.reset()
		info := p.Describe()
		if info.Kind == KindCollected {
			it.bounded = false
			if info.Required {
				// Every single slot fills before the collected one sees a token.
				it.min = it.max + 1
			}
			continue
		}
		if info.Required {
			it.min++
		}
		it.max++
	}
	return it
}

// Next returns the slot the next token binds to and advances past it. It
// reports false once every slot is taken.
func (it *Iterator) Next() (Param, bool) {
	if it.pos >= len(it.params) {
		return nil, false
	}
	p := it.params[it.pos]
	if p.Describe().Kind != KindCollected {
		it.pos++
	}
	return p, true
}

// Full reports whether no slot remains for another token.
func (it *Iterator) Full() bool {
	return it.pos >= len(it.params)
}

// Bind converts tok into the next slot. It returns an *ArityError when no
// slot remains and a *BindError when the token is rejected.
func (it *Iterator) Bind(tok string) error {
	p, ok := it.Next()
	if !ok {
		return it.Overflow(0)
	}
	if err := p.bind(tok); err != nil {
		return &BindError{Param: p.Describe(), Value: tok, Err: err}
	}
	it.bound++
	return nil
}

// Bounds returns the minimum and maximum token counts. bounded is false when
// a collected parameter is present, in which case max is the number of
// declared single slots.
func (it *Iterator) Bounds() (min, max int, bounded bool) {
	return it.min, it.max, it.bounded
}

// Bound returns the number of tokens bound so far.
func (it *Iterator) Bound() int {
	return it.bound
}

// Check returns an *ArityError if fewer tokens were bound than the
// parameters require. A required collected parameter needs at least one
// token of its own, after every optional slot ahead of it is filled.
func (it *Iterator) Check() error {
	if it.bound < it.min {
		return it.arity(it.bound)
	}
	return nil
}

// Overflow returns the *ArityError for a token that found no slot, counting
// it plus extra further positional tokens.
func (it *Iterator) Overflow(extra int) *ArityError {
	return it.arity(it.bound + 1 + extra)
}

func (it *Iterator) arity(got int) *ArityError {
	return &ArityError{Min: it.min, Max: it.max, Bounded: it.bounded, Got: got}
}
