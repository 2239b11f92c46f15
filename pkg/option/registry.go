// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package option

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/ycli/pkg/arglist"
	"github.com/yeetrun/ycli/pkg/value"
	"go.uber.org/zap"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// UnrecognizedError is returned for an option token no registered option
// answers to.
type UnrecognizedError struct {
	Name string
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized option: %s", e.Name)
}

// MissingValueError is returned when a key is the last token or is followed
// by another option.
type MissingValueError struct {
	Name string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("expected a value to follow: %s", e.Name)
}

// ValueError is returned when a key's value fails conversion or validation.
// Err is a *value.ConversionError or *value.ValidationError.
type ValueError struct {
	Name  string // The option name as given on the command line
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	var ce *value.ConversionError
	if errors.As(e.Err, &ce) {
		return fmt.Sprintf("illegal type passed to %s: expected %s, got %q", e.Name, ce.Type, e.Value)
	}
	return fmt.Sprintf("invalid value passed to %s: %v", e.Name, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// DuplicateNameError is returned when two different options claim a name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("option name %s is registered more than once", e.Name)
}

// InvalidNameError is returned for an option name that does not start with
// "-".
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid option name %q: names must start with -", e.Name)
}

// Registry maps option names to options for one parse and tracks how many
// members of each Group were set. Registries are not reused across parses.
type Registry struct {
	log *zap.Logger

	order      []Option
	byName     map[string]Option
	registered set.Set[Option]

	groups   []*Group
	memberOf map[Option][]*Group
	counted  set.Set[Option]
	counts   map[*Group]int
}

// NewRegistry returns an empty Registry. A nil logger disables logging.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:        log,
		registered: make(set.Set[Option]),
		counted:    make(set.Set[Option]),
	}
}

// Register adds opts and groups to the registry. Group members are
// registered too. Registering an option that is already present is a no-op;
// otherwise its value is reset so no state survives from a previous parse.
func (r *Registry) Register(opts []Option, groups []*Group) error {
	for _, o := range opts {
		if err := r.add(o); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if slices.Contains(r.groups, g) {
			continue
		}
		r.groups = append(r.groups, g)
		for _, o := range g.Options {
			if err := r.add(o); err != nil {
				return err
			}
			mak.Set(&r.memberOf, o, append(r.memberOf[o], g))
		}
	}
	return nil
}

func (r *Registry) add(o Option) error {
	if r.registered.Contains(o) {
		return nil
	}
	info := o.Describe()
	if len(info.Names) == 0 {
		return &InvalidNameError{}
	}
	for _, name := range info.Names {
		if !IsOption(name) || name == "--" || strings.ContainsAny(name, " \t=") {
			return &InvalidNameError{Name: name}
		}
		if _, exists := r.byName[name]; exists {
			return &DuplicateNameError{Name: name}
		}
	}
	for _, name := range info.Names {
		mak.Set(&r.byName, name, o)
	}
	r.registered.Add(o)
	r.order = append(r.order, o)
	o.reset()
	return nil
}

// Lookup returns the option registered under name.
func (r *Registry) Lookup(name string) (Option, bool) {
	o, ok := r.byName[name]
	return o, ok
}

// Options returns the registered options in registration order.
func (r *Registry) Options() []Option {
	return slices.Clone(r.order)
}

// Recognize consumes the option token at the head of l, plus its value for
// keys, and stores the result on the matched option.
func (r *Registry) Recognize(l *arglist.List) (Option, error) {
	name, ok := l.Head()
	if !ok {
		return nil, errors.New("no option token to recognize")
	}
	o, ok := r.byName[name]
	if !ok {
		return nil, &UnrecognizedError{Name: name}
	}
	l.Pop()

	if !o.takesValue() {
		o.setValue("")
		r.mark(o)
		r.log.Debug("Recognized flag.", zap.String("option", name))
		return o, nil
	}

	next, ok := l.Head()
	if !ok || (IsOption(next) && !value.IsNumeric(next)) {
		return nil, &MissingValueError{Name: name}
	}
	l.Pop()
	if err := o.setValue(next); err != nil {
		return nil, &ValueError{Name: name, Value: next, Err: err}
	}
	r.mark(o)
	r.log.Debug("Recognized key.", zap.String("option", name), zap.String("value", next))
	return o, nil
}

func (r *Registry) mark(o Option) {
	if r.counted.Contains(o) {
		return
	}
	r.counted.Add(o)
	for _, g := range r.memberOf[o] {
		mak.Set(&r.counts, g, r.counts[g]+1)
	}
}

// CheckGroups returns a *GroupError for the first registered Group whose
// restriction the parse violated.
func (r *Registry) CheckGroups() error {
	for _, g := range r.groups {
		if n := r.counts[g]; !g.Restriction.allows(n) {
			return &GroupError{Group: g, Count: n}
		}
	}
	return nil
}
