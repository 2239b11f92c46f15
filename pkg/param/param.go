// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package param declares positional parameters and the iterator that binds
// positional tokens to them.
//
// A command's parameters are an ordered list: required parameters first,
// then optional ones, then at most one collected parameter that absorbs every
// remaining token.
//
//	name := &param.Required[string]{Name: "testName"}
//	tester := &param.Optional[string]{Name: "testerName"}
//	files := &param.Collected[string]{Name: "files", Completion: param.CompleteFile}
//	cmd.Params = []param.Param{name, tester, files}
package param

import (
	"fmt"

	"github.com/yeetrun/ycli/pkg/value"
)

// Kind classifies a parameter slot.
type Kind int

const (
	KindRequired Kind = iota
	KindOptional
	KindCollected
)

func (k Kind) String() string {
	switch k {
	case KindRequired:
		return "required"
	case KindOptional:
		return "optional"
	case KindCollected:
		return "collected"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Completion is a hint for shell completion of a parameter's values.
type Completion string

const (
	CompleteNone      Completion = ""
	CompleteFile      Completion = "file"
	CompleteDirectory Completion = "directory"
)

// Info describes a parameter.
type Info struct {
	Name       string
	Help       string
	Kind       Kind
	Required   bool // Set for required parameters and required collected ones
	Type       string
	Completion Completion
}

// Param is a positional parameter slot. The concrete kinds are *Required[T],
// *Optional[T] and *Collected[T].
type Param interface {
	Describe() Info

	bind(s string) error
	reset()
}

// Required is a parameter that must be supplied.
type Required[T any] struct {
	Name        string
	Help        string
	Completion  Completion
	Validations []value.Validation[T]

	Value T
}

func (p *Required[T]) Describe() Info {
	return Info{
		Name:       p.Name,
		Help:       p.Help,
		Kind:       KindRequired,
		Required:   true,
		Type:       value.TypeName[T](),
		Completion: p.Completion,
	}
}

func (p *Required[T]) bind(s string) error {
	v, err := convert(s, p.Validations)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

func (p *Required[T]) reset() {
	var zero T
	p.Value = zero
}

// Optional is a parameter that may be omitted, leaving Value at Default.
type Optional[T any] struct {
	Name        string
	Help        string
	Completion  Completion
	Default     T
	Validations []value.Validation[T]

	Value T
	set   bool
}

func (p *Optional[T]) Describe() Info {
	return Info{
		Name:       p.Name,
		Help:       p.Help,
		Kind:       KindOptional,
		Type:       value.TypeName[T](),
		Completion: p.Completion,
	}
}

// IsSet reports whether a token was bound to p in the last parse.
func (p *Optional[T]) IsSet() bool { return p.set }

func (p *Optional[T]) bind(s string) error {
	v, err := convert(s, p.Validations)
	if err != nil {
		return err
	}
	p.Value = v
	p.set = true
	return nil
}

func (p *Optional[T]) reset() {
	p.Value = p.Default
	p.set = false
}

// Collected absorbs every remaining positional token. It must be the last
// parameter. When Required is set at least one token must be supplied.
type Collected[T any] struct {
	Name        string
	Help        string
	Required    bool
	Completion  Completion
	Validations []value.Validation[T]

	Values []T
}

func (p *Collected[T]) Describe() Info {
	return Info{
		Name:       p.Name,
		Help:       p.Help,
		Kind:       KindCollected,
		Required:   p.Required,
		Type:       value.TypeName[T](),
		Completion: p.Completion,
	}
}

func (p *Collected[T]) bind(s string) error {
	v, err := convert(s, p.Validations)
	if err != nil {
		return err
	}
	p.Values = append(p.Values, v)
	return nil
}

func (p *Collected[T]) reset() { p.Values = nil }

func convert[T any](s string, rules []value.Validation[T]) (T, error) {
	v, err := value.Parse[T](s)
	if err != nil {
		return v, err
	}
	if err := value.Check(s, v, rules); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// OrderError is returned by Validate for parameter lists that break the
// required, optional, collected ordering.
type OrderError struct {
	Param  string
	Reason string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// Validate checks that params are named uniquely and ordered required
// first, then optional, then at most one trailing collected parameter.
func Validate(params []Param) error {
	seen := make(map[string]bool, len(params))
	sawOptional := false
	for i, p := range params {
		info := p.Describe()
		switch {
		case info.Name == "":
			return &OrderError{Param: fmt.Sprintf("#%d", i), Reason: "parameter has no name"}
		case seen[info.Name]:
			return &OrderError{Param: info.Name, Reason: "name is used more than once"}
		}
		seen[info.Name] = true

		switch info.Kind {
		case KindRequired:
			if sawOptional {
				return &OrderError{Param: info.Name, Reason: "required parameter follows an optional one"}
			}
		case KindOptional:
			sawOptional = true
		case KindCollected:
			if i != len(params)-1 {
				return &OrderError{Param: info.Name, Reason: "collected parameter must be last"}
			}
		}
	}
	return nil
}
