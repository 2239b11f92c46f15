// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package option declares flags and typed keys, option groups with
// cardinality restrictions, and the registry the router recognizes
// "-"-prefixed tokens against.
//
// Parsed values are written straight into the option structs:
//
//	silent := &option.Flag{Names: []string{"-s", "--silent"}, Help: "Silence output"}
//	times := &option.Key[int]{
//	    Names:       []string{"-t", "--times"},
//	    Help:        "Number of runs",
//	    Validations: []value.Validation[int]{value.Min(1)},
//	}
//
// After a successful parse silent.Value and times.Value hold the results.
package option

import (
	"strings"

	"github.com/yeetrun/ycli/pkg/value"
)

// Option is a named switch recognized by its "-"-prefixed names.
// The concrete kinds are *Flag, *Key[T] and *VariadicKey[T].
type Option interface {
	// Describe returns the option's metadata for matching and usage text.
	Describe() Info
	// IsSet reports whether the option appeared in the last parse.
	IsSet() bool

	takesValue() bool
	setValue(s string) error
	reset()
}

// Info describes an option.
type Info struct {
	Names       []string
	Help        string
	Placeholder string // Value placeholder in usage text; empty for flags
	Type        string // Value type name; empty for flags
	Variadic    bool
}

// DisplayName joins the option's names for messages, e.g. "-s/--silent".
func (i Info) DisplayName() string {
	return strings.Join(i.Names, "/")
}

// IsOption reports whether tok is classified as an option token. A lone "-"
// is positional by convention (it usually means stdin).
func IsOption(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// Flag is a boolean option. It is false by default, becomes true when
// present and never consumes the following token.
type Flag struct {
	Names []string
	Help  string

	Value bool
}

func (f *Flag) Describe() Info { return Info{Names: f.Names, Help: f.Help} }
func (f *Flag) IsSet() bool    { return f.Value }
func (f *Flag) takesValue() bool {
	return false
}

func (f *Flag) setValue(string) error {
	f.Value = true
	return nil
}

func (f *Flag) reset() { f.Value = false }

// Key is an option that takes exactly one value, converted to T and checked
// against Validations in order.
type Key[T any] struct {
	Names       []string
	Help        string
	Placeholder string // Defaults to "value"
	Default     T
	Validations []value.Validation[T]

	Value T
	set   bool
}

func (k *Key[T]) Describe() Info {
	return Info{
		Names:       k.Names,
		Help:        k.Help,
		Placeholder: placeholder(k.Placeholder),
		Type:        value.TypeName[T](),
	}
}

func (k *Key[T]) IsSet() bool      { return k.set }
func (k *Key[T]) takesValue() bool { return true }

func (k *Key[T]) setValue(s string) error {
	v, err := value.Parse[T](s)
	if err != nil {
		return err
	}
	if err := value.Check(s, v, k.Validations); err != nil {
		return err
	}
	k.Value = v
	k.set = true
	return nil
}

func (k *Key[T]) reset() {
	k.Value = k.Default
	k.set = false
}

// VariadicKey is a Key that may be repeated; every occurrence appends to
// Values in command-line order.
type VariadicKey[T any] struct {
	Names       []string
	Help        string
	Placeholder string
	Validations []value.Validation[T]

	Values []T
}

func (k *VariadicKey[T]) Describe() Info {
	return Info{
		Names:       k.Names,
		Help:        k.Help,
		Placeholder: placeholder(k.Placeholder),
		Type:        value.TypeName[T](),
		Variadic:    true,
	}
}

func (k *VariadicKey[T]) IsSet() bool      { return len(k.Values) > 0 }
func (k *VariadicKey[T]) takesValue() bool { return true }

func (k *VariadicKey[T]) setValue(s string) error {
	v, err := value.Parse[T](s)
	if err != nil {
		return err
	}
	if err := value.Check(s, v, k.Validations); err != nil {
		return err
	}
	k.Values = append(k.Values, v)
	return nil
}

func (k *VariadicKey[T]) reset() { k.Values = nil }

func placeholder(p string) string {
	if p == "" {
		return "value"
	}
	return p
}
