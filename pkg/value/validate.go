// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Validation is a rule a converted value must satisfy. Message is reported
// to the user when Check returns false.
type Validation[T any] struct {
	Message string
	Check   func(T) bool
}

// ValidationError is returned when a converted value fails a Validation.
type ValidationError struct {
	Input   string // The token as given on the command line
	Message string // The failing rule's message
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Check runs rules against v in order and returns the first failure.
// input is the original token, kept for error reporting.
func Check[T any](input string, v T, rules []Validation[T]) error {
	for _, rule := range rules {
		if rule.Check != nil && !rule.Check(v) {
			return &ValidationError{Input: input, Message: rule.Message}
		}
	}
	return nil
}

// Custom returns a rule that fails with message when check returns false.
func Custom[T any](message string, check func(T) bool) Validation[T] {
	return Validation[T]{Message: message, Check: check}
}

// Min requires values greater than or equal to n.
func Min[T cmp.Ordered](n T) Validation[T] {
	return Validation[T]{
		Message: fmt.Sprintf("must be greater than or equal to %v", n),
		Check:   func(v T) bool { return v >= n },
	}
}

// Max requires values less than or equal to n.
func Max[T cmp.Ordered](n T) Validation[T] {
	return Validation[T]{
		Message: fmt.Sprintf("must be less than or equal to %v", n),
		Check:   func(v T) bool { return v <= n },
	}
}

// Range requires values within [lo, hi].
func Range[T cmp.Ordered](lo, hi T) Validation[T] {
	return Validation[T]{
		Message: fmt.Sprintf("must be between %v and %v", lo, hi),
		Check:   func(v T) bool { return v >= lo && v <= hi },
	}
}

// OneOf restricts values to a closed set.
func OneOf[T comparable](allowed ...T) Validation[T] {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = fmt.Sprint(a)
	}
	return Validation[T]{
		Message: fmt.Sprintf("must be one of: %s", strings.Join(names, ", ")),
		Check:   func(v T) bool { return slices.Contains(allowed, v) },
	}
}

// NotEmpty rejects empty strings.
func NotEmpty() Validation[string] {
	return Validation[string]{
		Message: "must not be empty",
		Check:   func(s string) bool { return s != "" },
	}
}

// Match requires strings matching re.
func Match(re *regexp.Regexp) Validation[string] {
	return Validation[string]{
		Message: fmt.Sprintf("must match %s", re),
		Check:   re.MatchString,
	}
}

// PortRange restricts a Port to [lo, hi].
func PortRange(lo, hi Port) Validation[Port] {
	return Validation[Port]{
		Message: fmt.Sprintf("port must be between %d-%d", lo, hi),
		Check:   func(p Port) bool { return p >= lo && p <= hi },
	}
}
