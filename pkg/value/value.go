// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value converts argument tokens into typed values and validates
// them. It is shared by option keys and positional parameters.
//
// Supported targets:
//   - string, bool
//   - int, int8, int16, int32, int64
//   - uint, uint8, uint16, uint32, uint64
//   - float32, float64
//   - time.Duration
//   - url.URL, *url.URL
//   - Port
//   - any type implementing encoding.TextUnmarshaler, which is how closed
//     enum-like sets are expressed
//   - pointers to any of the above
package value

import (
	"encoding"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

// Port is a uint16 for IP ports. Use PortRange to restrict the accepted
// range.
type Port uint16

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf((*time.Duration)(nil)).Elem()
	urlType             = reflect.TypeOf((*url.URL)(nil)).Elem()
	portType            = reflect.TypeOf((*Port)(nil)).Elem()
)

// ConversionError is returned when a token cannot be converted to the
// requested type.
type ConversionError struct {
	Input string // The token that failed to convert
	Type  string // Human readable target type, see TypeName
	Err   error  // Underlying parse error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("illegal type: expected %s, got %q", e.Type, e.Input)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Parse converts s into a T.
func Parse[T any](s string) (T, error) {
	var v T
	if err := set(reflect.ValueOf(&v).Elem(), s); err != nil {
		return v, &ConversionError{Input: s, Type: TypeName[T](), Err: err}
	}
	return v, nil
}

// TypeName returns the name used for T in usage and error messages.
func TypeName[T any]() string {
	return typeName(reflect.TypeOf((*T)(nil)).Elem())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case durationType:
		return "duration"
	case urlType:
		return "url"
	case portType:
		return "port"
	}
	return t.String()
}

// set stores the conversion of s into v, which must be settable.
func set(v reflect.Value, s string) error {
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch v.Type() {
	case portType:
		p, err := parsePort(s)
		if err != nil {
			return err
		}
		v.SetUint(uint64(p))
		return nil
	case durationType:
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		v.SetInt(int64(d))
		return nil
	case urlType:
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", s, err)
		}
		v.Set(reflect.ValueOf(*u))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid bool value %q: %w", s, err)
		}
		v.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q: %w", s, err)
		}
		v.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q: %w", s, err)
		}
		v.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q: %w", s, err)
		}
		v.SetFloat(f)
		return nil

	case reflect.Ptr:
		elem := reflect.New(v.Type().Elem())
		if err := set(elem.Elem(), s); err != nil {
			return err
		}
		v.Set(elem)
		return nil

	default:
		return fmt.Errorf("unsupported type %s", v.Type())
	}
}

// parsePort parses a port value from string with user-friendly error messages.
func parsePort(s string) (Port, error) {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("port must be between 0 and 65535, got %q", s)
		}
		return 0, fmt.Errorf("invalid port value %q", s)
	}
	return Port(p), nil
}

// IsNumeric reports whether s is a decimal number such as "10", "-10",
// "3.14" or "-3.14".
func IsNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}

	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}

	hasDigit := false
	hasDot := false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
