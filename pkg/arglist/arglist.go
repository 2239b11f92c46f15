// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arglist holds the mutable token list a single parse consumes.
//
// A List is an arena of tokens addressed by index. Manipulators rewrite it in
// place before routing, and the router pops tokens off the head as it
// classifies them, so at any moment the list holds exactly the tokens that
// have not been consumed yet.
package arglist

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/google/shlex"
)

// List is an ordered, mutable sequence of argument tokens.
// A List belongs to one parse and must not be shared between goroutines.
type List struct {
	tokens []string
}

// New returns a List holding a copy of tokens.
func New(tokens ...string) *List {
	return &List{tokens: slices.Clone(tokens)}
}

// FromProcessArgs returns a List of the process arguments with the program
// name dropped.
func FromProcessArgs() *List {
	if len(os.Args) < 2 {
		return New()
	}
	return New(os.Args[1:]...)
}

// FromString splits s the way a shell would: tokens are separated by
// whitespace and a quoted run becomes a single token with its quotes removed.
func FromString(s string) (*List, error) {
	tokens, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("failed to split %q: %w", s, err)
	}
	return &List{tokens: tokens}, nil
}

// Len returns the number of remaining tokens.
func (l *List) Len() int { return len(l.tokens) }

// Empty reports whether every token has been consumed.
func (l *List) Empty() bool { return len(l.tokens) == 0 }

// Head returns the first remaining token.
func (l *List) Head() (string, bool) {
	if len(l.tokens) == 0 {
		return "", false
	}
	return l.tokens[0], true
}

// Pop removes and returns the first remaining token.
func (l *List) Pop() (string, bool) {
	tok, ok := l.Head()
	if ok {
		l.Remove(0)
	}
	return tok, ok
}

// At returns the token at index i.
func (l *List) At(i int) string { return l.tokens[i] }

// Set replaces the value of the token at index i.
func (l *List) Set(i int, v string) { l.tokens[i] = v }

// Remove deletes the token at index i. Removing index 0 moves the head to the
// next token.
func (l *List) Remove(i int) {
	l.tokens = slices.Delete(l.tokens, i, i+1)
}

// InsertAfter inserts vals directly after the token at index i, preserving
// their order. An index of -1 inserts at the head.
func (l *List) InsertAfter(i int, vals ...string) {
	l.tokens = slices.Insert(l.tokens, i+1, vals...)
}

// Tokens returns a copy of the remaining tokens.
func (l *List) Tokens() []string { return slices.Clone(l.tokens) }

// String joins the remaining tokens with single spaces, quoting tokens that
// FromString would otherwise split or alter.
func (l *List) String() string {
	var b strings.Builder
	for i, tok := range l.tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quote(tok))
	}
	return b.String()
}

func quote(tok string) string {
	if tok != "" && !strings.HasPrefix(tok, "#") && !strings.ContainsAny(tok, " \t\r\n\"'\\") {
		return tok
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range tok {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Cursor returns a forward iterator positioned before the first token.
func (l *List) Cursor() *Cursor {
	return &Cursor{l: l, i: -1}
}

// Cursor walks a List front to back while allowing the token under it to be
// rewritten, removed or expanded. Mutations through the cursor keep its
// position consistent: after Remove the next call to Next yields the
// successor of the removed token.
type Cursor struct {
	l *List
	i int
}

// Next advances to the next token and reports whether one exists.
func (c *Cursor) Next() bool {
	c.i++
	return c.i < len(c.l.tokens)
}

// Index returns the position of the current token.
func (c *Cursor) Index() int { return c.i }

// Value returns the current token.
func (c *Cursor) Value() string { return c.l.tokens[c.i] }

// Set rewrites the current token in place.
func (c *Cursor) Set(v string) { c.l.tokens[c.i] = v }

// Remove deletes the current token.
func (c *Cursor) Remove() {
	c.l.Remove(c.i)
	c.i--
}

// InsertAfter inserts vals after the current token. They are visited by the
// following calls to Next.
func (c *Cursor) InsertAfter(vals ...string) {
	c.l.InsertAfter(c.i, vals...)
}

// Replace substitutes the current token with vals and leaves the cursor on
// the last of them, so the replacement is not visited again.
func (c *Cursor) Replace(vals ...string) {
	c.l.InsertAfter(c.i, vals...)
	c.l.Remove(c.i)
	c.i += len(vals) - 1
}
