// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package route

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/ycli/pkg/arglist"
	"github.com/yeetrun/ycli/pkg/manip"
	"github.com/yeetrun/ycli/pkg/option"
	"github.com/yeetrun/ycli/pkg/param"
	"go.uber.org/zap/zaptest"
)

type testTree struct {
	root *Group

	verbose *option.Flag

	test       *Command
	silent     *option.Flag
	times      *option.Key[int]
	testName   *param.Required[string]
	testerName *param.Optional[string]

	cmd  *Command
	a, b *option.Flag

	typed  *Command
	typedA *option.Key[int]

	cat   *Command
	files *param.Collected[string]

	math   *Command
	nums   *param.Collected[int]
	single *Command
	only   *param.Required[string]

	remote     *Group
	remoteAdd  *Command
	remoteList *Command
	remoteName *param.Required[string]
	force      *option.Flag

	mode *Command
	fast *option.Flag
	slow *option.Flag

	copy *Command
	src  *param.Optional[string]
	dest *param.Collected[string]
}

func newTestTree() *testTree {
	tt := &testTree{
		verbose:    &option.Flag{Names: []string{"-v", "--verbose"}},
		silent:     &option.Flag{Names: []string{"-s", "--silent"}},
		times:      &option.Key[int]{Names: []string{"-t", "--times"}},
		testName:   &param.Required[string]{Name: "testName"},
		testerName: &param.Optional[string]{Name: "testerName"},
		a:          &option.Flag{Names: []string{"-a"}},
		b:          &option.Flag{Names: []string{"-b"}},
		typedA:     &option.Key[int]{Names: []string{"-a"}},
		files:      &param.Collected[string]{Name: "files", Required: true},
		nums:       &param.Collected[int]{Name: "nums"},
		only:       &param.Required[string]{Name: "only"},
		remoteName: &param.Required[string]{Name: "name"},
		force:      &option.Flag{Names: []string{"-f", "--force"}},
		fast:       &option.Flag{Names: []string{"--fast"}},
		slow:       &option.Flag{Names: []string{"--slow"}},
		src:        &param.Optional[string]{Name: "src"},
		dest:       &param.Collected[string]{Name: "dest", Required: true},
	}
	tt.test = &Command{
		Name:    "test",
		Params:  []param.Param{tt.testName, tt.testerName},
		Options: []option.Option{tt.silent, tt.times},
	}
	tt.cmd = &Command{Name: "cmd", Options: []option.Option{tt.a, tt.b}}
	tt.typed = &Command{Name: "typed", Options: []option.Option{tt.typedA}}
	tt.cat = &Command{Name: "cat", Params: []param.Param{tt.files}}
	tt.math = &Command{Name: "math", Params: []param.Param{tt.nums}}
	tt.single = &Command{Name: "single", Params: []param.Param{tt.only}}
	tt.mode = &Command{
		Name:         "mode",
		OptionGroups: []*option.Group{option.ExactlyOneOf(tt.fast, tt.slow)},
		Params:       []param.Param{&param.Required[string]{Name: "target"}},
	}
	tt.copy = &Command{Name: "copy", Params: []param.Param{tt.src, tt.dest}}
	tt.remoteAdd = &Command{Name: "add", Params: []param.Param{tt.remoteName}}
	tt.remoteList = &Command{Name: "list"}
	tt.remote = &Group{
		Name:     "remote",
		Commands: []*Command{tt.remoteAdd},
		Aliases:  map[string]string{"new": "add"},
		Options:  []option.Option{tt.force},
		Default:  tt.remoteList,
	}
	tt.root = &Group{
		Name:     "tester",
		Groups:   []*Group{tt.remote},
		Commands: []*Command{tt.test, tt.cmd, tt.typed, tt.cat, tt.math, tt.single, tt.mode, tt.copy},
		Options:  []option.Option{tt.verbose},
	}
	return tt
}

func (tt *testTree) parse(t *testing.T, line string) (*Result, error) {
	t.Helper()
	return tt.parseWithHelp(t, line, nil)
}

func (tt *testTree) parseWithHelp(t *testing.T, line string, help *option.Flag) (*Result, error) {
	t.Helper()
	l, err := arglist.FromString(line)
	if err != nil {
		t.Fatalf("FromString(%q): %v", line, err)
	}
	manip.Run(l, manip.Splitter{})
	p := &Parser{Root: tt.root, Help: help, Log: zaptest.NewLogger(t)}
	return p.Parse(l)
}

func TestParseScenario(t *testing.T) {
	tt := newTestTree()
	res, err := tt.parse(t, "test firstTest MyTester -t 5 -s")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Command != tt.test {
		t.Fatalf("Command = %v, want test", res.Command)
	}
	if got := res.Path().String(); got != "tester test" {
		t.Errorf("Path() = %q, want %q", got, "tester test")
	}
	if tt.testName.Value != "firstTest" || tt.testerName.Value != "MyTester" {
		t.Errorf("params = %q, %q", tt.testName.Value, tt.testerName.Value)
	}
	if tt.times.Value != 5 || !tt.silent.Value {
		t.Errorf("options: times=%d silent=%v", tt.times.Value, tt.silent.Value)
	}
}

func TestParseBundledFlags(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "cmd -ab"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !tt.a.Value || !tt.b.Value {
		t.Errorf("a=%v b=%v, want both true", tt.a.Value, tt.b.Value)
	}
}

func TestParseIllegalType(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "typed -a val")
	var oe *OptionError
	if !errors.As(err, &oe) {
		t.Fatalf("Parse() error = %v, want *OptionError", err)
	}
	if oe.Command != tt.typed {
		t.Errorf("OptionError.Command = %v, want typed", oe.Command)
	}
	var ve *option.ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v does not wrap *option.ValueError", err)
	}
	if !strings.Contains(err.Error(), "illegal type") {
		t.Errorf("Error() = %q, want it to mention illegal type", err.Error())
	}
}

func TestParseRouteError(t *testing.T) {
	tt := newTestTree()
	res, err := tt.parse(t, "charlie")
	var re *RouteError
	if !errors.As(err, &re) {
		t.Fatalf("Parse() error = %v, want *RouteError", err)
	}
	if re.NotFound != "charlie" {
		t.Errorf("NotFound = %q, want charlie", re.NotFound)
	}
	if diff := cmp.Diff([]string{"tester"}, re.Groups.Names()); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
	if res.Command != nil {
		t.Errorf("Command = %v, want nil", res.Command)
	}
	if got := err.Error(); got != "unknown command: charlie" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseRequiredCollectedEmpty(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "cat")
	var pe *ParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want *ParameterError", err)
	}
	var ae *param.ArityError
	if !errors.As(err, &ae) || ae.Got != 0 || ae.Min != 1 {
		t.Fatalf("error %v does not wrap the expected arity error", err)
	}
	if !strings.Contains(err.Error(), "requires at least 1 argument") {
		t.Errorf("Error() = %q", err.Error())
	}
	if pe.Path.Command != tt.cat {
		t.Errorf("Path.Command = %v, want cat", pe.Path.Command)
	}
}

func TestParseOptionalThenRequiredCollected(t *testing.T) {
	tests := []struct {
		line     string
		wantErr  string
		wantSrc  string
		wantDest []string
	}{
		{line: "copy", wantErr: "'tester copy' requires at least 2 arguments, got 0"},
		{line: "copy a", wantErr: "'tester copy' requires at least 2 arguments, got 1"},
		{line: "copy a b", wantSrc: "a", wantDest: []string{"b"}},
		{line: "copy a b c", wantSrc: "a", wantDest: []string{"b", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			tt := newTestTree()
			_, err := tt.parse(t, tc.line)
			if tc.wantErr != "" {
				var ae *param.ArityError
				if !errors.As(err, &ae) {
					t.Fatalf("Parse() error = %v, want arity error", err)
				}
				if err.Error() != tc.wantErr {
					t.Errorf("Error() = %q, want %q", err.Error(), tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if tt.src.Value != tc.wantSrc {
				t.Errorf("src = %q, want %q", tt.src.Value, tc.wantSrc)
			}
			if diff := cmp.Diff(tc.wantDest, tt.dest.Values); diff != "" {
				t.Errorf("dest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBindErrorMessage(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "math 1 two")
	var be *param.BindError
	if !errors.As(err, &be) {
		t.Fatalf("Parse() error = %v, want *param.BindError", err)
	}
	if got, want := err.Error(), `'tester math': illegal type passed to nums: expected int, got "two"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseCollected(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "cat a.txt b.txt -v c.txt"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a.txt", "b.txt", "c.txt"}, tt.files.Values); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if !tt.verbose.Value {
		t.Error("root option not recognized after the command")
	}
}

func TestParseNegativeNumbers(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "math 1 -2 -3.5x"); err == nil {
		t.Fatal("Parse() succeeded with a non-numeric dashed token")
	}
	if _, err := tt.parse(t, "math 1 -2 -30"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, -2, -30}, tt.nums.Values); diff != "" {
		t.Errorf("nums mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTerminator(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "cat -v -- -a --verbose"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"-a", "--verbose"}, tt.files.Values); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if !tt.verbose.Value {
		t.Error("-v before the terminator was not recognized")
	}
}

func TestParseOverflow(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "single one two -v three")
	var ae *param.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("Parse() error = %v, want arity error", err)
	}
	if ae.Got != 3 {
		t.Errorf("Got = %d, want 3", ae.Got)
	}
	if got, want := err.Error(), "'tester single' requires exactly 1 argument, got 3"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseOptionBeforeCommand(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "-v cmd"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !tt.verbose.Value {
		t.Error("root option before command not recognized")
	}

	// Command options are not in scope until the command is found.
	_, err := tt.parse(t, "-a cmd")
	var ue *option.UnrecognizedError
	if !errors.As(err, &ue) {
		t.Fatalf("Parse() error = %v, want unrecognized option", err)
	}
	var oe *OptionError
	if errors.As(err, &oe) && oe.Command != nil {
		t.Errorf("OptionError.Command = %v, want nil during routing", oe.Command)
	}
}

func TestParseGroups(t *testing.T) {
	tests := []struct {
		name string
		line string
		want func(*testTree) *Command
		path string
	}{
		{"child command", "remote add origin", func(tt *testTree) *Command { return tt.remoteAdd }, "tester remote add"},
		{"group alias", "remote new origin", func(tt *testTree) *Command { return tt.remoteAdd }, "tester remote add"},
		{"default command", "remote", func(tt *testTree) *Command { return tt.remoteList }, "tester remote"},
		{"default with group option", "remote -f", func(tt *testTree) *Command { return tt.remoteList }, "tester remote"},
		{"group option after command", "remote add origin --force", func(tt *testTree) *Command { return tt.remoteAdd }, "tester remote add"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newTestTree()
			res, err := tt.parse(t, tc.line)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.line, err)
			}
			if res.Command != tc.want(tt) {
				t.Errorf("Command = %q, want %q", res.Command.Name, tc.want(tt).Name)
			}
			if got := res.Path().String(); got != tc.path {
				t.Errorf("Path() = %q, want %q", got, tc.path)
			}
		})
	}
}

func TestParseGroupRouteErrors(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "remote bogus")
	var re *RouteError
	if !errors.As(err, &re) {
		t.Fatalf("Parse() error = %v, want *RouteError", err)
	}
	if diff := cmp.Diff([]string{"tester", "remote"}, re.Groups.Names()); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
	if re.NotFound != "bogus" {
		t.Errorf("NotFound = %q", re.NotFound)
	}

	_, err = tt.parse(t, "")
	if !errors.As(err, &re) {
		t.Fatalf("Parse(\"\") error = %v, want *RouteError", err)
	}
	if re.NotFound != "" || len(re.Groups) != 1 {
		t.Errorf("RouteError = %+v, want empty NotFound at root", re)
	}
}

func TestParseArityBeforeGroups(t *testing.T) {
	tt := newTestTree()
	_, err := tt.parse(t, "mode")
	var pe *ParameterError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want parameter error first", err)
	}

	_, err = tt.parse(t, "mode target")
	var ge *option.GroupError
	if !errors.As(err, &ge) {
		t.Fatalf("Parse() error = %v, want group error", err)
	}
	if got, want := err.Error(), "must pass exactly one of: --fast, --slow"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if _, err := tt.parse(t, "mode --slow target"); err != nil {
		t.Errorf("Parse() error = %v", err)
	}
	if _, err := tt.parse(t, "mode --slow target --fast"); !errors.As(err, &ge) {
		t.Errorf("Parse() error = %v, want group error", err)
	}
}

func TestParseHelp(t *testing.T) {
	help := &option.Flag{Names: []string{"-h", "--help"}}
	tests := []struct {
		name    string
		line    string
		command func(*testTree) *Command
		groups  []string
	}{
		{"root", "--help", func(*testTree) *Command { return nil }, []string{"tester"}},
		{"group", "remote --help", func(*testTree) *Command { return nil }, []string{"tester", "remote"}},
		{"command skips arity", "cat --help", func(tt *testTree) *Command { return tt.cat }, []string{"tester"}},
		{"command skips groups", "mode -h", func(tt *testTree) *Command { return tt.mode }, []string{"tester"}},
		{"stops binding", "single a -h b c", func(tt *testTree) *Command { return tt.single }, []string{"tester"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newTestTree()
			res, err := tt.parseWithHelp(t, tc.line, help)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.line, err)
			}
			if !res.Help {
				t.Error("Help not reported")
			}
			if res.Command != tc.command(tt) {
				t.Errorf("Command = %v, want %v", res.Command, tc.command(tt))
			}
			if diff := cmp.Diff(tc.groups, res.Groups.Names()); diff != "" {
				t.Errorf("Groups mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestParseInterleaving checks that moving options around positional
// tokens does not change the bound values.
func TestParseInterleaving(t *testing.T) {
	lines := []string{
		"test -s -t 5 firstTest MyTester",
		"test firstTest -t 5 MyTester -s",
		"test firstTest MyTester -s --times=5",
		"-v test -st 5 firstTest MyTester",
		"test firstTest MyTester -t 5 -s",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			tt := newTestTree()
			if _, err := tt.parse(t, line); err != nil {
				t.Fatalf("Parse(%q) error = %v", line, err)
			}
			got := []any{tt.testName.Value, tt.testerName.Value, tt.times.Value, tt.silent.Value}
			want := []any{"firstTest", "MyTester", 5, true}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("bound values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseResetsBetweenRuns(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "test first second -s -t 3"); err != nil {
		t.Fatal(err)
	}
	if _, err := tt.parse(t, "test only"); err != nil {
		t.Fatal(err)
	}
	if tt.silent.Value || tt.times.Value != 0 || tt.testerName.IsSet() || tt.testerName.Value != "" {
		t.Errorf("stale values: silent=%v times=%d testerName=%q", tt.silent.Value, tt.times.Value, tt.testerName.Value)
	}
}

func TestOptionPositionalClassification(t *testing.T) {
	tt := newTestTree()
	if _, err := tt.parse(t, "cat -"); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"-"}, tt.files.Values); diff != "" {
		t.Errorf("lone dash should be positional (-want +got):\n%s", diff)
	}
}
