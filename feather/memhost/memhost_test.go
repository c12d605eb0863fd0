/*
 * Feather, an embeddable Tcl-dialect interpreter core.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package memhost

import (
	"strings"
	"testing"

	"github.com/feather-lang/feather/feather"
)

type evalCase struct {
	script string
	want   string
}

func run(t *testing.T, script string) (string, error) {
	t.Helper()
	it := feather.NewInterp[*Object](NewHost(nil), feather.Options{})
	return it.EvalString(script)
}

func TestEvalBasics(t *testing.T) {
	cases := []evalCase{
		{"set x 5", "5"},
		{"set x 5; set y 6; expr {$x + $y}", "11"},
		{"list a b c", "a b c"},
		{"llength {a b c}", "3"},
		{"lindex {a b c} 1", "b"},
		{"lindex {a b c} end", "c"},
		{"string length hello", "5"},
		{"string toupper hello", "HELLO"},
		{"concat a b {c d}", "a b c d"},
		{"append s foo bar; set s", "foobar"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestControlFlow(t *testing.T) {
	script := `
set total 0
for {set i 0} {$i < 5} {incr i} {
    set total [expr {$total + $i}]
}
set total`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10" {
		t.Errorf("got %q, want %q", got, "10")
	}
}

func TestProcAndUpvar(t *testing.T) {
	script := `
proc bump {name} {
    upvar 1 $name v
    incr v
}
set counter 1
bump counter
bump counter
set counter`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}

func TestProcDefaultsAndArgs(t *testing.T) {
	script := `
proc greet {name {greeting hello}} {
    return "$greeting, $name"
}
greet World`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello, World" {
		t.Errorf("got %q, want %q", got, "hello, World")
	}
}

func TestNamespaceVariable(t *testing.T) {
	script := `
namespace eval ::counter {
    variable n 0
    proc next {} {
        variable n
        incr n
        return $n
    }
}
list [::counter::next] [::counter::next] [::counter::next]`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1 2 3" {
		t.Errorf("got %q, want %q", got, "1 2 3")
	}
}

func TestCatchAndError(t *testing.T) {
	script := `
set code [catch {error "boom"} msg]
list $code $msg`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1 boom" {
		t.Errorf("got %q, want %q", got, "1 boom")
	}
}

func TestUncaughtErrorSurfacesAsGoError(t *testing.T) {
	_, err := run(t, `error "kaboom"`)
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	ee, ok := err.(*feather.EvalError)
	if !ok {
		t.Fatalf("expected *feather.EvalError, got %T", err)
	}
	if ee.Code != feather.CodeError {
		t.Errorf("got code %v, want %v", ee.Code, feather.CodeError)
	}
	if ee.Message != "kaboom" {
		t.Errorf("got message %q, want %q", ee.Message, "kaboom")
	}
}

func TestListRoundTrip(t *testing.T) {
	h := NewHost(nil)
	items := []*Object{h.Intern("a b"), h.Intern("c"), h.Intern("")}
	l := h.NewList(items...)
	parsed, err := h.FromList(h.Intern(h.Get(l)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ListLength(parsed) != 3 {
		t.Fatalf("got length %d, want 3", h.ListLength(parsed))
	}
	if got := h.Get(h.ListAt(parsed, 0)); got != "a b" {
		t.Errorf("element 0: got %q, want %q", got, "a b")
	}
	if got := h.Get(h.ListAt(parsed, 2)); got != "" {
		t.Errorf("element 2: got %q, want empty", got)
	}
}

func TestVarLinkChasing(t *testing.T) {
	h := NewHost(nil)
	h.SetVar("::g", h.Intern("global-value"))
	h.PushFrame("::")
	h.LinkNamespace("local", "::", "g")
	v, ok := h.GetVar("local")
	if !ok || h.Get(v) != "global-value" {
		t.Errorf("got (%v, %v), want (global-value, true)", v, ok)
	}
	h.SetVar("local", h.Intern("updated"))
	direct, _ := h.GetVar("::g")
	if h.Get(direct) != "updated" {
		t.Errorf("write through link did not reach ::g: got %q", h.Get(direct))
	}
	h.PopFrame()
}

func TestCommandsIntrospection(t *testing.T) {
	got, err := run(t, `
proc ::util::double {x} { expr {$x * 2} }
info commands`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Errorf("expected at least the core builtin catalog, got empty list")
	}
}

func TestSwitchExactGlobAndFallthrough(t *testing.T) {
	cases := []evalCase{
		{`switch foo {foo {list hit} bar {list miss}}`, "hit"},
		{`switch -glob abc {a* {list glob-hit} default {list nope}}`, "glob-hit"},
		{`switch foo {foo - bar {list fell}}`, "fell"},
		{`switch zzz {foo {list no} default {list yes}}`, "yes"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestTryTrapAndFinally(t *testing.T) {
	script := `
set log ""
try {
    error "boom" "" {MYERR 1}
} trap {MYERR} {msg opts} {
    set log "trapped:$msg"
} finally {
    append log ":done"
}
set log`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "trapped:boom:done" {
		t.Errorf("got %q, want %q", got, "trapped:boom:done")
	}
}

func TestThrowCaught(t *testing.T) {
	got, err := run(t, `catch {throw {MY ERR} "oops"} msg; set msg`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "oops" {
		t.Errorf("got %q, want %q", got, "oops")
	}
}

func TestFormat(t *testing.T) {
	cases := []evalCase{
		{`format "%05d-%s" 42 hi`, "00042-hi"},
		{`format "%x" 255`, "ff"},
		{`format "%-5s|" ab`, "ab   |"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestScanBasic(t *testing.T) {
	got, err := run(t, `scan "42 hi" "%d %s" n s; list $n $s`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "42 hi" {
		t.Errorf("got %q, want %q", got, "42 hi")
	}
}

func TestLsortAndLsearch(t *testing.T) {
	cases := []evalCase{
		{`lsort {banana apple cherry}`, "apple banana cherry"},
		{`lsort -integer {10 2 33 4}`, "2 4 10 33"},
		{`lsort -decreasing {1 3 2}`, "3 2 1"},
		{`lsearch {a b c} b`, "1"},
		{`lsearch -glob {foo bar baz} ba*`, "1"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestRenameAndApply(t *testing.T) {
	got, err := run(t, `
proc double {x} { expr {$x * 2} }
rename double twice
list [twice 5] [apply {{a b} {expr {$a + $b}}} 3 4]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10 7" {
		t.Errorf("got %q, want %q", got, "10 7")
	}
}

// TestBoundaryScenarios exercises a table of small end-to-end scripts
// covering assignment, procs, lists, namespaces, and control flow.
func TestBoundaryScenarios(t *testing.T) {
	cases := []evalCase{
		{"set x 3; incr x 4; set x", "7"},
		{"proc f {a {b 2}} {expr {$a+$b}}; f 5", "7"},
		{"proc f args {llength $args}; f a b c d", "4"},
		{"set L {1 {2 3} 4}; lindex $L 1", "2 3"},
		{"catch {error oops} r; list $r [info exists r]", "oops 1"},
		{"namespace eval x {variable v 10}; set ::x::v", "10"},
		{"string match {a*c} abbc", "1"},
		{`format "%05d-%s" 42 hi`, "00042-hi"},
		{"for {set i 0} {$i<3} {incr i} {lappend r $i}; set r", "0 1 2"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestQuotedWordCommandSubstitution(t *testing.T) {
	// S10: command substitution spliced into a quoted word.
	got, err := run(t, `set b 1; set r "a [set b 1] c"; set r`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a 1 c" {
		t.Errorf("got %q, want %q", got, "a 1 c")
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, err := run(t, `break`)
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestTraceVariableWrite(t *testing.T) {
	script := `
set hits 0
proc onwrite {name elem op} {
    upvar #0 hits h
    incr h
}
trace add variable watched write onwrite
set watched 1
set watched 2
set hits`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2" {
		t.Errorf("got %q, want %q", got, "2")
	}
}

// TestTryTrapNonMatchingPatternFallsThrough guards against trap matching
// unconditionally regardless of its errorcode pattern: the first trap's
// pattern does not prefix-match the thrown errorcode, so only the
// second (matching) trap and the finally clause should run.
func TestTryTrapNonMatchingPatternFallsThrough(t *testing.T) {
	script := `
set log ""
try {
    error "boom" "" {OTHERERR 1}
} trap {MYERR} {msg opts} {
    set log "wrong-trap:$msg"
} trap {OTHERERR} {msg opts} {
    set log "right-trap:$msg"
} finally {
    append log ":done"
}
set log`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "right-trap:boom:done" {
		t.Errorf("got %q, want %q", got, "right-trap:boom:done")
	}
}

// TestTryTrapPatternIsAPrefix confirms trap matches on a *prefix* of the
// errorcode list, not an exact match.
func TestTryTrapPatternIsAPrefix(t *testing.T) {
	got, err := run(t, `
try {
    throw {MYERR SUBCODE 7} "boom"
} trap {MYERR SUBCODE} {msg} {
    set result "caught:$msg"
}
set result`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "caught:boom" {
		t.Errorf("got %q, want %q", got, "caught:boom")
	}
}

func TestCatchOptionsDict(t *testing.T) {
	got, err := run(t, `
catch {throw {MYERR 1} boom} r o
list $r [dict get $o -code] [dict get $o -errorcode] [string match "boom*" [dict get $o -errorinfo]]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "boom 1 {MYERR 1} 1" {
		t.Errorf("got %q, want %q", got, "boom 1 {MYERR 1} 1")
	}
}

// TestReturnCodeAndLevel exercises `return -code`/`-level` option parsing
// (previously rejected as "wrong # args") and the custom-code path
// (CodeCustom is otherwise unreachable).
func TestReturnCodeAndLevel(t *testing.T) {
	cases := []evalCase{
		{`proc f {} { return -code error "boom" }; catch f msg; set msg`, "boom"},
		{`proc f {} { return -code 7 hi }; catch f msg; set msg`, "hi"},
		{`proc outer {} { inner }
proc inner {} { return -level 2 -code error "deep" }
catch outer msg
set msg`, "deep"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestLsortDictionary(t *testing.T) {
	got, err := run(t, `lsort -dictionary {x10 X2 x1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x1 X2 x10" {
		t.Errorf("got %q, want %q", got, "x1 X2 x10")
	}
}

func TestFormatIntegerSynonymI(t *testing.T) {
	got, err := run(t, `format "%i" 5`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5" {
		t.Errorf("got %q, want %q", got, "5")
	}
}

func TestInfoProcIntrospection(t *testing.T) {
	script := `
proc greet {name {greeting hello}} { return "$greeting, $name" }
set names [info args greet]
set body [info body greet]
info default greet greeting dflt
list $names $dflt [lsearch [info procs] greet]`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{name greeting} hello 0` {
		t.Errorf("got %q, want %q", got, `{name greeting} hello 0`)
	}
}

func TestInfoVarsAndErrorstack(t *testing.T) {
	got, err := run(t, `
set a 1
set b 2
catch {error oops}
list [expr {[lsearch [info vars] a] >= 0}] [expr {[llength [info errorstack]] > 0}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1 1" {
		t.Errorf("got %q, want %q", got, "1 1")
	}
}

func TestSubst(t *testing.T) {
	cases := []evalCase{
		{`set a 5; subst {a is $a}`, "a is 5"},
		{`subst {x [list ok] y}`, "x ok y"},
		{`subst {a\tb}`, "a\tb"},
		{`set a 5; subst -novariables {$a [list ok]}`, "$a ok"},
		{`set a 5; subst -nocommands {$a [list ok]}`, "5 [list ok]"},
		{`subst -nobackslashes {a\tb}`, `a\tb`},
		// subst has no command boundaries: separators and comment
		// characters pass through as plain bytes.
		{"set a 5; subst {b $a; c}", "b 5; c"},
		{"set a 5; subst \"line1\\nline2 $a\"", "line1\nline2 5"},
		{`subst {# not a comment}`, "# not a comment"},
		// Braces and quotes have no structure either; substitution
		// applies inside them and the bytes stay put.
		{`set a 1; subst {x {$a} y}`, "x {1} y"},
		{`set a 1; subst {x "$a" y}`, `x "1" y`},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestDictEnsemble(t *testing.T) {
	cases := []evalCase{
		{`dict get {a 1 b 2} b`, "2"},
		{`dict size {a 1 b 2}`, "2"},
		{`dict keys {a 1 b 2}`, "a b"},
		{`dict keys {aa 1 ab 2 b 3} a*`, "aa ab"},
		{`dict values {a 1 b 2}`, "1 2"},
		{`dict exists {a 1} a`, "1"},
		{`dict exists {a 1} z`, "0"},
		{`dict get {a {x 10}} a x`, "10"},
		{`set d [dict create a 1 b 2]; dict get $d a`, "1"},
		{`set d {a 1}; dict set d b 2; dict get $d b`, "2"},
		{`set d {a 1 b 2}; dict unset d a; dict keys $d`, "b"},
		{`dict keys [dict merge {a 1 b 2} {b 9 c 3}]`, "a b c"},
		{`dict get [dict merge {a 1} {a 9}] a`, "9"},
		// A dict built up by dict set still reads back as one string.
		{`set d [dict create]; dict set d k v; llength $d`, "2"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestUnsetComplaints(t *testing.T) {
	if _, err := run(t, `unset nope`); err == nil {
		t.Error("unset of a missing variable should error")
	}
	if got, err := run(t, `unset -nocomplain nope; set ok 1`); err != nil || got != "1" {
		t.Errorf("unset -nocomplain: got (%q, %v), want (\"1\", nil)", got, err)
	}
	if got, err := run(t, `set x 1; unset -- x; info exists x`); err != nil || got != "0" {
		t.Errorf("unset --: got (%q, %v), want (\"0\", nil)", got, err)
	}
}

func TestCatchMirrorsErrorGlobals(t *testing.T) {
	got, err := run(t, `
catch {error oops}
list [string match "oops*" $::errorInfo] $::errorCode`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1 NONE" {
		t.Errorf("got %q, want %q", got, "1 NONE")
	}
}

func TestCatchOptionsErrorLineAndStack(t *testing.T) {
	got, err := run(t, `
catch {
set a 1
error oops
} r o
list [dict get $o -errorline] [lindex [dict get $o -errorstack] 0]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3 {INNER error}" {
		t.Errorf("got %q, want %q", got, "3 {INNER error}")
	}
}

func TestErrorInfoAccumulatesProcFrames(t *testing.T) {
	got, err := run(t, `
proc inner {} { error boom }
proc outer {} { inner }
catch {outer} r o
dict get $o -errorinfo`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"boom", `(procedure "inner"`, `(procedure "outer"`} {
		if !strings.Contains(got, want) {
			t.Errorf("errorinfo %q missing %q", got, want)
		}
	}
}

func TestInfoLevelInvocation(t *testing.T) {
	got, err := run(t, `
proc g {} { info level 1 }
proc f {a b} { g }
f x y`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "f x y" {
		t.Errorf("got %q, want %q", got, "f x y")
	}
}

func TestReturnOptionsSlotAfterUncaughtError(t *testing.T) {
	h := NewHost(nil)
	it := feather.NewInterp[*Object](h, feather.Options{})
	if _, err := it.EvalString(`error bad {} {SOME CODE}`); err == nil {
		t.Fatal("expected error")
	}
	opts := h.GetReturnOptions()
	code, ok := h.DictGet(opts, "-code")
	if !ok {
		t.Fatal("return options missing -code")
	}
	if h.Get(code) != "1" {
		t.Errorf("-code = %q, want %q", h.Get(code), "1")
	}
	ec, ok := h.DictGet(opts, "-errorcode")
	if !ok || h.Get(ec) != "SOME CODE" {
		t.Errorf("-errorcode = %q, want %q", h.Get(ec), "SOME CODE")
	}
}

func TestEvalConcatSemantics(t *testing.T) {
	got, err := run(t, `eval { set x } { 3 }; set x`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
}

func TestExprBracedOperands(t *testing.T) {
	cases := []evalCase{
		{`set a 3; set b 4; expr {$a + $b}`, "7"},
		{`set s "a b"; expr {$s eq "a b"}`, "1"},
		{`set s "a b"; expr {$s ne "a"}`, "1"},
		{`set x 5; expr {[string length hello] + $x}`, "10"},
		{`set arr(k) 9; expr {$arr(k) * 2}`, "18"},
		{`expr {1 < 2 ? "yes" : "no"}`, "yes"},
		{`expr {true && !false}`, "1"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestTraceVariableReadDoesNotFireWriteOnly(t *testing.T) {
	script := `
set hits 0
proc onwrite {name elem op} {
    upvar #0 hits h
    incr h
}
set watched 1
trace add variable watched write onwrite
set x $watched
set hits`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0" {
		t.Errorf("got %q, want %q", got, "0")
	}
}

func TestTraceVariableRead(t *testing.T) {
	script := `
set hits 0
proc onread {name elem op} {
    upvar #0 hits h
    incr h
}
set watched 1
trace add variable watched read onread
set y $watched
set hits`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1" {
		t.Errorf("got %q, want %q", got, "1")
	}
}

func TestExprShortCircuit(t *testing.T) {
	cases := []evalCase{
		{`expr {0 && 1/0}`, "0"},
		{`expr {1 || 1/0}`, "1"},
		{`set n 0; expr {0 && [incr n]}; set n`, "0"},
		{`set n 0; expr {1 && [incr n]}; set n`, "1"},
		{`set n 0; expr {1 ? "a" : [incr n]}; set n`, "0"},
		{`expr {0 ? $missing : 42}`, "42"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestQualifiedVariableSubstitution(t *testing.T) {
	cases := []evalCase{
		{`namespace eval x {variable v 10}; set ::x::v`, "10"},
		{`namespace eval x {variable v 10}; list $::x::v`, "10"},
		{`namespace eval x {variable v 7}; expr {$::x::v + 1}`, "8"},
		// A lone colon ends the variable name.
		{`set a 1; list $a:b`, "1:b"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestSplitPreservesEmptyElements(t *testing.T) {
	cases := []evalCase{
		{`split a,b,c ,`, "a b c"},
		// Adjacent separators yield empty elements, so split inverts join.
		{`split a,,b ,`, "a {} b"},
		{`split ,a, ,`, "{} a {}"},
		{`llength [split a,,b ,]`, "3"},
		{`split "a b` + "\t" + `c"`, "a b c"},
		{`split abc {}`, "a b c"},
		{`set L {a {} b}; join [split [join $L X] X] X`, "aXXb"},
	}
	for _, c := range cases {
		got, err := run(t, c.script)
		if err != nil {
			t.Errorf("script %q: unexpected error: %v", c.script, err)
			continue
		}
		if got != c.want {
			t.Errorf("script %q: got %q, want %q", c.script, got, c.want)
		}
	}
}

func TestTraceRemoveBeforeAnyAdd(t *testing.T) {
	// Removing a trace that was never registered is a no-op, for both
	// trace types.
	got, err := run(t, `
trace remove variable watched write onwrite
trace remove execution somecmd enter oncall
set ok 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1" {
		t.Errorf("got %q, want %q", got, "1")
	}
}

func TestTraceAddRemoveRoundTrip(t *testing.T) {
	script := `
set hits 0
proc onwrite {name elem op} {
    upvar #0 hits h
    incr h
}
trace add variable watched write onwrite
set watched 1
trace remove variable watched write onwrite
set watched 2
set hits`
	got, err := run(t, script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1" {
		t.Errorf("got %q, want %q", got, "1")
	}
}
