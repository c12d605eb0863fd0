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

package feather

import "fmt"

// DefaultMaxEvalDepth bounds recursive evaluation (command
// substitution, procedure bodies, uplevel, eval) to prevent stack
// exhaustion on pathological input such as `[[[[...]]]]`.
const DefaultMaxEvalDepth = 1000

// Options configures a new interpreter. The zero value selects the
// documented defaults.
type Options struct {
	// MaxEvalDepth bounds recursive evaluation. Zero selects
	// DefaultMaxEvalDepth.
	MaxEvalDepth int
}

// errorState is the error-propagation state machine: Idle means no
// error is currently accumulating frame-trace context; Accumulating
// means the interpreter is unwinding through an ERROR return code and
// appending to errorInfo/errorStack on every frame exit.
type errorState int

const (
	errIdle errorState = iota
	errAccumulating
)

// tailcallRecord is the single-slot pending-tailcall mechanism: a
// builtin sets it, and on proc/apply return with no pending error the
// evaluator restarts evaluation with the recorded command instead of
// returning to the caller.
type tailcallRecord[O any] struct {
	args []O
}

// returnOptions is the parsed form of `return`'s option set (-code,
// -errorinfo, -errorcode, -level). cmdReturn
// builds one from its arguments; unless it is a plain `return value` or
// -level 0, it is stashed in
// Interp.pendingReturn for invokeProc to decrement on each proc boundary
// it crosses, taking effect only once the count reaches the boundary
// that should actually see code/errorInfo/errorCode.
type returnOptions[O any] struct {
	code         Code
	level        int
	errorInfo    string
	hasErrorInfo bool
	errorCode    string
	hasErrorCode bool
}

// procMeta records the formal parameter list, body, and defining
// namespace of a command installed by `proc`, kept as a side-table
// rather than changing what the command table itself stores: `info
// procs/args/body/default` read this table instead of unwrapping a
// proc's dispatch closure.
type procMeta[O any] struct {
	params O
	body   O
	ns     string
}

// Interp is the language-core half of a Feather interpreter: the part
// that is not host-owned concrete storage. Frames, namespaces,
// variables, and values all live behind Host; Interp only adds error
// state, trace registrations, and the proc side-table as first-class
// fields.
type Interp[O any] struct {
	Host Host[O]

	opts Options

	errState   errorState
	errorInfo  string
	errorStack []string
	errorLine  int
	errorCode  string

	tailcall      *tailcallRecord[O]
	pendingReturn *returnOptions[O]

	evalDepth int

	// cmdLine is the 1-based source line of the command currently being
	// dispatched, recorded by Eval so a seed (raiseError/wrapError) can
	// stamp errorLine.
	cmdLine int

	varTraces map[string][]traceEntry[O]
	cmdTraces map[string][]traceEntry[O]

	// firingTraces suppresses re-entrant firing while a variable's own
	// trace callback runs, so a callback touching its traced variable
	// does not recurse.
	firingTraces map[string]bool

	procs map[string]procMeta[O]

	// callStack records the invocation words of each active proc/apply
	// call, innermost last, backing `info level <n>`.
	callStack []string
}

// traceEntry is one `trace add variable|execution` registration: ops is
// the operation list exactly as the registrant wrote it (e.g. "write" or
// "read unset" for variables, "enter leave" for commands; traceOpsMatch
// compares each word's leading letter), and script is the raw
// (unsubstituted until fired) command prefix to run.
type traceEntry[O any] struct {
	ops    string
	script O
}

// NewInterp creates an interpreter bound to host and registers the core
// builtin catalog against it.
func NewInterp[O any](host Host[O], opts Options) *Interp[O] {
	if opts.MaxEvalDepth <= 0 {
		opts.MaxEvalDepth = DefaultMaxEvalDepth
	}
	it := &Interp[O]{Host: host, opts: opts, procs: map[string]procMeta[O]{}}
	registerBuiltins(it)
	return it
}

// EvalError is the Go error returned by EvalString on an uncaught
// non-OK code, carrying the user-facing message and the code it
// escaped with.
type EvalError struct {
	Code    Code
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeExit is the code a host should treat as "the script asked to exit
// the process", built on top of CodeCustom; the core itself defines no
// `exit` builtin, that is host policy.
const CodeExit Code = CodeCustom

// EvalString partitions src into commands and evaluates each in
// turn, returning the final result as a string and an error if the
// script did not complete with CodeOK (or CodeReturn unwound to CodeOK
// at top level).
func (it *Interp[O]) EvalString(src string) (string, error) {
	code, result := it.Eval(src)
	if code == CodeReturn && it.pendingReturn != nil {
		rec := it.pendingReturn
		it.pendingReturn = nil
		code, result = it.finishReturn(*rec, result)
	}
	s := it.Host.Get(result)
	switch code {
	case CodeOK:
		return s, nil
	case CodeReturn:
		return s, nil
	default:
		it.publishReturnOptions(code)
		return "", &EvalError{Code: code, Message: s}
	}
}
