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

// raiseError is the single entry point that transitions the
// error-propagation state machine from Idle to Accumulating: it records
// the originating message in errorInfo and resets the stamped error
// fields. Builtins that detect a failure call this (directly or via
// a helper that also sets the result) rather than touching errState
// fields themselves.
func (it *Interp[O]) raiseError(format string, args ...any) (Code, O) {
	msg := fmt.Sprintf(format, args...)
	it.errState = errAccumulating
	it.errorInfo = msg
	it.errorStack = nil
	it.errorCode = ""
	it.errorLine = it.cmdLine
	return CodeError, it.Host.Intern(msg)
}

// wrapError transitions to Accumulating using a message already computed
// by a caller (e.g. a parse failure surfaced as a host value), without
// re-formatting it. While an error is already accumulating the value is
// passed through untouched: the in-flight error owns the state, and
// re-seeding here would wipe the trace built up so far.
func (it *Interp[O]) wrapError(val O) (Code, O) {
	if it.errState == errAccumulating {
		return CodeError, val
	}
	it.errState = errAccumulating
	it.errorInfo = it.Host.Get(val)
	it.errorStack = nil
	it.errorCode = ""
	it.errorLine = it.cmdLine
	return CodeError, val
}

// traceFrame appends one level of unwinding context to the accumulating
// error, called by dispatch after a command at any depth returns
// CodeError while errState is Accumulating. The first call after a seed
// records the innermost failing command on errorStack; outer levels only
// extend the human-readable errorInfo. It is a no-op once the error has
// been caught (finalizeCaught clears errState back to Idle).
func (it *Interp[O]) traceFrame(cmd string) {
	if it.errState != errAccumulating {
		return
	}
	if len(it.errorStack) == 0 {
		it.errorStack = []string{"INNER " + cmd}
	}
	it.errorInfo = it.errorInfo + fmt.Sprintf("\n    while executing\n\"%s\"", cmd)
}

// traceProcExit records one procedure frame on the accumulating error as
// the frame unwinds: a "(procedure ... line ...)" entry in errorInfo and
// a CALL entry on errorStack. Called by invokeProc when a body finishes
// with CodeError.
func (it *Interp[O]) traceProcExit(name string, line int) {
	if it.errState != errAccumulating {
		return
	}
	it.errorInfo = it.errorInfo + fmt.Sprintf("\n    (procedure %q line %d)", name, line)
	it.errorStack = append(it.errorStack, "CALL "+name)
}

// finalizeCaught is the Accumulating -> Idle transition catch and try
// share once they have intercepted a CodeError: the accumulated
// errorInfo and errorCode are mirrored into the global errorInfo and
// errorCode variables, and the active flag clears. The accumulated
// fields themselves are kept for introspection (`info errorstack`, the
// ErrorInfo/ErrorCode accessors); the next seed overwrites them.
func (it *Interp[O]) finalizeCaught() {
	if it.errState != errAccumulating {
		return
	}
	if it.errorCode == "" {
		it.errorCode = "NONE"
	}
	it.Host.SetVar("::errorInfo", it.Host.Intern(it.errorInfo))
	it.Host.SetVar("::errorCode", it.Host.Intern(it.errorCode))
	it.publishReturnOptions(CodeError)
	it.errState = errIdle
}

// publishReturnOptions refreshes the interpreter's host-owned
// return-options slot with the current error fields, so a host that
// inspects the slot after an eval (GetReturnOptions) sees the same
// options a script-level catch would have.
func (it *Interp[O]) publishReturnOptions(code Code) {
	opts := it.Host.NewDict()
	opts = it.Host.DictSet(opts, "-code", it.Host.NewInt(int64(code)))
	opts = it.Host.DictSet(opts, "-level", it.Host.NewInt(0))
	if code == CodeError {
		opts = it.Host.DictSet(opts, "-errorinfo", it.Host.Intern(it.errorInfo))
		opts = it.Host.DictSet(opts, "-errorcode", it.Host.Intern(it.errorCode))
		opts = it.Host.DictSet(opts, "-errorline", it.Host.NewInt(int64(it.errorLine)))
	}
	it.Host.SetReturnOptions(opts)
}

// ErrorInfo returns the accumulated traceback for the error currently (or
// most recently) being unwound, the host-visible analogue of Tcl's
// errorInfo global variable.
func (it *Interp[O]) ErrorInfo() string {
	return it.errorInfo
}

// ErrorCode returns the machine-readable error classification most
// recently recorded by `error`, `throw`, or `return -errorcode`, the
// host-visible analogue of Tcl's errorCode global variable. Empty when
// no explicit code has been recorded, except that once catch or try has
// intercepted the error an empty code reads as NONE.
func (it *Interp[O]) ErrorCode() string {
	return it.errorCode
}

// finishReturn applies a parsed `return` option set to value once it has
// reached the boundary that should actually see it (either level 0,
// taking effect in the current frame, or the proc boundary invokeProc's
// level countdown lands on). A non-OK, non-error code (break, continue,
// or a custom code) simply propagates as-is, matching Tcl's treatment of
// `return -code break` inside a proc as equivalent to break escaping the
// call site. An error code re-seeds the error state machine the way `error`
// does, honoring an explicit -errorinfo/-errorcode instead of the
// auto-generated message.
func (it *Interp[O]) finishReturn(rec returnOptions[O], value O) (Code, O) {
	if rec.code == CodeError {
		code, val := it.wrapError(value)
		if rec.hasErrorInfo {
			it.errorInfo = rec.errorInfo
			it.errorStack = []string{rec.errorInfo}
		}
		if rec.hasErrorCode {
			it.errorCode = rec.errorCode
		}
		return code, val
	}
	if rec.hasErrorCode {
		it.errorCode = rec.errorCode
	}
	return rec.code, value
}
