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

// dispatch resolves words[0] to a command and invokes it, tracing
// the call into the accumulating error state if it fails. Procedure
// bodies, frame push/pop, and tailcall restart are the responsibility of
// the registered BuiltinFunc itself (see builtin_proc.go's proc-call
// closure), not of dispatch.
func (it *Interp[O]) dispatch(words []O) (Code, O) {
	cmdName := it.Host.Get(words[0])
	it.fireCmdTrace(cmdName, "enter", words)
	fn, _, ok := it.resolveCommand(cmdName)
	if !ok {
		code, res := it.Host.Unknown(it, words[0], words)
		if code == CodeError {
			it.traceFrame(cmdName)
		}
		it.fireCmdTrace(cmdName, "leave", words)
		return code, res
	}
	code, res := fn(it, words)
	if code == CodeError {
		it.traceFrame(cmdName)
	}
	it.fireCmdTrace(cmdName, "leave", words)
	return code, res
}

// registerBuiltins installs the builtin command catalog against host,
// split across builtin_*.go by concern.
func registerBuiltins[O any](it *Interp[O]) {
	registerControlBuiltins(it)
	registerVarBuiltins(it)
	registerEvalBuiltins(it)
	registerProcBuiltins(it)
	registerNamespaceBuiltins(it)
	registerListBuiltins(it)
	registerDictBuiltins(it)
	registerStringBuiltins(it)
	registerFormatBuiltins(it)
	registerExprBuiltins(it)
	registerInfoBuiltins(it)
	registerTraceBuiltins(it)
}
