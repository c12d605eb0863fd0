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

import "strings"

func registerEvalBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("eval", cmdEval[O])
	it.Host.RegisterBuiltin("uplevel", cmdUpLevel[O])
	it.Host.RegisterBuiltin("subst", cmdSubst[O])
}

// concatScript joins args the way `concat` does (each argument trimmed
// of leading/trailing whitespace, empties dropped, single-space joined),
// which is also the multi-argument script assembly rule for `eval` and
// `uplevel`.
func concatScript[O any](it *Interp[O], args []O) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		s := strings.TrimSpace(it.Host.Get(a))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// cmdEval implements `eval arg ?arg ...?`, concatenating its arguments
// per concat semantics and evaluating the result as a script.
func cmdEval[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"eval arg ?arg ...?\"")
	}
	return it.Eval(concatScript(it, args[1:]))
}

// cmdUpLevel implements `uplevel ?level? arg ?arg ...?`: evaluates its
// script with variable access redirected to an ancestor frame, via
// Host.PushUplevel/PopUplevel.
func cmdUpLevel[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"uplevel ?level? arg ?arg ...?\"")
	}
	level := it.Host.FrameLevel() - 1
	if level < 0 {
		level = 0
	}
	start := 1
	first := it.Host.Get(args[1])
	if first == "#0" {
		level = 0
		start = 2
	} else if len(first) > 0 && (isDigit(first[0]) || first[0] == '#') {
		if lvl, err := parseLevel(first, it.Host.FrameLevel()); err == nil {
			level = lvl
			start = 2
		}
	}
	if start >= len(args) {
		return it.raiseError("wrong # args: should be \"uplevel ?level? arg ?arg ...?\"")
	}

	script := concatScript(it, args[start:])

	it.Host.PushUplevel(level)
	code, res := it.Eval(script)
	it.Host.PopUplevel()
	return code, res
}

// cmdSubst implements `subst ?-nobackslashes? ?-novariables? ?-nocommands?
// string` on top of substWordOpts (parser.go).
func cmdSubst[O any](it *Interp[O], args []O) (Code, O) {
	noBackslashes, noVariables, noCommands := false, false, false
	i := 1
	for i < len(args)-1 {
		switch it.Host.Get(args[i]) {
		case "-nobackslashes":
			noBackslashes = true
		case "-novariables":
			noVariables = true
		case "-nocommands":
			noCommands = true
		default:
			goto doSubst
		}
		i++
	}
doSubst:
	if i >= len(args) {
		return it.raiseError("wrong # args: should be \"subst ?-nobackslashes? ?-novariables? ?-nocommands? string\"")
	}
	res, code, errVal := it.substWordOpts(it.Host.Get(args[i]), substOpts{
		noBackslashes: noBackslashes,
		noVariables:   noVariables,
		noCommands:    noCommands,
	})
	if code != CodeOK {
		return code, errVal
	}
	return CodeOK, res
}
