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

// registerTraceBuiltins installs `trace`, supporting the variable and
// execution trace forms. Tracing is implemented entirely within Interp rather
// than via the Host vtable: the core itself calls fireVarTrace/
// fireCmdTrace at the handful of points (set/unset, dispatch) where a
// traced operation can occur, so no host changes are required to support
// it.
func registerTraceBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("trace", cmdTrace[O])
}

func cmdTrace[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"trace add|remove|info type ...\"")
	}
	verb := it.Host.Get(args[1])
	switch verb {
	case "add":
		return it.traceAdd(args)
	case "remove":
		return it.traceRemove(args)
	case "info":
		return it.traceInfo(args)
	default:
		return it.raiseError("bad trace subcommand %q: must be add, remove, or info", verb)
	}
}

func (it *Interp[O]) traceAdd(args []O) (Code, O) {
	if len(args) != 6 {
		return it.raiseError("wrong # args: should be \"trace add type name ops command\"")
	}
	typ := it.Host.Get(args[2])
	name := it.Host.Get(args[3])
	ops := it.Host.Get(args[4])
	script := args[5]
	entry := traceEntry[O]{ops: ops, script: script}
	switch typ {
	case "variable":
		if it.varTraces == nil {
			it.varTraces = map[string][]traceEntry[O]{}
		}
		it.varTraces[name] = append(it.varTraces[name], entry)
	case "execution", "command":
		if it.cmdTraces == nil {
			it.cmdTraces = map[string][]traceEntry[O]{}
		}
		it.cmdTraces[name] = append(it.cmdTraces[name], entry)
	default:
		return it.raiseError("bad trace type %q: must be variable or execution", typ)
	}
	return CodeOK, it.Host.Intern("")
}

func (it *Interp[O]) traceRemove(args []O) (Code, O) {
	if len(args) != 6 {
		return it.raiseError("wrong # args: should be \"trace remove type name ops command\"")
	}
	typ := it.Host.Get(args[2])
	name := it.Host.Get(args[3])
	ops := it.Host.Get(args[4])
	scriptText := it.Host.Get(args[5])

	var table map[string][]traceEntry[O]
	if typ == "execution" || typ == "command" {
		if it.cmdTraces == nil {
			it.cmdTraces = map[string][]traceEntry[O]{}
		}
		table = it.cmdTraces
	} else {
		if it.varTraces == nil {
			it.varTraces = map[string][]traceEntry[O]{}
		}
		table = it.varTraces
	}
	entries := table[name]
	out := entries[:0]
	for _, e := range entries {
		if e.ops == ops && it.Host.Get(e.script) == scriptText {
			continue
		}
		out = append(out, e)
	}
	table[name] = out
	return CodeOK, it.Host.Intern("")
}

func (it *Interp[O]) traceInfo(args []O) (Code, O) {
	if len(args) != 4 {
		return it.raiseError("wrong # args: should be \"trace info type name\"")
	}
	typ := it.Host.Get(args[2])
	name := it.Host.Get(args[3])
	table := it.varTraces
	if typ == "execution" || typ == "command" {
		table = it.cmdTraces
	}
	var out []O
	for _, e := range table[name] {
		out = append(out, it.Host.NewList(it.Host.Intern(e.ops), e.script))
	}
	return CodeOK, it.Host.NewList(out...)
}

// traceOpsMatch reports whether an ops list ("read write unset", or the
// single-letter forms) names the operation op ('r', 'w', or 'u').
// Matching on each word's leading letter rather than substring keeps a
// write-only trace from firing on reads ("write" contains an 'r').
func traceOpsMatch(ops string, op byte) bool {
	for _, w := range strings.Fields(ops) {
		if w[0] == op {
			return true
		}
	}
	return false
}

// fireVarTrace runs every registered trace whose ops name op ('r', 'w',
// or 'u') for name, passing name, the array-element suffix (always ""
// here, as this core's VarOps does not separate element names from the
// base array at the trace layer), and op as the trace command's three
// extra arguments, matching Tcl's trace callback signature.
func (it *Interp[O]) fireVarTrace(name string, op byte) {
	if len(it.varTraces) == 0 || it.firingTraces[name] {
		return
	}
	if it.firingTraces == nil {
		it.firingTraces = map[string]bool{}
	}
	it.firingTraces[name] = true
	defer delete(it.firingTraces, name)
	for _, e := range it.varTraces[name] {
		if !traceOpsMatch(e.ops, op) {
			continue
		}
		it.runTraceScript(it.Host.Get(e.script) + " " + name + " {} " + string(op))
	}
}

// runTraceScript evaluates a trace callback with the error-propagation
// state snapshotted around it: a callback's outcome is swallowed, so
// neither an error it raises nor one it catches may disturb whatever the
// traced command itself is propagating.
func (it *Interp[O]) runTraceScript(cmd string) {
	savedState := it.errState
	savedInfo, savedCode, savedLine := it.errorInfo, it.errorCode, it.errorLine
	savedStack := it.errorStack
	it.Eval(cmd)
	it.errState = savedState
	it.errorInfo, it.errorCode, it.errorLine = savedInfo, savedCode, savedLine
	it.errorStack = savedStack
}

// fireCmdTrace runs every registered execution trace for cmdName at
// "enter" (before dispatch) or "leave" (after), matching Tcl's
// `trace add execution name enter|leave command`.
func (it *Interp[O]) fireCmdTrace(cmdName, when string, args []O) {
	if len(it.cmdTraces) == 0 {
		return
	}
	letter := byte('e')
	if when == "leave" {
		letter = 'l'
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = it.Host.Get(a)
	}
	commandLine := strings.Join(parts, " ")
	for _, e := range it.cmdTraces[cmdName] {
		if !traceOpsMatch(e.ops, letter) {
			continue
		}
		it.runTraceScript(it.Host.Get(e.script) + " {" + commandLine + "} " + when)
	}
}
