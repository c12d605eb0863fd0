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

func registerProcBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("proc", cmdProc[O])
	it.Host.RegisterBuiltin("apply", cmdApply[O])
	it.Host.RegisterBuiltin("tailcall", cmdTailcall[O])
	it.Host.RegisterBuiltin("rename", cmdRename[O])
}

// cmdProc implements `proc name params body`, installing a command that,
// when invoked, binds params positionally (each entry either a bare name
// or a {name default} pair, with a trailing "args" collecting the rest)
// and evaluates body in a fresh frame. The command registers under its
// namespace-qualified path, with the proc's formals and body also
// recorded in the procs side-table for introspection.
func cmdProc[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 4 {
		return it.raiseError("wrong # args: should be \"proc name params body\"")
	}
	name := it.Host.Get(args[1])
	ns, leaf, absolute := splitQualified(name)
	definingNS := it.Host.CurrentNamespace()
	if absolute || ns != "" {
		definingNS = joinNamespace(ns, "")
	}
	path := joinNamespace(ns, leaf)
	if !absolute && ns == "" {
		path = joinNamespace(it.Host.CurrentNamespace(), leaf)
	}

	params := args[2]
	body := args[3]
	it.Host.SetCommand(path, makeProc[O](params, body, definingNS))
	it.procs[path] = procMeta[O]{params: params, body: body, ns: definingNS}
	return CodeOK, it.Host.Intern("")
}

// procParam is one parsed formal parameter.
type procParam struct {
	name       string
	hasDefault bool
	def        string
}

func (it *Interp[O]) parseProcParams(paramsList O) ([]procParam, error) {
	raw, err := it.Host.FromList(paramsList)
	if err != nil {
		return nil, err
	}
	n := it.Host.ListLength(raw)
	out := make([]procParam, 0, n)
	for i := 0; i < n; i++ {
		item := it.Host.ListAt(raw, i)
		sub, err := it.Host.FromList(item)
		if err == nil && it.Host.ListLength(sub) == 2 {
			out = append(out, procParam{
				name:       it.Host.Get(it.Host.ListAt(sub, 0)),
				hasDefault: true,
				def:        it.Host.Get(it.Host.ListAt(sub, 1)),
			})
			continue
		}
		out = append(out, procParam{name: it.Host.Get(item)})
	}
	return out, nil
}

// makeProc returns the BuiltinFunc a proc/apply call installs: it binds
// formals, pushes a frame in definingNS, evaluates body, and implements
// tailcall restart and return-code unwinding.
func makeProc[O any](params, body O, definingNS string) BuiltinFunc[O] {
	return func(it *Interp[O], callArgs []O) (Code, O) {
		return it.invokeProc(it.Host.Get(callArgs[0]), params, body, callArgs[1:], definingNS)
	}
}

func (it *Interp[O]) invokeProc(name string, params, body O, callArgs []O, definingNS string) (Code, O) {
	formals, err := it.parseProcParams(params)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}

	it.Host.PushFrame(definingNS)
	bindErr := it.bindFormals(formals, callArgs)
	if bindErr != nil {
		it.Host.PopFrame()
		return it.raiseError("%s", bindErr.Error())
	}

	invocation := name
	for _, a := range callArgs {
		invocation += " " + it.Host.Get(a)
	}
	it.callStack = append(it.callStack, invocation)

	code, res := it.Eval(it.Host.Get(body))
	bodyLine := it.cmdLine
	it.callStack = it.callStack[:len(it.callStack)-1]
	it.Host.PopFrame()
	if code == CodeError {
		it.traceProcExit(name, bodyLine)
	}

	if code == CodeReturn {
		if rec := it.pendingReturn; rec != nil && rec.level > 1 {
			rec.level--
			return CodeReturn, res
		}
		rec := it.pendingReturn
		it.pendingReturn = nil
		if it.tailcall != nil {
			next := it.tailcall.args
			it.tailcall = nil
			it.evalDepth++
			defer func() { it.evalDepth-- }()
			if it.evalDepth > it.opts.MaxEvalDepth {
				return it.raiseError("too many nested evaluations (infinite loop?)")
			}
			return it.dispatch(next)
		}
		if rec != nil {
			return it.finishReturn(*rec, res)
		}
		return CodeOK, res
	}
	if code == CodeBreak || code == CodeContinue {
		return it.raiseError("invoked \"%s\" outside of a loop", code)
	}
	return code, res
}

func (it *Interp[O]) bindFormals(formals []procParam, callArgs []O) error {
	i := 0
	for fi, p := range formals {
		if p.name == "args" && fi == len(formals)-1 {
			rest := callArgs[min(i, len(callArgs)):]
			it.Host.SetVar("args", it.Host.NewList(rest...))
			return nil
		}
		if i < len(callArgs) {
			it.Host.SetVar(p.name, callArgs[i])
			i++
			continue
		}
		if p.hasDefault {
			it.Host.SetVar(p.name, it.Host.Intern(p.def))
			continue
		}
		return fmt.Errorf("no value given for parameter %q", p.name)
	}
	if i < len(callArgs) {
		return fmt.Errorf("called with too many arguments")
	}
	return nil
}

// cmdApply implements `apply {params body ?ns?} ?arg ...?`, invoking an
// anonymous procedure without installing it as a named command.
func cmdApply[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"apply {params body ?namespace?} ?arg ...?\"")
	}
	spec, err := it.Host.FromList(args[1])
	if err != nil || it.Host.ListLength(spec) < 2 {
		return it.raiseError("can't interpret %q as a lambda expression", it.Host.Get(args[1]))
	}
	params := it.Host.ListAt(spec, 0)
	body := it.Host.ListAt(spec, 1)
	ns := it.Host.CurrentNamespace()
	if it.Host.ListLength(spec) >= 3 {
		ns = it.Host.Get(it.Host.ListAt(spec, 2))
	}
	return it.invokeProc("apply", params, body, args[2:], ns)
}

// cmdTailcall implements `tailcall cmd ?arg ...?`: it schedules cmd to
// run in place of the current procedure's return, consulted by
// invokeProc immediately after the body's Eval returns.
func cmdTailcall[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"tailcall cmd ?arg ...?\"")
	}
	cp := make([]O, len(args)-1)
	copy(cp, args[1:])
	it.tailcall = &tailcallRecord[O]{args: cp}
	return CodeReturn, it.Host.Intern("")
}

// cmdRename implements `rename old new`: moves old's command
// registration to new, resolving both names the way dispatch itself
// would; an empty new deletes old instead of renaming it.
func cmdRename[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 3 {
		return it.raiseError("wrong # args: should be \"rename oldName newName\"")
	}
	oldName := it.Host.Get(args[1])
	newName := it.Host.Get(args[2])

	fn, oldPath, ok := it.resolveCommand(oldName)
	if !ok {
		return it.raiseError("can't rename %q: command doesn't exist", oldName)
	}
	it.Host.DeleteCommand(oldPath)
	meta, hadMeta := it.procs[oldPath]
	delete(it.procs, oldPath)
	if newName == "" {
		return CodeOK, it.Host.Intern("")
	}
	ns, leaf, absolute := splitQualified(newName)
	newPath := joinNamespace(ns, leaf)
	if !absolute && ns == "" {
		newPath = joinNamespace(it.Host.CurrentNamespace(), leaf)
	}
	it.Host.SetCommand(newPath, fn)
	if hadMeta {
		it.procs[newPath] = meta
	}
	return CodeOK, it.Host.Intern("")
}
