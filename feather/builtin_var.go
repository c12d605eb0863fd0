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

func registerVarBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("set", cmdSet[O])
	it.Host.RegisterBuiltin("unset", cmdUnset[O])
	it.Host.RegisterBuiltin("append", cmdAppend[O])
	it.Host.RegisterBuiltin("incr", cmdIncr[O])
	it.Host.RegisterBuiltin("decr", cmdDecr[O])
	it.Host.RegisterBuiltin("global", cmdGlobal[O])
	it.Host.RegisterBuiltin("variable", cmdVariable[O])
	it.Host.RegisterBuiltin("upvar", cmdUpVar[O])
}

// cmdSet implements `set name ?value?`.
func cmdSet[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 || len(args) > 3 {
		return it.raiseError("wrong # args: should be \"set varName ?newValue?\"")
	}
	name := it.Host.Get(args[1])
	if len(args) == 3 {
		it.Host.SetVar(name, args[2])
		it.fireVarTrace(name, 'w')
		return CodeOK, args[2]
	}
	v, ok := it.Host.GetVar(name)
	if !ok {
		return it.raiseError("can't read %q: no such variable", name)
	}
	it.fireVarTrace(name, 'r')
	return CodeOK, v
}

// cmdUnset implements `unset ?-nocomplain? ?--? ?varName ...?`.
func cmdUnset[O any](it *Interp[O], args []O) (Code, O) {
	i := 1
	nocomplain := false
	if i < len(args) && it.Host.Get(args[i]) == "-nocomplain" {
		nocomplain = true
		i++
	}
	if i < len(args) && it.Host.Get(args[i]) == "--" {
		i++
	}
	for ; i < len(args); i++ {
		name := it.Host.Get(args[i])
		if !it.Host.UnsetVar(name) {
			if !nocomplain {
				return it.raiseError("can't unset %q: no such variable", name)
			}
			continue
		}
		it.fireVarTrace(name, 'u')
	}
	return CodeOK, it.Host.Intern("")
}

// cmdAppend implements `append varName ?value ...?`.
func cmdAppend[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"append varName ?value ...?\"")
	}
	name := it.Host.Get(args[1])
	result, _ := it.Host.GetVar(name)
	for _, a := range args[2:] {
		result = it.Host.Concat(result, a)
	}
	it.Host.SetVar(name, result)
	it.fireVarTrace(name, 'w')
	return CodeOK, result
}

// cmdIncr implements `incr varName ?increment?`, defaulting the variable
// to 0 if unset.
func cmdIncr[O any](it *Interp[O], args []O) (Code, O) {
	return it.incrBy(args, 1)
}

func cmdDecr[O any](it *Interp[O], args []O) (Code, O) {
	return it.incrBy(args, -1)
}

func (it *Interp[O]) incrBy(args []O, sign int64) (Code, O) {
	if len(args) < 2 || len(args) > 3 {
		return it.raiseError("wrong # args: should be \"incr varName ?increment?\"")
	}
	name := it.Host.Get(args[1])
	delta := sign
	if len(args) == 3 {
		n, ok := it.Host.GetInt(args[2])
		if !ok {
			return it.raiseError("expected integer but got %q", it.Host.Get(args[2]))
		}
		delta *= n
	}
	base := int64(0)
	if v, ok := it.Host.GetVar(name); ok {
		n, ok := it.Host.GetInt(v)
		if !ok {
			return it.raiseError("expected integer but got %q", it.Host.Get(v))
		}
		base = n
	}
	result := it.Host.NewInt(base + delta)
	it.Host.SetVar(name, result)
	it.fireVarTrace(name, 'w')
	return CodeOK, result
}

// cmdGlobal implements `global varName ?varName ...?`, linking each name
// to the variable of the same name in the global namespace. At the
// global frame it is a no-op.
func cmdGlobal[O any](it *Interp[O], args []O) (Code, O) {
	if it.Host.FrameLevel() == 0 {
		return CodeOK, it.Host.Intern("")
	}
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"global varName ?varName ...?\"")
	}
	for _, a := range args[1:] {
		name := it.Host.Get(a)
		it.Host.LinkNamespace(name, "::", name)
	}
	return CodeOK, it.Host.Intern("")
}

// cmdVariable implements `variable name ?value? ?name value ...?`: inside
// a namespace body it declares namespace variables and links them into
// the current frame; at the top of a proc it links to the defining
// namespace's variable of the same name.
func cmdVariable[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"variable name ?value? ?name value ...?\"")
	}
	ns := it.Host.CurrentNamespace()
	i := 1
	for i < len(args) {
		name := it.Host.Get(args[i])
		if i+1 < len(args) {
			// Pair the following argument as the initializer whenever
			// one remains, matching `variable name value name value`;
			// a single trailing name is a bare link with no initializer.
			if len(args)-i >= 2 {
				it.Host.SetVar(joinNamespace(ns, name), args[i+1])
				it.Host.LinkNamespace(name, ns, name)
				i += 2
				continue
			}
		}
		it.Host.LinkNamespace(name, ns, name)
		i++
	}
	return CodeOK, it.Host.Intern("")
}

// cmdUpVar implements `upvar ?level? otherVar myVar ?otherVar myVar ...?`,
// linking myVar in the current frame to otherVar in the frame named by
// level (default 1, the caller's frame).
func cmdUpVar[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 3 {
		return it.raiseError("wrong # args: should be \"upvar ?level? otherVar myVar ?otherVar myVar ...?\"")
	}
	v := 1
	level := 1
	if len(args)%2 == 0 {
		lvl, err := parseLevel(it.Host.Get(args[1]), it.Host.FrameLevel())
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		level = lvl
		v = 2
	} else {
		level = it.Host.FrameLevel() - 1
		if level < 0 {
			level = 0
		}
	}
	for v+1 < len(args) {
		other := it.Host.Get(args[v])
		mine := it.Host.Get(args[v+1])
		it.Host.Link(mine, level, other)
		v += 2
	}
	return CodeOK, it.Host.Intern("")
}
