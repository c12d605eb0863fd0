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

// registerNamespaceBuiltins installs the `namespace` command ensemble.
func registerNamespaceBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("namespace", cmdNamespace[O])
}

func cmdNamespace[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"namespace subcommand ?arg ...?\"")
	}
	sub := it.Host.Get(args[1])
	switch sub {
	case "eval":
		return it.nsEval(args)
	case "current":
		return CodeOK, it.Host.Intern(it.Host.CurrentNamespace())
	case "exists":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"namespace exists name\"")
		}
		path := it.resolveNSPath(it.Host.Get(args[2]))
		return CodeOK, it.Host.NewInt(boolToInt(it.Host.NamespaceExists(path)))
	case "delete":
		for _, a := range args[2:] {
			path := it.resolveNSPath(it.Host.Get(a))
			if !it.Host.DeleteNamespace(path) {
				continue
			}
			// The host dropped the namespace's command table; drop the
			// matching proc metadata too.
			for p := range it.procs {
				if p == path || strings.HasPrefix(p, path+"::") {
					delete(it.procs, p)
				}
			}
		}
		return CodeOK, it.Host.Intern("")
	case "children":
		name := it.Host.CurrentNamespace()
		if len(args) >= 3 {
			name = it.resolveNSPath(it.Host.Get(args[2]))
		}
		kids := it.Host.Children(name)
		objs := make([]O, len(kids))
		for i, k := range kids {
			objs[i] = it.Host.Intern(k)
		}
		return CodeOK, it.Host.NewList(objs...)
	case "parent":
		name := it.Host.CurrentNamespace()
		if len(args) >= 3 {
			name = it.resolveNSPath(it.Host.Get(args[2]))
		}
		parent, ok := it.Host.Parent(name)
		if !ok {
			return CodeOK, it.Host.Intern("")
		}
		return CodeOK, it.Host.Intern(parent)
	case "qualifiers":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"namespace qualifiers name\"")
		}
		ns, _, _ := splitQualified(it.Host.Get(args[2]))
		return CodeOK, it.Host.Intern(ns)
	case "tail":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"namespace tail name\"")
		}
		_, leaf, _ := splitQualified(it.Host.Get(args[2]))
		return CodeOK, it.Host.Intern(leaf)
	case "which":
		if len(args) < 3 {
			return it.raiseError("wrong # args: should be \"namespace which ?-command|-variable? name\"")
		}
		i := 2
		wantVar := false
		if it.Host.Get(args[i]) == "-variable" {
			wantVar = true
			i++
		} else if it.Host.Get(args[i]) == "-command" {
			i++
		}
		if i >= len(args) {
			return it.raiseError("wrong # args: should be \"namespace which ?-command|-variable? name\"")
		}
		name := it.Host.Get(args[i])
		if wantVar {
			if it.Host.VarExists(name) {
				return CodeOK, it.Host.Intern(name)
			}
			return CodeOK, it.Host.Intern("")
		}
		if _, path, ok := it.resolveCommand(name); ok {
			return CodeOK, it.Host.Intern(path)
		}
		return CodeOK, it.Host.Intern("")
	default:
		return it.raiseError("unknown or ambiguous subcommand %q: must be eval, current, exists, delete, children, parent, qualifiers, tail, or which", sub)
	}
}

func (it *Interp[O]) resolveNSPath(name string) string {
	ns, leaf, absolute := splitQualified(name)
	if absolute {
		return joinNamespace(ns, leaf)
	}
	cur := it.Host.CurrentNamespace()
	if ns == "" {
		return joinNamespace(trimGlobal(cur), leaf)
	}
	return joinNamespace(trimGlobal(cur)+"::"+ns, leaf)
}

func trimGlobal(ns string) string {
	if ns == "::" {
		return ""
	}
	if len(ns) >= 2 && ns[:2] == "::" {
		return ns[2:]
	}
	return ns
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// nsEval implements `namespace eval name body`: creates the namespace if
// needed, pushes a frame scoped to it, and evaluates body there.
func (it *Interp[O]) nsEval(args []O) (Code, O) {
	if len(args) != 4 {
		return it.raiseError("wrong # args: should be \"namespace eval name body\"")
	}
	path := it.resolveNSPath(it.Host.Get(args[2]))
	it.Host.CreateNamespace(path)
	it.Host.PushFrame(path)
	code, res := it.Eval(it.Host.Get(args[3]))
	it.Host.PopFrame()
	return code, res
}
