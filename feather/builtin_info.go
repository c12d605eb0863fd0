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

import (
	"sort"
	"strconv"
	"strings"
)

func registerInfoBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("info", cmdInfo[O])
}

// lookupProc resolves name to a registered proc's metadata the same way
// dispatch resolves a command name (current namespace, then global),
// consulting the procs side-table a plain command-table lookup
// cannot answer (builtin vs. proc, formals, body).
func (it *Interp[O]) lookupProc(name string) (procMeta[O], string, bool) {
	for _, path := range resolveCommandPath(it.Host.CurrentNamespace(), name) {
		if meta, ok := it.procs[path]; ok {
			return meta, path, true
		}
	}
	return procMeta[O]{}, "", false
}

// cmdInfo implements the `info` ensemble: commands, procs, vars, exists,
// level, frame, args, body, default, errorstack. The proc-shaped
// subcommands read the procs side-table (builtin_proc.go); errorstack
// reads the error-propagation machine (errors.go).
func cmdInfo[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"info subcommand ?arg ...?\"")
	}
	sub := it.Host.Get(args[1])
	switch sub {
	case "exists":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"info exists varName\"")
		}
		return CodeOK, it.Host.NewInt(boolToInt(it.Host.VarExists(it.Host.Get(args[2]))))

	case "level":
		switch len(args) {
		case 2:
			return CodeOK, it.Host.NewInt(int64(it.Host.FrameLevel()))
		case 3:
			n, err := strconv.Atoi(it.Host.Get(args[2]))
			if err != nil {
				return it.raiseError("bad level %q", it.Host.Get(args[2]))
			}
			idx := n
			if n <= 0 {
				idx = len(it.callStack) + n
			}
			if idx < 1 || idx > len(it.callStack) {
				return it.raiseError("bad level %q", it.Host.Get(args[2]))
			}
			return CodeOK, it.Host.Intern(it.callStack[idx-1])
		default:
			return it.raiseError("wrong # args: should be \"info level ?number?\"")
		}

	case "frame":
		switch len(args) {
		case 2:
			return CodeOK, it.Host.NewInt(int64(it.Host.FrameSize()))
		case 3:
			n, err := strconv.Atoi(it.Host.Get(args[2]))
			if err != nil {
				return it.raiseError("bad level %q: must be an integer", it.Host.Get(args[2]))
			}
			size := it.Host.FrameSize()
			level := n
			if level < 0 {
				level = size + level
			}
			if level < 0 || level >= size {
				return it.raiseError("bad level %q", it.Host.Get(args[2]))
			}
			kind := "proc"
			if level == 0 {
				kind = "global"
			}
			d := it.Host.NewDict()
			d = it.Host.DictSet(d, "type", it.Host.Intern(kind))
			d = it.Host.DictSet(d, "level", it.Host.NewInt(int64(level)))
			return CodeOK, d
		default:
			return it.raiseError("wrong # args: should be \"info frame ?number?\"")
		}

	case "commands":
		pattern := ""
		if len(args) >= 3 {
			pattern = it.Host.Get(args[2])
		}
		names := it.Host.Commands(it.Host.CurrentNamespace())
		var out []O
		for _, n := range names {
			if pattern == "" || globMatch(pattern, n, false) {
				out = append(out, it.Host.Intern(n))
			}
		}
		return CodeOK, it.Host.NewList(out...)

	case "procs":
		pattern := ""
		if len(args) >= 3 {
			pattern = it.Host.Get(args[2])
		}
		prefix := it.Host.CurrentNamespace()
		if prefix != "::" {
			prefix += "::"
		}
		var leaves []string
		for path := range it.procs {
			rest, ok := strings.CutPrefix(path, prefix)
			if !ok || rest == "" || strings.Contains(rest, "::") {
				continue
			}
			if pattern == "" || globMatch(pattern, rest, false) {
				leaves = append(leaves, rest)
			}
		}
		sort.Strings(leaves)
		out := make([]O, len(leaves))
		for i, n := range leaves {
			out[i] = it.Host.Intern(n)
		}
		return CodeOK, it.Host.NewList(out...)

	case "args":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"info args procName\"")
		}
		meta, _, ok := it.lookupProc(it.Host.Get(args[2]))
		if !ok {
			return it.raiseError("%q isn't a procedure", it.Host.Get(args[2]))
		}
		formals, err := it.parseProcParams(meta.params)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		out := make([]O, len(formals))
		for i, p := range formals {
			out[i] = it.Host.Intern(p.name)
		}
		return CodeOK, it.Host.NewList(out...)

	case "body":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"info body procName\"")
		}
		meta, _, ok := it.lookupProc(it.Host.Get(args[2]))
		if !ok {
			return it.raiseError("%q isn't a procedure", it.Host.Get(args[2]))
		}
		return CodeOK, meta.body

	case "default":
		if len(args) != 5 {
			return it.raiseError("wrong # args: should be \"info default procName argName varName\"")
		}
		meta, _, ok := it.lookupProc(it.Host.Get(args[2]))
		if !ok {
			return it.raiseError("%q isn't a procedure", it.Host.Get(args[2]))
		}
		formals, err := it.parseProcParams(meta.params)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		argName := it.Host.Get(args[3])
		for _, p := range formals {
			if p.name != argName {
				continue
			}
			if p.hasDefault {
				it.Host.SetVar(it.Host.Get(args[4]), it.Host.Intern(p.def))
				return CodeOK, it.Host.NewInt(1)
			}
			it.Host.SetVar(it.Host.Get(args[4]), it.Host.Intern(""))
			return CodeOK, it.Host.NewInt(0)
		}
		return it.raiseError("procedure %q doesn't have an argument %q", it.Host.Get(args[2]), argName)

	case "errorstack":
		out := make([]O, len(it.errorStack))
		for i, frame := range it.errorStack {
			out[i] = it.Host.Intern(frame)
		}
		return CodeOK, it.Host.NewList(out...)

	case "vars":
		pattern := ""
		if len(args) >= 3 {
			pattern = it.Host.Get(args[2])
		}
		names := it.Host.VarNames()
		var out []O
		for _, n := range names {
			if pattern == "" || globMatch(pattern, n, false) {
				out = append(out, it.Host.Intern(n))
			}
		}
		return CodeOK, it.Host.NewList(out...)

	case "script":
		return CodeOK, it.Host.Intern("")

	case "tclversion", "patchlevel":
		return CodeOK, it.Host.Intern("feather-1.0")

	case "interp":
		if len(args) != 3 || it.Host.Get(args[2]) != "id" {
			return it.raiseError("wrong # args: should be \"info interp id\"")
		}
		return CodeOK, it.Host.Intern(it.Host.InterpID())

	default:
		return it.raiseError("unknown or ambiguous subcommand %q: must be commands, procs, vars, exists, level, frame, args, body, default, errorstack, script, interp, or tclversion", sub)
	}
}
