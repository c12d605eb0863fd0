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

// registerDictBuiltins installs the `dict` ensemble over Host's DictOps,
// the script-level face of the same dict-shaped values that back return
// options and caught error options.
func registerDictBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("dict", cmdDict[O])
}

// dictCopy builds a fresh dict with src's key/value pairs. Values are
// immutable by identity, so `dict set`/`dict unset` copy the top level
// rather than mutating a handle other variables may share.
func (it *Interp[O]) dictCopy(src O) O {
	out := it.Host.NewDict()
	for _, k := range it.Host.DictKeys(src) {
		v, _ := it.Host.DictGet(src, k)
		out = it.Host.DictSet(out, k, v)
	}
	return out
}

func cmdDict[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"dict subcommand ?arg ...?\"")
	}
	sub := it.Host.Get(args[1])
	switch sub {
	case "create":
		if (len(args)-2)%2 != 0 {
			return it.raiseError("wrong # args: should be \"dict create ?key value ...?\"")
		}
		d := it.Host.NewDict()
		for i := 2; i < len(args); i += 2 {
			d = it.Host.DictSet(d, it.Host.Get(args[i]), args[i+1])
		}
		return CodeOK, d

	case "get":
		if len(args) < 3 {
			return it.raiseError("wrong # args: should be \"dict get dictionary ?key ...?\"")
		}
		cur := args[2]
		for _, karg := range args[3:] {
			key := it.Host.Get(karg)
			v, ok := it.Host.DictGet(cur, key)
			if !ok {
				return it.raiseError("key %q not known in dictionary", key)
			}
			cur = v
		}
		return CodeOK, cur

	case "exists":
		if len(args) < 4 {
			return it.raiseError("wrong # args: should be \"dict exists dictionary key ?key ...?\"")
		}
		cur := args[2]
		for _, karg := range args[3:] {
			v, ok := it.Host.DictGet(cur, it.Host.Get(karg))
			if !ok {
				return CodeOK, it.Host.NewInt(0)
			}
			cur = v
		}
		return CodeOK, it.Host.NewInt(1)

	case "keys", "values":
		if len(args) < 3 || len(args) > 4 {
			return it.raiseError("wrong # args: should be \"dict %s dictionary ?pattern?\"", sub)
		}
		pattern := ""
		if len(args) == 4 {
			pattern = it.Host.Get(args[3])
		}
		var out []O
		for _, k := range it.Host.DictKeys(args[2]) {
			if pattern != "" && !globMatch(pattern, k, false) {
				continue
			}
			if sub == "keys" {
				out = append(out, it.Host.Intern(k))
			} else {
				v, _ := it.Host.DictGet(args[2], k)
				out = append(out, v)
			}
		}
		return CodeOK, it.Host.NewList(out...)

	case "size":
		if len(args) != 3 {
			return it.raiseError("wrong # args: should be \"dict size dictionary\"")
		}
		return CodeOK, it.Host.NewInt(int64(len(it.Host.DictKeys(args[2]))))

	case "set":
		if len(args) != 5 {
			return it.raiseError("wrong # args: should be \"dict set dictVarName key value\"")
		}
		name := it.Host.Get(args[2])
		cur, ok := it.Host.GetVar(name)
		d := it.Host.NewDict()
		if ok {
			d = it.dictCopy(cur)
		}
		d = it.Host.DictSet(d, it.Host.Get(args[3]), args[4])
		it.Host.SetVar(name, d)
		it.fireVarTrace(name, 'w')
		return CodeOK, d

	case "unset":
		if len(args) != 4 {
			return it.raiseError("wrong # args: should be \"dict unset dictVarName key\"")
		}
		name := it.Host.Get(args[2])
		cur, ok := it.Host.GetVar(name)
		if !ok {
			return it.raiseError("can't read %q: no such variable", name)
		}
		drop := it.Host.Get(args[3])
		d := it.Host.NewDict()
		for _, k := range it.Host.DictKeys(cur) {
			if k == drop {
				continue
			}
			v, _ := it.Host.DictGet(cur, k)
			d = it.Host.DictSet(d, k, v)
		}
		it.Host.SetVar(name, d)
		it.fireVarTrace(name, 'w')
		return CodeOK, d

	case "merge":
		d := it.Host.NewDict()
		for _, a := range args[2:] {
			for _, k := range it.Host.DictKeys(a) {
				v, _ := it.Host.DictGet(a, k)
				d = it.Host.DictSet(d, k, v)
			}
		}
		return CodeOK, d

	default:
		return it.raiseError("unknown or ambiguous subcommand %q: must be create, exists, get, keys, merge, set, size, unset, or values", sub)
	}
}
