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
	"fmt"
	"regexp"
	"sort"
	"strings"
)

func registerListBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("list", cmdList[O])
	it.Host.RegisterBuiltin("llength", cmdLLength[O])
	it.Host.RegisterBuiltin("lindex", cmdLIndex[O])
	it.Host.RegisterBuiltin("lrange", cmdLRange[O])
	it.Host.RegisterBuiltin("lappend", cmdLAppend[O])
	it.Host.RegisterBuiltin("linsert", cmdLInsert[O])
	it.Host.RegisterBuiltin("lreplace", cmdLReplace[O])
	it.Host.RegisterBuiltin("lsearch", cmdLSearch[O])
	it.Host.RegisterBuiltin("lset", cmdLSet[O])
	it.Host.RegisterBuiltin("lsort", cmdLSort[O])
	it.Host.RegisterBuiltin("split", cmdSplit[O])
	it.Host.RegisterBuiltin("join", cmdJoin[O])
	it.Host.RegisterBuiltin("concat", cmdConcatCmd[O])
}

func cmdList[O any](it *Interp[O], args []O) (Code, O) {
	return CodeOK, it.Host.NewList(args[1:]...)
}

func cmdLLength[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 2 {
		return it.raiseError("wrong # args: should be \"llength list\"")
	}
	l, err := it.Host.FromList(args[1])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	return CodeOK, it.Host.NewInt(int64(it.Host.ListLength(l)))
}

// cmdLIndex implements `lindex list ?index ...?`, recursing into nested
// lists for each successive index.
func cmdLIndex[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"lindex list ?index ...?\"")
	}
	cur := args[1]
	for _, idxArg := range args[2:] {
		l, err := it.Host.FromList(cur)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		n := it.Host.ListLength(l)
		idx, err := parseIndex(it.Host.Get(idxArg), n)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		if idx < 0 || idx >= n {
			return CodeOK, it.Host.Intern("")
		}
		cur = it.Host.ListAt(l, idx)
	}
	return CodeOK, cur
}

func cmdLRange[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 4 {
		return it.raiseError("wrong # args: should be \"lrange list first last\"")
	}
	l, err := it.Host.FromList(args[1])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	n := it.Host.ListLength(l)
	first, err := parseIndex(it.Host.Get(args[2]), n)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	last, err := parseIndex(it.Host.Get(args[3]), n)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	first = clampIndex(first, n)
	last = clampIndex(last+1, n)
	if last < first {
		return CodeOK, it.Host.NewList()
	}
	return CodeOK, it.Host.ListSlice(l, first, last)
}

func cmdLAppend[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"lappend varName ?value ...?\"")
	}
	name := it.Host.Get(args[1])
	cur, ok := it.Host.GetVar(name)
	if !ok {
		cur = it.Host.NewList()
	}
	l, err := it.Host.FromList(cur)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	result := it.Host.ListPush(l, args[2:]...)
	it.Host.SetVar(name, result)
	return CodeOK, result
}

func cmdLInsert[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 3 {
		return it.raiseError("wrong # args: should be \"linsert list index ?element ...?\"")
	}
	l, err := it.Host.FromList(args[1])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	n := it.Host.ListLength(l)
	idx, err := parseIndex(it.Host.Get(args[2]), n)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	idx = clampIndex(idx, n)
	head := it.Host.ListSlice(l, 0, idx)
	tail := it.Host.ListSlice(l, idx, n)
	result := it.Host.ListPush(head, args[3:]...)
	more, err := it.Host.FromList(tail)
	if err == nil {
		tl := it.Host.ListLength(more)
		for i := 0; i < tl; i++ {
			result = it.Host.ListPush(result, it.Host.ListAt(more, i))
		}
	}
	return CodeOK, result
}

func cmdLReplace[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 4 {
		return it.raiseError("wrong # args: should be \"lreplace list first last ?element ...?\"")
	}
	l, err := it.Host.FromList(args[1])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	n := it.Host.ListLength(l)
	first, err := parseIndex(it.Host.Get(args[2]), n)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	last, err := parseIndex(it.Host.Get(args[3]), n)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	first = clampIndex(first, n)
	last = clampIndex(last+1, n)
	if last < first {
		last = first
	}
	head := it.Host.ListSlice(l, 0, first)
	tail := it.Host.ListSlice(l, last, n)
	result := it.Host.ListPush(head, args[4:]...)
	more, err := it.Host.FromList(tail)
	if err == nil {
		tl := it.Host.ListLength(more)
		for i := 0; i < tl; i++ {
			result = it.Host.ListPush(result, it.Host.ListAt(more, i))
		}
	}
	return CodeOK, result
}

func cmdLSearch[O any](it *Interp[O], args []O) (Code, O) {
	mode := "glob"
	all := false
	inline := false
	i := 1
	for i < len(args)-1 {
		switch it.Host.Get(args[i]) {
		case "-exact":
			mode = "exact"
		case "-glob":
			mode = "glob"
		case "-regexp":
			mode = "regexp"
		case "-all":
			all = true
		case "-inline":
			inline = true
		case "--":
			i++
			goto searchBody
		default:
			goto searchBody
		}
		i++
	}
searchBody:
	if i+1 >= len(args) {
		return it.raiseError("wrong # args: should be \"lsearch ?options? list pattern\"")
	}
	l, err := it.Host.FromList(args[i])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	pattern := it.Host.Get(args[i+1])
	n := it.Host.ListLength(l)

	var hits []int
	for idx := 0; idx < n; idx++ {
		elem := it.Host.Get(it.Host.ListAt(l, idx))
		var match bool
		switch mode {
		case "exact":
			match = elem == pattern
		case "glob":
			match = globMatch(pattern, elem, false)
		case "regexp":
			m, rerr := regexp.MatchString(pattern, elem)
			if rerr != nil {
				return it.raiseError("%s", rerr.Error())
			}
			match = m
		}
		if match {
			hits = append(hits, idx)
			if !all {
				break
			}
		}
	}

	if !all {
		if len(hits) == 0 {
			if inline {
				return CodeOK, it.Host.Intern("")
			}
			return CodeOK, it.Host.NewInt(-1)
		}
		if inline {
			return CodeOK, it.Host.ListAt(l, hits[0])
		}
		return CodeOK, it.Host.NewInt(int64(hits[0]))
	}
	out := make([]O, 0, len(hits))
	for _, idx := range hits {
		if inline {
			out = append(out, it.Host.ListAt(l, idx))
		} else {
			out = append(out, it.Host.NewInt(int64(idx)))
		}
	}
	return CodeOK, it.Host.NewList(out...)
}

func cmdLSet[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 3 {
		return it.raiseError("wrong # args: should be \"lset varName ?index ...? value\"")
	}
	name := it.Host.Get(args[1])
	cur, ok := it.Host.GetVar(name)
	if !ok {
		return it.raiseError("can't read %q: no such variable", name)
	}
	value := args[len(args)-1]
	indices := args[2 : len(args)-1]
	result, err := it.lsetRecurse(cur, indices, value)
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	it.Host.SetVar(name, result)
	return CodeOK, result
}

func (it *Interp[O]) lsetRecurse(cur O, indices []O, value O) (O, error) {
	if len(indices) == 0 {
		return value, nil
	}
	l, err := it.Host.FromList(cur)
	if err != nil {
		return cur, err
	}
	n := it.Host.ListLength(l)
	idx, err := parseIndex(it.Host.Get(indices[0]), n)
	if err != nil {
		return cur, err
	}
	if idx < 0 || idx >= n {
		return cur, fmt.Errorf("list index out of range")
	}
	child, err := it.lsetRecurse(it.Host.ListAt(l, idx), indices[1:], value)
	if err != nil {
		return cur, err
	}
	head := it.Host.ListSlice(l, 0, idx)
	tail := it.Host.ListSlice(l, idx+1, n)
	result := it.Host.ListPush(head, child)
	more, merr := it.Host.FromList(tail)
	if merr == nil {
		tl := it.Host.ListLength(more)
		for i := 0; i < tl; i++ {
			result = it.Host.ListPush(result, it.Host.ListAt(more, i))
		}
	}
	return result, nil
}

// cmdLSort implements `lsort ?-ascii|-integer|-real|-dictionary?
// ?-increasing|-decreasing? ?-unique? list`.
func cmdLSort[O any](it *Interp[O], args []O) (Code, O) {
	kind := "ascii"
	decreasing := false
	unique := false
	i := 1
	for i < len(args)-1 {
		switch it.Host.Get(args[i]) {
		case "-ascii":
			kind = "ascii"
		case "-integer":
			kind = "integer"
		case "-real":
			kind = "real"
		case "-dictionary":
			kind = "dictionary"
		case "-increasing":
			decreasing = false
		case "-decreasing":
			decreasing = true
		case "-unique":
			unique = true
		default:
			goto sortBody
		}
		i++
	}
sortBody:
	if i >= len(args) {
		return it.raiseError("wrong # args: should be \"lsort ?options? list\"")
	}
	l, err := it.Host.FromList(args[i])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	n := it.Host.ListLength(l)
	items := make([]O, n)
	for j := 0; j < n; j++ {
		items[j] = it.Host.ListAt(l, j)
	}

	less := func(a, b O) bool {
		switch kind {
		case "integer":
			av, _ := it.Host.GetInt(a)
			bv, _ := it.Host.GetInt(b)
			return av < bv
		case "real":
			av := floatOf(it.Host.Get(a))
			bv := floatOf(it.Host.Get(b))
			return av < bv
		case "dictionary":
			return dictionaryLess(it.Host.Get(a), it.Host.Get(b))
		default:
			return it.Host.Get(a) < it.Host.Get(b)
		}
	}
	sort.SliceStable(items, func(a, b int) bool {
		if decreasing {
			return less(items[b], items[a])
		}
		return less(items[a], items[b])
	})

	if unique {
		out := items[:0]
		var prev string
		havePrev := false
		for _, v := range items {
			s := it.Host.Get(v)
			if havePrev && s == prev {
				continue
			}
			out = append(out, v)
			prev = s
			havePrev = true
		}
		items = out
	}
	return CodeOK, it.Host.NewList(items...)
}

func floatOf(s string) float64 {
	v, _ := evalExprString(s)
	return v.asFloat()
}

// dictionaryLess implements `lsort -dictionary`'s comparison: runs of
// digits compare numerically rather than byte-by-byte (so "x9" sorts
// before "x10"), and letters compare case-insensitively; ties fall back
// to an ordinary byte comparison so the sort stays total.
func dictionaryLess(a, b string) bool {
	if c := dictionaryCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func dictionaryCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigitByte(ca) && isDigitByte(cb) {
			ei := i
			for ei < len(a) && isDigitByte(a[ei]) {
				ei++
			}
			ej := j
			for ej < len(b) && isDigitByte(b[ej]) {
				ej++
			}
			na := strings.TrimLeft(a[i:ei], "0")
			nb := strings.TrimLeft(b[j:ej], "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			i, j = ei, ej
			continue
		}
		la, lb := lowerByte(ca), lowerByte(cb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func cmdSplit[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 || len(args) > 3 {
		return it.raiseError("wrong # args: should be \"split string ?splitChars?\"")
	}
	s := it.Host.Get(args[1])
	sep := " \t\n\r"
	if len(args) == 3 {
		sep = it.Host.Get(args[2])
	}
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		// Every separator byte ends an element, so adjacent separators
		// produce empty elements rather than collapsing.
		start := 0
		for i := 0; i < len(s); i++ {
			if strings.IndexByte(sep, s[i]) >= 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
		parts = append(parts, s[start:])
	}
	objs := make([]O, len(parts))
	for i, p := range parts {
		objs[i] = it.Host.Intern(p)
	}
	return CodeOK, it.Host.NewList(objs...)
}

func cmdJoin[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 || len(args) > 3 {
		return it.raiseError("wrong # args: should be \"join list ?joinString?\"")
	}
	l, err := it.Host.FromList(args[1])
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	sep := " "
	if len(args) == 3 {
		sep = it.Host.Get(args[2])
	}
	n := it.Host.ListLength(l)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = it.Host.Get(it.Host.ListAt(l, i))
	}
	return CodeOK, it.Host.Intern(strings.Join(parts, sep))
}

func cmdConcatCmd[O any](it *Interp[O], args []O) (Code, O) {
	return CodeOK, it.Host.Intern(concatScript(it, args[1:]))
}
