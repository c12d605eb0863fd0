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
	"strconv"
)

// truthValue is the Tcl boolean-word table shared by `if`/`while`/`expr`
// boolean coercion.
var truthValue = map[string]bool{
	"":      false,
	"0":     false,
	"no":    false,
	"off":   false,
	"false": false,
	"1":     true,
	"yes":   true,
	"on":    true,
	"true":  true,
}

func registerControlBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("if", cmdIf[O])
	it.Host.RegisterBuiltin("while", cmdWhile[O])
	it.Host.RegisterBuiltin("for", cmdFor[O])
	it.Host.RegisterBuiltin("foreach", cmdForEach[O])
	it.Host.RegisterBuiltin("switch", cmdSwitch[O])
	it.Host.RegisterBuiltin("break", cmdBreak[O])
	it.Host.RegisterBuiltin("continue", cmdContinue[O])
	it.Host.RegisterBuiltin("return", cmdReturn[O])
	it.Host.RegisterBuiltin("error", cmdError[O])
	it.Host.RegisterBuiltin("catch", cmdCatch[O])
	it.Host.RegisterBuiltin("try", cmdTry[O])
	it.Host.RegisterBuiltin("throw", cmdThrow[O])
}

// evalCond evaluates a raw (possibly braced, unsubstituted) condition
// expression through the expr builtin, which owns the substitution
// round; handing it the raw text keeps that to exactly one round. The
// result is judged by expr's own truth test (non-zero numbers and the
// boolean words are true).
func (it *Interp[O]) evalCond(cond O) (bool, Code, O) {
	code, res := cmdExpr(it, []O{it.Host.Intern("expr"), cond})
	if code != CodeOK {
		return false, code, res
	}
	s := it.Host.Get(res)
	v := strVal(s)
	if tok := tokenFromValue(s); tok.kind == etNumber {
		v = floatVal(tok.f)
		if tok.isI {
			v = intVal(tok.i)
		}
	}
	return v.truthy(), CodeOK, res
}

func cmdIf[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 3 {
		return it.raiseError("wrong # args: should be \"if expr script ?elseif expr script ...? ?else script?\"")
	}
	i := 1
	n := len(args)
	for {
		ok, code, res := it.evalCond(args[i])
		if code != CodeOK {
			return code, res
		}
		if ok {
			return it.Eval(it.Host.Get(args[i+1]))
		}
		i += 2
		if i >= n {
			return CodeOK, it.Host.Intern("")
		}
		word := it.Host.Get(args[i])
		switch word {
		case "elseif":
			i++
			if i+1 >= n {
				return it.raiseError("wrong # args: no expr after \"elseif\"")
			}
		case "else":
			if i+1 >= n {
				return it.raiseError("wrong # args: no script after \"else\"")
			}
			return it.Eval(it.Host.Get(args[i+1]))
		default:
			return it.raiseError("invalid if syntax near %q", word)
		}
	}
}

func cmdWhile[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 3 {
		return it.raiseError("wrong # args: should be \"while test body\"")
	}
	for {
		ok, code, res := it.evalCond(args[1])
		if code != CodeOK {
			return code, res
		}
		if !ok {
			return CodeOK, it.Host.Intern("")
		}
		code, res = it.Eval(it.Host.Get(args[2]))
		switch code {
		case CodeOK, CodeContinue:
		case CodeBreak:
			return CodeOK, it.Host.Intern("")
		default:
			return code, res
		}
	}
}

func cmdFor[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 5 {
		return it.raiseError("wrong # args: should be \"for start test next body\"")
	}
	code, res := it.Eval(it.Host.Get(args[1]))
	if code != CodeOK {
		return code, res
	}
	for {
		ok, code, res := it.evalCond(args[2])
		if code != CodeOK {
			return code, res
		}
		if !ok {
			return CodeOK, it.Host.Intern("")
		}
		code, res = it.Eval(it.Host.Get(args[4]))
		switch code {
		case CodeOK, CodeContinue:
		case CodeBreak:
			return CodeOK, it.Host.Intern("")
		default:
			return code, res
		}
		code, res = it.Eval(it.Host.Get(args[3]))
		if code != CodeOK {
			return code, res
		}
	}
}

// cmdForEach implements `foreach varlist list ?varlist list ...? body`:
// each varlist consumes that many elements of its list per iteration,
// and shorter lists pad out with empty strings.
func cmdForEach[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 4 || len(args)%2 != 0 {
		return it.raiseError("wrong # args: should be \"foreach varList list ?varList list ...? body\"")
	}
	body := args[len(args)-1]
	nGroups := (len(args) - 2) / 2

	type group struct {
		vars []string
		vals []O
	}
	groups := make([]group, nGroups)
	maxLen := 0
	for g := 0; g < nGroups; g++ {
		varListObj := args[1+2*g]
		listObj := args[2+2*g]
		varNames, err := it.Host.FromList(varListObj)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		var names []string
		for i := 0; i < it.Host.ListLength(varNames); i++ {
			names = append(names, it.Host.Get(it.Host.ListAt(varNames, i)))
		}
		values, err := it.Host.FromList(listObj)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		var vals []O
		for i := 0; i < it.Host.ListLength(values); i++ {
			vals = append(vals, it.Host.ListAt(values, i))
		}
		groups[g] = group{vars: names, vals: vals}
		need := 0
		if len(names) > 0 {
			need = (len(vals) + len(names) - 1) / len(names)
		}
		if need > maxLen {
			maxLen = need
		}
	}

	for iter := 0; iter < maxLen; iter++ {
		for _, g := range groups {
			for vi, name := range g.vars {
				idx := iter*len(g.vars) + vi
				if idx < len(g.vals) {
					it.Host.SetVar(name, g.vals[idx])
				} else {
					it.Host.SetVar(name, it.Host.Intern(""))
				}
			}
		}
		code, res := it.Eval(it.Host.Get(body))
		switch code {
		case CodeOK, CodeContinue:
		case CodeBreak:
			return CodeOK, it.Host.Intern("")
		default:
			return code, res
		}
	}
	return CodeOK, it.Host.Intern("")
}

func cmdSwitch[O any](it *Interp[O], args []O) (Code, O) {
	mode := "exact"
	i := 1
	for i < len(args) {
		word := it.Host.Get(args[i])
		switch word {
		case "-exact":
			mode = "exact"
			i++
		case "-glob":
			mode = "glob"
			i++
		case "-regexp":
			mode = "regexp"
			i++
		case "--":
			i++
			goto matchBody
		default:
			goto matchBody
		}
	}
matchBody:
	if i >= len(args) {
		return it.raiseError("wrong # args: should be \"switch ?options? string pattern body ...\"")
	}
	str := it.Host.Get(args[i])
	i++

	var pairs []O
	if i == len(args)-1 {
		listVal, err := it.Host.FromList(args[i])
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		for j := 0; j < it.Host.ListLength(listVal); j++ {
			pairs = append(pairs, it.Host.ListAt(listVal, j))
		}
	} else {
		pairs = args[i:]
	}
	if len(pairs)%2 != 0 {
		return it.raiseError("extra switch pattern with no body")
	}

	for p := 0; p < len(pairs); p += 2 {
		pattern := it.Host.Get(pairs[p])
		matched := false
		if pattern == "default" && p+2 == len(pairs) {
			matched = true
		} else {
			switch mode {
			case "exact":
				matched = pattern == str
			case "glob":
				matched = globMatch(pattern, str, false)
			case "regexp":
				m, err := regexp.MatchString(pattern, str)
				if err != nil {
					return it.raiseError("%s", err.Error())
				}
				matched = m
			}
		}
		if matched {
			// A body of "-" falls through to the next pattern's body.
			for it.Host.Get(pairs[p+1]) == "-" {
				p += 2
				if p+1 >= len(pairs) {
					return it.raiseError("no body specified for pattern %q", pattern)
				}
			}
			return it.Eval(it.Host.Get(pairs[p+1]))
		}
	}
	return CodeOK, it.Host.Intern("")
}

func cmdBreak[O any](it *Interp[O], args []O) (Code, O) {
	return CodeBreak, it.Host.Intern("")
}

func cmdContinue[O any](it *Interp[O], args []O) (Code, O) {
	return CodeContinue, it.Host.Intern("")
}

// parseReturnCode translates a `-code` argument into a Code, accepting
// both the five symbolic names Tcl documents and a plain integer for
// custom codes.
func parseReturnCode(s string) (Code, error) {
	switch s {
	case "ok":
		return CodeOK, nil
	case "error":
		return CodeError, nil
	case "return":
		return CodeReturn, nil
	case "break":
		return CodeBreak, nil
	case "continue":
		return CodeContinue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad completion code %q: must be ok, error, return, break, continue, or an integer", s)
	}
	return Code(n), nil
}

// cmdReturn implements `return ?-code c? ?-errorinfo s? ?-errorcode c?
// ?-level n? ?value?`. With none of the options given this
// is plain `return value`: CodeReturn unwinds exactly one proc boundary
// to OK, as before. -level n defers that unwinding n proc boundaries
// instead of one (a single-slot pendingReturn record, mirroring
// tailcallRecord's single-slot design, since only one return can be in
// flight through a chain of proc calls at a time); -level 0 means the
// options take effect immediately in the current frame rather than
// propagating at all.
func cmdReturn[O any](it *Interp[O], args []O) (Code, O) {
	rec := returnOptions[O]{code: CodeOK, level: 1}
	i := 1
	for i < len(args) {
		switch it.Host.Get(args[i]) {
		case "-code":
			if i+1 >= len(args) {
				return it.raiseError("missing value for \"-code\"")
			}
			c, err := parseReturnCode(it.Host.Get(args[i+1]))
			if err != nil {
				return it.raiseError("%s", err.Error())
			}
			rec.code = c
			i += 2
		case "-errorinfo":
			if i+1 >= len(args) {
				return it.raiseError("missing value for \"-errorinfo\"")
			}
			rec.errorInfo = it.Host.Get(args[i+1])
			rec.hasErrorInfo = true
			i += 2
		case "-errorcode":
			if i+1 >= len(args) {
				return it.raiseError("missing value for \"-errorcode\"")
			}
			rec.errorCode = it.Host.Get(args[i+1])
			rec.hasErrorCode = true
			i += 2
		case "-level":
			if i+1 >= len(args) {
				return it.raiseError("missing value for \"-level\"")
			}
			n, err := strconv.Atoi(it.Host.Get(args[i+1]))
			if err != nil || n < 0 {
				return it.raiseError("bad level %q: must be a non-negative integer", it.Host.Get(args[i+1]))
			}
			rec.level = n
			i += 2
		default:
			goto parsedOpts
		}
	}
parsedOpts:
	var value O
	switch len(args) - i {
	case 0:
		value = it.Host.Intern("")
	case 1:
		value = args[i]
	default:
		return it.raiseError("wrong # args: should be \"return ?-code code? ?-errorinfo info? ?-errorcode code? ?-level level? ?value?\"")
	}

	if rec.level == 0 {
		return it.finishReturn(rec, value)
	}
	if rec.code == CodeOK && rec.level == 1 && !rec.hasErrorInfo && !rec.hasErrorCode {
		return CodeReturn, value
	}
	it.pendingReturn = &rec
	return CodeReturn, value
}

func cmdError[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 || len(args) > 4 {
		return it.raiseError("wrong # args: should be \"error message ?errorInfo? ?errorCode?\"")
	}
	code, val := it.wrapError(args[1])
	if len(args) >= 3 {
		if info := it.Host.Get(args[2]); info != "" {
			it.errorInfo = info
			it.errorStack = []string{info}
		}
	}
	if len(args) == 4 {
		it.errorCode = it.Host.Get(args[3])
	}
	return code, val
}

func cmdCatch[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 || len(args) > 4 {
		return it.raiseError("wrong # args: should be \"catch script ?resultVarName? ?optionsVarName?\"")
	}
	code, res := it.Eval(it.Host.Get(args[1]))
	if code == CodeError {
		it.finalizeCaught()
	}
	if len(args) >= 3 {
		it.Host.SetVar(it.Host.Get(args[2]), res)
	}
	if len(args) == 4 {
		opts := it.Host.NewDict()
		opts = it.Host.DictSet(opts, "-code", it.Host.NewInt(int64(code)))
		opts = it.Host.DictSet(opts, "-level", it.Host.NewInt(0))
		if code == CodeError {
			opts = it.Host.DictSet(opts, "-errorinfo", it.Host.Intern(it.errorInfo))
			opts = it.Host.DictSet(opts, "-errorcode", it.Host.Intern(it.errorCode))
			opts = it.Host.DictSet(opts, "-errorline", it.Host.NewInt(int64(it.errorLine)))
			stack := make([]O, len(it.errorStack))
			for i, s := range it.errorStack {
				stack[i] = it.Host.Intern(s)
			}
			opts = it.Host.DictSet(opts, "-errorstack", it.Host.NewList(stack...))
		}
		it.Host.SetVar(it.Host.Get(args[3]), opts)
	}
	return CodeOK, it.Host.NewInt(int64(code))
}

// cmdTry implements `try body ?on code varList script? ... ?finally script?`.
func cmdTry[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"try body ?handler ...? ?finally script?\"")
	}
	bodyCode, bodyRes := it.Eval(it.Host.Get(args[1]))
	errInfo, errCode := it.errorInfo, it.errorCode
	if bodyCode == CodeError {
		it.finalizeCaught()
		errCode = it.errorCode
	}

	finalCode, finalRes := bodyCode, bodyRes
	i := 2
	handled := false
	for i < len(args) {
		word := it.Host.Get(args[i])
		switch word {
		case "on":
			if i+3 >= len(args) {
				return it.raiseError("wrong # args to \"on\" handler")
			}
			wantName := it.Host.Get(args[i+1])
			want, ok := onHandlerCodes[wantName]
			if !ok {
				return it.raiseError("bad handler code %q", wantName)
			}
			varList := args[i+2]
			script := args[i+3]
			if !handled && bodyCode == want {
				if err := it.bindTryVars(varList, bodyRes, errInfo); err != nil {
					return it.raiseError("%s", err.Error())
				}
				finalCode, finalRes = it.Eval(it.Host.Get(script))
				handled = true
			}
			i += 4
		case "trap":
			if i+3 >= len(args) {
				return it.raiseError("wrong # args to \"trap\" handler")
			}
			pattern := args[i+1]
			varList := args[i+2]
			script := args[i+3]
			if !handled && bodyCode == CodeError && it.errorCodeMatchesPrefix(pattern, errCode) {
				if err := it.bindTryVars(varList, bodyRes, errInfo); err != nil {
					return it.raiseError("%s", err.Error())
				}
				finalCode, finalRes = it.Eval(it.Host.Get(script))
				handled = true
			}
			i += 4
		case "finally":
			if i+1 >= len(args) {
				return it.raiseError("wrong # args to \"finally\" handler")
			}
			fc, fr := it.Eval(it.Host.Get(args[i+1]))
			if fc != CodeOK {
				return fc, fr
			}
			i += 2
		default:
			return it.raiseError("unknown try handler %q", word)
		}
	}
	return finalCode, finalRes
}

var onHandlerCodes = map[string]Code{
	"ok":       CodeOK,
	"error":    CodeError,
	"return":   CodeReturn,
	"break":    CodeBreak,
	"continue": CodeContinue,
}

func (it *Interp[O]) bindTryVars(varList O, result O, errInfo string) error {
	names, err := it.Host.FromList(varList)
	if err != nil {
		return err
	}
	n := it.Host.ListLength(names)
	if n >= 1 {
		it.Host.SetVar(it.Host.Get(it.Host.ListAt(names, 0)), result)
	}
	if n >= 2 {
		it.Host.SetVar(it.Host.Get(it.Host.ListAt(names, 1)), it.Host.Intern(errInfo))
	}
	return nil
}

// errorCodeMatchesPrefix implements try's `trap prefixList` matching:
// a handler matches on the code plus an errorcode prefix. pattern's
// elements must equal a prefix of the actual errorcode, taken as a Tcl
// list; an empty pattern matches any errorcode (including none), the
// same way a bare `trap {}` does in Tcl.
func (it *Interp[O]) errorCodeMatchesPrefix(pattern O, errCode string) bool {
	prefixList, err := it.Host.FromList(pattern)
	if err != nil {
		return false
	}
	n := it.Host.ListLength(prefixList)
	if n == 0 {
		return true
	}
	actualList, err := it.Host.FromList(it.Host.Intern(errCode))
	if err != nil || it.Host.ListLength(actualList) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if it.Host.Get(it.Host.ListAt(prefixList, i)) != it.Host.Get(it.Host.ListAt(actualList, i)) {
			return false
		}
	}
	return true
}

// cmdThrow implements `throw errorCode message`, raising an error whose
// -errorcode option is set.
func cmdThrow[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) != 3 {
		return it.raiseError("wrong # args: should be \"throw errorCode message\"")
	}
	code, val := it.wrapError(args[2])
	it.errorCode = it.Host.Get(args[1])
	return code, val
}
