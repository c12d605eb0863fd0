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
	"strings"
	"unicode"
)

// registerStringBuiltins installs the `string` ensemble.
func registerStringBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("string", cmdString[O])
}

func cmdString[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"string subcommand ?arg ...?\"")
	}
	sub := it.Host.Get(args[1])
	rest := make([]string, len(args)-2)
	for i, a := range args[2:] {
		rest[i] = it.Host.Get(a)
	}
	switch sub {
	case "length":
		if len(rest) != 1 {
			return it.raiseError("wrong # args: should be \"string length string\"")
		}
		return CodeOK, it.Host.NewInt(int64(len([]rune(rest[0]))))
	case "index":
		if len(rest) != 2 {
			return it.raiseError("wrong # args: should be \"string index string charIndex\"")
		}
		r := []rune(rest[0])
		idx, err := parseIndex(rest[1], len(r))
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		if idx < 0 || idx >= len(r) {
			return CodeOK, it.Host.Intern("")
		}
		return CodeOK, it.Host.Intern(string(r[idx]))
	case "range":
		if len(rest) != 3 {
			return it.raiseError("wrong # args: should be \"string range string first last\"")
		}
		r := []rune(rest[0])
		first, err := parseIndex(rest[1], len(r))
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		last, err := parseIndex(rest[2], len(r))
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		first = clampIndex(first, len(r))
		last = clampIndex(last+1, len(r))
		if last < first {
			return CodeOK, it.Host.Intern("")
		}
		return CodeOK, it.Host.Intern(string(r[first:last]))
	case "replace":
		if len(rest) < 3 {
			return it.raiseError("wrong # args: should be \"string replace string first last ?newString?\"")
		}
		r := []rune(rest[0])
		first, err := parseIndex(rest[1], len(r))
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		last, err := parseIndex(rest[2], len(r))
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		first = clampIndex(first, len(r))
		last = clampIndex(last+1, len(r))
		if last < first {
			last = first
		}
		repl := ""
		if len(rest) >= 4 {
			repl = rest[3]
		}
		return CodeOK, it.Host.Intern(string(r[:first]) + repl + string(r[last:]))
	case "tolower":
		return CodeOK, it.Host.Intern(strings.ToLower(joinRangeArg(rest)))
	case "toupper":
		return CodeOK, it.Host.Intern(strings.ToUpper(joinRangeArg(rest)))
	case "totitle":
		return CodeOK, it.Host.Intern(strings.ToTitle(joinRangeArg(rest)))
	case "trim":
		return CodeOK, it.Host.Intern(trimOp(rest, strings.TrimSpace, strings.Trim))
	case "trimleft":
		return CodeOK, it.Host.Intern(trimOp(rest, func(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }, strings.TrimLeft))
	case "trimright":
		return CodeOK, it.Host.Intern(trimOp(rest, func(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }, strings.TrimRight))
	case "repeat":
		if len(rest) != 2 {
			return it.raiseError("wrong # args: should be \"string repeat string count\"")
		}
		n, ok := parseCount(rest[1])
		if !ok || n < 0 {
			return it.raiseError("expected integer but got %q", rest[1])
		}
		return CodeOK, it.Host.Intern(strings.Repeat(rest[0], n))
	case "first":
		return stringSearch(it, rest, false)
	case "last":
		return stringSearch(it, rest, true)
	case "match":
		nocase := false
		i := 0
		if len(rest) > 0 && rest[0] == "-nocase" {
			nocase = true
			i++
		}
		if len(rest)-i != 2 {
			return it.raiseError("wrong # args: should be \"string match ?-nocase? pattern string\"")
		}
		return CodeOK, it.Host.NewInt(boolToInt(globMatch(rest[i], rest[i+1], nocase)))
	case "compare", "equal":
		return stringCompare(it, sub, rest)
	case "cat":
		return CodeOK, it.Host.Intern(strings.Join(rest, ""))
	case "reverse":
		if len(rest) != 1 {
			return it.raiseError("wrong # args: should be \"string reverse string\"")
		}
		r := []rune(rest[0])
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return CodeOK, it.Host.Intern(string(r))
	case "is":
		if len(rest) < 2 {
			return it.raiseError("wrong # args: should be \"string is class ?-strict? string\"")
		}
		return CodeOK, it.Host.NewInt(boolToInt(stringIsClass(rest[0], rest[len(rest)-1])))
	case "map":
		if len(rest) != 2 {
			return it.raiseError("wrong # args: should be \"string map mapping string\"")
		}
		return stringMap(it, rest[0], rest[1])
	default:
		return it.raiseError("unknown or ambiguous subcommand %q", sub)
	}
}

func joinRangeArg(rest []string) string {
	if len(rest) == 0 {
		return ""
	}
	return rest[0]
}

func trimOp(rest []string, defaultFn func(string) string, charsFn func(string, string) string) string {
	if len(rest) == 0 {
		return ""
	}
	if len(rest) == 1 {
		return defaultFn(rest[0])
	}
	return charsFn(rest[0], rest[1])
}

func parseCount(s string) (int, bool) {
	v, err := evalExprString(s)
	if err != nil {
		return 0, false
	}
	return int(v.asInt()), v.kind != exprString
}

func stringSearch[O any](it *Interp[O], rest []string, last bool) (Code, O) {
	if len(rest) < 2 {
		return it.raiseError("wrong # args: should be \"string first needleString haystackString ?startIndex?\"")
	}
	needle, hay := rest[0], rest[1]
	var idx int
	if last {
		idx = strings.LastIndex(hay, needle)
	} else {
		start := 0
		if len(rest) >= 3 {
			n, err := parseIndex(rest[2], len(hay))
			if err == nil {
				start = clampIndex(n, len(hay))
			}
		}
		if start > len(hay) {
			idx = -1
		} else {
			rel := strings.Index(hay[start:], needle)
			if rel < 0 {
				idx = -1
			} else {
				idx = start + rel
			}
		}
	}
	return CodeOK, it.Host.NewInt(int64(idx))
}

func stringCompare[O any](it *Interp[O], sub string, rest []string) (Code, O) {
	nocase := false
	length := -1
	i := 0
	for i < len(rest) {
		switch rest[i] {
		case "-nocase":
			nocase = true
			i++
		case "-length":
			i++
			if i >= len(rest) {
				return it.raiseError("missing value for -length")
			}
			n, ok := parseCount(rest[i])
			if !ok {
				return it.raiseError("expected integer but got %q", rest[i])
			}
			length = n
			i++
		default:
			goto compareBody
		}
	}
compareBody:
	if len(rest)-i != 2 {
		return it.raiseError("wrong # args: should be \"string %s ?-nocase? ?-length int? string1 string2\"", sub)
	}
	s1, s2 := rest[i], rest[i+1]
	if length >= 0 {
		s1 = truncRunes(s1, length)
		s2 = truncRunes(s2, length)
	}
	if nocase {
		s1 = strings.ToLower(s1)
		s2 = strings.ToLower(s2)
	}
	if sub == "equal" {
		return CodeOK, it.Host.NewInt(boolToInt(s1 == s2))
	}
	switch {
	case s1 < s2:
		return CodeOK, it.Host.NewInt(-1)
	case s1 > s2:
		return CodeOK, it.Host.NewInt(1)
	default:
		return CodeOK, it.Host.NewInt(0)
	}
}

func truncRunes(s string, n int) string {
	r := []rune(s)
	if n < len(r) {
		return string(r[:n])
	}
	return s
}

func stringIsClass(class, s string) bool {
	if s == "" {
		return true
	}
	test := func(f func(rune) bool) bool {
		for _, r := range s {
			if !f(r) {
				return false
			}
		}
		return true
	}
	switch class {
	case "alpha":
		return test(unicode.IsLetter)
	case "digit":
		return test(unicode.IsDigit)
	case "alnum":
		return test(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	case "space":
		return test(unicode.IsSpace)
	case "upper":
		return test(unicode.IsUpper)
	case "lower":
		return test(unicode.IsLower)
	case "integer":
		_, ok := parseCount(s)
		return ok
	case "double":
		v, err := evalExprString(s)
		return err == nil && v.kind != exprString
	case "boolean":
		_, ok := truthValue[strings.ToLower(s)]
		return ok
	case "list":
		return true
	default:
		return false
	}
}

func stringMap[O any](it *Interp[O], mapping, s string) (Code, O) {
	l, err := it.Host.FromList(it.Host.Intern(mapping))
	if err != nil {
		return it.raiseError("%s", err.Error())
	}
	n := it.Host.ListLength(l)
	var from, to []string
	for i := 0; i+1 < n; i += 2 {
		from = append(from, it.Host.Get(it.Host.ListAt(l, i)))
		to = append(to, it.Host.Get(it.Host.ListAt(l, i+1)))
	}
	var pairs []string
	for i := range from {
		pairs = append(pairs, from[i], to[i])
	}
	return CodeOK, it.Host.Intern(strings.NewReplacer(pairs...).Replace(s))
}
