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
	"strconv"
	"strings"
)

func registerFormatBuiltins[O any](it *Interp[O]) {
	it.Host.RegisterBuiltin("format", cmdFormat[O])
	it.Host.RegisterBuiltin("scan", cmdScan[O])
}

// cmdFormat implements `format formatString ?arg ...?`, walking the
// format string byte by byte and re-emitting each %-directive as a
// single-verb Go fmt.Sprintf call.
func cmdFormat[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 2 {
		return it.raiseError("wrong # args: should be \"format formatString ?arg ...?\"")
	}
	f := it.Host.Get(args[1])
	vals := args[2:]
	vi := 0
	nextVal := func() (O, bool) {
		if vi >= len(vals) {
			return zeroOf[O](), false
		}
		v := vals[vi]
		vi++
		return v, true
	}

	var out strings.Builder
	for i := 0; i < len(f); i++ {
		c := f[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		if i+1 < len(f) && f[i+1] == '%' {
			out.WriteByte('%')
			i++
			continue
		}

		start := i
		i++
		for i < len(f) && strings.ContainsRune("-+0 #", rune(f[i])) {
			i++
		}
		for i < len(f) && isDigit(f[i]) {
			i++
		}
		if i < len(f) && f[i] == '.' {
			i++
			for i < len(f) && isDigit(f[i]) {
				i++
			}
		}
		if i >= len(f) {
			return it.raiseError("incomplete format directive")
		}
		verb := f[i]
		spec := f[start : i+1]

		val, ok := nextVal()
		if !ok {
			return it.raiseError("not enough arguments for all format specifiers")
		}

		rendered, err := formatOne(it, spec, verb, val)
		if err != nil {
			return it.raiseError("%s", err.Error())
		}
		out.WriteString(rendered)
	}
	return CodeOK, it.Host.Intern(out.String())
}

// cmdScan implements `scan string format ?varName ...?`, the inverse of
// `format` for integers, floats, and strings. With variable names it
// assigns each converted value and returns the conversion count; with
// none it returns the converted values as a list, matching Tcl's two
// calling conventions.
func cmdScan[O any](it *Interp[O], args []O) (Code, O) {
	if len(args) < 3 {
		return it.raiseError("wrong # args: should be \"scan string format ?varName ...?\"")
	}
	values, count := scanString(it.Host.Get(args[1]), it.Host.Get(args[2]))
	vars := args[3:]
	if len(vars) == 0 {
		objs := make([]O, len(values))
		for i, v := range values {
			objs[i] = it.Host.Intern(v)
		}
		return CodeOK, it.Host.NewList(objs...)
	}
	for i, v := range vars {
		if i < len(values) {
			it.Host.SetVar(it.Host.Get(v), it.Host.Intern(values[i]))
		} else {
			it.Host.SetVar(it.Host.Get(v), it.Host.Intern(""))
		}
	}
	return CodeOK, it.Host.NewInt(int64(count))
}

// scanString walks fmt byte by byte against str, consuming a %-directive
// at a time (d/i/o/x/X, f/e/g/E/G, s, c), skipping whitespace the way
// Tcl's scan skips it before numeric/string conversions, and stops at
// the first conversion or literal that fails to match rather than
// erroring — matching scanf's short-read behavior.
func scanString(str, format string) (values []string, count int) {
	si, fi := 0, 0
	for fi < len(format) {
		c := format[fi]
		switch {
		case c == '%':
			fi++
			if fi < len(format) && format[fi] == '%' {
				if si < len(str) && str[si] == '%' {
					si++
					fi++
					continue
				}
				return values, count
			}
			for fi < len(format) && isDigit(format[fi]) {
				fi++
			}
			if fi >= len(format) {
				return values, count
			}
			verb := format[fi]
			fi++
			if verb != 'c' {
				for si < len(str) && isSpace(str[si]) {
					si++
				}
			}
			v, next, ok := scanOne(str, si, verb)
			if !ok {
				return values, count
			}
			values = append(values, v)
			count++
			si = next
		case isSpace(c):
			for si < len(str) && isSpace(str[si]) {
				si++
			}
			fi++
		default:
			if si < len(str) && str[si] == c {
				si++
				fi++
				continue
			}
			return values, count
		}
	}
	return values, count
}

func scanOne(str string, si int, verb byte) (value string, next int, ok bool) {
	switch verb {
	case 'd', 'i', 'o', 'x', 'X':
		base := 10
		switch verb {
		case 'o':
			base = 8
		case 'x', 'X':
			base = 16
		}
		start := si
		if si < len(str) && (str[si] == '-' || str[si] == '+') {
			si++
		}
		digitsStart := si
		for si < len(str) && isBaseDigit(str[si], base) {
			si++
		}
		if si == digitsStart {
			return "", 0, false
		}
		n, err := strconv.ParseInt(str[start:si], base, 64)
		if err != nil {
			return "", 0, false
		}
		return strconv.FormatInt(n, 10), si, true
	case 'f', 'e', 'g', 'E', 'G':
		start := si
		if si < len(str) && (str[si] == '-' || str[si] == '+') {
			si++
		}
		for si < len(str) && (isDigit(str[si]) || str[si] == '.') {
			si++
		}
		if si < len(str) && (str[si] == 'e' || str[si] == 'E') {
			si++
			if si < len(str) && (str[si] == '-' || str[si] == '+') {
				si++
			}
			for si < len(str) && isDigit(str[si]) {
				si++
			}
		}
		if si == start {
			return "", 0, false
		}
		f, err := strconv.ParseFloat(str[start:si], 64)
		if err != nil {
			return "", 0, false
		}
		return strconv.FormatFloat(f, 'g', -1, 64), si, true
	case 's':
		start := si
		for si < len(str) && !isSpace(str[si]) && str[si] != '\n' {
			si++
		}
		if si == start {
			return "", 0, false
		}
		return str[start:si], si, true
	case 'c':
		if si >= len(str) {
			return "", 0, false
		}
		return string(str[si]), si + 1, true
	default:
		return "", 0, false
	}
}

func isBaseDigit(b byte, base int) bool {
	switch base {
	case 8:
		return isOctalDigit(b)
	case 16:
		return isHexDigit(b)
	default:
		return isDigit(b)
	}
}

func formatOne[O any](it *Interp[O], spec string, verb byte, val O) (string, error) {
	switch verb {
	case 'd', 'i', 'o', 'x', 'X', 'b':
		n, ok := it.Host.GetInt(val)
		if !ok {
			return "", fmt.Errorf("expected integer but got %q", it.Host.Get(val))
		}
		if verb == 'b' {
			return strconv.FormatInt(n, 2), nil
		}
		if verb == 'i' {
			// Go's fmt has no %i verb; 'i' is a Tcl synonym for 'd'
			// (scanOne already treats it that way on the scan side).
			spec = spec[:len(spec)-1] + "d"
		}
		return fmt.Sprintf(spec, n), nil
	case 'f', 'e', 'g', 'E', 'G':
		v, err := evalExprString(it.Host.Get(val))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(spec, v.asFloat()), nil
	case 'c':
		n, ok := it.Host.GetInt(val)
		if !ok {
			return "", fmt.Errorf("expected integer but got %q", it.Host.Get(val))
		}
		return string(rune(n)), nil
	case 's':
		return fmt.Sprintf(spec, it.Host.Get(val)), nil
	default:
		return "", fmt.Errorf("bad format specifier %q", spec)
	}
}
