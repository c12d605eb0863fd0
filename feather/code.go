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

// Code is a command/script return code. The five canonical Tcl codes are
// fixed values; a builtin may also return a custom code (>= CodeCustom),
// as produced by `return -code N`.
type Code int32

// Canonical return codes, matching the wire constants every host and the
// core agree on.
const (
	CodeOK Code = iota
	CodeError
	CodeReturn
	CodeBreak
	CodeContinue
)

// CodeCustom is the first value available to user-defined return codes
// (`return -code 7 ...`). Values below it are reserved for the five
// canonical codes above.
const CodeCustom Code = 5

// String names a code the way Tcl error messages refer to it.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeError:
		return "error"
	case CodeReturn:
		return "return"
	case CodeBreak:
		return "break"
	case CodeContinue:
		return "continue"
	default:
		return "custom"
	}
}
