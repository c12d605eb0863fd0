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

// Eval partitions src into commands and evaluates each with dispatch in
// turn, stopping at the first command that does not return CodeOK. It is
// the single recursive entry point used both for EvalString and for
// command substitution ([...] and the `eval`/`uplevel` builtins),
// guarded by evalDepth against runaway recursion.
func (it *Interp[O]) Eval(src string) (Code, O) {
	it.evalDepth++
	defer func() { it.evalDepth-- }()
	if it.evalDepth > it.opts.MaxEvalDepth {
		return it.raiseError("too many nested evaluations (infinite loop?)")
	}

	l := newLexer(src)
	var result O
	for {
		startLine := l.line
		words, atEOF, code, errVal := it.readCommand(l)
		if code != CodeOK {
			return it.wrapError(errVal)
		}
		if len(words) > 0 {
			it.cmdLine = startLine
			code, result = it.dispatch(words)
			if code != CodeOK {
				return code, result
			}
			it.Host.SetResult(result)
		}
		if atEOF {
			return CodeOK, result
		}
	}
}
