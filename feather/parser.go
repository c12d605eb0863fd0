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

import "fmt"

// readCommand scans one command's worth of words from l, performing
// variable substitution, command substitution, and backslash decoding as
// it goes, and returns the resulting word list. It stops at the first
// unquoted command separator (newline or ';') or at end of input;
// callers distinguish the two via the returned atEOF. Adjacent pieces
// with no intervening separator concatenate onto the same word
// (`abc$x` is one word).
func (it *Interp[O]) readCommand(l *lexer) (words []O, atEOF bool, code Code, errVal O) {
	for {
		prevKind := l.prev
		tok := l.next()

		switch tok {
		case tokEOF:
			if l.err != "" {
				return nil, true, CodeError, it.Host.Intern(l.err)
			}
			return words, true, CodeOK, errVal

		case tokEOL:
			return words, false, CodeOK, errVal

		case tokSpace:
			continue

		case tokLiteral:
			words = it.appendWord(words, prevKind, it.Host.Intern(unescapeFull(l.text())))

		case tokBraced:
			words = it.appendWord(words, prevKind, it.Host.Intern(unescapeBraceVerbatim(l.text())))

		case tokVar:
			v, vcode, verr := it.substVar(l)
			if vcode != CodeOK {
				return nil, false, vcode, verr
			}
			words = it.appendWord(words, prevKind, v)

		case tokCommand:
			sub := l.text()
			scode, sres := it.Eval(sub)
			if scode != CodeOK {
				return nil, false, scode, sres
			}
			words = it.appendWord(words, prevKind, sres)

		default:
			return nil, true, CodeError, it.Host.Intern(fmt.Sprintf("internal error: unexpected token %d", tok))
		}
	}
}

// appendWord implements the adjacency rule: a piece produced right after
// a space or EOL token starts a new word; otherwise it concatenates onto
// the word currently being built (`abc$x` is one word).
func (it *Interp[O]) appendWord(words []O, prevKind tokenKind, piece O) []O {
	if len(words) == 0 || prevKind == tokSpace || prevKind == tokEOL {
		return append(words, piece)
	}
	words[len(words)-1] = it.Host.Concat(words[len(words)-1], piece)
	return words
}

// substVar resolves a $name, $name(key), or ${name} reference the lexer
// has just classified as tokVar. For the bare (unbraced) form it peeks
// past the name for a parenthesized array key, itself substituted as a
// bare word (command and variable substitution apply inside the key,
// matching Tcl's treatment of `$arr($expr)`).
func (it *Interp[O]) substVar(l *lexer) (O, Code, O) {
	name := l.text()

	// Braced names (${...}) never carry an array key: the whole
	// bracketed span, parens included, is the literal variable name.
	if !l.wasBracedVar && l.char == '(' {
		key, kcode, kerr := it.scanArrayKey(l)
		if kcode != CodeOK {
			return zeroOf[O](), kcode, kerr
		}
		full := name + "(" + it.Host.Get(key) + ")"
		v, ok := it.Host.GetVar(full)
		if !ok {
			return zeroOf[O](), CodeError, it.Host.Intern(fmt.Sprintf("can't read %q: no such variable", full))
		}
		it.fireVarTrace(full, 'r')
		return v, CodeOK, zeroOf[O]()
	}

	v, ok := it.Host.GetVar(name)
	if !ok {
		return zeroOf[O](), CodeError, it.Host.Intern(fmt.Sprintf("can't read %q: no such variable", name))
	}
	it.fireVarTrace(name, 'r')
	return v, CodeOK, zeroOf[O]()
}

// scanArrayKey consumes the `(key)` suffix of a bare array reference,
// substituting variables and commands inside the key the same way a
// bare word would be, then returns the assembled key as a host value.
func (it *Interp[O]) scanArrayKey(l *lexer) (O, Code, O) {
	l.advance() // skip '('
	start := l.pos
	depth := 1
	for l.char != 0 {
		if l.char == '(' {
			depth++
		} else if l.char == ')' {
			depth--
			if depth == 0 {
				break
			}
		}
		l.advance()
	}
	if l.char != ')' {
		return zeroOf[O](), CodeError, it.Host.Intern("missing close-paren for array element")
	}
	raw := l.src[start:l.pos]
	l.advance() // skip ')'
	l.prev = tokLiteral

	key, code, errVal := it.substWord(raw)
	return key, code, errVal
}

// substOpts selects which substitution kinds substWordOpts applies.
type substOpts struct {
	noBackslashes bool
	noVariables   bool
	noCommands    bool
}

// substWord runs the full word-substitution pipeline (all kinds enabled)
// over a standalone string, used for contexts (array keys) where the
// substitution rules apply but there is no surrounding command syntax.
func (it *Interp[O]) substWord(src string) (O, Code, O) {
	return it.substWordOpts(src, substOpts{})
}

func (it *Interp[O]) substWordOpts(src string, opts substOpts) (O, Code, O) {
	sub := newLexer(src)
	sub.subOnly = true
	var words []O
	for {
		prevKind := sub.prev
		tok := sub.next()
		switch tok {
		case tokEOF:
			if sub.err != "" {
				return zeroOf[O](), CodeError, it.Host.Intern(sub.err)
			}
			var result O
			for _, w := range words {
				result = it.Host.Concat(result, w)
			}
			return result, CodeOK, zeroOf[O]()
		case tokSpace, tokEOL:
			// Separators carry no command-boundary meaning here; their
			// bytes pass through untouched.
			words = it.appendWord(words, prevKind, it.Host.Intern(sub.text()))
		case tokLiteral:
			text := sub.text()
			if !opts.noBackslashes {
				text = unescapeFull(text)
			}
			words = it.appendWord(words, prevKind, it.Host.Intern(text))
		case tokVar:
			if opts.noVariables {
				raw := "$" + sub.text()
				if sub.wasBracedVar {
					raw = "${" + sub.text() + "}"
				}
				words = it.appendWord(words, prevKind, it.Host.Intern(raw))
				continue
			}
			v, vcode, verr := it.substVar(sub)
			if vcode != CodeOK {
				return zeroOf[O](), vcode, verr
			}
			words = it.appendWord(words, prevKind, v)
		case tokCommand:
			if opts.noCommands {
				words = it.appendWord(words, prevKind, it.Host.Intern("["+sub.text()+"]"))
				continue
			}
			scode, sres := it.Eval(sub.text())
			if scode != CodeOK {
				return zeroOf[O](), scode, sres
			}
			words = it.appendWord(words, prevKind, sres)
		}
	}
}

// zeroOf returns the zero value of O, used where a function must return
// a placeholder handle alongside a non-OK code that callers ignore.
func zeroOf[O any]() O {
	var z O
	return z
}
