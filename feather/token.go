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

// Token kinds produced by the low-level lexer. Each call to
// lexer.next returns one of these; the parser (parser.go) combines
// adjacent pieces into a single word and performs substitution.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokSpace
	tokEOL // command separator: unquoted ';' or newline
	tokLiteral
	tokVar
	tokCommand
	tokBraced // a complete {...} word: no further substitution applies
)

// lexer scans one command's worth of Tcl source into a stream of
// tokens, one character of lookahead at a time. It performs no
// substitution itself; it only classifies byte ranges.
type lexer struct {
	src     string
	pos     int // index of the current character
	nextPos int // index of the next character to read
	char    byte
	start   int
	end     int
	line    int // 1-based line of the current character
	inQuote bool
	prev    tokenKind
	err     string

	// subOnly selects substitution-only scanning for `subst` and array
	// keys: '#' never starts a comment, and '{'/'"' at a word start are
	// ordinary bytes rather than brace/quote structure. Separators are
	// still tokenized (as tokSpace/tokEOL) so the caller can splice
	// their bytes back verbatim.
	subOnly bool

	// wasBracedVar records whether the most recently returned tokVar
	// came from ${name} form, consulted by the parser to decide whether
	// a following '(' starts an array-key suffix (bare form only).
	wasBracedVar bool
}

func newLexer(src string) *lexer {
	l := &lexer{src: src, prev: tokEOL, line: 1}
	if len(src) > 0 {
		l.char = src[0]
		l.nextPos = 1
	} else {
		l.char = 0
		l.nextPos = 0
	}
	return l
}

func (l *lexer) text() string {
	if l.start >= l.end {
		return ""
	}
	return l.src[l.start:l.end]
}

// advance moves to the next input byte.
func (l *lexer) advance() {
	if l.char == '\n' {
		l.line++
	}
	if l.nextPos >= len(l.src) {
		l.char = 0
		l.pos = len(l.src)
		return
	}
	l.pos = l.nextPos
	l.char = l.src[l.pos]
	l.nextPos++
}

// next scans and returns the next token.
func (l *lexer) next() tokenKind {
	for l.char != 0 {
		switch {
		case l.char == ' ' || l.char == '\t':
			if l.inQuote {
				return l.scanBare()
			}
			return l.scanSpace()

		case l.char == '\n' || l.char == '\r' || l.char == ';':
			if l.inQuote {
				return l.scanBare()
			}
			return l.scanEOL()

		case l.char == '[':
			return l.scanCommand()

		case l.char == '$':
			return l.scanVar()

		case l.char == '#' && l.prev == tokEOL && !l.subOnly:
			l.skipComment()
			continue

		default:
			return l.scanBare()
		}
	}

	if l.prev != tokEOL {
		l.start, l.end = l.pos, l.pos
		l.prev = tokEOL
		return tokEOL
	}
	l.prev = tokEOF
	return tokEOF
}

func (l *lexer) scanSpace() tokenKind {
	l.start = l.pos
	for l.char == ' ' || l.char == '\t' {
		l.advance()
	}
	l.end = l.pos
	l.prev = tokSpace
	return tokSpace
}

func (l *lexer) scanEOL() tokenKind {
	l.start = l.pos
	for l.char == ' ' || l.char == '\t' || l.char == '\n' || l.char == '\r' || l.char == ';' {
		l.advance()
	}
	l.end = l.pos
	l.prev = tokEOL
	return tokEOL
}

func (l *lexer) skipComment() {
	for l.char != '\n' && l.char != 0 {
		l.advance()
	}
}

// scanCommand consumes a bracketed [...] command substitution, tracking
// brace and bracket nesting so that embedded `]`/`[` inside braces or
// behind a backslash don't end the substitution early.
func (l *lexer) scanCommand() tokenKind {
	l.advance() // skip '['
	l.start = l.pos
	blevel := 0
	level := 1
	for l.char != 0 {
		switch l.char {
		case '[':
			if blevel == 0 {
				level++
			}
		case ']':
			if blevel == 0 {
				level--
				if level == 0 {
					l.end = l.pos
					l.advance() // skip ']'
					l.prev = tokCommand
					return tokCommand
				}
			}
		case '\\':
			l.advance()
		case '{':
			blevel++
		case '}':
			if blevel != 0 {
				blevel--
			}
		}
		l.advance()
	}
	l.err = "missing close-bracket"
	return tokEOF
}

// scanVar consumes $name, $name(key), or ${name}. key and the braced
// form's inner byte range are returned by the caller re-scanning via
// variable index fields the parser reads directly (see parser.go).
func (l *lexer) scanVar() tokenKind {
	l.advance() // skip '$'
	if l.char == '{' {
		l.advance()
		l.start = l.pos
		for l.char != '}' && l.char != 0 {
			l.advance()
		}
		if l.char != '}' {
			l.err = "missing close-brace for variable name"
			return tokEOF
		}
		l.end = l.pos
		l.advance()
		l.prev = tokVar
		l.wasBracedVar = true
		return tokVar
	}

	l.start = l.pos
	for {
		if isVarChar(l.char) {
			l.advance()
			continue
		}
		// Namespace qualifiers are part of the name, but only as a
		// full '::' pair; a lone ':' ends it.
		if l.char == ':' && l.nextPos < len(l.src) && l.src[l.nextPos] == ':' {
			l.advance()
			l.advance()
			continue
		}
		break
	}
	if l.start == l.pos {
		// Bare '$' with nothing following: literal dollar sign.
		l.start = l.pos - 1
		l.end = l.pos
		l.prev = tokLiteral
		return tokLiteral
	}
	l.end = l.pos
	// array element: name(key) -- key is itself substituted by the
	// parser, which re-scans the parenthesized region as a bare word.
	l.prev = tokVar
	l.wasBracedVar = false
	return tokVar
}

// scanBraced consumes a {...} word. Only called at the start of a word.
func (l *lexer) scanBraced() tokenKind {
	l.advance() // skip '{'
	l.start = l.pos
	depth := 1
	for {
		switch l.char {
		case '\\':
			if l.nextPos < len(l.src) {
				l.advance()
			} else {
				l.err = "unmatched open brace in list"
				return tokEOF
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.end = l.pos
				l.advance()
				l.prev = tokBraced
				return tokBraced
			}
		case 0:
			l.err = "missing close-brace"
			return tokEOF
		}
		l.advance()
	}
}

// scanBare consumes a bare or quoted word up to the next substitution
// boundary ($, [, unquoted whitespace/;/newline, or a closing quote),
// honoring backslash escapes of those boundary characters.
func (l *lexer) scanBare() tokenKind {
	newWord := (l.prev == tokSpace || l.prev == tokEOL) && !l.subOnly

	if newWord && l.char == '{' {
		return l.scanBraced()
	}
	if newWord && l.char == '"' {
		l.inQuote = true
		l.advance()
	}

	l.start = l.pos
	for l.char != 0 {
		switch l.char {
		case '\\':
			if l.nextPos < len(l.src) {
				l.advance()
			} else {
				l.err = "trailing backslash"
				return tokEOF
			}
		case '$':
			l.end = l.pos
			l.prev = tokLiteral
			return tokLiteral
		case '[':
			l.end = l.pos
			l.prev = tokLiteral
			return tokLiteral
		case ' ', '\t', ';', '\n', '\r':
			if !l.inQuote {
				l.end = l.pos
				l.prev = tokLiteral
				return tokLiteral
			}
		case '"':
			if l.inQuote {
				l.end = l.pos
				l.inQuote = false
				l.advance()
				l.prev = tokLiteral
				return tokLiteral
			}
		}
		l.advance()
	}

	if l.inQuote {
		l.err = "missing close-quote"
		return tokEOF
	}
	l.end = l.pos
	l.prev = tokLiteral
	return tokLiteral
}
