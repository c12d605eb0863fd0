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

import "strings"

// unescapeFull decodes the backslash sequences Tcl recognizes inside a
// bare or quoted word: the single-letter escapes, \ooo (up to three octal
// digits), \xHH (hex, unbounded digit run per Tcl 8.6), \uHHHH,
// \UHHHHHHHH, a literal-next-byte fallback for any other escaped
// character, and \<newline><ws>* collapsing to a single space.
func unescapeFull(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b = append(b, c)
			continue
		}
		i++
		e := s[i]
		switch e {
		case 'n':
			b = append(b, '\n')
		case 't':
			b = append(b, '\t')
		case 'r':
			b = append(b, '\r')
		case 'a':
			b = append(b, '\a')
		case 'f':
			b = append(b, '\f')
		case 'v':
			b = append(b, '\v')
		case '\\':
			b = append(b, '\\')
		case '\n':
			b = append(b, ' ')
			i++
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			i--
		case 'x':
			j := i + 1
			val := 0
			n := 0
			for j < len(s) && isHexDigit(s[j]) {
				val = val*16 + hexVal(s[j])
				j++
				n++
			}
			if n == 0 {
				b = append(b, 'x')
			} else {
				b = encodeRune(b, rune(val&0xFF))
				i = j - 1
			}
		case 'u':
			i, b = appendUnicodeEscapeN(s, i, b, 4)
		case 'U':
			i, b = appendUnicodeEscapeN(s, i, b, 8)
		default:
			if isOctalDigit(e) {
				val := int(e - '0')
				j := i + 1
				n := 1
				for j < len(s) && n < 3 && isOctalDigit(s[j]) {
					val = val*8 + int(s[j]-'0')
					j++
					n++
				}
				b = append(b, byte(val&0xFF))
				i = j - 1
			} else {
				b = append(b, e)
			}
		}
	}
	return string(b)
}

// appendUnicodeEscapeN decodes up to maxDigits hex digits following a
// \u or \U escape (i pointing at the 'u'/'U' byte) and appends the
// resulting rune's UTF-8 encoding. Fewer digits than maxDigits are
// accepted, matching Tcl's \u (Tcl stops at the first non-hex byte).
func appendUnicodeEscapeN(s string, i int, b []byte, maxDigits int) (int, []byte) {
	j := i + 1
	val := 0
	n := 0
	for j < len(s) && n < maxDigits && isHexDigit(s[j]) {
		val = val*16 + hexVal(s[j])
		j++
		n++
	}
	if n == 0 {
		return i, append(b, s[i])
	}
	return j - 1, encodeRune(b, rune(val))
}

// unescapeBraceVerbatim decodes only the backslash-newline collapse
// inside a {...} word; every other backslash sequence, including \n and
// \t, is left exactly as written. Braces suppress substitution, but Tcl
// still joins a continued line inside them.
func unescapeBraceVerbatim(s string) string {
	if !strings.Contains(s, "\\\n") && !strings.Contains(s, "\\\r\n") {
		return s
	}
	var b []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && (s[i+1] == '\n' || (s[i+1] == '\r' && i+2 < len(s) && s[i+2] == '\n')) {
			i++
			if s[i] == '\r' {
				i++
			}
			b = append(b, ' ')
			i++
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			i--
			continue
		}
		b = append(b, c)
	}
	return string(b)
}
