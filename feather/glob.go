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

// globMatch implements Tcl glob-style pattern matching: `*` matches
// any run of bytes (via single-star backtracking, retreating to the most
// recent `*` and advancing the anchor by one byte on mismatch), `?`
// matches any single byte, `[...]` (with optional leading `^` negation
// and `a-z` ranges) matches a class, and `\` escapes the following
// metacharacter. An unterminated `[` degrades to a literal `[`.
func globMatch(pattern, target string, ignoreCase bool) bool {
	return globMatchBytes(pattern, target, ignoreCase)
}

func globMatchBytes(pattern, target string, ignoreCase bool) bool {
	pi, ti := 0, 0
	// starPi/starTi remember the most recent '*' for backtracking;
	// starPi == -1 means no '*' seen yet.
	starPi, starTi := -1, -1

	foldEq := func(a, b byte) bool {
		if !ignoreCase {
			return a == b
		}
		return lowerByte(a) == lowerByte(b)
	}

	for ti < len(target) {
		if pi < len(pattern) {
			switch pattern[pi] {
			case '*':
				starPi, starTi = pi, ti
				pi++
				continue
			case '?':
				pi++
				ti++
				continue
			case '[':
				end, ok := matchClass(pattern, pi, target[ti], ignoreCase)
				if ok {
					pi = end
					ti++
					continue
				}
			case '\\':
				if pi+1 < len(pattern) && foldEq(pattern[pi+1], target[ti]) {
					pi += 2
					ti++
					continue
				}
			default:
				if foldEq(pattern[pi], target[ti]) {
					pi++
					ti++
					continue
				}
			}
		}
		// Mismatch (or pattern exhausted): backtrack to the last '*' if any.
		if starPi >= 0 {
			starTi++
			pi = starPi + 1
			ti = starTi
			continue
		}
		return false
	}

	// Consume any trailing '*'s; anything else means no match.
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// matchClass matches a `[...]` character class starting at pattern[pi]
// (pattern[pi] == '['), returning the index just past the closing `]`
// and whether c matched. If the class is unterminated, ok is false and
// globMatchBytes falls back to comparing the `[` as a literal byte.
func matchClass(pattern string, pi int, c byte, ignoreCase bool) (int, bool) {
	j := pi + 1
	negate := false
	if j < len(pattern) && (pattern[j] == '^' || pattern[j] == '!') {
		negate = true
		j++
	}
	matched := false
	first := true
	for j < len(pattern) && (pattern[j] != ']' || first) {
		first = false
		lo := pattern[j]
		if lo == '\\' && j+1 < len(pattern) {
			j++
			lo = pattern[j]
		}
		hi := lo
		j++
		if j+1 < len(pattern) && pattern[j] == '-' && pattern[j+1] != ']' {
			j++
			hi = pattern[j]
			if hi == '\\' && j+1 < len(pattern) {
				j++
				hi = pattern[j]
			}
			j++
		}
		cc, lo2, hi2 := c, lo, hi
		if ignoreCase {
			cc, lo2, hi2 = lowerByte(c), lowerByte(lo), lowerByte(hi)
		}
		if cc >= lo2 && cc <= hi2 {
			matched = true
		}
	}
	if j >= len(pattern) {
		// Unterminated class: treat '[' as a literal character.
		return pi + 1, pattern[pi] == c
	}
	j++ // consume ']'
	if negate {
		matched = !matched
	}
	return j, matched
}
