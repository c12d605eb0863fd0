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

import "testing"

type piece struct {
	kind tokenKind
	text string
}

// scanAll drains l into (kind, text) pairs, dropping the synthetic
// trailing tokEOL the lexer emits before tokEOF so fixtures only list
// tokens with real source behind them.
func scanAll(t *testing.T, l *lexer) []piece {
	t.Helper()
	var out []piece
	for i := 0; i < 1000; i++ {
		tok := l.next()
		if tok == tokEOF {
			if l.err != "" {
				t.Fatalf("lexer error: %s", l.err)
			}
			return out
		}
		if tok == tokEOL && l.text() == "" {
			continue
		}
		out = append(out, piece{tok, l.text()})
	}
	t.Fatal("lexer did not terminate")
	return nil
}

func TestLexerTokenStream(t *testing.T) {
	cases := []struct {
		src  string
		want []piece
	}{
		{"set x 3", []piece{
			{tokLiteral, "set"}, {tokSpace, " "}, {tokLiteral, "x"},
			{tokSpace, " "}, {tokLiteral, "3"},
		}},
		{"puts {a b}", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokBraced, "a b"},
		}},
		{"puts {a {b c} d}", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokBraced, "a {b c} d"},
		}},
		{`puts "a b" c`, []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokLiteral, "a b"},
			{tokSpace, " "}, {tokLiteral, "c"},
		}},
		{"puts [set b]", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokCommand, "set b"},
		}},
		{"puts [a [b c]]", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokCommand, "a [b c]"},
		}},
		{"puts $x", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokVar, "x"},
		}},
		{"a$x", []piece{
			{tokLiteral, "a"}, {tokVar, "x"},
		}},
		{"a;b", []piece{
			{tokLiteral, "a"}, {tokEOL, ";"}, {tokLiteral, "b"},
		}},
		{"a\nb", []piece{
			{tokLiteral, "a"}, {tokEOL, "\n"}, {tokLiteral, "b"},
		}},
		// A comment where a command is expected is swallowed whole.
		{"# hello\nset x", []piece{
			{tokEOL, "\n"}, {tokLiteral, "set"}, {tokSpace, " "}, {tokLiteral, "x"},
		}},
		// A '#' mid-command is just a byte.
		{"set x #", []piece{
			{tokLiteral, "set"}, {tokSpace, " "}, {tokLiteral, "x"},
			{tokSpace, " "}, {tokLiteral, "#"},
		}},
		// A lone '$' is a literal dollar sign.
		{"puts $", []piece{
			{tokLiteral, "puts"}, {tokSpace, " "}, {tokLiteral, "$"},
		}},
	}
	for _, c := range cases {
		got := scanAll(t, newLexer(c.src))
		if len(got) != len(c.want) {
			t.Errorf("lex(%q) = %v, want %v", c.src, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("lex(%q)[%d] = %v, want %v", c.src, i, got[i], c.want[i])
			}
		}
	}
}

func TestLexerBracedVarForm(t *testing.T) {
	l := newLexer("${a b}")
	if tok := l.next(); tok != tokVar || l.text() != "a b" {
		t.Fatalf("got token %d text %q, want tokVar %q", tok, l.text(), "a b")
	}
	if !l.wasBracedVar {
		t.Error("wasBracedVar not set for ${...} form")
	}

	l = newLexer("$abc")
	if tok := l.next(); tok != tokVar || l.text() != "abc" {
		t.Fatalf("got token %d text %q, want tokVar %q", tok, l.text(), "abc")
	}
	if l.wasBracedVar {
		t.Error("wasBracedVar set for bare form")
	}
}

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		src string
		err string
	}{
		{"puts {a b", "missing close-brace"},
		{`puts "a b`, "missing close-quote"},
		{"puts [set b", "missing close-bracket"},
		{"${abc", "missing close-brace for variable name"},
	}
	for _, c := range cases {
		l := newLexer(c.src)
		for i := 0; i < 100; i++ {
			if l.next() == tokEOF {
				break
			}
		}
		if l.err != c.err {
			t.Errorf("lex(%q): err %q, want %q", c.src, l.err, c.err)
		}
	}
}

// In substitution-only mode (subst, array keys) separators, comments,
// braces, and quotes are plain bytes; only $, [, and backslash retain
// their meaning.
func TestLexerSubstitutionOnlyMode(t *testing.T) {
	cases := []struct {
		src  string
		want []piece
	}{
		{"a\nb;c", []piece{
			{tokLiteral, "a"}, {tokEOL, "\n"}, {tokLiteral, "b"},
			{tokEOL, ";"}, {tokLiteral, "c"},
		}},
		{"# not a comment", []piece{
			{tokLiteral, "#"}, {tokSpace, " "}, {tokLiteral, "not"},
			{tokSpace, " "}, {tokLiteral, "a"}, {tokSpace, " "}, {tokLiteral, "comment"},
		}},
		{"{a $x}", []piece{
			{tokLiteral, "{a"}, {tokSpace, " "}, {tokVar, "x"}, {tokLiteral, "}"},
		}},
		{`"a b"`, []piece{
			{tokLiteral, `"a`}, {tokSpace, " "}, {tokLiteral, `b"`},
		}},
	}
	for _, c := range cases {
		l := newLexer(c.src)
		l.subOnly = true
		got := scanAll(t, l)
		if len(got) != len(c.want) {
			t.Errorf("lex(%q) = %v, want %v", c.src, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("lex(%q)[%d] = %v, want %v", c.src, i, got[i], c.want[i])
			}
		}
	}
}
