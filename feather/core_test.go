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

type globCase struct {
	pattern string
	target  string
	want    bool
}

func TestGlobMatch(t *testing.T) {
	cases := []globCase{
		{"*", "", true},
		{"*", "anything", true},
		{"a*c", "abbc", true},
		{"a*c", "ac", true},
		{"a*c", "ab", false},
		{"?bc", "abc", true},
		{"?bc", "abcd", false},
		{"[abc]x", "bx", true},
		{"[abc]x", "dx", false},
		{"[a-z]x", "mx", true},
		{"[a-z]x", "Mx", false},
		{"[^a-z]x", "Mx", true},
		{"[!abc]x", "d" + "x", true},
		{`a\*b`, "a*b", true},
		{`a\*b`, "aZb", false},
		{"[abc", "[abc", true},
	}
	for _, c := range cases {
		got := globMatch(c.pattern, c.target, false)
		if got != c.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", c.pattern, c.target, got, c.want)
		}
	}
}

func TestGlobMatchIgnoreCase(t *testing.T) {
	if !globMatch("ABC", "abc", true) {
		t.Error("expected case-insensitive match")
	}
	if globMatch("ABC", "abc", false) {
		t.Error("expected case-sensitive mismatch")
	}
}

type indexCase struct {
	s      string
	length int
	want   int
	ok     bool
}

func TestParseIndex(t *testing.T) {
	cases := []indexCase{
		{"0", 5, 0, true},
		{"4", 5, 4, true},
		{"-1", 5, -1, true},
		{"end", 5, 4, true},
		{"end-1", 5, 3, true},
		{"end+1", 5, 5, true},
		{"end-10", 5, -6, true},
		{"", 5, 0, false},
		{"bogus", 5, 0, false},
		{"end-x", 5, 0, false},
	}
	for _, c := range cases {
		got, err := parseIndex(c.s, c.length)
		if c.ok && err != nil {
			t.Errorf("parseIndex(%q, %d): unexpected error: %v", c.s, c.length, err)
			continue
		}
		if !c.ok && err == nil {
			t.Errorf("parseIndex(%q, %d): expected error, got %d", c.s, c.length, got)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("parseIndex(%q, %d) = %d, want %d", c.s, c.length, got, c.want)
		}
	}
}

func TestClampIndex(t *testing.T) {
	if got := clampIndex(-3, 5); got != 0 {
		t.Errorf("clampIndex(-3, 5) = %d, want 0", got)
	}
	if got := clampIndex(10, 5); got != 5 {
		t.Errorf("clampIndex(10, 5) = %d, want 5", got)
	}
	if got := clampIndex(2, 5); got != 2 {
		t.Errorf("clampIndex(2, 5) = %d, want 2", got)
	}
}

type levelCase struct {
	s       string
	current int
	want    int
	ok      bool
}

func TestParseLevel(t *testing.T) {
	cases := []levelCase{
		{"1", 3, 2, true},
		{"0", 3, 3, true},
		{"#0", 3, 0, true},
		{"#2", 3, 2, true},
		{"#9", 3, 0, false},
		{"9", 3, 0, false},
		{"-1", 3, 0, false},
		{"", 3, 0, false},
	}
	for _, c := range cases {
		got, err := parseLevel(c.s, c.current)
		if c.ok && err != nil {
			t.Errorf("parseLevel(%q, %d): unexpected error: %v", c.s, c.current, err)
			continue
		}
		if !c.ok && err == nil {
			t.Errorf("parseLevel(%q, %d): expected error, got %d", c.s, c.current, got)
			continue
		}
		if c.ok && got != c.want {
			t.Errorf("parseLevel(%q, %d) = %d, want %d", c.s, c.current, got, c.want)
		}
	}
}

type escapeCase struct {
	in   string
	want string
}

func TestUnescapeFull(t *testing.T) {
	cases := []escapeCase{
		{"", ""},
		{"a", "a"},
		{`\t`, "\t"},
		{`\ta`, "\ta"},
		{`a\[`, "a["},
		{`\\`, "\\"},
		{`\x30`, "0"},
		{`\x9`, "\x09"},
		{"\\\n   x", " x"},
		{`\101`, "A"},
		{`A`, "A"},
		{`\U00000041`, "A"},
	}
	for _, c := range cases {
		got := unescapeFull(c.in)
		if got != c.want {
			t.Errorf("unescapeFull(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUnescapeBraceVerbatim(t *testing.T) {
	// Inside braces, only backslash-newline collapses; every other
	// escape (here \t and \n) is left exactly as written.
	in := "a\\\n   b\\tc"
	got := unescapeBraceVerbatim(in)
	want := "a b\\tc"
	if got != want {
		t.Errorf("unescapeBraceVerbatim(%q) = %q, want %q", in, got, want)
	}
}

func TestCharsetPredicates(t *testing.T) {
	if !isSpace(' ') || !isSpace('\t') || isSpace('x') {
		t.Error("isSpace misclassified")
	}
	if !isDigit('5') || isDigit('a') {
		t.Error("isDigit misclassified")
	}
	if !isHexDigit('f') || !isHexDigit('F') || isHexDigit('g') {
		t.Error("isHexDigit misclassified")
	}
	if !isOctalDigit('7') || isOctalDigit('8') {
		t.Error("isOctalDigit misclassified")
	}
	if !isAlpha('z') || isAlpha('_') || isAlpha('9') {
		t.Error("isAlpha misclassified")
	}
	if !isVarChar('_') || !isVarChar('9') || isVarChar('(') {
		t.Error("isVarChar misclassified")
	}
	if hexVal('a') != 10 || hexVal('F') != 15 || hexVal('3') != 3 {
		t.Error("hexVal wrong")
	}
}

func TestSplitQualified(t *testing.T) {
	cases := []struct {
		name   string
		ns     string
		leaf   string
		abs    bool
	}{
		{"foo", "", "foo", false},
		{"a::b::c", "a::b", "c", false},
		{"::foo", "", "foo", true},
		{"::a::b", "a", "b", true},
	}
	for _, c := range cases {
		ns, leaf, abs := splitQualified(c.name)
		if ns != c.ns || leaf != c.leaf || abs != c.abs {
			t.Errorf("splitQualified(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.name, ns, leaf, abs, c.ns, c.leaf, c.abs)
		}
	}
}

func TestCodeString(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{CodeOK, "ok"},
		{CodeError, "error"},
		{CodeReturn, "return"},
		{CodeBreak, "break"},
		{CodeContinue, "continue"},
		{CodeCustom, "custom"},
	}
	for _, c := range cases {
		if got := c.code.String(); got != c.want {
			t.Errorf("Code(%d).String() = %q, want %q", c.code, got, c.want)
		}
	}
}
