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

// Package memhost is a reference implementation of feather.Host backed by
// a plain in-memory arena. It exists to give the language core something
// concrete to run against; the core's own tests use it, and so does the
// demo interpreter binary at the module root.
package memhost

import (
	"fmt"
	"strconv"
	"strings"
)

// Object is memhost's value handle: a string with lazily-computed and
// cached integer and list views, the "shimmering" the core's Host
// interface documents. A *Object is only ever grown (a cache filled in),
// never mutated in a way that changes its string identity, so sharing a
// pointer across variables and list elements is safe. (DictSet is the
// one exception; see its comment.)
type Object struct {
	s string

	hasInt bool
	i      int64

	hasList bool
	list    []*Object

	hasDict bool
	dict    map[string]*Object
	dictOrd []string
}

func newString(s string) *Object {
	return &Object{s: s}
}

// Intern wraps a raw string in a value handle.
func (h *Host) Intern(s string) *Object {
	return newString(s)
}

// Get returns the canonical string form of o, regenerating it from the
// dict view when a DictSet has invalidated it (the only mutation path
// that clears a cached string form).
func (h *Host) Get(o *Object) string {
	if o == nil {
		return ""
	}
	if o.s == "" && o.hasDict && len(o.dictOrd) > 0 {
		parts := make([]string, 0, len(o.dictOrd)*2)
		for _, k := range o.dictOrd {
			parts = append(parts, quoteListElement(k), quoteListElement(h.Get(o.dict[k])))
		}
		o.s = strings.Join(parts, " ")
	}
	return o.s
}

// ByteLength reports the length of o's string form in bytes.
func (h *Host) ByteLength(o *Object) int {
	return len(h.Get(o))
}

// ByteAt returns the i'th byte of o's string form.
func (h *Host) ByteAt(o *Object, i int) byte {
	return h.Get(o)[i]
}

// Slice returns the [i:j) byte range of o's string form as a new handle.
func (h *Host) Slice(o *Object, i, j int) *Object {
	return newString(h.Get(o)[i:j])
}

// Concat returns the byte-level concatenation of a and b's string forms.
func (h *Host) Concat(a, b *Object) *Object {
	return newString(h.Get(a) + h.Get(b))
}

// NewInt builds a value handle whose string form is i's decimal
// rendering and whose integer view is already cached.
func (h *Host) NewInt(i int64) *Object {
	return &Object{s: strconv.FormatInt(i, 10), hasInt: true, i: i}
}

// GetInt parses o's string form as an integer (accepting the same
// 0x/0o/0b prefixed forms strconv.ParseInt does with base 0), caching
// the result on o for subsequent calls.
func (h *Host) GetInt(o *Object) (int64, bool) {
	if o == nil {
		return 0, false
	}
	if o.hasInt {
		return o.i, true
	}
	n, err := strconv.ParseInt(strings.TrimSpace(o.s), 0, 64)
	if err != nil {
		return 0, false
	}
	o.i, o.hasInt = n, true
	return n, true
}

// IsNil reports whether o is the nil handle.
func (h *Host) IsNil(o *Object) bool {
	return o == nil
}

// NewList builds a value handle from items, rendering its string form as
// a canonical Tcl list (each element brace-quoted only when its literal
// text would otherwise be misread) and caching the item slice directly,
// so a round trip through FromList costs nothing.
func (h *Host) NewList(items ...*Object) *Object {
	parts := make([]string, len(items))
	cached := make([]*Object, len(items))
	for i, it := range items {
		if it == nil {
			it = newString("")
		}
		parts[i] = quoteListElement(h.Get(it))
		cached[i] = it
	}
	return &Object{s: strings.Join(parts, " "), hasList: true, list: cached}
}

// FromList parses o's string form as a Tcl list if it has no list view
// cached yet, and returns o with that view filled in.
func (h *Host) FromList(o *Object) (*Object, error) {
	if o == nil {
		return &Object{hasList: true}, nil
	}
	if o.hasList {
		return o, nil
	}
	items, err := parseTclList(h.Get(o))
	if err != nil {
		return o, err
	}
	o.list = items
	o.hasList = true
	return o, nil
}

func (h *Host) ensureList(o *Object) []*Object {
	l, err := h.FromList(o)
	if err != nil {
		return nil
	}
	return l.list
}

// ListLength reports the number of elements in o's list view.
func (h *Host) ListLength(o *Object) int {
	return len(h.ensureList(o))
}

// ListAt returns the i'th element of o's list view.
func (h *Host) ListAt(o *Object, i int) *Object {
	l := h.ensureList(o)
	if i < 0 || i >= len(l) {
		return newString("")
	}
	return l[i]
}

// ListPush returns a new list handle consisting of o's elements followed
// by items.
func (h *Host) ListPush(o *Object, items ...*Object) *Object {
	l := h.ensureList(o)
	out := make([]*Object, 0, len(l)+len(items))
	out = append(out, l...)
	out = append(out, items...)
	return h.NewList(out...)
}

// ListShift returns the head and the remaining tail of o's list view.
func (h *Host) ListShift(o *Object) (*Object, *Object) {
	l := h.ensureList(o)
	if len(l) == 0 {
		return newString(""), h.NewList()
	}
	return l[0], h.NewList(l[1:]...)
}

// ListSlice returns the [i:j) element range of o's list view as a new
// list handle; out-of-range bounds are clamped rather than panicking.
func (h *Host) ListSlice(o *Object, i, j int) *Object {
	l := h.ensureList(o)
	if i < 0 {
		i = 0
	}
	if j > len(l) {
		j = len(l)
	}
	if i > j {
		return h.NewList()
	}
	return h.NewList(l[i:j]...)
}

// NewDict builds an empty dictionary handle.
func (h *Host) NewDict() *Object {
	return &Object{hasDict: true, dict: map[string]*Object{}}
}

// ensureDict fills in o's dict view, parsing the string form as an
// even-length key/value list when no view is cached yet. A string that
// does not read as a dictionary yields an empty view; DictOps has no
// error channel, and the callers (return options, `dict` subcommands)
// treat that the same as a missing key.
func (h *Host) ensureDict(o *Object) *Object {
	if o == nil {
		return h.NewDict()
	}
	if o.hasDict {
		return o
	}
	o.dict = map[string]*Object{}
	o.hasDict = true
	items, err := parseTclList(o.s)
	if err != nil || len(items)%2 != 0 {
		return o
	}
	for i := 0; i < len(items); i += 2 {
		k := items[i].s
		if _, exists := o.dict[k]; !exists {
			o.dictOrd = append(o.dictOrd, k)
		}
		o.dict[k] = items[i+1]
	}
	return o
}

// DictGet looks up key in o's dict view.
func (h *Host) DictGet(o *Object, key string) (*Object, bool) {
	d := h.ensureDict(o)
	v, ok := d.dict[key]
	return v, ok
}

// DictSet sets key to value in o's dict view in place and returns o (the
// return-options dict this backs is built up incrementally via repeated
// DictSet calls, so copy-on-write would be wasted work here).
func (h *Host) DictSet(o *Object, key string, value *Object) *Object {
	d := h.ensureDict(o)
	if _, exists := d.dict[key]; !exists {
		d.dictOrd = append(d.dictOrd, key)
	}
	d.dict[key] = value
	d.s = ""
	d.hasInt = false
	d.hasList = false
	return d
}

// DictKeys returns o's keys in insertion order.
func (h *Host) DictKeys(o *Object) []string {
	d := h.ensureDict(o)
	out := make([]string, len(d.dictOrd))
	copy(out, d.dictOrd)
	return out
}

// quoteListElement renders s the way a Tcl list writer would: bare if it
// contains no character a list reader would treat specially, brace-quoted
// if it does and braces balance, backslash-escaped element by element if
// unbalanced braces rule brace-quoting out.
func quoteListElement(s string) string {
	if s == "" {
		return "{}"
	}
	braces := 0
	needsQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(" \t\n\r\v\f[]$;{}\\\"", c) >= 0 {
			needsQuote = true
		}
		switch c {
		case '{':
			braces++
		case '}':
			braces--
		}
	}
	if !needsQuote {
		return s
	}
	if braces == 0 {
		return "{" + s + "}"
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '{' || c == '}' || c == '\\' || c == '$' || c == '[' || c == ']' || c == '"' || c == ';' || isListSpace(c) {
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// parseTclList splits s into Tcl list elements: whitespace-separated,
// with brace-quoted and backslash-escaped elements supported the way
// NewList's output (and hand-written list literals in scripts) use them.
func parseTclList(s string) ([]*Object, error) {
	var out []*Object
	i, n := 0, len(s)
	for {
		for i < n && isListSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		switch s[i] {
		case '{':
			depth := 1
			j := i + 1
			start := j
			for j < n && depth > 0 {
				switch s[j] {
				case '{':
					depth++
				case '}':
					depth--
				case '\\':
					if j+1 < n {
						j++
					}
				}
				j++
			}
			if depth != 0 {
				return nil, fmt.Errorf("unmatched open brace in list")
			}
			out = append(out, newString(s[start:j-1]))
			i = j
		case '"':
			j := i + 1
			var buf strings.Builder
			closed := false
			for j < n {
				if s[j] == '\\' && j+1 < n {
					buf.WriteByte(s[j+1])
					j += 2
					continue
				}
				if s[j] == '"' {
					closed = true
					j++
					break
				}
				buf.WriteByte(s[j])
				j++
			}
			if !closed {
				return nil, fmt.Errorf("unmatched open quote in list")
			}
			out = append(out, newString(buf.String()))
			i = j
		default:
			var buf strings.Builder
			for i < n && !isListSpace(s[i]) {
				if s[i] == '\\' && i+1 < n {
					buf.WriteByte(s[i+1])
					i += 2
					continue
				}
				buf.WriteByte(s[i])
				i++
			}
			out = append(out, newString(buf.String()))
		}
	}
	return out, nil
}

func isListSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
