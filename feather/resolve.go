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

// splitQualified splits a possibly `::`-qualified name into its
// namespace path and leaf name. A leading `::` makes the name absolute;
// otherwise resolution is relative to the caller's current namespace.
func splitQualified(name string) (ns string, leaf string, absolute bool) {
	absolute = strings.HasPrefix(name, "::")
	trimmed := strings.TrimPrefix(name, "::")
	idx := strings.LastIndex(trimmed, "::")
	if idx < 0 {
		return "", trimmed, absolute
	}
	return trimmed[:idx], trimmed[idx+2:], absolute
}

// joinNamespace joins a namespace path and a leaf name into a single
// absolute path (always `::`-prefixed), collapsing the degenerate case
// of the global namespace itself (path "").
func joinNamespace(path, leaf string) string {
	path = strings.TrimPrefix(path, "::")
	if path == "" {
		return "::" + leaf
	}
	return "::" + path + "::" + leaf
}

// resolveCommandPath computes the search order for an unqualified or
// namespace-relative command name, given the caller's current namespace:
// a `::`-qualified name resolves directly; an unqualified name is first
// looked up relative to the current namespace, then falls back to the
// global namespace (Tcl's documented command-resolution order).
func resolveCommandPath(currentNS, name string) []string {
	ns, leaf, absolute := splitQualified(name)
	if absolute || ns != "" {
		full := joinNamespace(ns, leaf)
		if !absolute && currentNS != "" && currentNS != "::" {
			// namespace-relative but not leading-:: qualified name with
			// an embedded "::" is still resolved from the caller's
			// namespace downward, per Tcl's relative lookup rule.
			return []string{joinNamespace(strings.TrimPrefix(currentNS, "::")+"::"+ns, leaf), full}
		}
		return []string{full}
	}
	if currentNS == "" || currentNS == "::" {
		return []string{joinNamespace("", leaf)}
	}
	return []string{joinNamespace(strings.TrimPrefix(currentNS, "::"), leaf), joinNamespace("", leaf)}
}

// resolveCommand looks up name against it.Host's namespace command
// tables, trying each candidate path resolveCommandPath produces in
// order and returning the first hit.
func (it *Interp[O]) resolveCommand(name string) (BuiltinFunc[O], string, bool) {
	for _, path := range resolveCommandPath(it.Host.CurrentNamespace(), name) {
		if fn, ok := it.Host.GetCommand(path); ok {
			return fn, path, true
		}
	}
	return nil, "", false
}
