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

package memhost

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/feather-lang/feather/feather"
)

// linkKind distinguishes upvar-style frame-relative links from
// global/variable-style namespace links.
type linkKind int

const (
	linkFrame linkKind = iota
	linkNS
)

type varLink struct {
	kind  linkKind
	level int // linkFrame: absolute frame index
	ns    string
	name  string
}

// frame is one call-frame entry (invariant 1: level 0 is global). vars
// holds this frame's own scalar storage; for frame 0 it is the same map
// as the root namespace's variable table, so top-level `set` and
// namespace-qualified `::name` access agree without any special-casing.
type frame struct {
	ns    string
	vars  map[string]*Object
	links map[string]varLink
}

type namespaceData struct {
	path string
	vars map[string]*Object
}

// Host is a reference in-memory implementation of feather.Host[*Object].
// It owns the frame stack, the namespace tree, and the flat
// fully-qualified command table the core's namespace-aware dispatch
// resolves against.
type Host struct {
	id     uuid.UUID
	logger *slog.Logger

	namespaces map[string]*namespaceData
	commands   map[string]feather.BuiltinFunc[*Object]

	frames   []*frame
	redirect []int

	result  *Object
	retOpts *Object
}

// NewHost builds a fresh arena with the root "::" namespace and the
// level-0 global frame already in place. logger may be nil, in which
// case diagnostics are discarded (slog.New(slog.DiscardHandler) in Go
// 1.24+; here built from the local discardHandler, which drops every
// record, for portability to the toolchain version this module targets).
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	root := &namespaceData{path: "::", vars: map[string]*Object{}}
	h := &Host{
		id:         uuid.New(),
		logger:     logger,
		namespaces: map[string]*namespaceData{"::": root},
		commands:   map[string]feather.BuiltinFunc[*Object]{},
		frames:     []*frame{{ns: "::", vars: root.vars, links: map[string]varLink{}}},
		result:     newString(""),
		retOpts:    nil,
	}
	h.retOpts = h.NewDict()
	h.RegisterBuiltin("exit", cmdExit)
	return h
}

// cmdExit implements `exit`, a host-policy builtin the language core
// deliberately omits (CodeExit is a convention built on CodeCustom,
// left for the embedder to interpret). A caller of
// EvalString sees it as an *EvalError with Code == feather.CodeExit and
// decides what "exit" means for its own process.
func cmdExit(it *feather.Interp[*Object], args []*Object) (feather.Code, *Object) {
	return feather.CodeExit, newString("")
}

// ID returns the host's session-correlation identifier, surfaced by
// `info interp id` and in main.go's diagnostic logging.
func (h *Host) ID() string {
	return h.id.String()
}

// InterpID implements feather.InterpOps, backing `info interp id`.
func (h *Host) InterpID() string {
	return h.id.String()
}

// RegisterBuiltin installs a core builtin under the global namespace,
// matching resolveCommandPath's `::`-qualified fallback for unqualified
// names.
func (h *Host) RegisterBuiltin(name string, fn feather.BuiltinFunc[*Object]) {
	h.commands["::"+name] = fn
}

// Unknown is invoked when dispatch cannot resolve a command name,
// producing Tcl's canonical "invalid command name" error.
func (h *Host) Unknown(it *feather.Interp[*Object], cmd *Object, args []*Object) (feather.Code, *Object) {
	name := h.Get(cmd)
	h.logger.Debug("unknown command", "interp", h.ID(), "name", name)
	return feather.CodeError, newString(fmt.Sprintf("invalid command name %q", name))
}

// --- FrameOps ---

func (h *Host) topFrame() *frame {
	return h.frames[len(h.frames)-1]
}

// varFrame is the frame variable operations actually target: the top of
// the real call-frame stack, unless a PushUplevel redirect is active.
func (h *Host) varFrame() *frame {
	if n := len(h.redirect); n > 0 {
		idx := h.redirect[n-1]
		if idx >= 0 && idx < len(h.frames) {
			return h.frames[idx]
		}
	}
	return h.topFrame()
}

func (h *Host) FrameLevel() int {
	return len(h.frames) - 1
}

func (h *Host) FrameSize() int {
	return len(h.frames)
}

func (h *Host) PushFrame(ns string) {
	h.frames = append(h.frames, &frame{ns: normalizeNS(ns), vars: map[string]*Object{}, links: map[string]varLink{}})
}

func (h *Host) PopFrame() {
	if len(h.frames) > 1 {
		h.frames = h.frames[:len(h.frames)-1]
	}
}

func (h *Host) CurrentNamespace() string {
	return h.topFrame().ns
}

func (h *Host) PushUplevel(level int) {
	if level < 0 {
		level = 0
	}
	if level >= len(h.frames) {
		level = len(h.frames) - 1
	}
	h.redirect = append(h.redirect, level)
}

func (h *Host) PopUplevel() {
	if n := len(h.redirect); n > 0 {
		h.redirect = h.redirect[:n-1]
	}
}

// --- VarOps ---

// namespace returns (creating if necessary) the namespace at path.
func (h *Host) namespace(path string) *namespaceData {
	path = normalizeNS(path)
	ns, ok := h.namespaces[path]
	if !ok {
		ns = &namespaceData{path: path, vars: map[string]*Object{}}
		h.namespaces[path] = ns
	}
	return ns
}

// maxLinkChase bounds upvar/variable link-chasing so a pathological or
// accidentally cyclic chain of links fails closed instead of looping
// forever.
const maxLinkChase = 32

// resolveTarget finds the actual storage map and key name carries
// should resolve to: a `::`-qualified name always targets that
// namespace's table directly (bypassing any local link, matching Tcl's
// `set ::x 1` working without a prior `global x`); an unqualified name
// is resolved against f's link table, chasing frame-to-frame or
// frame-to-namespace links up to maxLinkChase hops.
func (h *Host) resolveTarget(f *frame, name string) (map[string]*Object, string) {
	if strings.Contains(name, "::") {
		nsPath, leaf := splitAbsolute(name)
		return h.namespace(nsPath).vars, leaf
	}
	cur, key := f, name
	for i := 0; i < maxLinkChase; i++ {
		link, ok := cur.links[key]
		if !ok {
			return cur.vars, key
		}
		switch link.kind {
		case linkNS:
			return h.namespace(link.ns).vars, link.name
		case linkFrame:
			if link.level < 0 || link.level >= len(h.frames) {
				return cur.vars, key
			}
			cur = h.frames[link.level]
			key = link.name
		}
	}
	return cur.vars, key
}

func (h *Host) GetVar(name string) (*Object, bool) {
	vars, key := h.resolveTarget(h.varFrame(), name)
	v, ok := vars[key]
	return v, ok
}

func (h *Host) SetVar(name string, value *Object) {
	vars, key := h.resolveTarget(h.varFrame(), name)
	vars[key] = value
}

func (h *Host) UnsetVar(name string) bool {
	vars, key := h.resolveTarget(h.varFrame(), name)
	if _, ok := vars[key]; !ok {
		return false
	}
	delete(vars, key)
	return true
}

func (h *Host) VarExists(name string) bool {
	vars, key := h.resolveTarget(h.varFrame(), name)
	_, ok := vars[key]
	return ok
}

// VarNames lists the current frame's own scalars plus every name it has
// linked (upvar/global/variable), backing `info vars`.
func (h *Host) VarNames() []string {
	f := h.varFrame()
	seen := map[string]bool{}
	var out []string
	for name := range f.vars {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for name := range f.links {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Link implements upvar's frame-relative redirect. When other is itself
// `::`-qualified, it is resolved straight into namespace storage instead
// of an intermediate frame, matching `upvar #0 ::x y`.
func (h *Host) Link(local string, level int, other string) {
	f := h.varFrame()
	if strings.Contains(other, "::") {
		nsPath, leaf := splitAbsolute(other)
		f.links[local] = varLink{kind: linkNS, ns: nsPath, name: leaf}
		return
	}
	if level < 0 {
		level = 0
	}
	if level >= len(h.frames) {
		level = len(h.frames) - 1
	}
	f.links[local] = varLink{kind: linkFrame, level: level, name: other}
}

// LinkNamespace implements global's and variable's namespace-relative
// redirect.
func (h *Host) LinkNamespace(local string, ns string, name string) {
	f := h.varFrame()
	f.links[local] = varLink{kind: linkNS, ns: normalizeNS(ns), name: name}
}

// --- NamespaceOps ---

func (h *Host) CreateNamespace(path string) {
	h.namespace(path)
}

func (h *Host) DeleteNamespace(path string) bool {
	path = normalizeNS(path)
	if path == "::" {
		return false
	}
	if _, ok := h.namespaces[path]; !ok {
		return false
	}
	delete(h.namespaces, path)
	prefix := path + "::"
	for p := range h.namespaces {
		if strings.HasPrefix(p, prefix) {
			delete(h.namespaces, p)
		}
	}
	for c := range h.commands {
		if c == path || strings.HasPrefix(c, prefix) {
			delete(h.commands, c)
		}
	}
	h.logger.Debug("namespace deleted", "interp", h.ID(), "path", path, "count", humanize.Comma(int64(len(h.namespaces))))
	return true
}

func (h *Host) CurrentNamespacePath() string {
	return h.CurrentNamespace()
}

func (h *Host) NamespaceExists(path string) bool {
	_, ok := h.namespaces[normalizeNS(path)]
	return ok
}

func (h *Host) SetCommand(path string, fn feather.BuiltinFunc[*Object]) {
	path = normalizeNS(path)
	h.commands[path] = fn
	nsPath, _ := splitAbsolute(path)
	h.namespace(nsPath)
}

func (h *Host) GetCommand(path string) (feather.BuiltinFunc[*Object], bool) {
	fn, ok := h.commands[normalizeNS(path)]
	return fn, ok
}

func (h *Host) DeleteCommand(path string) bool {
	path = normalizeNS(path)
	if _, ok := h.commands[path]; !ok {
		return false
	}
	delete(h.commands, path)
	return true
}

func (h *Host) Children(path string) []string {
	path = normalizeNS(path)
	var out []string
	for p := range h.namespaces {
		if p == path {
			continue
		}
		if parent, ok := parentOf(p); ok && parent == path {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (h *Host) Parent(path string) (string, bool) {
	return parentOf(normalizeNS(path))
}

// Commands lists the leaf names of every command registered directly
// under the namespace at path, backing `info commands`.
func (h *Host) Commands(path string) []string {
	path = normalizeNS(path)
	prefix := path
	if prefix != "::" {
		prefix += "::"
	}
	var out []string
	for c := range h.commands {
		rest, ok := strings.CutPrefix(c, prefix)
		if !ok || rest == "" {
			continue
		}
		if strings.Contains(rest, "::") {
			continue // belongs to a deeper namespace, not this one
		}
		out = append(out, rest)
	}
	sort.Strings(out)
	return out
}

// --- InterpOps ---

func (h *Host) GetResult() *Object       { return h.result }
func (h *Host) SetResult(o *Object)      { h.result = o }
func (h *Host) GetReturnOptions() *Object { return h.retOpts }
func (h *Host) SetReturnOptions(o *Object) { h.retOpts = o }

// normalizeNS rewrites path into the canonical absolute form every
// namespace/command table key uses: `::`-prefixed, no trailing `::`,
// empty/"::" collapsing to the root "::".
func normalizeNS(path string) string {
	if path == "" || path == "::" {
		return "::"
	}
	trimmed := strings.TrimPrefix(path, "::")
	trimmed = strings.TrimSuffix(trimmed, "::")
	if trimmed == "" {
		return "::"
	}
	return "::" + trimmed
}

// splitAbsolute splits an already `::`-qualified name into its owning
// namespace path and leaf, both normalized.
func splitAbsolute(name string) (nsPath, leaf string) {
	trimmed := strings.TrimPrefix(name, "::")
	idx := strings.LastIndex(trimmed, "::")
	if idx < 0 {
		return "::", trimmed
	}
	return normalizeNS(trimmed[:idx]), trimmed[idx+2:]
}

// parentOf returns path's immediate parent namespace path. The root
// namespace has no parent.
func parentOf(path string) (string, bool) {
	if path == "::" {
		return "", false
	}
	trimmed := strings.TrimPrefix(path, "::")
	idx := strings.LastIndex(trimmed, "::")
	if idx < 0 {
		return "::", true
	}
	return "::" + trimmed[:idx], true
}

// discardHandler is a slog.Handler that drops every record, used as
// NewHost's default when the embedder supplies no logger.
type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
