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

// Host is the sole surface the language core uses to manipulate values,
// variables, frames, namespaces, and commands. The core never inspects a
// value's concrete representation; O is the host's opaque handle type,
// minted and owned entirely by the host; the core treats a host value
// the way Tcl treats a Tcl_Obj handle.
//
// A production host (e.g. [feather/memhost.Host]) backs O with its own
// arena; a test host backs O with whatever is convenient for assertions.
// Both satisfy exactly this interface, which is what lets the core stay
// agnostic to concrete storage.
type Host[O any] interface {
	StringOps[O]
	IntOps[O]
	ListOps[O]
	DictOps[O]
	VarOps[O]
	FrameOps[O]
	NamespaceOps[O]
	InterpOps[O]

	// RegisterBuiltin installs a core builtin under a qualified name,
	// called once per builtin at interpreter construction time.
	RegisterBuiltin(name string, fn BuiltinFunc[O])

	// Unknown is invoked when dispatch cannot resolve cmd to a builtin
	// or user procedure. It returns the code and result to use as-is;
	// hosts that have no unknown-command handling should return
	// (CodeError, host-interned "invalid command name ...").
	Unknown(it *Interp[O], cmd O, args []O) (Code, O)
}

// BuiltinFunc is the signature every core and host-registered command
// implements. args includes the command word itself at index 0, matching
// the evaluator's token list contract.
type BuiltinFunc[O any] func(it *Interp[O], args []O) (Code, O)

// StringOps covers the byte-level view of a value: interning raw bytes
// into a handle, reading them back, and the few byte primitives the
// parser and string builtins need.
type StringOps[O any] interface {
	Intern(s string) O
	Get(o O) string
	ByteLength(o O) int
	ByteAt(o O, i int) byte
	Slice(o O, i, j int) O
	Concat(a, b O) O
}

// IntOps covers the integer view of a value.
type IntOps[O any] interface {
	NewInt(i int64) O
	GetInt(o O) (int64, bool)
}

// ListOps covers the list view of a value. From returns the list form of
// o, parsing its string representation as a Tcl list if o has no list
// form cached; this is the "shimmering" the design notes call out.
type ListOps[O any] interface {
	NewList(items ...O) O
	FromList(o O) (O, error)
	ListLength(o O) int
	ListAt(o O, i int) O
	ListPush(o O, items ...O) O
	ListShift(o O) (O, O)
	ListSlice(o O, i, j int) O
	IsNil(o O) bool
}

// DictOps covers the dictionary view of a value, used by return
// options, the dict-shaped parts of error state, and the `dict` builtin.
type DictOps[O any] interface {
	NewDict() O
	DictGet(o O, key string) (O, bool)
	DictSet(o O, key string, value O) O
	DictKeys(o O) []string
}

// VarOps covers variable storage: scalars, array elements (name(key)),
// and links (upvar/global/variable), per invariants 3-4.
type VarOps[O any] interface {
	GetVar(name string) (O, bool)
	SetVar(name string, value O)
	UnsetVar(name string) bool
	// Link redirects reads/writes of local to the variable named other
	// in the frame at the given absolute frame index.
	Link(local string, level int, other string)
	// LinkNamespace redirects reads/writes of local to a variable in a
	// namespace (used by `variable` and `global`).
	LinkNamespace(local string, ns string, name string)
	VarExists(name string) bool
	// VarNames lists every variable name visible in the current frame
	// (own scalars plus linked names), backing `info vars`.
	VarNames() []string
}

// FrameOps covers the call-frame stack. Level 0 is always the global
// frame (invariant 1).
type FrameOps[O any] interface {
	FrameLevel() int
	FrameSize() int
	PushFrame(ns string)
	PopFrame()
	CurrentNamespace() string

	// PushUplevel temporarily redirects variable resolution (GetVar,
	// SetVar, UnsetVar, VarExists) to the frame at the given absolute
	// level, without creating a new call frame, for the duration of the
	// matching PopUplevel. Nested calls must stack correctly: PopUplevel
	// always restores the frame that was current before the matching
	// PushUplevel, not level 0.
	PushUplevel(level int)
	PopUplevel()
}

// NamespaceOps covers the namespace hierarchy: creation, lookup, and the
// per-namespace command table that backs qualified command resolution.
type NamespaceOps[O any] interface {
	CreateNamespace(path string)
	DeleteNamespace(path string) bool
	CurrentNamespacePath() string
	NamespaceExists(path string) bool
	SetCommand(path string, fn BuiltinFunc[O])
	GetCommand(path string) (BuiltinFunc[O], bool)
	DeleteCommand(path string) bool
	Children(path string) []string
	Parent(path string) (string, bool)
	// Commands lists the leaf names of every command registered directly
	// in the namespace at path (not recursing into child namespaces),
	// backing `info commands`.
	Commands(path string) []string
}

// InterpOps covers the interpreter's result slot and return-options
// dict, both host-owned.
type InterpOps[O any] interface {
	GetResult() O
	SetResult(o O)
	GetReturnOptions() O
	SetReturnOptions(o O)
	// InterpID returns a host-chosen, stable-for-the-process-lifetime
	// identifier for this interpreter instance, surfaced to scripts via
	// `info interp id` and to the host's own diagnostics so multiple
	// interpreters' log lines can be told apart.
	InterpID() string
}
