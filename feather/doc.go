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

// Package feather implements the language core of Feather, an embeddable
// Tcl-dialect interpreter: a script parser, a command evaluator, and the
// built-in command catalog that realizes Tcl's control-flow, list,
// variable, namespace, and procedure semantics.
//
// The core owns no concrete storage. Every value, variable, frame, and
// namespace lives behind a [Host] implementation supplied by the
// embedder; the core only ever manipulates opaque handles of the host's
// own value type. This mirrors Tcl's historical split between the
// interpreter core and Tcl_Obj/Tcl_Interp storage, expressed here as a
// Go generic type parameter rather than a C vtable of function pointers.
//
// An *Interp[O] is single-owner: no built-in may be invoked concurrently
// against the same interpreter, and the core holds no locks of its own.
// Distinct interpreters (even sharing no state) may run on distinct
// goroutines freely.
package feather
