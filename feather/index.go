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

import (
	"fmt"
	"strconv"
	"strings"

	"modernc.org/mathutil"
)

// parseIndex parses a Tcl index expression against a container of the
// given length: a decimal integer (optional leading sign), `end`,
// `end-<uint>`, or `end+<uint>`. Anything else is a parse error. The
// returned index is not clamped; callers apply the clamping rule
// appropriate to their operation (lindex returns empty for
// out-of-range, lrange clamps to the container bounds).
func parseIndex(s string, length int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("bad index \"\"")
	}
	if s == "end" {
		return length - 1, nil
	}
	if rest, ok := strings.CutPrefix(s, "end-"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad index %q", s)
		}
		return length - 1 - n, nil
	}
	if rest, ok := strings.CutPrefix(s, "end+"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad index %q", s)
		}
		return length - 1 + n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	return n, nil
}

// clampIndex clamps i into [0, length] inclusive, the rule lrange/linsert
// apply to out-of-range endpoints (invariant 6).
func clampIndex(i, length int) int {
	return mathutil.Max(0, mathutil.Min(i, length))
}
