// Warden
// Copyright (c) 2026 The Warden Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Warden.
//
// Warden is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Warden is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Warden.  If not, see <http://www.gnu.org/licenses/>.

//go:build guarddebug

package guard

import "fmt"

// assertInvariant panics with the given message when cond is false. It only
// compiles in when built with -tags=guarddebug; production builds pay
// nothing for it.
func assertInvariant(cond bool, format string, args ...any) {
	if !cond {
		panic("guard: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
