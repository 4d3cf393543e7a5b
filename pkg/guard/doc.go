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

// Package guard implements deadlock-preventing lock containers.
//
// A Container[T] wraps a value behind one of five lock kinds
// (SharedExclusive, SharedOnly, ExclusiveOnly, Untracked, Broken) and hands
// out Proxy[T]/ReadProxy[T] handles rather than the value itself, so that
// every access is bracketed by a matching lock acquisition and release.
//
// Deadlock safety is prevention, not detection: every goroutine that wants
// to touch more than one container carries an Authorization, which counts
// how many locks that goroutine currently holds and refuses a new
// acquisition on a busy lock whenever the goroutine already holds one,
// because such a wait could be the last edge that closes a cycle. This
// costs nothing at runtime beyond a handful of integer comparisons, and it
// never needs to walk a waits-for graph.
//
// Package guard never logs and never reads configuration; callers that want
// visibility into lock contention wrap Container operations themselves, the
// way pkg/harness does for the command-line demonstrations under cmd/.
package guard
