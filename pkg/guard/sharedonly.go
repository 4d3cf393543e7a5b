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

package guard

import "sync/atomic"

// SharedOnly never blocks and never grants exclusive access: every read
// request succeeds immediately (subject only to the presented
// Authorization refusing it) and every write request is rejected outright.
// It carries no internal mutex; the holder count is a bare atomic counter.
type SharedOnly struct {
	readers atomic.Int64
}

// NewSharedOnly creates an idle SharedOnly lock.
func NewSharedOnly() *SharedOnly { return &SharedOnly{} }

func (l *SharedOnly) Order() int { return 0 }

func (l *SharedOnly) Acquire(auth *Authorization, mode Mode, blocking, testOnly bool) (int, bool) {
	return l.acquireOrdered(auth, mode, blocking, testOnly, 0)
}

func (l *SharedOnly) acquireOrdered(auth *Authorization, mode Mode, _, testOnly bool, order int) (int, bool) {
	if mode == ModeWrite {
		return 0, false
	}
	d := lockData{mode: ModeRead, blocking: true, lockOut: false, mustBlock: false, order: order}
	if !auth.registerOrTest(&d, testOnly) {
		return 0, false
	}
	n := l.readers.Add(1)
	return int(n), true
}

func (l *SharedOnly) Release(auth *Authorization, mode Mode, testOnly bool) bool {
	return l.releaseOrdered(auth, mode, testOnly, 0)
}

func (l *SharedOnly) releaseOrdered(auth *Authorization, mode Mode, testOnly bool, order int) bool {
	assertInvariant(mode == ModeRead, "SharedOnly: write release against a read-only lock")
	n := l.readers.Add(-1)
	assertInvariant(n >= 0, "SharedOnly: reader count underflow")
	if !testOnly {
		auth.releaseAuth(mode, order)
	}
	return true
}

// Readers reports the current shared holder count, for diagnostics.
func (l *SharedOnly) Readers() int { return int(l.readers.Load()) }
