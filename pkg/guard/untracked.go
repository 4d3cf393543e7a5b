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

import (
	"sync"

	"github.com/wardenlock/warden/pkg/guard/internal/syncutil"
)

// Untracked is a bare mutex dressed up as a Lock: it grants exactly one
// holder at a time and cannot tell the difference between read and write
// requests. Because it cannot introspect its own contention, it always
// reports itself as in-use and locked-out to whatever Authorization is
// presented to it, which makes PolicyUntracked refuse any second
// holding from the same Authorization even when Untracked itself could
// have granted it.
type Untracked struct {
	mu   syncutil.Mutex
	cond *sync.Cond
	held bool
}

// NewUntracked creates an idle Untracked lock.
func NewUntracked() *Untracked {
	l := &Untracked{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *Untracked) Order() int { return 0 }

func (l *Untracked) Acquire(auth *Authorization, mode Mode, blocking, testOnly bool) (int, bool) {
	return l.acquireOrdered(auth, mode, blocking, testOnly, 0)
}

func (l *Untracked) acquireOrdered(auth *Authorization, mode Mode, blocking, testOnly bool, order int) (int, bool) {
	d := lockData{mode: ModeWrite, blocking: blocking, lockOut: true, mustBlock: true, order: order}
	if !auth.registerOrTest(&d, testOnly) {
		return 0, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		if !blocking {
			if !testOnly {
				auth.releaseAuth(mode, order)
			}
			return 0, false
		}
		for l.held {
			l.cond.Wait()
		}
	}
	l.held = true
	return 0, true
}

func (l *Untracked) Release(auth *Authorization, mode Mode, testOnly bool) bool {
	return l.releaseOrdered(auth, mode, testOnly, 0)
}

func (l *Untracked) releaseOrdered(auth *Authorization, mode Mode, testOnly bool, order int) bool {
	l.mu.Lock()
	assertInvariant(l.held, "Untracked: release with nothing held")
	l.held = false
	l.mu.Unlock()

	if !testOnly {
		auth.releaseAuth(mode, order)
	}
	l.cond.Signal()
	return true
}
