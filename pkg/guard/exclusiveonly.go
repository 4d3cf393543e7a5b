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

// ExclusiveOnly collapses the read/write distinction to a single exclusive
// holder: at most one goroutine holds it at a time, whether it asked for
// ModeRead or ModeWrite, and it is tracked with PolicyExclusiveOnly
// accordingly.
type ExclusiveOnly struct {
	mu             syncutil.Mutex
	cond           *sync.Cond
	held           bool
	writersWaiting int
}

// NewExclusiveOnly creates an idle ExclusiveOnly lock.
func NewExclusiveOnly() *ExclusiveOnly {
	l := &ExclusiveOnly{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *ExclusiveOnly) Order() int { return 0 }

func (l *ExclusiveOnly) Acquire(auth *Authorization, mode Mode, blocking, testOnly bool) (int, bool) {
	return l.acquireOrdered(auth, mode, blocking, testOnly, 0)
}

func (l *ExclusiveOnly) acquireOrdered(auth *Authorization, mode Mode, blocking, testOnly bool, order int) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lockOut := l.writersWaiting > 0
	mustBlock := l.held || l.writersWaiting > 0

	d := lockData{mode: ModeWrite, blocking: blocking, lockOut: lockOut, mustBlock: mustBlock, order: order}
	if !auth.registerOrTest(&d, testOnly) {
		return 0, false
	}

	if l.held {
		if !blocking {
			if !testOnly {
				auth.releaseAuth(mode, order)
			}
			return 0, false
		}
		l.writersWaiting++
		for l.held {
			l.cond.Wait()
		}
		l.writersWaiting--
	}
	l.held = true
	return 0, true
}

func (l *ExclusiveOnly) Release(auth *Authorization, mode Mode, testOnly bool) bool {
	return l.releaseOrdered(auth, mode, testOnly, 0)
}

func (l *ExclusiveOnly) releaseOrdered(auth *Authorization, mode Mode, testOnly bool, order int) bool {
	l.mu.Lock()
	assertInvariant(l.held, "ExclusiveOnly: release with nothing held")
	l.held = false
	l.mu.Unlock()

	if !testOnly {
		auth.releaseAuth(mode, order)
	}
	l.cond.Signal()
	return true
}

// Held reports whether the lock currently has a holder, for diagnostics.
func (l *ExclusiveOnly) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}
