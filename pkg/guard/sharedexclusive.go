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

// SharedExclusive is the canonical read/write lock: any number of readers,
// or a single writer, never both, with writer priority (once a writer is
// waiting, new readers queue behind it rather than starving it), and a
// writer-reads exception that lets the current exclusive holder also take a
// shared grant on the same lock without deadlocking against itself.
type SharedExclusive struct {
	mu syncutil.Mutex

	readCond  *sync.Cond
	writeCond *sync.Cond

	readers        int
	readersWaiting int
	writersWaiting int
	writer         bool
	writerIdentity *Authorization
}

// NewSharedExclusive creates an idle SharedExclusive lock.
func NewSharedExclusive() *SharedExclusive {
	l := &SharedExclusive{}
	l.readCond = sync.NewCond(&l.mu)
	l.writeCond = sync.NewCond(&l.mu)
	return l
}

func (l *SharedExclusive) Order() int { return 0 }

func (l *SharedExclusive) Acquire(auth *Authorization, mode Mode, blocking, testOnly bool) (int, bool) {
	return l.acquireOrdered(auth, mode, blocking, testOnly, 0)
}

func (l *SharedExclusive) acquireOrdered(auth *Authorization, mode Mode, blocking, testOnly bool, order int) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	writerReads := mode == ModeRead && auth != nil && l.writer && l.writerIdentity == auth

	lockOut := l.writersWaiting > 0
	var mustBlock bool
	if mode == ModeRead {
		mustBlock = l.writer || l.writersWaiting > 0
	} else {
		mustBlock = l.writer || l.readers > 0 || l.writersWaiting > 0
	}
	if writerReads {
		lockOut = false
		mustBlock = false
	}

	d := lockData{mode: mode, blocking: blocking, lockOut: lockOut, mustBlock: mustBlock, order: order}
	if !auth.registerOrTest(&d, testOnly) {
		return 0, false
	}
	rollback := func() {
		if !testOnly {
			auth.releaseAuth(mode, order)
		}
	}

	if mode == ModeRead {
		if !writerReads {
			for l.writer || l.writersWaiting > 0 {
				if !blocking {
					rollback()
					return 0, false
				}
				l.readersWaiting++
				l.readCond.Wait()
				l.readersWaiting--
			}
		}
		l.readers++
		return l.readers, true
	}

	needWait := l.writer || l.readers > 0
	if needWait && !blocking {
		rollback()
		return 0, false
	}
	if needWait {
		l.writersWaiting++
		for l.writer || l.readers > 0 {
			l.writeCond.Wait()
		}
		l.writersWaiting--
	}
	l.writer = true
	l.writerIdentity = auth
	return 0, true
}

func (l *SharedExclusive) Release(auth *Authorization, mode Mode, testOnly bool) bool {
	return l.releaseOrdered(auth, mode, testOnly, 0)
}

func (l *SharedExclusive) releaseOrdered(auth *Authorization, mode Mode, testOnly bool, order int) bool {
	l.mu.Lock()
	var wasWriter, lastReader bool
	if mode == ModeWrite {
		assertInvariant(l.writer, "SharedExclusive: write release with no writer held")
		wasWriter = true
		l.writer = false
		l.writerIdentity = nil
	} else {
		assertInvariant(l.readers > 0, "SharedExclusive: read release with readers=0")
		l.readers--
		lastReader = l.readers == 0
	}
	l.mu.Unlock()

	if !testOnly {
		auth.releaseAuth(mode, order)
	}

	switch {
	case wasWriter:
		l.readCond.Broadcast()
		l.writeCond.Broadcast()
	case lastReader:
		l.writeCond.Broadcast()
	}
	return true
}

// Readers reports the current shared holder count, for diagnostics.
func (l *SharedExclusive) Readers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readers
}

// WriterHeld reports whether a writer currently holds the lock.
func (l *SharedExclusive) WriterHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer
}
