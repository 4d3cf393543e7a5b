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

// MetaLock is a valueless SharedExclusive used as global admission control
// across a set of containers. Every normal Container acquisition that names
// a MetaLock takes it shared first, in test mode - it rides along with the
// real lock's own condition-variable wait but never counts against the
// calling Authorization's tracked holdings. A goroutine that needs to touch
// several such containers as one atomic step instead takes the MetaLock
// exclusively for the duration, which blocks every other goroutine's shared
// admission until it is done: a stop-the-world escape hatch for the rare
// operation that can't be expressed as a sequence of single-container
// acquisitions.
type MetaLock struct {
	lock *SharedExclusive
}

// NewMetaLock creates an idle MetaLock.
func NewMetaLock() *MetaLock {
	return &MetaLock{lock: NewSharedExclusive()}
}

// metaAcquireShared is what Container.getWrite/getRead use: a real acquisition
// of the underlying lock (it can genuinely block), but consulted against
// the Authorization in test mode, so it never counts as a tracked holding.
func (m *MetaLock) metaAcquireShared(auth *Authorization, blocking bool) bool {
	if m == nil {
		return true
	}
	_, ok := m.lock.Acquire(auth, ModeRead, blocking, true)
	return ok
}

func (m *MetaLock) metaReleaseShared(auth *Authorization) {
	if m == nil {
		return
	}
	m.lock.Release(auth, ModeRead, true)
}

// MetaProxy is the value-less handle returned by MetaLock's exclusive and
// explicit shared acquisitions.
type MetaProxy struct {
	lock     *SharedExclusive
	auth     *Authorization
	mode     Mode
	testOnly bool
	released bool
}

// Release gives back the grant this MetaProxy holds. Safe to call more than
// once.
func (p *MetaProxy) Release() {
	if p == nil || p.released || p.lock == nil {
		return
	}
	p.released = true
	p.lock.Release(p.auth, p.mode, p.testOnly)
}

// Valid reports whether this MetaProxy still holds an unreleased grant.
func (p *MetaProxy) Valid() bool {
	return p != nil && p.lock != nil && !p.released
}

// Lock acquires the MetaLock exclusively, blocking every container's shared
// admission (and any other exclusive acquisition) until the returned
// MetaProxy is released. This registers normally against auth, consuming
// its write budget like any other exclusive grant.
func (m *MetaLock) Lock(auth *Authorization, blocking bool) (MetaProxy, bool) {
	if _, ok := m.lock.Acquire(auth, ModeWrite, blocking, false); !ok {
		return MetaProxy{}, false
	}
	return MetaProxy{lock: m.lock, auth: auth, mode: ModeWrite}, true
}

// RLock acquires the MetaLock shared, registering normally against auth.
// Containers acquire it in test mode instead (see metaAcquireShared); RLock
// is for callers that want to hold the admission gate open shared across
// several manual test-mode container operations of their own.
func (m *MetaLock) RLock(auth *Authorization, blocking bool) (MetaProxy, bool) {
	if _, ok := m.lock.Acquire(auth, ModeRead, blocking, false); !ok {
		return MetaProxy{}, false
	}
	return MetaProxy{lock: m.lock, auth: auth, mode: ModeRead}, true
}
