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

// Container guards a value of type T behind a Lock. It never exposes the
// value directly; callers get a Proxy or ReadProxy handle instead, so that
// every access is bracketed by a matching acquisition and release. A
// Container never logs and never blocks except inside the Lock it was
// built with or the MetaLock an acquisition rides.
type Container[T any] struct {
	lock Lock
	meta *MetaLock
	value T
}

// NewContainer wraps value behind lock. lock is typically one of
// NewSharedExclusive, NewSharedOnly, NewExclusiveOnly, NewUntracked,
// NewBroken, or one of those wrapped in NewOrdered.
func NewContainer[T any](value T, lock Lock) *Container[T] {
	return &Container[T]{lock: lock, value: value}
}

// NewContainerWithMeta is NewContainer plus a MetaLock that every
// acquisition on this container takes shared (in test mode) alongside the
// container's own lock, so that meta.Lock can later coordinate an atomic
// multi-container operation across every container sharing this MetaLock.
func NewContainerWithMeta[T any](value T, lock Lock, meta *MetaLock) *Container[T] {
	return &Container[T]{lock: lock, meta: meta, value: value}
}

// Order reports the container's lock's decorator order, or 0 if it isn't
// wrapped in Ordered.
func (c *Container[T]) Order() int {
	return c.lock.Order()
}

// NewAuthorization builds an Authorization enforcing whatever policy
// matches this container's lock kind, wrapping it with order tracking if
// the lock is an Ordered decorator. This mirrors
// locking_container::new_auth from original_source/include/locking-container.hpp:
// callers that don't want to think about which PolicyKind pairs with which
// Lock can just ask the container.
func (c *Container[T]) NewAuthorization() *Authorization {
	kind := policyKindOf(c.lock)
	if c.lock.Order() > 0 {
		return NewOrderedAuthorization(kind)
	}
	return NewAuthorization(kind)
}

// policyKindOf reports the PolicyKind matching lock's concrete type,
// unwrapping Ordered to the kind it decorates.
func policyKindOf(lock Lock) PolicyKind {
	if o, ok := lock.(*Ordered); ok {
		return policyKindOf(o.base)
	}
	switch lock.(type) {
	case *SharedExclusive:
		return PolicySharedExclusive
	case *SharedOnly:
		return PolicySharedOnly
	case *ExclusiveOnly:
		return PolicyExclusiveOnly
	case *Untracked:
		return PolicyUntracked
	default:
		return PolicyBroken
	}
}

// GetWrite acquires the container exclusively, riding this container's own
// construction-time MetaLock (if any) shared alongside it. It is equivalent
// to GetWriteMulti(c.meta, auth, blocking), matching how
// locking_container::get_write delegates to get_write_multi(NULL, ...) in
// original_source/include/locking-container.hpp.
func (c *Container[T]) GetWrite(auth *Authorization, blocking bool) (Proxy[T], bool) {
	return c.getWrite(c.meta, auth, blocking)
}

// GetWriteMulti acquires the container exclusively, riding meta shared
// alongside it regardless of whatever MetaLock (if any) this container was
// built with. Callers use this, paired with meta.Lock, to bracket an atomic
// operation across several containers that all name the same meta at call
// time - the container itself need not have been constructed with it.
func (c *Container[T]) GetWriteMulti(meta *MetaLock, auth *Authorization, blocking bool) (Proxy[T], bool) {
	return c.getWrite(meta, auth, blocking)
}

func (c *Container[T]) getWrite(meta *MetaLock, auth *Authorization, blocking bool) (Proxy[T], bool) {
	if !meta.metaAcquireShared(auth, blocking) {
		return Proxy[T]{}, false
	}
	count, ok := c.lock.Acquire(auth, ModeWrite, blocking, false)
	if !ok {
		meta.metaReleaseShared(auth)
		return Proxy[T]{}, false
	}
	state := newProxyState(func() {
		c.lock.Release(auth, ModeWrite, false)
		meta.metaReleaseShared(auth)
	})
	return Proxy[T]{value: &c.value, state: state, LastLockCount: count}, true
}

// GetRead acquires the container shared, riding this container's own
// construction-time MetaLock (if any) shared alongside it. It is equivalent
// to GetReadMulti(c.meta, auth, blocking); see GetWrite for the same
// relationship on the write side.
func (c *Container[T]) GetRead(auth *Authorization, blocking bool) (ReadProxy[T], bool) {
	return c.getRead(c.meta, auth, blocking)
}

// GetReadMulti acquires the container shared, riding meta shared alongside
// it regardless of whatever MetaLock (if any) this container was built
// with. See GetWriteMulti for why callers reach for this over GetRead.
func (c *Container[T]) GetReadMulti(meta *MetaLock, auth *Authorization, blocking bool) (ReadProxy[T], bool) {
	return c.getRead(meta, auth, blocking)
}

func (c *Container[T]) getRead(meta *MetaLock, auth *Authorization, blocking bool) (ReadProxy[T], bool) {
	if !meta.metaAcquireShared(auth, blocking) {
		return ReadProxy[T]{}, false
	}
	count, ok := c.lock.Acquire(auth, ModeRead, blocking, false)
	if !ok {
		meta.metaReleaseShared(auth)
		return ReadProxy[T]{}, false
	}
	state := newProxyState(func() {
		c.lock.Release(auth, ModeRead, false)
		meta.metaReleaseShared(auth)
	})
	return ReadProxy[T]{value: &c.value, state: state, LastLockCount: count}, true
}

// TryGetWrite is GetWrite with blocking=false.
func (c *Container[T]) TryGetWrite(auth *Authorization) (Proxy[T], bool) {
	return c.GetWrite(auth, false)
}

// TryGetRead is GetRead with blocking=false.
func (c *Container[T]) TryGetRead(auth *Authorization) (ReadProxy[T], bool) {
	return c.GetRead(auth, false)
}

// TryGetWriteMulti is GetWriteMulti with blocking=false.
func (c *Container[T]) TryGetWriteMulti(meta *MetaLock, auth *Authorization) (Proxy[T], bool) {
	return c.GetWriteMulti(meta, auth, false)
}

// TryGetReadMulti is GetReadMulti with blocking=false.
func (c *Container[T]) TryGetReadMulti(meta *MetaLock, auth *Authorization) (ReadProxy[T], bool) {
	return c.GetReadMulti(meta, auth, false)
}
