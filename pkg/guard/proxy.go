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

import "sync"

// proxyState is the reference-counted release token shared by every copy of
// a Proxy or ReadProxy taken from the same acquisition. Only the last copy
// to be released actually calls releaseFn.
type proxyState struct {
	mu        sync.Mutex
	refs      int
	released  bool
	releaseFn func()
}

func newProxyState(releaseFn func()) *proxyState {
	return &proxyState{refs: 1, releaseFn: releaseFn}
}

func (s *proxyState) retain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	assertInvariant(!s.released, "guard: retained a released proxy")
	s.refs++
}

func (s *proxyState) release() {
	s.mu.Lock()
	s.refs--
	assertInvariant(s.refs >= 0, "guard: proxy released more times than retained")
	fire := s.refs == 0 && !s.released
	if fire {
		s.released = true
	}
	s.mu.Unlock()
	if fire {
		s.releaseFn()
	}
}

// Proxy is a scoped, reference-counted handle to a Container's guarded
// value, held under a write (exclusive) grant. Copy it to share the same
// underlying grant across goroutines or call sites; the grant is only
// released once every copy, including the original, has called Release.
//
// The zero Proxy is not valid; only values returned by Container methods
// carry a usable grant.
type Proxy[T any] struct {
	value *T
	state *proxyState
	// LastLockCount is the lock's own holder count at the moment this
	// grant was made (0 for an exclusive grant, matching
	// object_proxy_base::last_lock_count in original_source).
	LastLockCount int
}

// Get returns the guarded value. It returns nil if the proxy does not hold
// a grant (Valid reports false).
func (p *Proxy[T]) Get() *T {
	if p == nil || p.state == nil {
		return nil
	}
	return p.value
}

// Valid reports whether this Proxy still holds an unreleased grant.
func (p *Proxy[T]) Valid() bool {
	return p != nil && p.state != nil
}

// Copy returns a second handle to the same grant. The grant is released
// only once both this Proxy and the returned one have had Release called.
func (p *Proxy[T]) Copy() Proxy[T] {
	if p == nil || p.state == nil {
		return Proxy[T]{}
	}
	p.state.retain()
	return Proxy[T]{value: p.value, state: p.state, LastLockCount: p.LastLockCount}
}

// Release gives back this handle's share of the grant. It is safe to call
// more than once; only the first call on each handle has an effect.
func (p *Proxy[T]) Release() {
	if p == nil || p.state == nil {
		return
	}
	p.state.release()
	p.state = nil
	p.value = nil
}

// Same reports whether p and other point at the same guarded value. Unlike
// the native == operator, it ignores LastLockCount and is safe to call on a
// released or zero Proxy.
func (p *Proxy[T]) Same(other *Proxy[T]) bool {
	if p == nil || other == nil {
		return false
	}
	return p.value != nil && p.value == other.value
}

// ReadProxy is Proxy's read-only counterpart, held under a shared grant.
// Go has no way to express a pointer-to-const generically, so Get still
// returns *T; callers must treat the pointee as read-only for the life of
// the proxy the same way they would honor any other borrowing contract.
type ReadProxy[T any] struct {
	value *T
	state *proxyState
	// LastLockCount is the shared holder count at the moment this grant
	// was made, including this grant itself.
	LastLockCount int
}

func (p *ReadProxy[T]) Get() *T {
	if p == nil || p.state == nil {
		return nil
	}
	return p.value
}

func (p *ReadProxy[T]) Valid() bool {
	return p != nil && p.state != nil
}

func (p *ReadProxy[T]) Copy() ReadProxy[T] {
	if p == nil || p.state == nil {
		return ReadProxy[T]{}
	}
	p.state.retain()
	return ReadProxy[T]{value: p.value, state: p.state, LastLockCount: p.LastLockCount}
}

func (p *ReadProxy[T]) Release() {
	if p == nil || p.state == nil {
		return
	}
	p.state.release()
	p.state = nil
	p.value = nil
}

// Same reports whether p and other point at the same guarded value. Unlike
// the native == operator, it ignores LastLockCount and is safe to call on a
// released or zero ReadProxy.
func (p *ReadProxy[T]) Same(other *ReadProxy[T]) bool {
	if p == nil || other == nil {
		return false
	}
	return p.value != nil && p.value == other.value
}
