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

// CopyContainer copies src's value into dst without any Authorization: it
// relies purely on each Lock's own internal exclusion, with none of the
// cross-container deadlock prevention that an Authorization provides. It is
// only safe when the caller already knows, by construction, that no other
// goroutine ever holds src and dst in the opposite order.
func CopyContainer[T any](dst, src *Container[T]) bool {
	srcProxy, ok := src.GetRead(nil, true)
	if !ok {
		return false
	}
	defer srcProxy.Release()

	dstProxy, ok := dst.GetWrite(nil, true)
	if !ok {
		return false
	}
	defer dstProxy.Release()

	*dstProxy.Get() = *srcProxy.Get()
	return true
}

// TryCopyContainer copies src's value into dst, holding both under the same
// Authorization so its deadlock-prevention rules (and, if the containers
// use Ordered locks, their order-based relaxation) apply across the pair.
// When both containers carry a nonzero order, it acquires the lower-order
// one first, exactly as a two-node Ordered acquisition must; if the second
// acquisition is denied, the first is rolled back before returning false.
func TryCopyContainer[T any](dst, src *Container[T], auth *Authorization, blocking bool) bool {
	if src.Order() != 0 && dst.Order() != 0 && dst.Order() < src.Order() {
		dstProxy, ok := dst.GetWrite(auth, blocking)
		if !ok {
			return false
		}
		defer dstProxy.Release()

		srcProxy, ok := src.GetRead(auth, blocking)
		if !ok {
			return false
		}
		defer srcProxy.Release()

		*dstProxy.Get() = *srcProxy.Get()
		return true
	}

	srcProxy, ok := src.GetRead(auth, blocking)
	if !ok {
		return false
	}
	defer srcProxy.Release()

	dstProxy, ok := dst.GetWrite(auth, blocking)
	if !ok {
		return false
	}
	defer dstProxy.Release()

	*dstProxy.Get() = *srcProxy.Get()
	return true
}

// TryCopyContainerMulti copies src's value into dst while holding meta
// exclusively for the duration, so the pair of acquisitions is atomic with
// respect to every other goroutine's normal (shared, test-mode) admission
// through meta. It acquires src and dst through GetReadMulti/GetWriteMulti
// against the meta passed in here, independent of whatever MetaLock (if
// any) either container was constructed with - src and dst need not share a
// construction-time meta for this to exclude concurrent single-container
// access, only the meta argument itself matters.
func TryCopyContainerMulti[T any](dst, src *Container[T], auth *Authorization, meta *MetaLock, blocking bool) bool {
	metaProxy, ok := meta.Lock(auth, blocking)
	if !ok {
		return false
	}
	defer metaProxy.Release()

	if src.Order() != 0 && dst.Order() != 0 && dst.Order() < src.Order() {
		dstProxy, ok := dst.GetWriteMulti(meta, auth, blocking)
		if !ok {
			return false
		}
		defer dstProxy.Release()

		srcProxy, ok := src.GetReadMulti(meta, auth, blocking)
		if !ok {
			return false
		}
		defer srcProxy.Release()

		*dstProxy.Get() = *srcProxy.Get()
		return true
	}

	srcProxy, ok := src.GetReadMulti(meta, auth, blocking)
	if !ok {
		return false
	}
	defer srcProxy.Release()

	dstProxy, ok := dst.GetWriteMulti(meta, auth, blocking)
	if !ok {
		return false
	}
	defer dstProxy.Release()

	*dstProxy.Get() = *srcProxy.Get()
	return true
}
