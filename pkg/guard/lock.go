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

// Lock is the state machine behind a Container. Every lock kind
// (SharedExclusive, SharedOnly, ExclusiveOnly, Untracked, Broken, and the
// Ordered decorator) implements it identically from the container's point
// of view; the differences are all in what each Acquire/Release does
// internally and in the lockData each one hands to the Authorization.
type Lock interface {
	// Acquire attempts to grant mode to auth. When testOnly is true the
	// authorization is only consulted (via Authorization.test), never
	// updated, while the lock itself is still acquired as usual -
	// this is how the meta-lock's shared grant rides along with a
	// container acquisition without counting against the one-write budget
	// of a MultiReadOneWrite authorization.
	//
	// auth may be nil, meaning the caller carries no deadlock-prevention
	// bookkeeping at all; every lock kind must accept that and grant or
	// deny purely on its own internal state.
	//
	// On success it returns the resulting shared count (0 for write
	// grants) and true. On denial it returns 0, false, and leaves both the
	// lock and the authorization exactly as they were.
	Acquire(auth *Authorization, mode Mode, blocking, testOnly bool) (int, bool)

	// Release gives back a grant previously returned by Acquire. testOnly
	// must match the value passed to the Acquire call it balances.
	Release(auth *Authorization, mode Mode, testOnly bool) bool

	// Order returns the decorator order of this lock, or 0 if it isn't
	// wrapped in Ordered.
	Order() int
}

// lockData is what a Lock hands to an Authorization for the combined
// register-or-test step. It never crosses a Container boundary; it exists
// purely to keep the Lock <-> Authorization contract in one small struct
// instead of a long parameter list.
type lockData struct {
	mode     Mode
	blocking bool
	// lockOut reports that another goroutine is already queued for
	// exclusive access to this lock, independent of whatever mode this
	// request wants.
	lockOut bool
	// mustBlock reports that granting this specific request would require
	// waiting given the lock's current state.
	mustBlock bool
	// order is the Ordered decorator's order for this lock, or 0 if the
	// lock isn't ordered.
	order int
}
