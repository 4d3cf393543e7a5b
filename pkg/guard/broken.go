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

// Broken never grants anything, in any mode, blocking or not. It exists so
// that a Container can be permanently and safely disabled - for example
// after its guarded value has been torn down - without needing a separate
// "closed" flag threaded through every accessor.
type Broken struct{}

// NewBroken creates a lock that never grants anything.
func NewBroken() *Broken { return &Broken{} }

func (l *Broken) Order() int { return 0 }

func (l *Broken) Acquire(auth *Authorization, mode Mode, _, testOnly bool) (int, bool) {
	d := lockData{mode: mode, blocking: false, lockOut: true, mustBlock: true}
	if auth.registerOrTest(&d, testOnly) && !testOnly {
		auth.releaseAuth(mode, 0)
	}
	return 0, false
}

func (l *Broken) Release(*Authorization, Mode, bool) bool {
	assertInvariant(false, "Broken: release called but Acquire never grants")
	return false
}
