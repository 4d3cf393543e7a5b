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

// untrackedPolicy is PolicyUntracked: the partner policy for
// Untracked locks. An Untracked lock can never report whether it is
// actually contended, so the caller (see Untracked.Acquire) always passes
// mustBlock=true, lockOut=true; this policy denies a second holding from
// the same Authorization outright, on the assumption that the lock is
// always busy.
type untrackedPolicy struct {
	writing int64
}

func (p *untrackedPolicy) test(_ *lockData) bool {
	return p.writing == 0
}

func (p *untrackedPolicy) register(d *lockData) bool {
	if !p.test(d) {
		return false
	}
	p.writing++
	return true
}

func (p *untrackedPolicy) release(_ Mode, _ int) {
	assertInvariant(p.writing > 0, "untrackedPolicy: release with writing=0")
	p.writing--
}

func (p *untrackedPolicy) orderAllowed(order int) bool { return order == 0 }
func (p *untrackedPolicy) readingCount() int64         { return 0 }
func (p *untrackedPolicy) writingCount() int64         { return p.writing }
