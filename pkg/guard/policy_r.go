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

// rPolicy is PolicySharedOnly: the partner policy for SharedOnly locks. It
// only ever tracks reads; a write request is always refused.
type rPolicy struct {
	reading int64
}

func (p *rPolicy) test(d *lockData) bool {
	if d.mode == ModeWrite {
		return false
	}
	if p.reading > 0 && d.lockOut {
		return false
	}
	return true
}

func (p *rPolicy) register(d *lockData) bool {
	if !p.test(d) {
		return false
	}
	p.reading++
	return true
}

func (p *rPolicy) release(mode Mode, _ int) {
	assertInvariant(mode == ModeRead, "rPolicy: write release against a read-only policy")
	assertInvariant(p.reading > 0, "rPolicy: release with reading=0")
	p.reading--
}

func (p *rPolicy) orderAllowed(order int) bool { return order == 0 }
func (p *rPolicy) readingCount() int64         { return p.reading }
func (p *rPolicy) writingCount() int64         { return 0 }
