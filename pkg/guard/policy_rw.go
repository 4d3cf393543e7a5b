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

// rwPolicy is PolicySharedExclusive: the partner policy for
// SharedExclusive locks. It tracks how many reads and writes this
// Authorization currently holds and refuses a new acquisition on a busy
// lock whenever the authorization already holds something, since waiting
// there could be the edge that closes a cycle.
type rwPolicy struct {
	reading int64
	writing int64
}

func (p *rwPolicy) test(d *lockData) bool {
	switch d.mode {
	case ModeRead:
		if p.writing > 0 && d.mustBlock {
			return false
		}
		if (p.reading > 0 || p.writing > 0) && d.lockOut {
			return false
		}
		return true
	default:
		// A non-blocking write attempt can never itself become the wait
		// that closes a cycle, so it is exempt from the "already holds a
		// read" denial that would otherwise apply here. The underlying
		// lock still refuses to grant it if granting would actually
		// require blocking.
		if p.reading > 0 && d.mustBlock && d.blocking {
			return false
		}
		if p.writing > 0 && d.mustBlock {
			return false
		}
		if (p.reading > 0 || p.writing > 0) && d.lockOut {
			return false
		}
		return true
	}
}

func (p *rwPolicy) register(d *lockData) bool {
	if !p.test(d) {
		return false
	}
	if d.mode == ModeRead {
		p.reading++
	} else {
		p.writing++
	}
	return true
}

func (p *rwPolicy) release(mode Mode, _ int) {
	if mode == ModeRead {
		assertInvariant(p.reading > 0, "rwPolicy: read release with reading=0")
		p.reading--
	} else {
		assertInvariant(p.writing > 0, "rwPolicy: write release with writing=0")
		p.writing--
	}
}

func (p *rwPolicy) orderAllowed(order int) bool { return order == 0 }
func (p *rwPolicy) readingCount() int64         { return p.reading }
func (p *rwPolicy) writingCount() int64         { return p.writing }
