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

// exclusivePolicy is PolicyExclusiveOnly: the partner policy for
// ExclusiveOnly locks. Read and write requests are indistinguishable here -
// ExclusiveOnly collapses both to a single exclusive holding - so every
// grant is counted as a write regardless of the mode the caller asked for.
type exclusivePolicy struct {
	writing int64
}

func (p *exclusivePolicy) test(d *lockData) bool {
	if p.writing > 0 && d.mustBlock {
		return false
	}
	if p.writing > 0 && d.lockOut {
		return false
	}
	return true
}

func (p *exclusivePolicy) register(d *lockData) bool {
	if !p.test(d) {
		return false
	}
	p.writing++
	return true
}

func (p *exclusivePolicy) release(_ Mode, _ int) {
	assertInvariant(p.writing > 0, "exclusivePolicy: release with writing=0")
	p.writing--
}

func (p *exclusivePolicy) orderAllowed(order int) bool { return order == 0 }
func (p *exclusivePolicy) readingCount() int64         { return 0 }
func (p *exclusivePolicy) writingCount() int64         { return p.writing }
