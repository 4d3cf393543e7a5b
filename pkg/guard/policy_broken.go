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

// brokenPolicy is PolicyBroken: it never grants anything, matching Broken
// locks. release should never be called against it, since register never
// succeeds.
type brokenPolicy struct{}

func (p *brokenPolicy) test(*lockData) bool { return false }
func (p *brokenPolicy) register(*lockData) bool { return false }
func (p *brokenPolicy) release(_ Mode, _ int) {
	assertInvariant(false, "brokenPolicy: release called but register never succeeds")
}
func (p *brokenPolicy) orderAllowed(order int) bool { return order == 0 }
func (p *brokenPolicy) readingCount() int64         { return 0 }
func (p *brokenPolicy) writingCount() int64         { return 0 }
