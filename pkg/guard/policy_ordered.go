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

// orderedPolicy decorates another policy with order tracking. A request
// against an Ordered lock whose order is strictly greater than every order
// this Authorization currently holds can never close a cycle back through
// locks already held in order, so, as long as no unordered lock is held, it
// is exempted from the lockOut/mustBlock denials that would otherwise
// apply - see NewOrdered for the acquisition
// discipline this relies on.
type orderedPolicy struct {
	inner             policy
	orderedHoldings   map[int]struct{}
	unorderedHoldings int64
}

func newOrderedPolicy(inner policy) *orderedPolicy {
	return &orderedPolicy{inner: inner, orderedHoldings: make(map[int]struct{})}
}

func (p *orderedPolicy) maxOrder() int {
	max := 0
	for order := range p.orderedHoldings {
		if order > max {
			max = order
		}
	}
	return max
}

// normalRules reports whether the usual lockOut/mustBlock denials should
// apply to a request for the given order: true for an unordered request
// (order 0), true while this Authorization holds any unordered lock, and
// otherwise true unless every order it already holds is strictly less than
// the requested order.
func (p *orderedPolicy) normalRules(order int) bool {
	if order == 0 {
		return true
	}
	if p.unorderedHoldings > 0 {
		return true
	}
	if len(p.orderedHoldings) > 0 && p.maxOrder() >= order {
		return true
	}
	return false
}

func (p *orderedPolicy) relaxed(d *lockData) lockData {
	relaxed := *d
	if !p.normalRules(d.order) {
		relaxed.lockOut = false
		relaxed.mustBlock = false
	}
	return relaxed
}

func (p *orderedPolicy) test(d *lockData) bool {
	relaxed := p.relaxed(d)
	return p.inner.test(&relaxed)
}

func (p *orderedPolicy) register(d *lockData) bool {
	relaxed := p.relaxed(d)
	if !p.inner.register(&relaxed) {
		return false
	}
	if d.order == 0 {
		p.unorderedHoldings++
	} else {
		p.orderedHoldings[d.order] = struct{}{}
	}
	return true
}

func (p *orderedPolicy) release(mode Mode, order int) {
	if order == 0 {
		assertInvariant(p.unorderedHoldings > 0, "orderedPolicy: unordered release with none held")
		p.unorderedHoldings--
	} else {
		_, ok := p.orderedHoldings[order]
		assertInvariant(ok, "orderedPolicy: release of order %d not held", order)
		delete(p.orderedHoldings, order)
	}
	p.inner.release(mode, order)
}

// orderAllowed always returns true: an ordered Authorization can be
// presented to both ordered and plain locks, deferring to the wrapped
// policy for the order==0 case.
func (p *orderedPolicy) orderAllowed(int) bool { return true }

func (p *orderedPolicy) readingCount() int64 { return p.inner.readingCount() }
func (p *orderedPolicy) writingCount() int64 { return p.inner.writingCount() }
