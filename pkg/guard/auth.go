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

import "github.com/wardenlock/warden/pkg/guard/internal/syncutil"

// PolicyKind selects which deadlock-prevention policy an Authorization
// enforces. It should match the kind of lock the Authorization is presented
// to: the pairing is not checked, so a mismatched policy judges the lock's
// requests by its own predicates and may grant or deny them.
type PolicyKind int

const (
	// PolicySharedExclusive matches SharedExclusive locks: any number of
	// reads, at most one write, tracked separately.
	PolicySharedExclusive PolicyKind = iota
	// PolicySharedOnly matches SharedOnly locks: reads only, never blocks.
	PolicySharedOnly
	// PolicyExclusiveOnly matches ExclusiveOnly locks: every grant,
	// read or write, is tracked as a single exclusive holding.
	PolicyExclusiveOnly
	// PolicyUntracked matches Untracked locks: like
	// PolicyExclusiveOnly, but the lock never reports its true state,
	// so the policy must always assume contention.
	PolicyUntracked
	// PolicyBroken matches Broken locks: never grants anything.
	PolicyBroken
)

// policy is the register-or-test protocol an Authorization's PolicyKind
// implements. register and test must never be called while any Lock's own
// internal mutex is held by the calling goroutine other than the one the
// request concerns, since a policy is free to consult and mutate its own
// state synchronously.
type policy interface {
	// register performs test's check and, if it passes, records the
	// holding. It returns whether the holding was granted.
	register(d *lockData) bool
	// test performs the same check as register without recording
	// anything.
	test(d *lockData) bool
	// release gives back a holding previously recorded by register.
	release(mode Mode, order int)
	// orderAllowed reports whether this policy understands locks carrying
	// the given decorator order. Every base policy only understands
	// order == 0; only the Ordered decorator policy understands order > 0.
	orderAllowed(order int) bool
	// readingCount and writingCount expose the policy's own bookkeeping
	// for diagnostics and tests.
	readingCount() int64
	writingCount() int64
}

// Authorization is per-goroutine deadlock-prevention state. A single
// Authorization must never be shared between goroutines that might acquire
// locks concurrently: its bookkeeping assumes serialized access, which the
// mutex below only exists to make safe against accidental sharing rather
// than to support it.
type Authorization struct {
	mu   syncutil.Mutex
	kind PolicyKind
	p    policy
}

// NewAuthorization creates an Authorization enforcing the named policy.
// Present it to Container/Lock operations on containers of the matching
// lock kind. The kind is not checked against the lock: a mismatched kind is
// simply judged by this policy's own predicates, and only an order != 0
// (an Ordered lock) is refused outright, via orderAllowed.
func NewAuthorization(kind PolicyKind) *Authorization {
	return &Authorization{kind: kind, p: newPolicy(kind)}
}

// NewOrderedAuthorization wraps kind's usual policy with order tracking, for
// use against locks built with NewOrdered.
func NewOrderedAuthorization(kind PolicyKind) *Authorization {
	return &Authorization{kind: kind, p: newOrderedPolicy(newPolicy(kind))}
}

func newPolicy(kind PolicyKind) policy {
	switch kind {
	case PolicySharedExclusive:
		return &rwPolicy{}
	case PolicySharedOnly:
		return &rPolicy{}
	case PolicyExclusiveOnly:
		return &exclusivePolicy{}
	case PolicyUntracked:
		return &untrackedPolicy{}
	case PolicyBroken:
		return &brokenPolicy{}
	default:
		return &brokenPolicy{}
	}
}

// Kind reports the policy kind this Authorization enforces.
func (a *Authorization) Kind() PolicyKind {
	return a.kind
}

// ReadingCount reports how many read grants this Authorization currently
// holds across every lock it has been presented to.
func (a *Authorization) ReadingCount() int64 {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.p.readingCount()
}

// WritingCount reports how many write grants this Authorization currently
// holds across every lock it has been presented to.
func (a *Authorization) WritingCount() int64 {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.p.writingCount()
}

// GuessReadAllowed predicts, without side effects, whether a read
// acquisition against a lock in the given state would currently be
// authorized. It is a diagnostic; the actual acquisition can still race
// against other goroutines and see a different answer.
func (a *Authorization) GuessReadAllowed(lockOut, mustBlock bool, order int) bool {
	if a == nil {
		return true
	}
	d := lockData{mode: ModeRead, blocking: true, lockOut: lockOut, mustBlock: mustBlock, order: order}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.p.orderAllowed(order) {
		return false
	}
	return a.p.test(&d)
}

// GuessWriteAllowed is GuessReadAllowed for write acquisitions.
func (a *Authorization) GuessWriteAllowed(lockOut, mustBlock bool, order int) bool {
	if a == nil {
		return true
	}
	d := lockData{mode: ModeWrite, blocking: true, lockOut: lockOut, mustBlock: mustBlock, order: order}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.p.orderAllowed(order) {
		return false
	}
	return a.p.test(&d)
}

// registerOrTest is the combined step a Lock uses to consult this
// Authorization before touching its own state. When testOnly is true it
// only tests, leaving the Authorization's bookkeeping untouched - this is
// how a meta-lock's shared grant rides along a container acquisition
// without counting against a MultiReadOneWrite authorization's one-write
// budget.
func (a *Authorization) registerOrTest(d *lockData, testOnly bool) bool {
	if a == nil {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.p.orderAllowed(d.order) {
		return false
	}
	if testOnly {
		return a.p.test(d)
	}
	return a.p.register(d)
}

// releaseAuth balances a prior successful registerOrTest call made with
// testOnly == false.
func (a *Authorization) releaseAuth(mode Mode, order int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.p.release(mode, order)
}
