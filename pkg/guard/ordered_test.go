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

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOrdered_RelaxesForStrictlyIncreasingOrder pins the core ordered-policy
// rule directly against contention that a real, uncontended lock could
// never exhibit: an authorization already holding order 2 is still
// authorized against a hypothetical busy order-3 lock, but refused against
// an equally busy order-1 lock.
func TestOrdered_RelaxesForStrictlyIncreasingOrder(t *testing.T) {
	t.Parallel()

	lockA := NewOrdered(NewSharedExclusive(), 2)
	auth := NewOrderedAuthorization(PolicySharedExclusive)

	_, ok := lockA.Acquire(auth, ModeWrite, true, false)
	require.True(t, ok)

	assert.True(t, auth.GuessWriteAllowed(true, true, 3),
		"a strictly higher order must be exempt from lockOut/mustBlock denial")
	assert.False(t, auth.GuessWriteAllowed(true, true, 1),
		"an order not strictly higher than what's held must follow normal rules")
	assert.False(t, auth.GuessWriteAllowed(true, true, 2),
		"the held order itself is not strictly higher than itself")

	assert.True(t, lockA.Release(auth, ModeWrite, false))
}

func TestOrdered_GrantsUncontendedNonIncreasingOrder(t *testing.T) {
	t.Parallel()

	lockA := NewOrdered(NewSharedExclusive(), 2)
	lockB := NewOrdered(NewSharedExclusive(), 1)
	auth := NewOrderedAuthorization(PolicySharedExclusive)

	_, ok := lockA.Acquire(auth, ModeWrite, true, false)
	require.True(t, ok)

	// lockB is uncontended, so mustBlock/lockOut are both false regardless
	// of ordering; deadlock prevention only ever refuses a request against
	// a lock that is actually busy.
	_, ok = lockB.Acquire(auth, ModeWrite, false, false)
	assert.True(t, ok, "acquiring an uncontended lock is never refused, in any order")
	assert.True(t, lockB.Release(auth, ModeWrite, false))

	assert.True(t, lockA.Release(auth, ModeWrite, false))
}

func TestOrdered_PlainAuthorizationRefusesOrderedLock(t *testing.T) {
	t.Parallel()

	lock := NewOrdered(NewSharedExclusive(), 1)
	auth := NewAuthorization(PolicySharedExclusive)

	_, ok := lock.Acquire(auth, ModeWrite, true, false)
	assert.False(t, ok, "a plain authorization does not understand order != 0")
}

// TestOrdered_FiveContainerRace exercises five ordered locks acquired by
// many goroutines each in increasing order (1..5); with strictly increasing
// acquisition, none of them can deadlock against each other regardless of
// how their goroutines interleave.
func TestOrdered_FiveContainerRace(t *testing.T) {
	t.Parallel()

	const n = 5
	locks := make([]*Ordered, n)
	for i := range locks {
		locks[i] = NewOrdered(NewSharedExclusive(), i+1)
	}

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			auth := NewOrderedAuthorization(PolicySharedExclusive)
			held := make([]*Ordered, 0, n)
			for _, l := range locks {
				if _, ok := l.Acquire(auth, ModeWrite, true, false); ok {
					held = append(held, l)
				}
			}
			for i := len(held) - 1; i >= 0; i-- {
				held[i].Release(auth, ModeWrite, false)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ordered acquisition in increasing order deadlocked")
	}
}
