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
)

// TestDiningPhilosophers_FiveNeverDeadlocks is the unit-scale version of
// the scenario cmd/dining drives at CLI scale: five philosophers, five
// forks (ExclusiveOnly containers), each philosopher picking up its left
// fork then its right fork under a PolicyExclusiveOnly authorization.
// Deadlock prevention denies the second pickup whenever it would have to
// block while the philosopher already holds one fork, so every
// philosopher backs off, releases, and retries rather than the classic
// hold-and-wait cycle.
func TestDiningPhilosophers_FiveNeverDeadlocks(t *testing.T) {
	t.Parallel()

	const n = 5
	const meals = 20

	forks := make([]*Container[struct{}], n)
	for i := range forks {
		forks[i] = NewContainer(struct{}{}, NewExclusiveOnly())
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(seat int) {
			defer wg.Done()
			left := forks[seat]
			right := forks[(seat+1)%n]
			auth := left.NewAuthorization()

			for eaten := 0; eaten < meals; {
				lp, ok := left.TryGetWrite(auth)
				if !ok {
					continue
				}
				rp, ok := right.TryGetWrite(auth)
				if !ok {
					lp.Release()
					continue
				}
				eaten++
				rp.Release()
				lp.Release()
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("dining philosophers deadlocked or starved past the timeout")
	}
}
