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

func TestCopyContainer_Plain(t *testing.T) {
	t.Parallel()

	src := NewContainer(9, NewSharedExclusive())
	dst := NewContainer(0, NewSharedExclusive())

	require.True(t, CopyContainer(dst, src))

	p, ok := dst.TryGetRead(nil)
	require.True(t, ok)
	assert.Equal(t, 9, *p.Get())
	p.Release()
}

func TestTryCopyContainer_SharedAuthorization(t *testing.T) {
	t.Parallel()

	src := NewContainer("a", NewSharedExclusive())
	dst := NewContainer("b", NewSharedExclusive())
	auth := NewAuthorization(PolicySharedExclusive)

	require.True(t, TryCopyContainer(dst, src, auth, true))

	p, ok := dst.GetRead(auth, true)
	require.True(t, ok)
	assert.Equal(t, "a", *p.Get())
	p.Release()
}

func TestTryCopyContainerMulti_BracketsMetaLock(t *testing.T) {
	t.Parallel()

	meta := NewMetaLock()
	src := NewContainerWithMeta(1, NewSharedExclusive(), meta)
	dst := NewContainerWithMeta(0, NewSharedExclusive(), meta)
	auth := NewAuthorization(PolicySharedExclusive)

	require.True(t, TryCopyContainerMulti(dst, src, auth, meta, true))

	p, ok := dst.GetRead(auth, true)
	require.True(t, ok)
	assert.Equal(t, 1, *p.Get())
	p.Release()
}

// TestTryCopyContainerMulti_WorksWithoutSharedConstructionMeta verifies
// TryCopyContainerMulti brackets its pair of acquisitions using the meta
// argument passed to it, not whatever MetaLock (if any) src and dst were
// built with. Neither container here carries a construction-time meta at
// all, yet the copy must still be excluded while an unrelated goroutine
// holds the passed-in meta exclusively.
func TestTryCopyContainerMulti_WorksWithoutSharedConstructionMeta(t *testing.T) {
	t.Parallel()

	meta := NewMetaLock()
	src := NewContainer(3, NewSharedExclusive())
	dst := NewContainer(0, NewSharedExclusive())
	auth := NewAuthorization(PolicySharedExclusive)

	blockerAuth := NewAuthorization(PolicySharedExclusive)
	metaProxy, ok := meta.Lock(blockerAuth, true)
	require.True(t, ok)

	assert.False(t, TryCopyContainerMulti(dst, src, auth, meta, false), "copy must be excluded while an unrelated goroutine holds the passed-in meta exclusively")

	metaProxy.Release()

	require.True(t, TryCopyContainerMulti(dst, src, auth, meta, true))

	p, ok := dst.GetRead(auth, true)
	require.True(t, ok)
	assert.Equal(t, 3, *p.Get())
	p.Release()
}

// TestTryCopyContainer_OppositeDirectionsNeverDeadlock pins down spec.md
// §4.6's ordering rule: two concurrent copies between the same pair of
// Ordered containers, named in opposite dst/src roles, must both always
// acquire the lower-order container first. If TryCopyContainer instead
// acquired src then dst regardless of Order(), one direction would acquire
// the pair descending while the other acquired it ascending, the exact
// mismatch the Ordered decorator's discipline exists to rule out.
func TestTryCopyContainer_OppositeDirectionsNeverDeadlock(t *testing.T) {
	t.Parallel()

	low := NewContainer(1, NewOrdered(NewSharedExclusive(), 1))
	high := NewContainer(2, NewOrdered(NewSharedExclusive(), 2))

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		auth := NewOrderedAuthorization(PolicySharedExclusive)
		for i := 0; i < rounds; i++ {
			for !TryCopyContainer(low, high, auth, true) {
			}
		}
	}()
	go func() {
		defer wg.Done()
		auth := NewOrderedAuthorization(PolicySharedExclusive)
		for i := 0; i < rounds; i++ {
			for !TryCopyContainer(high, low, auth, true) {
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite-direction copies deadlocked or livelocked past the timeout")
	}
}

func TestTryCopyContainer_DeniedRollsBackSourceRead(t *testing.T) {
	t.Parallel()

	src := NewContainer(1, NewSharedExclusive())
	dst := NewContainer(0, NewSharedExclusive())
	dstAuth := NewAuthorization(PolicySharedExclusive)
	blocker, ok := dst.GetWrite(dstAuth, true)
	require.True(t, ok)
	defer blocker.Release()

	copyAuth := NewAuthorization(PolicySharedExclusive)
	assert.False(t, TryCopyContainer(dst, src, copyAuth, false))

	// The source read must have been rolled back; a competing writer
	// should now be able to take it.
	otherAuth := NewAuthorization(PolicySharedExclusive)
	wp, ok := src.TryGetWrite(otherAuth)
	assert.True(t, ok)
	wp.Release()
}
