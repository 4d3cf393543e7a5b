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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSharedExclusive_ReadThenWriteSameThread pins the deadlock-prevention
// contract: a goroutine that already holds a read on a SharedExclusive
// container must never be granted a write on the same container with a
// PolicySharedExclusive authorization, since granting it non-blockingly
// would silently upgrade a read into a write and blockingly would deadlock
// against itself.
func TestSharedExclusive_ReadThenWriteSameThread(t *testing.T) {
	t.Parallel()

	lock := NewSharedExclusive()
	auth := NewAuthorization(PolicySharedExclusive)

	rCount, ok := lock.Acquire(auth, ModeRead, true, false)
	require.True(t, ok)
	require.Equal(t, 1, rCount)

	_, ok = lock.Acquire(auth, ModeWrite, true, false)
	assert.False(t, ok, "write must be denied while a read is already held")

	assert.True(t, lock.Release(auth, ModeRead, false))
}

// TestSharedExclusive_WriterReads pins the writer-reads exception: the
// current exclusive holder may also take a shared grant on the same lock,
// and both grants are counted against the same Authorization.
func TestSharedExclusive_WriterReads(t *testing.T) {
	t.Parallel()

	lock := NewSharedExclusive()
	auth := NewAuthorization(PolicySharedExclusive)

	_, ok := lock.Acquire(auth, ModeWrite, true, false)
	require.True(t, ok)
	assert.Equal(t, int64(1), auth.WritingCount())

	_, ok = lock.Acquire(auth, ModeRead, true, false)
	require.True(t, ok, "the writer must be able to take a shared grant on its own lock")
	assert.Equal(t, int64(1), auth.ReadingCount())
	assert.Equal(t, int64(1), auth.WritingCount())

	assert.True(t, lock.Release(auth, ModeRead, false))
	assert.True(t, lock.Release(auth, ModeWrite, false))
}

// TestSharedExclusive_WriterPriority verifies a waiting writer blocks new
// readers rather than letting them starve it.
func TestSharedExclusive_WriterPriority(t *testing.T) {
	t.Parallel()

	lock := NewSharedExclusive()
	readerAuth := NewAuthorization(PolicySharedExclusive)
	writerAuth := NewAuthorization(PolicySharedExclusive)
	secondReaderAuth := NewAuthorization(PolicySharedExclusive)

	_, ok := lock.Acquire(readerAuth, ModeRead, true, false)
	require.True(t, ok)

	writerGranted := make(chan struct{})
	go func() {
		_, ok := lock.Acquire(writerAuth, ModeWrite, true, false)
		if ok {
			close(writerGranted)
		}
	}()

	// Give the writer goroutine a chance to register itself as waiting.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		lock.mu.Lock()
		waiting := lock.writersWaiting
		lock.mu.Unlock()
		if waiting > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, ok = lock.Acquire(secondReaderAuth, ModeRead, false, false)
	assert.False(t, ok, "a new reader must not jump ahead of a waiting writer")

	require.True(t, lock.Release(readerAuth, ModeRead, false))

	select {
	case <-writerGranted:
	case <-time.After(2 * time.Second):
		t.Fatal("writer was never granted after the reader released")
	}
	assert.True(t, lock.Release(writerAuth, ModeWrite, false))
}

// TestSharedExclusive_NonBlockingDenied verifies a non-blocking write
// attempt against a held lock is denied without registering anything.
func TestSharedExclusive_NonBlockingDenied(t *testing.T) {
	t.Parallel()

	lock := NewSharedExclusive()
	holder := NewAuthorization(PolicySharedExclusive)
	other := NewAuthorization(PolicySharedExclusive)

	_, ok := lock.Acquire(holder, ModeWrite, true, false)
	require.True(t, ok)

	_, ok = lock.Acquire(other, ModeWrite, false, false)
	assert.False(t, ok)
	assert.Equal(t, int64(0), other.WritingCount(), "a denied non-blocking attempt must not leave a registration behind")

	assert.True(t, lock.Release(holder, ModeWrite, false))
}
