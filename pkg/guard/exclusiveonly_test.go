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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusiveOnly_CollapsesReadAndWrite(t *testing.T) {
	t.Parallel()

	lock := NewExclusiveOnly()
	auth := NewAuthorization(PolicyExclusiveOnly)

	_, ok := lock.Acquire(auth, ModeRead, true, false)
	require.True(t, ok)
	assert.Equal(t, int64(1), auth.WritingCount(), "ExclusiveOnly must track a read grant as a write holding")
	assert.Equal(t, int64(0), auth.ReadingCount())

	_, ok = lock.Acquire(auth, ModeWrite, false, false)
	assert.False(t, ok, "no reentrant holding: a second acquisition is refused while the first is held")

	assert.True(t, lock.Release(auth, ModeRead, false))
}

func TestUntracked_AlwaysReportsInUse(t *testing.T) {
	t.Parallel()

	lock := NewUntracked()
	auth := NewAuthorization(PolicyUntracked)

	_, ok := lock.Acquire(auth, ModeWrite, true, false)
	require.True(t, ok)

	other := NewAuthorization(PolicyUntracked)
	_, ok = lock.Acquire(other, ModeRead, false, false)
	assert.False(t, ok)

	assert.True(t, lock.Release(auth, ModeWrite, false))

	_, ok = lock.Acquire(other, ModeRead, true, false)
	assert.True(t, ok)
	assert.True(t, lock.Release(other, ModeRead, false))
}

func TestSharedOnly_NeverBlocksRejectsWrite(t *testing.T) {
	t.Parallel()

	lock := NewSharedOnly()
	auth := NewAuthorization(PolicySharedOnly)

	n, ok := lock.Acquire(auth, ModeRead, true, false)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = lock.Acquire(auth, ModeWrite, true, false)
	assert.False(t, ok, "SharedOnly must reject every exclusive attempt")

	second := NewAuthorization(PolicySharedOnly)
	n2, ok := lock.Acquire(second, ModeRead, false, false)
	require.True(t, ok)
	assert.Equal(t, 2, n2)

	assert.True(t, lock.Release(auth, ModeRead, false))
	assert.True(t, lock.Release(second, ModeRead, false))
}

func TestBroken_NeverGrants(t *testing.T) {
	t.Parallel()

	lock := NewBroken()
	auth := NewAuthorization(PolicyBroken)

	_, ok := lock.Acquire(auth, ModeRead, true, false)
	assert.False(t, ok)
	_, ok = lock.Acquire(auth, ModeWrite, false, false)
	assert.False(t, ok)
}

// TestBroken_MismatchedAuthorizationLeavesNoPhantomHolding presents a
// Broken lock with an Authorization built for a different policy - the
// combination Container.policyKindOf would never produce on its own, but
// Acquire must still refuse to leak a holding into it when the mismatched
// policy would otherwise have granted the registration.
func TestBroken_MismatchedAuthorizationLeavesNoPhantomHolding(t *testing.T) {
	t.Parallel()

	lock := NewBroken()
	auth := NewAuthorization(PolicySharedExclusive)

	_, ok := lock.Acquire(auth, ModeWrite, false, false)
	assert.False(t, ok)
	assert.Equal(t, int64(0), auth.WritingCount())

	_, ok = lock.Acquire(auth, ModeRead, false, false)
	assert.False(t, ok)
	assert.Equal(t, int64(0), auth.ReadingCount())
}
