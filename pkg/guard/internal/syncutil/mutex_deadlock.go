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

//go:build deadlock

// Package syncutil supplies the mutex type that every lock kind in
// pkg/guard builds its internal state machine on. With -tags=deadlock
// it swaps in github.com/sasha-s/go-deadlock so that a lock kind's own
// internal mutex is checked for cross-goroutine lock-order cycles,
// independent of and in addition to the deadlock-prevention that the
// authorization objects perform at the guard-policy level.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled is true if the deadlock detector is enabled.
const DeadlockEnabled = true

func init() {
	deadlock.Opts.DeadlockTimeout = 30 * time.Second
}

// A Mutex is the internal mutual-exclusion primitive backing a lock kind's
// own state machine. It is never exposed to callers of pkg/guard.
type Mutex struct {
	deadlock.Mutex
}
