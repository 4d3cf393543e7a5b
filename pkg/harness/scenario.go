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

package harness

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/wardenlock/warden/pkg/guard"
)

// LockingMethod selects how cmd/dining's philosophers coordinate.
type LockingMethod string

const (
	MethodUnsafe  LockingMethod = "unsafe"
	MethodAuth    LockingMethod = "auth"
	MethodMulti   LockingMethod = "multi"
	MethodOrdered LockingMethod = "ordered"
)

// LockKindName selects the guard.Lock implementation backing each fork.
type LockKindName string

const (
	LockSharedExclusive LockKindName = "shared-exclusive"
	LockExclusiveOnly   LockKindName = "exclusive-only"
	LockUntracked       LockKindName = "untracked"
)

// Scenario describes one run of the dining-philosophers harness, either
// built from flags or decoded from a TOML file.
type Scenario struct {
	Threads         int           `toml:"threads"`
	Method          LockingMethod `toml:"method"`
	AttemptDeadlock bool          `toml:"attempt_deadlock"`
	LockKind        LockKindName  `toml:"lock_kind"`
	AuthKind        int           `toml:"auth_kind"`
	TimeoutSeconds  int           `toml:"timeout_seconds"`
}

// Validate checks a decoded or flag-built Scenario for the constraints
// LoadScenario and cmd/dining both need enforced before starting any
// goroutines.
func (s *Scenario) Validate() error {
	if s.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", s.Threads)
	}
	switch s.Method {
	case MethodUnsafe, MethodAuth, MethodMulti, MethodOrdered:
	default:
		return fmt.Errorf("unknown locking method %q", s.Method)
	}
	switch s.LockKind {
	case LockSharedExclusive, LockExclusiveOnly, LockUntracked:
	default:
		return fmt.Errorf("unknown lock kind %q", s.LockKind)
	}
	if s.AuthKind < 0 || s.AuthKind > 3 {
		return fmt.Errorf("auth kind must be in [0,3], got %d", s.AuthKind)
	}
	if s.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout seconds must not be negative, got %d", s.TimeoutSeconds)
	}
	return nil
}

// NewLock builds the guard.Lock this scenario's LockKind names, wrapping it
// in an ordered decorator when Method is MethodOrdered.
func (s *Scenario) NewLock(order int) guard.Lock {
	var base guard.Lock
	switch s.LockKind {
	case LockExclusiveOnly:
		base = guard.NewExclusiveOnly()
	case LockUntracked:
		base = guard.NewUntracked()
	case LockSharedExclusive:
		fallthrough
	default:
		base = guard.NewSharedExclusive()
	}
	if s.Method == MethodOrdered {
		return guard.NewOrdered(base, order)
	}
	return base
}

// PolicyKind maps AuthKind's 0..3 enumeration onto the guard package's
// authorization policies.
func (s *Scenario) PolicyKind() guard.PolicyKind {
	switch s.AuthKind {
	case 1:
		return guard.PolicySharedOnly
	case 2:
		return guard.PolicyExclusiveOnly
	case 3:
		return guard.PolicyUntracked
	case 0:
		fallthrough
	default:
		return guard.PolicySharedExclusive
	}
}

// LoadScenario decodes and validates a TOML scenario file from fs. A
// missing path is reported as ErrScenarioNotFound, which callers should
// treat as ExitBadArgs (the caller named a path that isn't there); every
// other failure - unreadable file, malformed TOML, an invalid Scenario -
// is wrapped without that sentinel and should be treated as ExitSystemErr
// or logged and inspected directly.
func LoadScenario(fs afero.Fs, path string) (*Scenario, error) {
	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// ErrScenarioNotFound wraps LoadScenario's error when path does not exist,
// distinguishing it from a malformed or unreadable file for exit-code
// purposes.
var ErrScenarioNotFound = errors.New("scenario file not found")
