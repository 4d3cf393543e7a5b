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

// Command dining drives the dining-philosophers scenario against the
// guard package's lock kinds, the way spec.md's harness section describes:
// pick N philosophers, each grabbing a left then a right fork, under a
// selectable coordination method, and report which of the exit codes in
// pkg/harness the run ended with.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/wardenlock/warden/pkg/guard"
	"github.com/wardenlock/warden/pkg/harness"
)

func main() {
	os.Exit(int(run()))
}

func run() harness.ExitCode {
	threads := flag.Int("threads", 5, "number of philosophers")
	method := flag.String("method", "auth", "locking method: unsafe|auth|multi|ordered")
	deadlock := flag.Bool("deadlock", false, "attempt to provoke a deadlock (unsafe method only)")
	lockKind := flag.String("lock-kind", "shared-exclusive", "fork lock kind: shared-exclusive|exclusive-only|untracked")
	authKind := flag.Int("auth-kind", 0, "authorization policy, 0..3")
	timeoutSec := flag.Int("timeout", 5, "run timeout in seconds")
	scenarioPath := flag.String("scenario", "", "optional TOML scenario file, overrides the flags above")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	harness.InitLogging(level, zerolog.ConsoleWriter{Out: os.Stderr})

	scn := &harness.Scenario{
		Threads:         *threads,
		Method:          harness.LockingMethod(*method),
		AttemptDeadlock: *deadlock,
		LockKind:        harness.LockKindName(*lockKind),
		AuthKind:        *authKind,
		TimeoutSeconds:  *timeoutSec,
	}

	if *scenarioPath != "" {
		loaded, err := harness.LoadScenario(afero.NewOsFs(), *scenarioPath)
		if err != nil {
			log.Error().Err(err).Str("path", *scenarioPath).Msg("failed to load scenario file")
			if errors.Is(err, harness.ErrScenarioNotFound) {
				return harness.ExitBadArgs
			}
			return harness.ExitSystemErr
		}
		scn = loaded
	} else if err := scn.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid scenario flags")
		return harness.ExitBadArgs
	}

	return runDinner(scn)
}

func runDinner(scn *harness.Scenario) harness.ExitCode {
	n := scn.Threads
	meta := guard.NewMetaLock()
	forks := make([]guard.Lock, n)
	for i := range forks {
		forks[i] = scn.NewLock(i + 1)
	}
	containers := make([]*guard.Container[string], n)
	for i, l := range forks {
		containers[i] = guard.NewContainerWithMeta(fmt.Sprintf("fork-%d", i), l, meta)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(scn.TimeoutSeconds)*time.Second)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)

	for seat := 0; seat < n; seat++ {
		seat := seat
		group.Go(func() error {
			id := uuid.New()
			return philosopher(gctx, id, seat, containers, meta, scn)
		})
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- group.Wait() }()

	select {
	case err := <-waitDone:
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Error().Msg("dinner did not finish before the timeout")
				return harness.ExitDeadlockTimeout
			}
			log.Error().Err(err).Msg("a philosopher goroutine failed")
			return harness.ExitThreadErr
		}
		log.Info().Msg("all philosophers finished their meals")
		return harness.ExitSuccess
	case <-ctx.Done():
		log.Error().Msg("dinner did not finish before the timeout")
		return harness.ExitDeadlockTimeout
	}
}

const mealsPerPhilosopher = 10

func philosopher(ctx context.Context, id uuid.UUID, seat int, forks []*guard.Container[string], meta *guard.MetaLock, scn *harness.Scenario) error {
	n := len(forks)
	leftIdx, rightIdx := seat, (seat+1)%n
	switch {
	case scn.Method == harness.MethodOrdered && leftIdx > rightIdx:
		leftIdx, rightIdx = rightIdx, leftIdx
	case scn.Method == harness.MethodUnsafe && !scn.AttemptDeadlock && seat%2 == 1:
		// Without any deadlock-prevention machinery, breaking the symmetric
		// pickup order on alternating seats is the only thing standing
		// between this method and a guaranteed circular wait.
		leftIdx, rightIdx = rightIdx, leftIdx
	}
	left, right := forks[leftIdx], forks[rightIdx]

	var auth *guard.Authorization
	if scn.Method != harness.MethodUnsafe {
		if scn.Method == harness.MethodOrdered {
			auth = guard.NewOrderedAuthorization(scn.PolicyKind())
		} else {
			auth = guard.NewAuthorization(scn.PolicyKind())
		}
	}

	eaten := 0
	for eaten < mealsPerPhilosopher {
		select {
		case <-ctx.Done():
			return fmt.Errorf("philosopher %s (seat %d): %w", id, seat, ctx.Err())
		default:
		}

		switch scn.Method {
		case harness.MethodMulti:
			mp, ok := meta.Lock(auth, true)
			if !ok {
				continue
			}
			lp, ok := left.GetWriteMulti(meta, auth, true)
			if !ok {
				panic("dining: fork denied under exclusive meta-lock, serialization invariant broken")
			}
			rp, ok := right.GetWriteMulti(meta, auth, true)
			if !ok {
				panic("dining: fork denied under exclusive meta-lock, serialization invariant broken")
			}
			eaten++
			rp.Release()
			lp.Release()
			mp.Release()
		default: // unsafe, auth, ordered
			lp, ok := left.GetWrite(auth, true)
			if !ok {
				continue
			}
			if scn.Method == harness.MethodUnsafe && scn.AttemptDeadlock {
				// Holding the left fork for a moment lets every other
				// philosopher pick up theirs before anyone reaches right.
				time.Sleep(100 * time.Millisecond)
			}
			rp, ok := right.GetWrite(auth, true)
			if !ok {
				log.Debug().Str("philosopher", id.String()).Int("seat", seat).Msg("denied right fork, backing off")
				lp.Release()
				continue
			}
			eaten++
			rp.Release()
			lp.Release()
		}
	}

	log.Debug().Str("philosopher", id.String()).Int("seat", seat).Msg("finished eating")
	return nil
}
