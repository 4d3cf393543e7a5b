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

// Command graphdemo builds a small cyclic graph out of guard.Container
// nodes, connects them into a ring (deliberately creating a reference
// cycle through the Out/In edge maps), prints it with a breadth-first
// walk taken under the graph's MetaLock, then tears it down explicitly.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wardenlock/warden/pkg/guard"
	"github.com/wardenlock/warden/pkg/harness"
)

func main() {
	size := flag.Int("size", 6, "number of nodes in the ring")
	verbose := flag.Bool("verbose", false, "debug-level logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	harness.InitLogging(level, zerolog.ConsoleWriter{Out: os.Stderr})

	if *size <= 0 {
		log.Error().Int("size", *size).Msg("ring size must be positive")
		os.Exit(int(harness.ExitBadArgs))
	}

	os.Exit(int(buildAndWalk(*size)))
}

func buildAndWalk(size int) harness.ExitCode {
	g := NewGraph()
	auth := g.NewAuthorization()

	ids := make([]string, size)
	for i := 0; i < size; i++ {
		ids[i] = ringID(i)
		if _, ok := g.AddNode(auth, ids[i]); !ok {
			log.Error().Str("node", ids[i]).Msg("failed to add node")
			return harness.ExitLogicErr
		}
	}

	for i := 0; i < size; i++ {
		from, ok := g.FindNode(auth, ids[i])
		if !ok {
			return harness.ExitLogicErr
		}
		to, ok := g.FindNode(auth, ids[(i+1)%size])
		if !ok {
			return harness.ExitLogicErr
		}
		if !g.ConnectNodes(auth, from, to, false) {
			log.Error().Str("from", ids[i]).Str("to", ids[(i+1)%size]).Msg("failed to connect nodes")
			return harness.ExitLogicErr
		}
	}

	if !printGraph(g, auth, ids[0]) {
		log.Error().Msg("failed to walk graph")
		return harness.ExitLogicErr
	}

	if !g.Close(auth) {
		log.Error().Msg("failed to close graph")
		return harness.ExitLogicErr
	}

	log.Info().Int("size", size).Msg("ring graph built, walked, and torn down")
	return harness.ExitSuccess
}

func ringID(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return string(letters[i])
	}
	return string(rune('a' + i%26))
}

// printGraph walks the graph breadth-first from start, holding the
// MetaLock exclusively for the duration so no concurrent multi-lock
// operation can rearrange edges mid-walk.
func printGraph(g *Graph, auth *guard.Authorization, start string) bool {
	mp, ok := g.meta.Lock(auth, true)
	if !ok {
		return false
	}
	defer mp.Release()

	head, ok := g.FindNode(auth, start)
	if !ok {
		return false
	}

	visited := map[string]bool{start: true}
	queue := []*guard.Container[Node]{head}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		rp, ok := current.GetRead(auth, true)
		if !ok {
			return false
		}
		id := rp.Get().ID
		edges := make([]*guard.Container[Node], 0, len(rp.Get().Out))
		for _, next := range rp.Get().Out {
			edges = append(edges, next)
		}
		rp.Release()

		log.Info().Str("node", id).Int("out_degree", len(edges)).Msg("visited")

		for _, next := range edges {
			nrp, ok := next.GetRead(auth, true)
			if !ok {
				return false
			}
			nextID := nrp.Get().ID
			nrp.Release()
			if !visited[nextID] {
				visited[nextID] = true
				queue = append(queue, next)
			}
		}
	}

	return true
}
