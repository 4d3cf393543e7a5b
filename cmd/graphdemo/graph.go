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

package main

import (
	"sync/atomic"

	"github.com/wardenlock/warden/pkg/guard"
)

// Node is a single graph vertex. Both edge tables are only safe to touch
// while holding a write proxy on the Node's own Container — reaching a
// Node through a shared pointer costs nothing, but reading or mutating its
// edges always goes through the guard.
type Node struct {
	ID  string
	Out map[string]*guard.Container[Node]
	In  map[string]*guard.Container[Node]
}

func newNode(id string) Node {
	return Node{ID: id, Out: make(map[string]*guard.Container[Node]), In: make(map[string]*guard.Container[Node])}
}

// Graph owns a table of node containers plus the MetaLock every node
// shares, so that whole-graph operations (insert, erase, teardown) can lock
// out normal per-node traffic, while ordinary edge edits between two nodes
// rely on the nodes' own Ordered locks and only ride the MetaLock shared,
// like every other node acquisition.
type Graph struct {
	meta      *guard.MetaLock
	table     *guard.Container[map[string]*guard.Container[Node]]
	nextOrder atomic.Int64
}

// NewGraph builds an empty graph. The node table itself carries order 1;
// every node added afterward gets a strictly higher order, so a thread that
// holds the table write proxy can still safely take a node write without
// violating the ordered-lock rule.
func NewGraph() *Graph {
	meta := guard.NewMetaLock()
	table := guard.NewContainerWithMeta(
		make(map[string]*guard.Container[Node]),
		guard.NewOrdered(guard.NewSharedExclusive(), 1),
		meta,
	)
	g := &Graph{meta: meta, table: table}
	g.nextOrder.Store(1)
	return g
}

// NewAuthorization builds an Authorization suitable for every operation on
// g: SharedExclusive policy, ordered, matching the table and node locks.
func (g *Graph) NewAuthorization() *guard.Authorization {
	return g.table.NewAuthorization()
}

// AddNode inserts a fresh node under id and returns its container. Returns
// false if the table couldn't be locked (should only happen under a
// concurrent Close).
func (g *Graph) AddNode(auth *guard.Authorization, id string) (*guard.Container[Node], bool) {
	order := int(g.nextOrder.Add(1))
	container := guard.NewContainerWithMeta(newNode(id), guard.NewOrdered(guard.NewSharedExclusive(), order), g.meta)

	proxy, ok := g.table.GetWrite(auth, true)
	if !ok {
		return nil, false
	}
	defer proxy.Release()
	(*proxy.Get())[id] = container
	return container, true
}

// FindNode looks up a node by id without needing to know anything about the
// rest of the graph.
func (g *Graph) FindNode(auth *guard.Authorization, id string) (*guard.Container[Node], bool) {
	proxy, ok := g.table.GetRead(auth, true)
	if !ok {
		return nil, false
	}
	defer proxy.Release()
	c, found := (*proxy.Get())[id]
	return c, found
}

// ConnectNodes adds a directed edge from left to right, taking write
// proxies on both node containers in ascending order. When tryMulti is
// true the operation first takes the MetaLock exclusively, giving it
// priority over every other multi-lock in flight; when false it relies on
// the nodes' Ordered locks taken in ascending order, riding the MetaLock
// shared, so it still waits while another goroutine holds the MetaLock
// exclusively.
func (g *Graph) ConnectNodes(auth *guard.Authorization, left, right *guard.Container[Node], tryMulti bool) bool {
	if tryMulti {
		mp, ok := g.meta.Lock(auth, true)
		if !ok {
			return false
		}
		defer mp.Release()
	}

	writeLeft, writeRight, ok := getTwoWrites(auth, left, right)
	if !ok {
		return false
	}
	defer writeLeft.Release()
	defer writeRight.Release()

	writeLeft.Get().Out[writeRight.Get().ID] = right
	writeRight.Get().In[writeLeft.Get().ID] = left
	return true
}

// getTwoWrites locks left and right for write in ascending Container.Order,
// exactly as the ordered-lock decorator requires to grant a strictly
// increasing pair without spurious denial.
func getTwoWrites(auth *guard.Authorization, left, right *guard.Container[Node]) (guard.Proxy[Node], guard.Proxy[Node], bool) {
	first, second := left, right
	swapped := false
	if left.Order() > right.Order() {
		first, second = right, left
		swapped = true
	}

	p1, ok := first.GetWrite(auth, true)
	if !ok {
		return guard.Proxy[Node]{}, guard.Proxy[Node]{}, false
	}
	p2, ok := second.GetWrite(auth, true)
	if !ok {
		p1.Release()
		return guard.Proxy[Node]{}, guard.Proxy[Node]{}, false
	}

	if swapped {
		return p2, p1, true
	}
	return p1, p2, true
}

// Close breaks every node's edges before dropping the table, avoiding a
// reference cycle between Out and In maps. This is the caller's
// responsibility, not the guard package's: Container never tears down its
// own value.
func (g *Graph) Close(auth *guard.Authorization) bool {
	mp, ok := g.meta.Lock(auth, true)
	if !ok {
		return false
	}
	defer mp.Release()

	proxy, ok := g.table.GetWrite(auth, true)
	if !ok {
		return false
	}
	defer proxy.Release()

	for _, c := range *proxy.Get() {
		// Every other acquisition rides the MetaLock in shared test mode, so
		// holding it exclusively here guarantees this write never blocks.
		wp, ok := c.GetWrite(auth, true)
		if !ok {
			continue
		}
		wp.Get().Out = nil
		wp.Get().In = nil
		wp.Release()
	}
	*proxy.Get() = make(map[string]*guard.Container[Node])
	return true
}
