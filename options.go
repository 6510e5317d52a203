// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package treedict

import (
	"math/bits"

	"golang.org/x/exp/rand"
)

// option provide an interface to do work on Dict while it is being created.
type option[K, V any] interface {
	apply(d *Dict[K, V])
}

type initialSlotsOption[K, V any] struct {
	n int
}

func (op initialSlotsOption[K, V]) apply(d *Dict[K, V]) {
	d.l2Slots = 0
	if op.n > 1 {
		d.l2Slots = uint(bits.Len(uint(op.n - 1)))
	}
}

// WithInitialSlots is an option to specify the initial number of slots of a
// Dict[K,V]. The count is rounded up to a power of two. The default is 4.
func WithInitialSlots[K, V any](n int) option[K, V] {
	return initialSlotsOption[K, V]{n}
}

type randOption[K, V any] struct {
	rng *rand.Rand
}

func (op randOption[K, V]) apply(d *Dict[K, V]) {
	d.rng = op.rng
}

// WithRand is an option to specify the source of randomness used to schedule
// and steer rebalancing. Supplying a seeded source makes the shape of every
// tree, and therefore iteration order and dumps, reproducible.
func WithRand[K, V any](rng *rand.Rand) option[K, V] {
	return randOption[K, V]{rng}
}

type rehashLockedOption[K, V any] struct {
	locked bool
}

func (op rehashLockedOption[K, V]) apply(d *Dict[K, V]) {
	d.rehashLocked = op.locked
}

// WithRehashLocked is an option to create a Dict whose slot table never grows
// on its own. See Dict.LockRehash.
func WithRehashLocked[K, V any](locked bool) option[K, V] {
	return rehashLockedOption[K, V]{locked}
}

type rebalanceLockedOption[K, V any] struct {
	locked bool
}

func (op rebalanceLockedOption[K, V]) apply(d *Dict[K, V]) {
	d.rebalanceLocked = op.locked
}

// WithRebalanceLocked is an option to create a Dict that never rotates its
// bucket trees. See Dict.LockRebalance.
func WithRebalanceLocked[K, V any](locked bool) option[K, V] {
	return rebalanceLockedOption[K, V]{locked}
}
