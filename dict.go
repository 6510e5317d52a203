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

// Package treedict implements a hash table whose buckets are binary search
// trees rather than chains or probe sequences.
//
// # Buckets
//
// A Dict has 2^L slots. A key is hashed to 32 bits with its KeyPolicy and the
// hash is folded onto a slot with
//
//	index(h) = (h + h>>L) & (2^L-1)
//
// Folding the high bits down before masking spreads collisions better than a
// plain mask when the low bits of the hash are weak. Each slot holds the root
// of a binary search tree ordered by (hash, key): nodes are ordered by their
// cached hash and the KeyPolicy's Compare is only consulted when two hashes
// are equal. The hash of every entry is cached in its node so that neither
// descent nor resizing has to rehash keys.
//
// # Rebalancing
//
// Trees are not kept in strict balance. Instead, every lookup decrements a
// countdown that is re-armed to a random value in [0, 16) whenever it fires.
// When it fires, the node being visited has the heights of its two subtrees
// estimated by a random walk, and if one side is clearly deeper the node is
// rotated toward the shallower side. A rotation swaps the entry of the node
// with the entry of its deeper child and relinks the grandchildren, so the
// link that points at the node never changes. The result is a statistical,
// amortized bound on tree height that costs nothing in the nodes themselves.
//
// # Growth
//
// Doubling the number of slots halves the expected population of a bucket,
// which shortens each tree by about one level. Every lookup that does not
// terminate at a bucket root is therefore counted as one unit of benefit that
// a resize would have yielded. Resizing costs roughly one descent per entry
// plus a pass over the slots, so the table is doubled once the accumulated
// benefit exceeds the number of entries plus the number of slots, provided
// the table is at least half full:
//
//	rehashBenefit > used + slots && used*2 > slots
//
// The benefit is reset after every resize.
//
// # Ownership
//
// A Dict owns its nodes and, under a policy implementing KeyDuplicator, its
// copies of the keys. It never owns values.
package treedict

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/rand"
)

const (
	debug = false

	defaultL2Slots = 2

	// Rebalancing is attempted every [0, rebalanceInterval) visited nodes.
	rebalanceInterval = 16
)

// Entry holds a key and value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

type node[K, V any] struct {
	entry    Entry[K, V]
	hash     uint32
	children [2]*node[K, V]
}

// Dict is an unordered map from keys to values with Get, Set, Insert, Delete,
// and iteration operations. Keys are compared and hashed by the KeyPolicy the
// Dict was created with.
//
// A Dict is NOT goroutine-safe. Note that this includes concurrent reads:
// lookups opportunistically restructure the bucket trees.
type Dict[K, V any] struct {
	// slots is 1<<l2Slots in length. Each element is the root of a bucket
	// tree, or nil.
	slots   []*node[K, V]
	l2Slots uint
	keys    KeyPolicy[K]
	// dup and release are the optional capabilities of keys, resolved once.
	dup     KeyDuplicator[K]
	release KeyReleaser[K]
	// The number of entries in the Dict.
	used int
	// rehashBenefit counts the lookups that descended below a bucket root
	// since the last resize.
	rehashBenefit int

	rng *rand.Rand
	// countdown is the number of nodes to visit before the next rebalance
	// attempt.
	countdown int
	// deleteSide alternates between successor (1) and predecessor (0)
	// replacement on two-child deletions.
	deleteSide int

	rehashLocked    bool
	rebalanceLocked bool
}

// New constructs a new Dict using the supplied key policy. The Dict starts
// out with 4 slots unless the WithInitialSlots option is given.
func New[K, V any](keys KeyPolicy[K], options ...option[K, V]) *Dict[K, V] {
	if keys == nil {
		panic(errors.AssertionFailedf("treedict: nil key policy"))
	}
	d := &Dict[K, V]{
		l2Slots: defaultL2Slots,
		keys:    keys,
	}
	d.dup, _ = keys.(KeyDuplicator[K])
	d.release, _ = keys.(KeyReleaser[K])

	for _, op := range options {
		op.apply(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(rand.Uint64()))
	}
	d.countdown = d.rng.Intn(rebalanceInterval)
	d.slots = make([]*node[K, V], 1<<d.l2Slots)

	d.checkInvariants()
	return d
}

// Close releases every entry of the Dict, handing owned keys to the policy's
// Release method if it has one. Values are not touched. The Dict is empty
// afterwards and may be reused; Close itself is idempotent.
func (d *Dict[K, V]) Close() {
	var stack []*node[K, V]
	for i := range d.slots {
		if d.slots[i] != nil {
			stack = append(stack, d.slots[i])
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range n.children {
			if c != nil {
				stack = append(stack, c)
			}
		}
		d.releaseKey(n.entry.Key)
		*n = node[K, V]{}
	}

	d.l2Slots = defaultL2Slots
	d.slots = make([]*node[K, V], 1<<d.l2Slots)
	d.used = 0
	d.rehashBenefit = 0
}

// Get retrieves the value from the Dict for the specified key, returning
// ok=false if the key is not present.
func (d *Dict[K, V]) Get(key K) (value V, ok bool) {
	h := d.keys.Hash(key)
	np, depth := d.search(key, h)
	if n := *np; n != nil {
		value, ok = n.entry.Value, true
	}
	d.account(depth)
	return value, ok
}

// Has returns true if the Dict contains an entry for key, whatever its value.
func (d *Dict[K, V]) Has(key K) bool {
	h := d.keys.Hash(key)
	np, depth := d.search(key, h)
	ok := *np != nil
	d.account(depth)
	return ok
}

// GetEntry returns the entry for key, or nil if there is none. The value of
// the returned entry may be modified in place; the key must not be. The
// pointer is only valid until the next call on the Dict other than Len,
// SlotCount and AllocatedBytes, as lookups and deletions move entries between
// tree nodes.
func (d *Dict[K, V]) GetEntry(key K) *Entry[K, V] {
	h := d.keys.Hash(key)
	np, depth := d.search(key, h)
	var e *Entry[K, V]
	if n := *np; n != nil {
		e = &n.entry
	}
	d.account(depth)
	return e
}

// Set inserts an entry into the Dict, overwriting the value of an existing
// entry with the same key.
func (d *Dict[K, V]) Set(key K, value V) {
	h := d.keys.Hash(key)
	np, depth := d.search(key, h)
	if n := *np; n != nil {
		n.entry.Value = value
	} else {
		*np = d.newNode(key, value, h)
		d.used++
	}
	d.account(depth)
}

// Insert inserts an entry for a key the caller guarantees is not present in
// the Dict. Inserting a duplicate key is tolerated and overwrites the
// existing value, exactly as Set does.
func (d *Dict[K, V]) Insert(key K, value V) {
	d.Set(key, value)
}

// InsertEntries inserts each of entries in order. It is intended for
// populating a new Dict from a static table of distinct keys.
func (d *Dict[K, V]) InsertEntries(entries ...Entry[K, V]) {
	for i := range entries {
		d.Insert(entries[i].Key, entries[i].Value)
	}
}

// SetEntries sets each of entries in order, so later duplicates win. Use it
// instead of InsertEntries when the keys cannot easily be shown to be
// distinct.
func (d *Dict[K, V]) SetEntries(entries ...Entry[K, V]) {
	for i := range entries {
		d.Set(entries[i].Key, entries[i].Value)
	}
}

// Delete deletes the entry corresponding to the specified key from the Dict.
// It is a noop to delete a non-existent key.
func (d *Dict[K, V]) Delete(key K) {
	h := d.keys.Hash(key)
	np, _ := d.search(key, h)
	n := *np
	if n == nil {
		return
	}
	d.releaseKey(n.entry.Key)
	d.used--

	if n.children[0] == nil || n.children[1] == nil {
		// Splice the only child, or nil, into the node's place.
		if n.children[0] != nil {
			*np = n.children[0]
		} else {
			*np = n.children[1]
		}
		*n = node[K, V]{}
		d.checkInvariants()
		return
	}

	// Two children. Replace the node's entry with its in-order neighbor,
	// alternating between the predecessor (rightmost node of the left
	// subtree) and the successor (leftmost node of the right subtree), then
	// splice the neighbor out. The neighbor has at most one child, on the
	// side facing away from n.
	side := d.deleteSide
	d.deleteSide ^= 1
	rp := &n.children[side]
	for (*rp).children[side^1] != nil {
		rp = &(*rp).children[side^1]
	}
	repl := *rp
	n.entry = repl.entry
	n.hash = repl.hash
	*rp = repl.children[side]
	*repl = node[K, V]{}

	if debug {
		fmt.Printf("delete(%v): replaced by %s %v\n",
			key, [2]string{"predecessor", "successor"}[side], n.entry.Key)
	}
	d.checkInvariants()
}

// Len returns the number of entries in the Dict.
func (d *Dict[K, V]) Len() int {
	return d.used
}

// SlotCount returns the number of slots in the Dict's slot table.
func (d *Dict[K, V]) SlotCount() int {
	return len(d.slots)
}

// AllocatedBytes returns an approximation of the memory held by the Dict: the
// Dict itself, its slot table, and one node per entry. Keys and values that
// are referenced rather than stored inline are not counted. The figure is
// meant for instrumentation only.
func (d *Dict[K, V]) AllocatedBytes() int {
	var n node[K, V]
	return int(unsafe.Sizeof(*d)) +
		len(d.slots)*int(unsafe.Sizeof(d.slots[0])) +
		d.used*int(unsafe.Sizeof(n))
}

// LockRehash prevents (locked=true) or re-enables (locked=false) automatic
// growth of the slot table. Benefit is still accumulated while locked. This
// is meant for tests that need a fixed table size; explicit calls to Rehash
// are unaffected.
func (d *Dict[K, V]) LockRehash(locked bool) {
	d.rehashLocked = locked
}

// LockRebalance prevents (locked=true) or re-enables (locked=false) the
// randomized rotation of bucket trees, making the shape of every tree a
// function of the order of insertions and deletions alone.
func (d *Dict[K, V]) LockRebalance(locked bool) {
	d.rebalanceLocked = locked
}

func (d *Dict[K, V]) newNode(key K, value V, h uint32) *node[K, V] {
	if d.dup != nil {
		key = d.dup.Duplicate(key)
	}
	return &node[K, V]{
		entry: Entry[K, V]{Key: key, Value: value},
		hash:  h,
	}
}

func (d *Dict[K, V]) releaseKey(key K) {
	if d.release != nil {
		d.release.Release(key)
	}
}

// index returns the slot for hash value h.
func (d *Dict[K, V]) index(h uint32) int {
	return int((h + (h >> d.l2Slots)) & (1<<d.l2Slots - 1))
}
