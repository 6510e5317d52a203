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

// Iterator is a cursor over the entries of a Dict. It is obtained from
// Dict.First and advanced with Next:
//
//	for it := d.First(); it != nil; it = it.Next() {
//	  if done(it.Key(), it.Value()) {
//	    it.Close()
//	    break
//	  }
//	}
//
// Every entry is visited exactly once. The order is deterministic for a
// given arrangement of the bucket trees but is otherwise unspecified; in
// particular it is neither sorted nor stable across operations.
//
// The Dict must not be used while an iterator is live, other than through
// Len, SlotCount and AllocatedBytes. That includes lookups, which may
// rebalance the trees. Violating this results in entries being skipped or
// visited twice.
type Iterator[K, V any] struct {
	d    *Dict[K, V]
	node *node[K, V]
	// slot is the index of the bucket node belongs to.
	slot int
	// pending holds right subtrees still to be visited in the current
	// bucket.
	pending []*node[K, V]
}

// First returns an iterator positioned at the first entry of the Dict, or nil
// if the Dict is empty.
func (d *Dict[K, V]) First() *Iterator[K, V] {
	for i, n := range d.slots {
		if n != nil {
			return &Iterator[K, V]{d: d, node: n, slot: i}
		}
	}
	return nil
}

// Next advances the iterator and returns it, or returns nil when there are no
// more entries. An exhausted iterator releases its resources by itself and
// must not be used again.
func (it *Iterator[K, V]) Next() *Iterator[K, V] {
	n := it.node
	switch {
	case n.children[0] != nil:
		if n.children[1] != nil {
			it.pending = append(it.pending, n.children[1])
		}
		it.node = n.children[0]
		return it
	case n.children[1] != nil:
		it.node = n.children[1]
		return it
	case len(it.pending) > 0:
		it.node = it.pending[len(it.pending)-1]
		it.pending[len(it.pending)-1] = nil
		it.pending = it.pending[:len(it.pending)-1]
		return it
	}

	slots := it.d.slots
	for i := it.slot + 1; i < len(slots); i++ {
		if slots[i] != nil {
			it.node, it.slot = slots[i], i
			return it
		}
	}
	it.Close()
	return nil
}

// Close terminates an iteration early, releasing the iterator's pending
// stack. Calling Close on an exhausted or already closed iterator is a noop.
func (it *Iterator[K, V]) Close() {
	if it == nil {
		return
	}
	clear(it.pending)
	*it = Iterator[K, V]{}
}

// Key returns the key of the current entry.
func (it *Iterator[K, V]) Key() K {
	return it.node.entry.Key
}

// Value returns the value of the current entry.
func (it *Iterator[K, V]) Value() V {
	return it.node.entry.Value
}

// Entry returns the current entry. Its value may be modified in place.
func (it *Iterator[K, V]) Entry() *Entry[K, V] {
	return &it.node.entry
}

// All calls yield sequentially for each key and value present in the Dict.
// If yield returns false, the iteration stops. yield must not call into the
// Dict; see Iterator.
func (d *Dict[K, V]) All(yield func(key K, value V) bool) {
	for it := d.First(); it != nil; it = it.Next() {
		if !yield(it.Key(), it.Value()) {
			it.Close()
			return
		}
	}
}

// Map calls fn on every entry of the Dict. fn may modify the value of the
// entry it is passed but must not otherwise call into the Dict.
func (d *Dict[K, V]) Map(fn func(e *Entry[K, V])) {
	for it := d.First(); it != nil; it = it.Next() {
		fn(it.Entry())
	}
}
