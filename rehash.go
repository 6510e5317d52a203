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
	"fmt"
	"math/bits"

	"github.com/cockroachdb/errors"
)

// account feeds the depth of a completed search to the growth heuristic and
// doubles the slot table when that is expected to pay for itself. See the
// package documentation for the reasoning behind the thresholds.
func (d *Dict[K, V]) account(depth int) {
	if depth == 0 {
		return
	}
	d.rehashBenefit++
	if d.rehashLocked {
		return
	}
	if n := len(d.slots); d.rehashBenefit > d.used+n && d.used*2 > n {
		d.resize(2 * n)
	}
}

// Rehash redistributes the entries of the Dict over a slot table of exactly
// n slots. n must be a power of two. The table may shrink as well as grow.
// Rehash is meant for tests that need to exercise particular table sizes;
// the Dict grows on its own as needed.
func (d *Dict[K, V]) Rehash(n int) error {
	if n <= 0 || n&(n-1) != 0 {
		return errors.Newf("treedict: slot count %d is not a power of two", n)
	}
	d.resize(n)
	return nil
}

// resize replaces the slot table with one of size slots and reinserts every
// node. Each node is detached from its children and reinserted alone, so the
// shapes of the new trees are unrelated to the old ones. The old trees are
// walked with an explicit stack to bound the goroutine stack regardless of
// their height.
func (d *Dict[K, V]) resize(size int) {
	oldSlots := d.slots
	if debug {
		fmt.Printf("resize: slots=%d->%d used=%d benefit=%d\n",
			len(oldSlots), size, d.used, d.rehashBenefit)
	}

	d.slots = make([]*node[K, V], size)
	d.l2Slots = uint(bits.TrailingZeros(uint(size)))
	d.rehashBenefit = 0

	// Entries must stay in their nodes while being moved: callers may hold a
	// pointer obtained from GetEntry across the operation that triggered the
	// resize.
	rebalanceLocked := d.rebalanceLocked
	d.rebalanceLocked = true
	defer func() { d.rebalanceLocked = rebalanceLocked }()

	var stack []*node[K, V]
	for _, root := range oldSlots {
		if root == nil {
			continue
		}
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for i, c := range n.children {
				if c != nil {
					stack = append(stack, c)
					n.children[i] = nil
				}
			}
			np, _ := d.search(n.entry.Key, n.hash)
			*np = n
		}
	}

	d.checkInvariants()
}
