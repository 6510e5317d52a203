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
	"strings"

	"github.com/cockroachdb/errors"
)

func (d *Dict[K, V]) checkInvariants() {
	if invariants {
		if err := d.verify(); err != nil {
			panic(errors.AssertionFailedf("invariant failed: %v\n%s", err, d.debugString()))
		}
	}
}

// verify walks every bucket tree and checks the structural invariants of the
// Dict. Unlike a lookup it never rebalances.
func (d *Dict[K, V]) verify() error {
	if len(d.slots) != 1<<d.l2Slots {
		return errors.Newf("%d slots, expected 1<<%d", len(d.slots), d.l2Slots)
	}

	// bound is a subtree awaiting inspection along with the nearest ancestors
	// its entries must sort after (lo) and before (hi).
	type bound struct {
		n, lo, hi *node[K, V]
	}
	var count int
	var stack []bound
	for i, root := range d.slots {
		if root == nil {
			continue
		}
		stack = append(stack[:0], bound{n: root})
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := b.n
			count++

			if slot := d.index(n.hash); slot != i {
				return errors.Newf("%v with hash 0x%x found in slot %d, indexes to %d",
					n.entry.Key, n.hash, i, slot)
			}
			if h := d.keys.Hash(n.entry.Key); h != n.hash {
				return errors.Newf("%v has cached hash 0x%x, hashes to 0x%x", n.entry.Key, n.hash, h)
			}
			if b.lo != nil && d.compareNodes(b.lo, n) >= 0 {
				return errors.Newf("%v in slot %d is not after %v", n.entry.Key, i, b.lo.entry.Key)
			}
			if b.hi != nil && d.compareNodes(n, b.hi) >= 0 {
				return errors.Newf("%v in slot %d is not before %v", n.entry.Key, i, b.hi.entry.Key)
			}
			if c := n.children[0]; c != nil {
				stack = append(stack, bound{n: c, lo: b.lo, hi: n})
			}
			if c := n.children[1]; c != nil {
				stack = append(stack, bound{n: c, lo: n, hi: b.hi})
			}
		}
	}

	if count != d.used {
		return errors.Newf("found %d entries, but used count is %d", count, d.used)
	}
	return nil
}

// compareNodes orders two nodes the way search does: by hash, then by key.
func (d *Dict[K, V]) compareNodes(a, b *node[K, V]) int {
	switch {
	case a.hash < b.hash:
		return -1
	case a.hash > b.hash:
		return 1
	}
	return d.keys.Compare(a.entry.Key, b.entry.Key)
}

func (d *Dict[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "slots=%d  used=%d  rehash-benefit=%d\n", len(d.slots), d.used, d.rehashBenefit)
	for i, root := range d.slots {
		if root == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %4d:\n", i)
		dumpNode(&buf, defaultPrint[K, V], root, 8, 2)
	}
	return buf.String()
}
