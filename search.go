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

import "fmt"

// search returns the link that holds the node for key, or the nil link where
// a node for key would be inserted, along with the number of nodes that were
// descended through to reach it. A depth of zero means the search ended at
// the bucket root.
//
// Every node visited counts down towards a rebalance attempt, so search may
// restructure the tree it descends. It never changes which link holds a
// given subtree, only the arrangement of the nodes below it.
func (d *Dict[K, V]) search(key K, h uint32) (np **node[K, V], depth int) {
	np = &d.slots[d.index(h)]
	for {
		n := *np
		if n == nil {
			return np, depth
		}

		if d.countdown--; d.countdown < 0 {
			d.countdown = d.rng.Intn(rebalanceInterval)
			if !d.rebalanceLocked {
				d.rebalance(n)
			}
		}

		var cmp int
		switch {
		case h < n.hash:
			cmp = -1
		case h > n.hash:
			cmp = 1
		default:
			cmp = d.keys.Compare(key, n.entry.Key)
		}
		switch {
		case cmp < 0:
			np = &n.children[0]
		case cmp > 0:
			np = &n.children[1]
		default:
			return np, depth
		}
		depth++
	}
}

// rebalance rotates n toward its shallower side if the estimated height of
// one of its subtrees exceeds the other's by more than one. The rotation is
// performed by exchanging entries between n and its deeper child, so n stays
// the root of the subtree.
//
// Before (deeper side s=left):      After:
//
//	     n:N                 n:C
//	    /   \               /   \
//	  c:C    z             a    c:N
//	 /   \                     /   \
//	a     b                   b     z
func (d *Dict[K, V]) rebalance(n *node[K, V]) {
	h0, h1 := d.estimateHeight(n.children[0]), d.estimateHeight(n.children[1])
	var s int
	switch {
	case h0 > h1+1:
		s = 0
	case h1 > h0+1:
		s = 1
	default:
		return
	}
	if debug {
		fmt.Printf("rebalance(%v): heights=%d/%d rotating %s\n",
			n.entry.Key, h0, h1, [2]string{"right", "left"}[s])
	}

	c := n.children[s]
	a, b, z := c.children[s], c.children[s^1], n.children[s^1]
	n.entry, c.entry = c.entry, n.entry
	n.hash, c.hash = c.hash, n.hash
	n.children[s], n.children[s^1] = a, c
	c.children[s], c.children[s^1] = b, z
}

// estimateHeight approximates the height of the tree rooted at n by walking
// a single path to a leaf. Where a node has two children the walk continues
// down a random one, which keeps the estimate proportional to the depth of a
// typical leaf rather than the deepest.
func (d *Dict[K, V]) estimateHeight(n *node[K, V]) int {
	var height int
	for n != nil {
		height++
		switch {
		case n.children[0] == nil:
			n = n.children[1]
		case n.children[1] == nil:
			n = n.children[0]
		default:
			n = n.children[d.rng.Intn(2)]
		}
	}
	return height
}
