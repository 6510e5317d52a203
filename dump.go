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
	"io"
	"strings"
)

// PrintFunc writes a human-readable rendition of an entry to w. It is used
// by the dump functions.
type PrintFunc[K, V any] func(w io.Writer, key K, value V)

// Dump writes the structure of the Dict to w: every slot followed by its
// bucket tree, one node per line in (hash, key) order, indented by depth.
// Left children are marked ".->", right children "'->" and bucket roots
// "|->". Entries are rendered with print, or as '<key>' => <value> if print
// is nil.
//
// Dump reads the trees directly and does not rebalance them. If print calls
// back into the Dict, those calls are ordinary lookups and may restructure
// the trees being dumped, with unspecified results.
func (d *Dict[K, V]) Dump(w io.Writer, print PrintFunc[K, V]) {
	if print == nil {
		print = defaultPrint[K, V]
	}
	fmt.Fprintf(w, "Dictionary at %p\n", d)
	for i, n := range d.slots {
		fmt.Fprintf(w, "[%d]:\n", i)
		if n != nil {
			dumpNode(w, print, n, 0, 2)
		}
	}
	fmt.Fprintf(w, "n_entries=%d, rehash_benefit=%d\n", d.used, d.rehashBenefit)
}

// Dumpf is Dump with every entry rendered by fmt.Fprintf(w, format, key,
// value).
func (d *Dict[K, V]) Dumpf(w io.Writer, format string) {
	d.Dump(w, func(w io.Writer, key K, value V) {
		fmt.Fprintf(w, format, key, value)
	})
}

var childMarks = [3]string{".-> ", "'-> ", "|-> "}

// dumpNode writes the subtree rooted at n in order. childNo is 0 or 1 for
// the corresponding child of the parent, and 2 for a bucket root.
func dumpNode[K, V any](w io.Writer, print PrintFunc[K, V], n *node[K, V], indent, childNo int) {
	if n.children[0] != nil {
		dumpNode(w, print, n.children[0], indent+4, 0)
	}
	fmt.Fprintf(w, "%s%shash=0x%x ", strings.Repeat(" ", indent), childMarks[childNo], n.hash)
	print(w, n.entry.Key, n.entry.Value)
	io.WriteString(w, "\n")
	if n.children[1] != nil {
		dumpNode(w, print, n.children[1], indent+4, 1)
	}
}

func defaultPrint[K, V any](w io.Writer, key K, value V) {
	fmt.Fprintf(w, "'%v' => %v", key, value)
}

// DumpDot writes the structure of the Dict to w in Graphviz DOT format. The
// slot table is drawn as a single record with one field per slot, with an
// edge from every occupied slot to its bucket root and from every node to
// its children. Entries are labelled with print, or as <key>: <value> if
// print is nil. The output is meant for visualization only.
//
// As with Dump, the trees are read directly, and a print function that
// calls back into the Dict may restructure them.
func (d *Dict[K, V]) DumpDot(w io.Writer, print PrintFunc[K, V]) {
	if print == nil {
		print = func(w io.Writer, key K, value V) {
			fmt.Fprintf(w, "%v: %v", key, value)
		}
	}

	io.WriteString(w, "digraph \"dict\" {\n  rankdir=LR;\n")
	io.WriteString(w, "  root [ shape=record, label=\"")
	for i := range d.slots {
		if i > 0 {
			io.WriteString(w, "|")
		}
		fmt.Fprintf(w, "<s%d>%d", i, i)
		if i%8 == 7 && i+1 < len(d.slots) {
			io.WriteString(w, "\\\n  ")
		}
	}
	io.WriteString(w, "\"];\n")

	ids := newNodeIDs[K, V]()
	var label strings.Builder
	var stack []*node[K, V]
	for i, root := range d.slots {
		if root == nil {
			continue
		}
		fmt.Fprintf(w, "  \"root\":s%d -> \"%s\";\n", i, ids.alloc(root))
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			label.Reset()
			print(&label, n.entry.Key, n.entry.Value)
			fmt.Fprintf(w, "  \"%s\" [ label = \"%s\"];\n", ids.alloc(n), dotEscaper.Replace(label.String()))
			for _, child := range n.children {
				if child != nil {
					fmt.Fprintf(w, "  \"%s\" -> \"%s\";\n", ids.alloc(n), ids.alloc(child))
				}
			}
			// Push the right child first so the left subtree is written first.
			for c := 1; c >= 0; c-- {
				if child := n.children[c]; child != nil {
					stack = append(stack, child)
				}
			}
		}
	}
	io.WriteString(w, "}\n")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// nodeIDs names nodes in the order they are first encountered so that DOT
// output does not depend on memory addresses.
type nodeIDs[K, V any] struct {
	ids  map[*node[K, V]]string
	next int
}

func newNodeIDs[K, V any]() *nodeIDs[K, V] {
	return &nodeIDs[K, V]{ids: make(map[*node[K, V]]string)}
}

func (t *nodeIDs[K, V]) alloc(n *node[K, V]) string {
	if id, ok := t.ids[n]; ok {
		return id
	}
	t.next++
	id := fmt.Sprintf("n%d", t.next)
	t.ids[n] = id
	return id
}
