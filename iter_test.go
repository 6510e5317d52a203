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
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIterateEmpty(t *testing.T) {
	d := New[string, int](Strings)
	require.Nil(t, d.First())
	d.All(func(string, int) bool {
		require.Fail(t, "should not iterate")
		return true
	})

	d.Set("a", 1)
	d.Delete("a")
	require.Nil(t, d.First())
}

func TestIterateComplete(t *testing.T) {
	test := func(t *testing.T, d *Dict[int, int]) {
		for i := 0; i < 1000; i++ {
			d.Set(i*3, i)
			if i%5 == 0 {
				d.Delete(i)
			}
		}

		seen := make(map[int]int)
		count := 0
		for it := d.First(); it != nil; it = it.Next() {
			_, dup := seen[it.Key()]
			require.False(t, dup, it.Key())
			seen[it.Key()] = it.Value()
			require.Equal(t, it.Value(), it.Entry().Value)
			count++
		}
		require.EqualValues(t, d.Len(), count)
		for k, v := range seen {
			got, ok := d.Get(k)
			require.True(t, ok)
			require.EqualValues(t, got, v)
		}
	}

	t.Run("normal", func(t *testing.T) {
		test(t, New[int, int](intKeys{}, seeded[int, int](1)))
	})
	t.Run("degenerate", func(t *testing.T) {
		test(t, New[int, int](constKeys{h: 7}, seeded[int, int](1)))
	})
	t.Run("single-slot", func(t *testing.T) {
		test(t, New[int, int](intKeys{},
			WithInitialSlots[int, int](1),
			WithRehashLocked[int, int](true),
			WithRebalanceLocked[int, int](true)))
	})
}

func TestIterateOrder(t *testing.T) {
	d := New[int, int](constKeys{},
		WithRehashLocked[int, int](true),
		WithRebalanceLocked[int, int](true))
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		d.Insert(k, k)
	}

	// Each node is visited before its subtrees, left subtree first.
	var keys []int
	d.All(func(k, _ int) bool {
		keys = append(keys, k)
		return true
	})
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, keys)
}

func TestIterateClose(t *testing.T) {
	d := New[string, int](Strings, WithInitialSlots[string, int](1))
	for i := 0; i < 100; i++ {
		d.Set(strconv.Itoa(i), i)
	}

	it := d.First()
	for i := 0; i < 10; i++ {
		it = it.Next()
		require.NotNil(t, it)
	}
	it.Close()
	require.Nil(t, it.pending)
	require.Nil(t, it.node)
	it.Close()

	var nilIter *Iterator[string, int]
	nilIter.Close()

	var n int
	d.All(func(string, int) bool {
		n++
		return n < 5
	})
	require.EqualValues(t, 5, n)
}

func TestMap(t *testing.T) {
	d := New[string, int](StaticStrings)
	for i := 0; i < 100; i++ {
		d.Set(strconv.Itoa(i), i)
	}
	d.Map(func(e *Entry[string, int]) {
		e.Value *= 2
	})
	for i := 0; i < 100; i++ {
		v, ok := d.Get(strconv.Itoa(i))
		require.True(t, ok)
		require.EqualValues(t, 2*i, v)
	}
}
