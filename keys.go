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
	"bytes"
	"strings"
	"unsafe"
)

// KeyPolicy specifies how a Dict compares and hashes its keys. A policy is
// fixed for the lifetime of a Dict.
//
// Hash must be a pure function of the key's content, and Compare must be a
// total order consistent with it: Compare(a, b) == 0 implies Hash(a) ==
// Hash(b). Mutating the content of a key after it has been inserted results
// in undefined behavior.
type KeyPolicy[K any] interface {
	// Compare returns a negative number if a < b, zero if a == b and a
	// positive number if a > b.
	Compare(a, b K) int
	// Hash returns the 32-bit hash of k.
	Hash(k K) uint32
}

// KeyDuplicator is implemented by policies whose Dict owns its keys. A key is
// duplicated exactly once, when a new entry is created for it.
type KeyDuplicator[K any] interface {
	Duplicate(k K) K
}

// KeyReleaser is implemented by policies that need to be told when an owned
// key leaves the Dict, either through Delete or Close.
type KeyReleaser[K any] interface {
	Release(k K)
}

// Bytes is the policy for byte-string keys owned by the Dict: keys are copied
// on insertion and the copy is cleared when the entry is removed. Use it when
// the caller reuses its key buffers.
var Bytes KeyPolicy[[]byte] = ownedBytes{}

// StaticBytes is the policy for byte-string keys borrowed from the caller,
// who guarantees that their content outlives the Dict and never changes.
var StaticBytes KeyPolicy[[]byte] = staticBytes{}

// Strings is the policy for string keys owned by the Dict. Keys are cloned on
// insertion so that a Dict never pins a larger backing buffer.
var Strings KeyPolicy[string] = ownedStrings{}

// StaticStrings is the policy for string keys borrowed from the caller.
var StaticStrings KeyPolicy[string] = staticStrings{}

// Pointers returns the policy for pointer keys compared by identity. The
// pointed-to value is never read, copied or freed.
func Pointers[T any]() KeyPolicy[*T] {
	return pointers[T]{}
}

// stringHash is a cheap shift-add hash. Every byte contributes to the result
// and the high bits are fed back into the low bits on each step.
func stringHash[S ~string | ~[]byte](s S) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h += uint32(s[i]) + (h << 3) + (h >> 29)
	}
	return h
}

type staticBytes struct{}

func (staticBytes) Compare(a, b []byte) int { return bytes.Compare(a, b) }
func (staticBytes) Hash(k []byte) uint32    { return stringHash(k) }

type ownedBytes struct {
	staticBytes
}

func (ownedBytes) Duplicate(k []byte) []byte {
	// Non-nil even for an empty key so that ownership is uniform.
	return append(make([]byte, 0, len(k)), k...)
}

func (ownedBytes) Release(k []byte) {
	clear(k)
}

type staticStrings struct{}

func (staticStrings) Compare(a, b string) int { return strings.Compare(a, b) }
func (staticStrings) Hash(k string) uint32    { return stringHash(k) }

type ownedStrings struct {
	staticStrings
}

func (ownedStrings) Duplicate(k string) string {
	return strings.Clone(k)
}

type pointers[T any] struct{}

func (pointers[T]) Compare(a, b *T) int {
	pa, pb := uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(b))
	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	}
	return 0
}

func (pointers[T]) Hash(k *T) uint32 {
	// Fold the address into 32 bits by adding its halves. This is the
	// identity on 32-bit platforms.
	p := uint64(uintptr(unsafe.Pointer(k)))
	return uint32(p) + uint32(p>>32)
}
