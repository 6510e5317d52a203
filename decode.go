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

// DecodeEntry associates a word with a small integer.
type DecodeEntry struct {
	Key   string
	Value int
}

// Decoder maps a fixed set of words to small integers, typically to switch on
// a command name:
//
//	var commands = treedict.NewDecoder(
//	  treedict.DecodeEntry{"get", cmdGet},
//	  treedict.DecodeEntry{"set", cmdSet},
//	)
//
//	switch commands.Decode(word) {
//	case cmdGet:
//	  ...
//	}
//
// The backing Dict is built the first time Decode is called. A Decoder is
// NOT goroutine-safe, not even for its first use.
type Decoder struct {
	table []DecodeEntry
	d     *Dict[string, int]
}

// NewDecoder returns a Decoder for entries. The keys are borrowed, not
// copied. If a key appears more than once the last entry wins.
func NewDecoder(entries ...DecodeEntry) *Decoder {
	return &Decoder{table: entries}
}

// Decode returns the value associated with key, or -1 if there is none.
func (dc *Decoder) Decode(key string) int {
	if dc.d == nil {
		dc.d = New[string, int](StaticStrings, WithInitialSlots[string, int](len(dc.table)))
		for _, e := range dc.table {
			dc.d.Insert(e.Key, e.Value)
		}
	}
	if v, ok := dc.d.Get(key); ok {
		return v
	}
	return -1
}
