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

package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/treedict"
)

const (
	cmdSet = iota
	cmdInsert
	cmdGet
	cmdHas
	cmdDump
	cmdDot
	cmdCheck
	cmdCheckNull
	cmdDelete
	cmdExit
	cmdFree
	cmdList
	cmdCount
	cmdBytes
	cmdRehash
	cmdDecode
	cmdLockRehash
	cmdLockRebalance
	cmdVerbose
	cmdTerse
	cmdTest
	cmdHelp
)

func newCommandDecoder() *treedict.Decoder {
	return treedict.NewDecoder(
		treedict.DecodeEntry{Key: "set", Value: cmdSet},
		treedict.DecodeEntry{Key: "insert", Value: cmdInsert},
		treedict.DecodeEntry{Key: "get", Value: cmdGet},
		treedict.DecodeEntry{Key: "has", Value: cmdHas},
		treedict.DecodeEntry{Key: "dump", Value: cmdDump},
		treedict.DecodeEntry{Key: "dot", Value: cmdDot},
		treedict.DecodeEntry{Key: "check", Value: cmdCheck},
		treedict.DecodeEntry{Key: "checknull", Value: cmdCheckNull},
		treedict.DecodeEntry{Key: "delete", Value: cmdDelete},
		treedict.DecodeEntry{Key: "exit", Value: cmdExit},
		treedict.DecodeEntry{Key: "quit", Value: cmdExit},
		treedict.DecodeEntry{Key: "free", Value: cmdFree},
		treedict.DecodeEntry{Key: "list", Value: cmdList},
		treedict.DecodeEntry{Key: "count", Value: cmdCount},
		treedict.DecodeEntry{Key: "bytes", Value: cmdBytes},
		treedict.DecodeEntry{Key: "rehash", Value: cmdRehash},
		treedict.DecodeEntry{Key: "decode", Value: cmdDecode},
		treedict.DecodeEntry{Key: "lock-rehash", Value: cmdLockRehash},
		treedict.DecodeEntry{Key: "lock-rebalance", Value: cmdLockRebalance},
		treedict.DecodeEntry{Key: "verbose", Value: cmdVerbose},
		treedict.DecodeEntry{Key: "terse", Value: cmdTerse},
		treedict.DecodeEntry{Key: "test", Value: cmdTest},
		treedict.DecodeEntry{Key: "help", Value: cmdHelp},
	)
}

var numberWords = []treedict.DecodeEntry{
	{Key: "one", Value: 1},
	{Key: "two", Value: 2},
	{Key: "three", Value: 3},
}

const helpText = `Commands:
    set <key> <value>
    insert <key> <value>
    get <key>
    has <key>
    dump
    dot [file]            // dump structure in dot format
    check <key> <value>
    checknull <key>
    delete <key>
    exit | quit
    free
    list
    count
    bytes
    rehash <n>
    decode (one|two|three|*)
    lock-rehash (on|off)
    lock-rebalance (on|off)
    verbose
    terse
    test                  // populate with test data
    help
`

// exec executes the command named by word, reading its arguments from t.
func (s *Shell) exec(t *tokenizer, word string) error {
	cmd := s.commands.Decode(word)
	if cmd < 0 {
		fmt.Fprintf(s.out, "Unknown command '%s'\n", word)
		return nil
	}

	nargs := 0
	switch cmd {
	case cmdSet, cmdInsert, cmdCheck:
		nargs = 2
	case cmdGet, cmdHas, cmdCheckNull, cmdDelete, cmdRehash, cmdDecode,
		cmdLockRehash, cmdLockRebalance:
		nargs = 1
	}
	args := make([]string, nargs)
	for i := range args {
		var ok bool
		if args[i], ok = t.next(); !ok {
			if err := t.err(); err != nil {
				return errors.Wrap(err, "reading script")
			}
			return errors.Newf("%s: expected %d argument(s), got %d", word, nargs, i)
		}
	}
	s.log.Debug("exec", "command", word, "args", args)

	switch cmd {
	case cmdSet:
		s.d.Set(args[0], args[1])
	case cmdInsert:
		s.d.Insert(args[0], args[1])
	case cmdGet:
		v, ok := s.d.Get(args[0])
		if !ok {
			fmt.Fprintf(s.out, "'%s' => NULL\n", args[0])
			break
		}
		fmt.Fprintf(s.out, "'%s' => '%s'\n", args[0], v)
	case cmdHas:
		fmt.Fprintf(s.out, "'%s' => %t\n", args[0], s.d.Has(args[0]))
	case cmdDump:
		s.d.Dump(s.out, printEntry)
	case cmdDot:
		name, ok := t.optional()
		if !ok {
			s.dotCount++
			name = filepath.Join(s.dotDir, fmt.Sprintf("dict_%d.dot", s.dotCount))
		}
		fmt.Fprintf(s.out, "Writing '%s'\n", name)
		if err := s.writeDot(name); err != nil {
			s.fail("%v\n", err)
		}
	case cmdCheck:
		v, ok := s.d.Get(args[0])
		switch {
		case !ok:
			s.fail("Check fail: '%s' => NULL, should be '%s'\n", args[0], args[1])
		case v != args[1]:
			s.fail("Check fail: '%s' => '%s', should be '%s'\n", args[0], v, args[1])
		}
	case cmdCheckNull:
		if v, ok := s.d.Get(args[0]); ok {
			s.fail("Check fail: '%s' => '%s', should be NULL\n", args[0], v)
		}
	case cmdDelete:
		s.d.Delete(args[0])
	case cmdExit:
		fmt.Fprintln(s.out, "Exiting")
		s.exited = true
	case cmdFree:
		s.log.Debug("free", "entries", s.d.Len(), "bytes", s.d.AllocatedBytes())
		s.d.Close()
		fmt.Fprintln(s.out, "Cleared dictionary")
	case cmdList:
		count := 0
		s.d.All(func(k, v string) bool {
			fmt.Fprintf(s.out, "'%s' -> '%s'\n", k, v)
			count++
			return true
		})
		fmt.Fprintf(s.out, "count=%d\n", count)
	case cmdCount:
		fmt.Fprintf(s.out, "count=%d\n", s.d.Len())
	case cmdBytes:
		fmt.Fprintf(s.out, "bytes=%d\n", s.d.AllocatedBytes())
	case cmdRehash:
		if err := s.rehash(args[0]); err != nil {
			s.fail("%v\n", err)
		}
	case cmdDecode:
		fmt.Fprintf(s.out, "Decoded value '%s' -> %d\n", args[0], s.numbers.Decode(args[0]))
	case cmdLockRehash, cmdLockRebalance:
		on, err := parseSwitch(args[0])
		if err != nil {
			s.fail("%s: %v\n", word, err)
			break
		}
		if cmd == cmdLockRehash {
			s.d.LockRehash(on)
		} else {
			s.d.LockRebalance(on)
		}
	case cmdVerbose:
		s.verbose = true
	case cmdTerse:
		s.verbose = false
	case cmdTest:
		s.insertTest()
	case cmdHelp:
		fmt.Fprint(s.out, helpText)
	}
	return nil
}

func (s *Shell) writeDot(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "cannot open '%s' for writing", name)
	}
	s.d.DumpDot(f, printEntry)
	return errors.Wrapf(f.Close(), "writing '%s'", name)
}

func (s *Shell) rehash(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return errors.Wrapf(err, "rehash")
	}
	if err := s.d.Rehash(n); err != nil {
		return err
	}
	s.log.Debug("rehash", "slots", s.d.SlotCount(), "entries", s.d.Len())
	return nil
}

func parseSwitch(arg string) (bool, error) {
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, errors.Newf("expected on or off, got '%s'", arg)
}

// insertTest sets every test item in turn, checking after each insertion
// that exactly the items set so far can be found with their values.
func (s *Shell) insertTest() {
	failed := false
	for i := range testItems {
		s.d.Set(testItems[i].key, testItems[i].value)
		for j := range testItems {
			v, ok := s.d.Get(testItems[j].key)
			switch {
			case j <= i && !ok:
				s.fail("Test fail: key '%s' should exist, but doesn't.\n", testItems[j].key)
				failed = true
			case j <= i && v != testItems[j].value:
				s.fail("Test fail: key '%s' should be '%s' but is '%s'\n",
					testItems[j].key, testItems[j].value, v)
				failed = true
			case j > i && ok:
				s.fail("Test fail: spurious value for key '%s'\n", testItems[j].key)
				failed = true
			}
		}
	}
	if failed {
		fmt.Fprintln(s.out, "Insert test failed.")
	} else {
		fmt.Fprintln(s.out, "Insert test passed.")
	}
}
