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

// Package script implements a small command language for exercising a
// treedict.Dict interactively or from script files. Commands are whitespace
// separated words; arguments may continue onto following lines. A word
// starting with '#' comments out the rest of its line.
package script

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/treedict"
	"github.com/fatih/color"
	"golang.org/x/exp/rand"
)

// Shell holds the state of a session: the dictionary under test and whether
// any check has failed so far. A Shell may Run several scripts in sequence;
// state carries over between them.
type Shell struct {
	out    io.Writer
	log    *slog.Logger
	prompt string
	dotDir string
	seed   uint64
	seeded bool

	d        *treedict.Dict[string, string]
	commands *treedict.Decoder
	numbers  *treedict.Decoder
	verbose  bool
	failed   bool
	exited   bool
	dotCount int

	failColor *color.Color
	passColor *color.Color
}

// New returns a Shell writing its output to out. The dictionary starts out
// holding "hello" => "there" and "a" => "b".
func New(out io.Writer, options ...Option) *Shell {
	s := &Shell{
		out:       out,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		dotDir:    ".",
		commands:  newCommandDecoder(),
		numbers:   treedict.NewDecoder(numberWords...),
		failColor: color.New(color.FgRed),
		passColor: color.New(color.FgGreen),
	}
	for _, op := range options {
		op.apply(s)
	}

	if s.seeded {
		s.d = treedict.New[string, string](treedict.Strings,
			treedict.WithRand[string, string](rand.New(rand.NewSource(s.seed))))
	} else {
		s.d = treedict.New[string, string](treedict.Strings)
	}
	s.d.InsertEntries(
		treedict.Entry[string, string]{Key: "hello", Value: "there"},
		treedict.Entry[string, string]{Key: "a", Value: "b"},
	)
	return s
}

// Run executes the commands read from r until r is exhausted or an exit
// command is executed. Failed checks and malformed commands are reported on
// the output and recorded, but do not stop the script. An error is returned
// only if r cannot be read or ends in the middle of a command.
func (s *Shell) Run(r io.Reader) error {
	t := newTokenizer(r)
	for !s.exited {
		if s.verbose {
			fmt.Fprintf(s.out, "\nDictionary:\n")
			s.d.Dump(s.out, printEntry)
			fmt.Fprintf(s.out, "\n")
		}
		if s.prompt != "" && t.atLineStart() {
			io.WriteString(s.out, s.prompt)
		}
		word, ok := t.next()
		if !ok {
			return errors.Wrap(t.err(), "reading script")
		}
		if err := s.exec(t, word); err != nil {
			return err
		}
	}
	return nil
}

// Exited reports whether an exit command has been executed. Further calls
// to Run return immediately.
func (s *Shell) Exited() bool {
	return s.exited
}

// Failed reports whether any check has failed.
func (s *Shell) Failed() bool {
	return s.failed
}

// Finish releases the dictionary and prints PASSED or FAILED. It returns
// true if every check passed.
func (s *Shell) Finish() bool {
	s.log.Debug("finish", "entries", s.d.Len(), "slots", s.d.SlotCount())
	s.d.Close()
	if s.failed {
		s.failColor.Fprintln(s.out, "FAILED")
		return false
	}
	s.passColor.Fprintln(s.out, "PASSED")
	return true
}

// fail reports a failed check.
func (s *Shell) fail(format string, args ...interface{}) {
	s.failed = true
	s.failColor.Fprintf(s.out, format, args...)
}

func printEntry(w io.Writer, key, value string) {
	fmt.Fprintf(w, "'%s': '%s'", key, value)
}

// Demo builds a small dictionary and prints lookups and a dump of it to w.
func Demo(w io.Writer) {
	d := treedict.New[string, string](treedict.StaticStrings)
	defer d.Close()

	d.Set("Hello", "there")
	d.Set("foo", "bar")
	for _, k := range []string{"Hello", "foo", "bar"} {
		v, ok := d.Get(k)
		if !ok {
			v = "NULL"
		}
		fmt.Fprintf(w, "%s -> %s\n", k, v)
	}
	d.Set("bar", "tron")
	d.Dumpf(w, "%s -> %s")
	fmt.Fprintln(w, "OK")
}

// tokenizer splits its input into words. Required arguments are read across
// line boundaries; optional ones only from the rest of the current line.
type tokenizer struct {
	sc   *bufio.Scanner
	line []string
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), math.MaxInt)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) atLineStart() bool {
	return len(t.line) == 0
}

func (t *tokenizer) next() (string, bool) {
	for len(t.line) == 0 {
		if !t.sc.Scan() {
			return "", false
		}
		t.line = strings.Fields(t.sc.Text())
		for i, w := range t.line {
			if strings.HasPrefix(w, "#") {
				t.line = t.line[:i]
				break
			}
		}
	}
	w := t.line[0]
	t.line = t.line[1:]
	return w, true
}

// optional returns the next word if it is on the current line.
func (t *tokenizer) optional() (string, bool) {
	if len(t.line) == 0 {
		return "", false
	}
	return t.next()
}

func (t *tokenizer) err() error {
	return t.sc.Err()
}
