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
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, options ...Option) (*Shell, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	options = append([]Option{WithoutColor(), WithSeed(1), WithDotDir(t.TempDir())}, options...)
	return New(&buf, options...), &buf
}

func run(t *testing.T, s *Shell, script string) {
	t.Helper()
	require.NoError(t, s.Run(strings.NewReader(script)))
}

func TestSession(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantOutput []string
		wantFailed bool
	}{
		{
			name:       "initial contents",
			script:     "check hello there check a b count",
			wantOutput: []string{"count=2\n"},
		},
		{
			name:       "set and get",
			script:     "set foo bar\nget foo\nget nope\nhas foo\nhas nope\n",
			wantOutput: []string{"'foo' => 'bar'\n", "'nope' => NULL\n", "'foo' => true\n", "'nope' => false\n"},
		},
		{
			name:       "set overwrites",
			script:     "set k 1\nset k 2\ninsert k 3\ncheck k 3\ncount\n",
			wantOutput: []string{"count=3\n"},
		},
		{
			name:   "delete",
			script: "delete hello\ndelete nope\nchecknull hello\ncheck a b\n",
		},
		{
			name:       "check failures",
			script:     "check foo bar\ncheck hello here\nchecknull a\n",
			wantFailed: true,
			wantOutput: []string{
				"Check fail: 'foo' => NULL, should be 'bar'\n",
				"Check fail: 'hello' => 'there', should be 'here'\n",
				"Check fail: 'a' => 'b', should be NULL\n",
			},
		},
		{
			name:       "arguments across lines",
			script:     "set\nk\n\nv\ncheck k\nv\n",
			wantOutput: []string{},
		},
		{
			name:       "unknown command",
			script:     "frobnicate\n",
			wantOutput: []string{"Unknown command 'frobnicate'\n"},
		},
		{
			name:       "comments",
			script:     "# set a z\nget a # get hello\n",
			wantOutput: []string{"'a' => 'b'\n"},
		},
		{
			name:       "free and list",
			script:     "free\nset x y\nlist\n",
			wantOutput: []string{"Cleared dictionary\n", "'x' -> 'y'\ncount=1\n"},
		},
		{
			name:       "decode",
			script:     "decode two\ndecode five\ndecode one\n",
			wantOutput: []string{"Decoded value 'two' -> 2\n", "Decoded value 'five' -> -1\n", "Decoded value 'one' -> 1\n"},
		},
		{
			name:       "rehash",
			script:     "rehash 64\ncheck hello there\nrehash 1\ncheck a b\n",
			wantOutput: []string{},
		},
		{
			name:       "bad rehash",
			script:     "rehash 3\nrehash x\n",
			wantFailed: true,
			wantOutput: []string{"slot count 3 is not a power of two\n", "rehash: "},
		},
		{
			name:       "locks",
			script:     "lock-rehash on\nlock-rebalance on\ntest\nlock-rehash off\nlock-rebalance off\ncheck zoom! zum\n",
			wantOutput: []string{"Insert test passed.\n"},
		},
		{
			name:       "bad lock",
			script:     "lock-rehash maybe\n",
			wantFailed: true,
			wantOutput: []string{"lock-rehash: expected on or off, got 'maybe'\n"},
		},
		{
			name:       "dump",
			script:     "dump\n",
			wantOutput: []string{"|-> hash=0x", "'hello': 'there'", "'a': 'b'", "n_entries=2, rehash_benefit="},
		},
		{
			name:       "help",
			script:     "help\n",
			wantOutput: []string{"Commands:\n", "    checknull <key>\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestShell(t)
			run(t, s, tt.script)
			for _, want := range tt.wantOutput {
				require.Contains(t, out.String(), want)
			}
			require.Equal(t, tt.wantFailed, s.Failed(), out.String())

			out.Reset()
			require.Equal(t, !tt.wantFailed, s.Finish())
			if tt.wantFailed {
				require.Equal(t, "FAILED\n", out.String())
			} else {
				require.Equal(t, "PASSED\n", out.String())
			}
		})
	}
}

func TestInsertTest(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "test count")
	require.Contains(t, out.String(), "Insert test passed.\n")
	// "hello" is both an initial entry and a test item.
	require.Contains(t, out.String(), fmt.Sprintf("count=%d\n", len(testItems)+1))

	out.Reset()
	run(t, s, "check snemurz\\ (snem-urz-BACKSLASH) check WozDinn` (Woz-Dinn-GRAVE) check hum hum")
	require.True(t, s.Failed())
	require.Contains(t, out.String(), "Check fail: 'hum' => NULL, should be 'hum'\n")
}

func TestInsertTestSpurious(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "set Hello world test")
	require.True(t, s.Failed())
	require.Contains(t, out.String(), "Test fail: spurious value for key 'Hello'\n")
	require.Contains(t, out.String(), "Insert test failed.\n")
}

func TestTruncated(t *testing.T) {
	s, _ := newTestShell(t)
	err := s.Run(strings.NewReader("set k"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "set: expected 2 argument(s), got 1")
}

func TestExit(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "set x y\nquit\nset x z\n")
	require.True(t, s.Exited())
	require.Contains(t, out.String(), "Exiting\n")

	run(t, s, "checknull x\n")
	require.False(t, s.Failed())

	out.Reset()
	s.exited = false
	run(t, s, "get x")
	require.Equal(t, "'x' => 'y'\n", out.String())
}

func TestVerbose(t *testing.T) {
	s, out := newTestShell(t)
	run(t, s, "verbose get a terse get a")
	require.Equal(t, 2, strings.Count(out.String(), "\nDictionary:\n"))
}

func TestPrompt(t *testing.T) {
	s, out := newTestShell(t, WithPrompt("> "))
	run(t, s, "get a\nset\nk v\n")
	// One prompt per line read at the start of a command, plus one at EOF.
	require.Equal(t, "> 'a' => 'b'\n> > ", out.String())
}

func TestDot(t *testing.T) {
	dir := t.TempDir()
	s, out := newTestShell(t, WithDotDir(dir))
	named := filepath.Join(dir, "named.dot")
	run(t, s, "dot\ndot "+named+"\ndot\n")

	for _, name := range []string{
		filepath.Join(dir, "dict_1.dot"),
		named,
		filepath.Join(dir, "dict_2.dot"),
	} {
		require.Contains(t, out.String(), fmt.Sprintf("Writing '%s'\n", name))
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		require.Contains(t, string(data), "digraph \"dict\" {\n")
		require.Contains(t, string(data), "[ label = \"'hello': 'there'\"];")
	}
	require.False(t, s.Failed())

	run(t, s, "dot "+filepath.Join(dir, "missing", "x.dot"))
	require.True(t, s.Failed())
	require.Contains(t, out.String(), "cannot open")
}

func TestLogger(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, _ := newTestShell(t, WithLogger(log))
	run(t, s, "set k v rehash 16")
	require.Contains(t, logs.String(), "msg=exec command=set")
	require.Contains(t, logs.String(), "msg=rehash slots=16 entries=3")
}

func TestDemo(t *testing.T) {
	var buf bytes.Buffer
	Demo(&buf)
	for _, want := range []string{
		"Hello -> there\n",
		"foo -> bar\n",
		"bar -> NULL\n",
		" bar -> tron\n",
		" Hello -> there\n",
		"n_entries=3, rehash_benefit=",
		"OK\n",
	} {
		require.Contains(t, buf.String(), want)
	}
}

func TestLongWords(t *testing.T) {
	s, out := newTestShell(t)
	long := strings.Repeat("k", 100<<10+1)
	run(t, s, "set "+long+" v\ncheck "+long+" v\nget a\n")
	require.False(t, s.Failed())
	require.Contains(t, out.String(), "'a' => 'b'\n")
}
