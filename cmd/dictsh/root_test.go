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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// writeScript writes a script file into a temporary directory and returns
// its path.
func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func resetFlags(t *testing.T) {
	t.Helper()
	seed, noColor, verbose = 1, true, false
	t.Cleanup(func() { seed, noColor, verbose = 0, false, false })
}

func TestRunShell(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		scripts     map[string]string
		wantErr     error
		wantContain []string
		wantNot     []string
	}{
		{
			name:        "stdin passes",
			stdin:       "set k v\ncheck k v\nget hello\n",
			wantContain: []string{"Hello -> there\n", "OK\n", "'hello' => 'there'\n", "PASSED\n"},
			wantNot:     []string{"FAILED"},
		},
		{
			name:        "stdin fails",
			stdin:       "check k v\n",
			wantErr:     errFailed,
			wantContain: []string{"Check fail: 'k' => NULL, should be 'v'\n", "FAILED\n"},
		},
		{
			name: "scripts share state",
			scripts: map[string]string{
				"1.txt": "set k v\n",
				"2.txt": "check k v\ntest\n",
			},
			wantContain: []string{"Insert test passed.\n", "PASSED\n"},
		},
		{
			name: "exit skips later scripts",
			scripts: map[string]string{
				"1.txt": "exit\n",
				"2.txt": "check nope nope\n",
			},
			wantContain: []string{"Exiting\n", "PASSED\n"},
			wantNot:     []string{"Check fail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			var paths []string
			for _, name := range []string{"1.txt", "2.txt"} {
				if content, ok := tt.scripts[name]; ok {
					paths = append(paths, writeScript(t, name, content))
				}
			}

			var out, errOut bytes.Buffer
			err := runShell(strings.NewReader(tt.stdin), &out, &errOut, paths)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "%v", err)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantContain {
				require.Contains(t, out.String(), want)
			}
			for _, dont := range tt.wantNot {
				require.NotContains(t, out.String(), dont)
			}
		})
	}
}

func TestRunShellTruncated(t *testing.T) {
	resetFlags(t)
	path := writeScript(t, "short.txt", "check k")

	var out, errOut bytes.Buffer
	err := runShell(strings.NewReader(""), &out, &errOut, []string{path})
	require.Error(t, err)
	require.False(t, errors.Is(err, errFailed))
	require.Contains(t, err.Error(), "short.txt")
	require.Contains(t, out.String(), "PASSED\n")
}

func TestRunShellMissingScript(t *testing.T) {
	resetFlags(t)
	var out, errOut bytes.Buffer
	err := runShell(strings.NewReader(""), &out, &errOut, []string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "opening script")
}

func TestVerboseLogging(t *testing.T) {
	resetFlags(t)
	verbose = true
	var out, errOut bytes.Buffer
	require.NoError(t, runShell(strings.NewReader("rehash 8\n"), &out, &errOut, nil))
	require.Contains(t, errOut.String(), "level=DEBUG msg=exec command=rehash")
	require.Contains(t, errOut.String(), "msg=rehash slots=8")
}

func TestRootCommand(t *testing.T) {
	t.Cleanup(func() { seed, noColor, verbose = 0, false, false })
	path := writeScript(t, "s.txt", "set a z\ncheck a z\nlist\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"--seed", "42", "--no-color", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.EqualValues(t, 42, seed)
	require.True(t, noColor)
	require.Contains(t, out.String(), "'a' -> 'z'\n")
	require.Contains(t, out.String(), "count=2\n")
	require.Contains(t, out.String(), "PASSED\n")
}
