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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/treedict"
	"github.com/spf13/cobra"
)

var (
	showCounts bool
	showDot    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "guniq [file...]",
	Short: "Globally unique'ify input lines, with instance counts",
	Long: `guniq copies its input to standard output, dropping every line that
has been seen before anywhere in the input, not just on the previous line.
Input is read from the named files in order, or from standard input.

Example:
  guniq -c access.log`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGuniq(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&showCounts, "count", "c", false, "After the input, print each distinct line with its number of occurrences")
	rootCmd.Flags().BoolVarP(&showDot, "dot", "d", false, "After the input, print the dictionary structure in dot format")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log dictionary statistics to stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGuniq(in io.Reader, out, errOut io.Writer, files []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	// The scanner reuses its buffer, so the dictionary must own its keys.
	lines := treedict.New[[]byte, *int](treedict.Bytes)
	defer lines.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	if len(files) == 0 {
		if err := uniq(lines, in, w); err != nil {
			return errors.Wrap(err, "reading standard input")
		}
	}
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "opening input")
		}
		err = uniq(lines, f, w)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}
	}
	log.Debug("input done", "lines", lines.Len(), "slots", lines.SlotCount(),
		"bytes", lines.AllocatedBytes())

	if showCounts {
		lines.All(func(line []byte, count *int) bool {
			fmt.Fprintf(w, "%10d %s\n", *count, line)
			return true
		})
	}
	if showDot {
		lines.DumpDot(w, func(w io.Writer, line []byte, count *int) {
			fmt.Fprintf(w, "%s: %d", line, *count)
		})
	}
	return errors.Wrap(w.Flush(), "writing output")
}

// uniq copies the lines of r that are not yet in lines to w, and counts
// every line of r in lines.
func uniq(lines *treedict.Dict[[]byte, *int], r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), math.MaxInt)
	for sc.Scan() {
		line := sc.Bytes()
		if count, ok := lines.Get(line); ok {
			*count++
			continue
		}
		w.Write(line)
		io.WriteString(w, "\n")
		count := 1
		lines.Insert(line, &count)
	}
	return sc.Err()
}
