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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/treedict/internal/script"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	seed    uint64
	noColor bool
	verbose bool
)

// errFailed is returned when the session ran to completion but a check
// failed. The failure has already been reported on stdout.
var errFailed = errors.New("dictsh: checks failed")

var rootCmd = &cobra.Command{
	Use:   "dictsh [script...]",
	Short: "Exercise a tree dictionary with a small command language",
	Long: `dictsh runs a short demonstration of the dictionary and then executes
commands against a dictionary of strings, read from the given script files in
order or from standard input. Type "help" for the list of commands.

The session ends with PASSED if every check succeeded and FAILED otherwise, in
which case the exit status is 1.

Example:
  echo "set k v check k v dump" | dictsh --seed 1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func init() {
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the dictionary's random source (0 picks a random seed)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log commands and dictionary statistics to stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func runShell(in io.Reader, out, errOut io.Writer, scripts []string) error {
	script.Demo(out)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	options := []script.Option{
		script.WithLogger(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))),
	}
	if seed != 0 {
		options = append(options, script.WithSeed(seed))
	}
	if noColor {
		options = append(options, script.WithoutColor())
	}
	if f, ok := in.(*os.File); ok && len(scripts) == 0 && term.IsTerminal(int(f.Fd())) {
		options = append(options, script.WithPrompt("dict> "))
	}
	s := script.New(out, options...)

	err := runScripts(s, in, scripts)
	if !s.Finish() && err == nil {
		err = errFailed
	}
	return err
}

func runScripts(s *script.Shell, in io.Reader, scripts []string) error {
	if len(scripts) == 0 {
		return s.Run(in)
	}
	for _, name := range scripts {
		if s.Exited() {
			break
		}
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "opening script")
		}
		err = s.Run(f)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "%s", name)
		}
	}
	return nil
}
