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

import "log/slog"

// Option configures a Shell.
type Option interface {
	apply(s *Shell)
}

type seedOption struct {
	seed uint64
}

func (op seedOption) apply(s *Shell) {
	s.seed, s.seeded = op.seed, true
}

// WithSeed seeds the random source of the dictionary under test, making its
// tree shapes and therefore dumps and listings reproducible.
func WithSeed(seed uint64) Option {
	return seedOption{seed}
}

type loggerOption struct {
	log *slog.Logger
}

func (op loggerOption) apply(s *Shell) {
	s.log = op.log
}

// WithLogger sets the logger the Shell reports executed commands and
// dictionary statistics to at debug level. By default nothing is logged.
func WithLogger(log *slog.Logger) Option {
	return loggerOption{log}
}

type promptOption struct {
	prompt string
}

func (op promptOption) apply(s *Shell) {
	s.prompt = op.prompt
}

// WithPrompt sets a prompt to print whenever a new line of input is needed.
func WithPrompt(prompt string) Option {
	return promptOption{prompt}
}

type noColorOption struct{}

func (noColorOption) apply(s *Shell) {
	s.failColor.DisableColor()
	s.passColor.DisableColor()
}

// WithoutColor disables colored output even when writing to a terminal.
func WithoutColor() Option {
	return noColorOption{}
}

type dotDirOption struct {
	dir string
}

func (op dotDirOption) apply(s *Shell) {
	s.dotDir = op.dir
}

// WithDotDir sets the directory the dot command writes numbered files to
// when it is not given a file name. The default is the current directory.
func WithDotDir(dir string) Option {
	return dotDirOption{dir}
}
