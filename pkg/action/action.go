// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package action

import (
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Runtime is the host automation runtime consumed by the lifecycle
// components: a cross-invocation state store, step outputs, environment
// export for descendant steps, and collapsible log grouping.
type Runtime interface {
	// SaveState persists a key/value pair into the workflow state store.
	// Values saved during the main step surface in the post step.
	SaveState(key, value string)

	// State reads a previously persisted state value. Returns the empty
	// string when the key was never saved.
	State(key string) string

	// SetOutput publishes a step output for subsequent workflow steps.
	SetOutput(key, value string)

	// SetEnv exports an environment variable to descendant steps.
	SetEnv(key, value string)

	// Group opens a collapsible log section. EndGroup closes it.
	Group(title string)
	EndGroup()

	// Infof, Warningf and Errorf emit leveled workflow log commands.
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
}

// GitHub is the production Runtime backed by the GitHub Actions workflow
// command protocol and the GITHUB_STATE/GITHUB_OUTPUT/GITHUB_ENV files.
type GitHub struct {
	action *githubactions.Action
	getenv githubactions.GetenvFunc
}

// Option customizes a GitHub runtime, primarily for tests.
type Option func(*config)

type config struct {
	writer io.Writer
	getenv githubactions.GetenvFunc
}

// WithWriter redirects workflow commands to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

// WithGetenv replaces the environment lookup used for state retrieval.
func WithGetenv(getenv githubactions.GetenvFunc) Option {
	return func(c *config) { c.getenv = getenv }
}

// NewGitHub creates a Runtime bound to the current GitHub Actions
// invocation.
func NewGitHub(opts ...Option) *GitHub {
	cfg := &config{
		writer: os.Stdout,
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &GitHub{
		action: githubactions.New(
			githubactions.WithWriter(cfg.writer),
			githubactions.WithGetenv(cfg.getenv),
		),
		getenv: cfg.getenv,
	}
}

// SaveState persists a key/value pair via GITHUB_STATE.
func (g *GitHub) SaveState(key, value string) {
	g.action.SaveState(key, value)
}

// State reads a persisted state value. GitHub exposes saved state to the
// post step as STATE_<key> environment variables.
func (g *GitHub) State(key string) string {
	return g.getenv("STATE_" + sanitizeStateKey(key))
}

// SetOutput publishes a step output via GITHUB_OUTPUT.
func (g *GitHub) SetOutput(key, value string) {
	g.action.SetOutput(key, value)
}

// SetEnv exports an environment variable via GITHUB_ENV.
func (g *GitHub) SetEnv(key, value string) {
	g.action.SetEnv(key, value)
}

// Group opens a collapsible log section.
func (g *GitHub) Group(title string) {
	g.action.Group(title)
}

// EndGroup closes the current collapsible log section.
func (g *GitHub) EndGroup() {
	g.action.EndGroup()
}

// Infof emits an informational workflow log line.
func (g *GitHub) Infof(format string, args ...any) {
	g.action.Infof(format, args...)
}

// Warningf emits a warning workflow command.
func (g *GitHub) Warningf(format string, args ...any) {
	g.action.Warningf(format, args...)
}

// Errorf emits an error workflow command.
func (g *GitHub) Errorf(format string, args ...any) {
	g.action.Errorf(format, args...)
}

// sanitizeStateKey mirrors the runner's mapping of state keys onto
// environment variable names.
func sanitizeStateKey(key string) string {
	return strings.ReplaceAll(strings.ReplaceAll(key, " ", "_"), "-", "_")
}
