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

package diagnostics

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/setup-k3s/pkg/action"
	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/runner"
)

// StepResult records the outcome of a single diagnostics command.
type StepResult struct {
	Name   string
	Output string
	Err    error
}

// Bundle aggregates the per-step outcomes of one diagnostics pass. It is
// emitted to the log stream and never persisted.
type Bundle struct {
	Steps []StepResult
}

// Failed returns the names of steps whose command could not be run.
func (b *Bundle) Failed() []string {
	var names []string
	for _, s := range b.Steps {
		if s.Err != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

type step struct {
	name string
	cmd  string
	args []string
}

// collectionSteps is the fixed diagnostics sequence. Every step always
// runs; a failing step is reported as a warning and never aborts the pass.
var collectionSteps = []step{
	{"service status", "systemctl", []string{"status", "k3s", "--no-pager"}},
	{"service log tail", "journalctl", []string{"-u", "k3s", "-n", "100", "--no-pager"}},
	{"kubeconfig directory", "ls", []string{"-laR", defaults.ConfigDir}},
	{"listening sockets", "ss", []string{"-tlpn"}},
	{"network interfaces", "ip", []string{"addr"}},
	{"containers", "k3s", []string{"crictl", "ps", "-a"}},
}

// Collector gathers host and service state when setup fails terminally.
type Collector struct {
	Runner  runner.Runner
	Runtime action.Runtime
}

// New creates a diagnostics Collector.
func New(r runner.Runner, rt action.Runtime) *Collector {
	return &Collector{Runner: r, Runtime: rt}
}

// Collect runs the fixed diagnostics sequence and emits every result to
// the log stream inside a collapsible group. It cannot fail: a step whose
// command errors is itself logged as a warning, so diagnostics never mask
// the failure that triggered them.
func (c *Collector) Collect(ctx context.Context) *Bundle {
	slog.Info("collecting failure diagnostics")

	c.Runtime.Group("k3s diagnostics")
	defer c.Runtime.EndGroup()

	bundle := &Bundle{Steps: make([]StepResult, 0, len(collectionSteps))}

	for _, s := range collectionSteps {
		res, err := c.Runner.Run(ctx, s.cmd, s.args, runner.Quiet(), runner.IgnoreExitCode())

		sr := StepResult{Name: s.name, Err: err}
		if res != nil {
			sr.Output = res.Output
		}
		bundle.Steps = append(bundle.Steps, sr)

		if err != nil {
			c.Runtime.Warningf("diagnostics step %q failed: %v", s.name, err)
			continue
		}

		c.Runtime.Infof("--- %s ---", s.name)
		c.Runtime.Infof("%s", sr.Output)
	}

	return bundle
}
