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

package teardown

import (
	"context"
	"log/slog"
	"os"

	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/runner"
	"github.com/NVIDIA/setup-k3s/pkg/systemd"
)

// StepOutcome records one best-effort restoration step for logging.
type StepOutcome struct {
	Name string
	Err  error
}

// Report aggregates the outcomes of a teardown pass. The public operation
// has no failure variant: the report exists for observability only.
type Report struct {
	Steps []StepOutcome
}

// Failed returns the names of steps that reported an error.
func (r *Report) Failed() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Err != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

// Teardown restores the runner to its pre-setup state. Every step is
// best-effort and tolerant of partial or absent prior state: a mid-setup
// crash must still route here and leave the host clean.
type Teardown struct {
	Runner  runner.Runner
	Systemd systemd.Manager

	// fileExists is injectable for tests.
	fileExists func(path string) bool
}

// New creates a Teardown with production collaborators.
func New(r runner.Runner, sd systemd.Manager) *Teardown {
	return &Teardown{Runner: r, Systemd: sd}
}

// Uninstall undoes every side effect of setup. It always succeeds from the
// caller's perspective; individual step failures are logged and the
// remaining steps still run. The directory removal is unconditional so a
// missing or failing uninstall script cannot leave state behind.
func (t *Teardown) Uninstall(ctx context.Context) *Report {
	if t.fileExists == nil {
		t.fileExists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}

	report := &Report{}

	report.add("stop service", t.stopService(ctx))
	report.add("uninstall script", t.runUninstallScript(ctx))
	report.add("remove directories", t.removeDirectories(ctx))

	if failed := report.Failed(); len(failed) > 0 {
		slog.Warn("teardown finished with best-effort failures", slog.Any("steps", failed))
	} else {
		slog.Info("teardown complete")
	}

	return report
}

func (r *Report) add(name string, err error) {
	r.Steps = append(r.Steps, StepOutcome{Name: name, Err: err})
	if err != nil {
		slog.Warn("teardown step failed", slog.String("step", name), slog.String("error", err.Error()))
	}
}

// stopService stops the k3s unit when it is still running.
func (t *Teardown) stopService(ctx context.Context) error {
	active, err := t.Systemd.IsActive(ctx, defaults.ServiceUnit)
	if err != nil {
		return err
	}
	if !active {
		slog.Debug("service not active, skipping stop")
		return nil
	}
	return t.Systemd.Stop(ctx, defaults.ServiceUnit)
}

// runUninstallScript executes the uninstall helper the installer placed,
// when it exists. The script stops the service, removes the binary and
// most state on its own.
func (t *Teardown) runUninstallScript(ctx context.Context) error {
	if !t.fileExists(defaults.UninstallScript) {
		slog.Debug("uninstall script not present", slog.String("path", defaults.UninstallScript))
		return nil
	}
	_, err := t.Runner.Run(ctx, defaults.UninstallScript, nil)
	return err
}

// removeDirectories force-removes the k3s config and data directories
// regardless of whether the uninstall script existed or succeeded.
func (t *Teardown) removeDirectories(ctx context.Context) error {
	_, err := t.Runner.Run(ctx, "rm", []string{"-rf", defaults.ConfigDir, defaults.DataDir})
	return err
}
