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

package installer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/diagnostics"
	"github.com/NVIDIA/setup-k3s/pkg/errors"
	"github.com/NVIDIA/setup-k3s/pkg/runner"
	"github.com/NVIDIA/setup-k3s/pkg/systemd"
)

// DiagnosticsCollector is invoked once when the service fails to come up
// after a successful install. It must never fail.
type DiagnosticsCollector interface {
	Collect(ctx context.Context) *diagnostics.Bundle
}

// Installer downloads and runs the k3s install script, then verifies the
// resulting systemd unit reached an active state.
type Installer struct {
	Runner      runner.Runner
	Systemd     systemd.Manager
	Diagnostics DiagnosticsCollector

	// Warmup is the fixed delay between the install script returning and
	// the unit state query. Defaults to defaults.InstallWarmup.
	Warmup time.Duration

	// sleep is injectable for tests.
	sleep func(time.Duration)
}

// New creates an Installer with production defaults.
func New(r runner.Runner, sd systemd.Manager, diag DiagnosticsCollector) *Installer {
	return &Installer{
		Runner:      r,
		Systemd:     sd,
		Diagnostics: diag,
		Warmup:      defaults.InstallWarmup,
		sleep:       time.Sleep,
	}
}

// Install resolves the version selector, runs the upstream install script
// with the verbatim extra arguments, and verifies the k3s unit is active.
//
// A script failure surfaces as INSTALL_FAILED without diagnostics: the
// service does not exist yet and a diagnostics pass would be misleading.
// A unit that never reports active surfaces as SERVICE_NOT_ACTIVE after a
// single diagnostics collection.
func (i *Installer) Install(ctx context.Context, selector, installArgs string) error {
	sel := ResolveSelector(selector)

	slog.Info("installing k3s",
		slog.String("channel", sel.Channel),
		slog.String("version", sel.Version),
		slog.String("args", installArgs))

	script := buildInstallCommand(sel, installArgs)
	if _, err := i.Runner.Run(ctx, "sh", []string{"-c", script}); err != nil {
		return errors.Wrap(errors.ErrCodeInstallFailed, "k3s install script failed", err)
	}

	// Give the k3s process time to fork and register with systemd before
	// asking for the unit state.
	i.sleepFor(i.warmup())

	active, err := i.Systemd.IsActive(ctx, defaults.ServiceUnit)
	if err != nil {
		// A failed state query counts as "not active", matching the
		// systemctl is-active exit-code convention.
		slog.Warn("unit state query failed", slog.String("error", err.Error()))
		active = false
	}

	if !active {
		if i.Diagnostics != nil {
			i.Diagnostics.Collect(ctx)
		}
		return errors.New(errors.ErrCodeServiceNotActive,
			fmt.Sprintf("%s did not reach active state after install", defaults.ServiceUnit))
	}

	slog.Info("k3s service active", slog.String("unit", defaults.ServiceUnit))
	return nil
}

func (i *Installer) warmup() time.Duration {
	if i.Warmup > 0 {
		return i.Warmup
	}
	return defaults.InstallWarmup
}

func (i *Installer) sleepFor(d time.Duration) {
	if i.sleep != nil {
		i.sleep(d)
		return
	}
	time.Sleep(d)
}

// buildInstallCommand assembles the single shell pipeline that fetches the
// install script and feeds it to sh with the resolved selection exported
// and the extra arguments passed through positionally.
func buildInstallCommand(sel Selection, installArgs string) string {
	var b strings.Builder
	b.WriteString("curl -sfL ")
	b.WriteString(defaults.InstallScriptURL)
	b.WriteString(" | ")
	b.WriteString(sel.EnvAssignment())
	b.WriteString(" sh -s -")
	if args := strings.TrimSpace(installArgs); args != "" {
		b.WriteString(" ")
		b.WriteString(args)
	}
	return b.String()
}
