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

package cli

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/setup-k3s/pkg/action"
	"github.com/NVIDIA/setup-k3s/pkg/cluster"
	"github.com/NVIDIA/setup-k3s/pkg/diagnostics"
	"github.com/NVIDIA/setup-k3s/pkg/installer"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
	"github.com/NVIDIA/setup-k3s/pkg/readiness"
	"github.com/NVIDIA/setup-k3s/pkg/runner"
	"github.com/NVIDIA/setup-k3s/pkg/systemd"
	"github.com/NVIDIA/setup-k3s/pkg/teardown"
)

// runSetup executes the main phase: install, optionally wait for
// readiness, then publish the cluster to the rest of the workflow.
func runSetup(ctx context.Context, cfg *Config, rt action.Runtime) error {
	r := runner.NewExec()
	sd := systemd.NewDBus()
	diag := diagnostics.New(r, rt)

	rt.Group("Installing k3s")
	err := installer.New(r, sd, diag).Install(ctx, cfg.VersionSelector, cfg.InstallArgs)
	rt.EndGroup()
	if err != nil {
		return err
	}

	reporter := cluster.NewReporter(rt)

	if !cfg.WaitForReady {
		slog.Info("readiness wait disabled, exporting credentials immediately")
		reporter.ExportCredentials(cfg.Kubeconfig)
		return nil
	}

	prober := readiness.New(sd, cfg.Kubeconfig, diag)
	if cfg.DNSReadiness {
		prober.DNS = readiness.NewDNSCheckFromKubeconfig(cfg.Kubeconfig)
	}

	if err := prober.WaitReady(ctx, cfg.ReadinessTimeout); err != nil {
		return err
	}

	reporter.ExportCredentials(cfg.Kubeconfig)

	// The summary is informational; a failure to render it must not fail
	// a setup that already succeeded.
	cs, _, err := client.Build(cfg.Kubeconfig)
	if err != nil {
		rt.Warningf("failed to build client for cluster summary: %v", err)
		return nil
	}
	reporter.PrintSummary(ctx, cs)

	return nil
}

// runTeardown executes the post phase. It never fails the job: a teardown
// error in the post step would mask the workflow's real outcome.
func runTeardown(ctx context.Context, rt action.Runtime) error {
	report := teardown.New(runner.NewExec(), systemd.NewDBus()).Uninstall(ctx)
	for _, step := range report.Failed() {
		rt.Warningf("teardown step %q failed", step)
	}
	return nil
}
