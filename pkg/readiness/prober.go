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

package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/diagnostics"
	"github.com/NVIDIA/setup-k3s/pkg/errors"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
	"github.com/NVIDIA/setup-k3s/pkg/systemd"
)

// DiagnosticsCollector is invoked exactly once when the deadline elapses
// before the cluster passes every check.
type DiagnosticsCollector interface {
	Collect(ctx context.Context) *diagnostics.Bundle
}

// DNSVerifier performs the optional end-to-end DNS resolution check after
// the core checks pass. Its failures are terminal, not retried.
type DNSVerifier interface {
	Verify(ctx context.Context, cs client.Interface) error
}

// Prober is the bounded polling state machine that decides when the
// cluster is operational. Each cycle re-derives every fact from scratch in
// a fixed order and short-circuits at the first false one.
type Prober struct {
	Systemd       systemd.Manager
	Kubeconfig    string
	ClientFactory func() (client.Interface, error)
	Diagnostics   DiagnosticsCollector

	// DNS, when non-nil, is run once after the core checks pass.
	DNS DNSVerifier

	// Interval is the delay between poll cycles.
	Interval time.Duration

	// injectable seams for tests
	fileReadable func(path string) bool
	now          func() time.Time
	sleep        func(time.Duration)

	cached client.Interface
}

// New creates a Prober with production collaborators.
func New(sd systemd.Manager, kubeconfig string, diag DiagnosticsCollector) *Prober {
	p := &Prober{
		Systemd:     sd,
		Kubeconfig:  kubeconfig,
		Diagnostics: diag,
		Interval:    defaults.ReadinessPollInterval,
	}
	p.ClientFactory = func() (client.Interface, error) {
		cs, _, err := client.Build(kubeconfig)
		return cs, err
	}
	return p
}

// WaitReady polls until every readiness fact is true within a single cycle
// or the deadline elapses. The deadline is checked at the top of each
// cycle, so a timeout surfaces no earlier than the deadline and no later
// than one poll interval past it.
func (p *Prober) WaitReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("readiness timeout must be positive, got %s", timeout))
	}

	p.applyDefaults()
	checks := p.buildChecks()
	start := p.now()

	slog.Info("waiting for cluster readiness",
		slog.Duration("timeout", timeout),
		slog.Duration("interval", p.Interval))

	for {
		elapsed := p.now().Sub(start)
		if elapsed > timeout {
			if p.Diagnostics != nil {
				p.Diagnostics.Collect(ctx)
			}
			return errors.NewWithContext(errors.ErrCodeReadinessTimeout,
				fmt.Sprintf("cluster not ready after %s", elapsed.Round(time.Second)),
				map[string]any{"elapsed": elapsed.String(), "timeout": timeout.String()})
		}

		snap := Evaluate(ctx, checks)
		if snap.Ready() {
			if p.DNS != nil {
				cs, err := p.clientset()
				if err != nil {
					return errors.Wrap(errors.ErrCodeDNSProbeFailed, "failed to build client for DNS probe", err)
				}
				if err := p.DNS.Verify(ctx, cs); err != nil {
					return errors.Wrap(errors.ErrCodeDNSProbeFailed, "in-cluster DNS verification failed", err)
				}
			}
			slog.Info("cluster ready", slog.Duration("elapsed", p.now().Sub(start)))
			return nil
		}

		slog.Info("cluster not ready yet",
			slog.String("waiting_on", snap.FirstFailure()),
			slog.Duration("elapsed", elapsed.Round(time.Second)))

		p.sleep(p.Interval)
	}
}

func (p *Prober) applyDefaults() {
	if p.Interval <= 0 {
		p.Interval = defaults.ReadinessPollInterval
	}
	if p.fileReadable == nil {
		p.fileReadable = fileReadable
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
}
