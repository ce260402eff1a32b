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
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/setup-k3s/pkg/diagnostics"
	"github.com/NVIDIA/setup-k3s/pkg/errors"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
	"github.com/NVIDIA/setup-k3s/pkg/systemd"
)

// fakeClock drives the prober's wall clock; sleeping advances time.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time        { return c.t }
func (c *fakeClock) sleep(d time.Duration) { c.t = c.t.Add(d) }

type countingDiagnostics struct {
	calls int
}

func (c *countingDiagnostics) Collect(_ context.Context) *diagnostics.Bundle {
	c.calls++
	return &diagnostics.Bundle{}
}

// healthyClusterObjects is a single-node cluster with CoreDNS settled.
func healthyClusterObjects() []runtime.Object {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "runner"},
		Status: corev1.NodeStatus{Conditions: []corev1.NodeCondition{
			{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
		}},
	}
	coredns := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "coredns-abc",
			Namespace: "kube-system",
			Labels:    map[string]string{"k8s-app": "kube-dns"},
		},
		Status: corev1.PodStatus{
			Phase:             corev1.PodRunning,
			ContainerStatuses: []corev1.ContainerStatus{{Name: "coredns", Ready: true}},
		},
	}
	return []runtime.Object{node, coredns}
}

func newTestProber(sd systemd.Manager, cs client.Interface, diag DiagnosticsCollector, clock *fakeClock) *Prober {
	return &Prober{
		Systemd:       sd,
		Kubeconfig:    "/etc/rancher/k3s/k3s.yaml",
		ClientFactory: func() (client.Interface, error) { return cs, nil },
		Diagnostics:   diag,
		Interval:      5 * time.Second,
		fileReadable:  func(string) bool { return true },
		now:           clock.now,
		sleep:         clock.sleep,
	}
}

func TestWaitReady_SucceedsWhenClusterHealthy(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	sd := &systemd.Fake{Active: true}
	cs := fake.NewClientset(healthyClusterObjects()...)
	diag := &countingDiagnostics{}

	p := newTestProber(sd, cs, diag, clock)
	err := p.WaitReady(t.Context(), 120*time.Second)

	require.NoError(t, err)
	assert.Equal(t, 1, sd.IsActiveCalls, "healthy cluster passes on the first cycle")
	assert.Zero(t, diag.calls)
}

func TestWaitReady_SuccessOnThirdCycle_NoExtraPolling(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	sd := &systemd.Fake{Active: true, ActiveSeq: []bool{false, false}}
	cs := fake.NewClientset(healthyClusterObjects()...)
	diag := &countingDiagnostics{}

	p := newTestProber(sd, cs, diag, clock)
	start := clock.t
	err := p.WaitReady(t.Context(), 120*time.Second)

	require.NoError(t, err)
	assert.Equal(t, 3, sd.IsActiveCalls, "exactly three cycles, no polling after success")
	assert.Equal(t, 10*time.Second, clock.t.Sub(start), "two inter-cycle sleeps")
	assert.Zero(t, diag.calls)
}

func TestWaitReady_TimeoutWindowAndSingleDiagnostics(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	// State 3 (api reachable) never passes: the client factory fails.
	sd := &systemd.Fake{Active: true}
	diag := &countingDiagnostics{}

	p := &Prober{
		Systemd:       sd,
		Kubeconfig:    "/etc/rancher/k3s/k3s.yaml",
		ClientFactory: func() (client.Interface, error) { return nil, stderrors.New("connection refused") },
		Diagnostics:   diag,
		Interval:      5 * time.Second,
		fileReadable:  func(string) bool { return true },
		now:           clock.now,
		sleep:         clock.sleep,
	}

	const timeout = 12 * time.Second
	start := clock.t
	err := p.WaitReady(t.Context(), timeout)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeReadinessTimeout, errors.CodeOf(err))
	assert.Equal(t, 1, diag.calls, "diagnostics must run exactly once")

	elapsed := clock.t.Sub(start)
	assert.GreaterOrEqual(t, elapsed, timeout, "must not fail before the deadline")
	assert.LessOrEqual(t, elapsed, timeout+p.Interval, "must fail within one interval past the deadline")
}

func TestWaitReady_NonPositiveTimeoutIsConfigError(t *testing.T) {
	p := newTestProber(&systemd.Fake{}, fake.NewClientset(), nil, &fakeClock{t: time.Now()})

	err := p.WaitReady(t.Context(), 0)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.CodeOf(err))
	assert.Zero(t, p.Systemd.(*systemd.Fake).IsActiveCalls, "no polling on a config error")
}

type fakeDNS struct {
	err   error
	calls int
}

func (f *fakeDNS) Verify(_ context.Context, _ client.Interface) error {
	f.calls++
	return f.err
}

func TestWaitReady_DNSFailureIsTerminal(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	sd := &systemd.Fake{Active: true}
	cs := fake.NewClientset(healthyClusterObjects()...)
	diag := &countingDiagnostics{}

	p := newTestProber(sd, cs, diag, clock)
	dns := &fakeDNS{err: stderrors.New("probe pod unschedulable")}
	p.DNS = dns

	start := clock.t
	err := p.WaitReady(t.Context(), 120*time.Second)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDNSProbeFailed, errors.CodeOf(err))
	assert.Equal(t, 1, dns.calls)
	assert.Equal(t, time.Duration(0), clock.t.Sub(start), "failure is immediate, not waited out")
}

func TestWaitReady_DNSSuccess(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	sd := &systemd.Fake{Active: true}
	cs := fake.NewClientset(healthyClusterObjects()...)

	p := newTestProber(sd, cs, nil, clock)
	dns := &fakeDNS{}
	p.DNS = dns

	require.NoError(t, p.WaitReady(t.Context(), 120*time.Second))
	assert.Equal(t, 1, dns.calls)
}
