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
	"os"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
)

// Check is a single ordered readiness fact. Probe errors are treated as
// "not yet true": the cluster may still be converging.
type Check struct {
	Name  string
	Probe func(ctx context.Context) (bool, error)
}

// CheckResult is one evaluated fact within a cycle's snapshot.
type CheckResult struct {
	Name string
	OK   bool
}

// Snapshot is the outcome of a single poll cycle. Evaluation short-circuits
// at the first false fact, so Results never contains entries past it.
type Snapshot struct {
	Results []CheckResult
}

// Ready reports whether every fact in the cycle was true.
func (s Snapshot) Ready() bool {
	if len(s.Results) == 0 {
		return false
	}
	for _, r := range s.Results {
		if !r.OK {
			return false
		}
	}
	return true
}

// FirstFailure returns the name of the fact that stopped the cycle, or the
// empty string when the cycle passed.
func (s Snapshot) FirstFailure() string {
	for _, r := range s.Results {
		if !r.OK {
			return r.Name
		}
	}
	return ""
}

// Evaluate runs the checks in order, stopping at the first false fact.
// Later facts are meaningless once an earlier one fails, so they are never
// probed. The snapshot is recomputed from scratch every cycle.
func Evaluate(ctx context.Context, checks []Check) Snapshot {
	snap := Snapshot{Results: make([]CheckResult, 0, len(checks))}

	for _, c := range checks {
		ok, err := c.Probe(ctx)
		if err != nil {
			ok = false
		}
		snap.Results = append(snap.Results, CheckResult{Name: c.Name, OK: ok})
		if !ok {
			break
		}
	}

	return snap
}

// fileReadable reports whether the path exists and can be opened.
func fileReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// anyNodeReady reports whether at least one node carries Ready=True.
func anyNodeReady(nodes []corev1.Node) bool {
	for i := range nodes {
		for _, cond := range nodes[i].Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
				return true
			}
		}
	}
	return false
}

// systemComponentsReady applies the essential-components policy to the
// system namespace: the CoreDNS add-on must be running with all containers
// ready, and no pod outside the exempted Helm install-job category may be
// in an Error or CrashLoopBackOff state.
func systemComponentsReady(pods []corev1.Pod) bool {
	dnsReady := false

	for i := range pods {
		pod := &pods[i]

		if pod.Labels["k8s-app"] == "kube-dns" && isPodRunningReady(pod) {
			dnsReady = true
		}

		if isInstallerJobPod(pod) {
			continue
		}

		if isPodBroken(pod) {
			return false
		}
	}

	return dnsReady
}

// isPodRunningReady reports a Running pod with every container ready.
func isPodRunningReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if !cs.Ready {
			return false
		}
	}
	return len(pod.Status.ContainerStatuses) > 0
}

// isInstallerJobPod identifies k3s's bundled Helm install job pods
// (helm-install-traefik and friends), which legitimately churn and
// terminate while the cluster is otherwise healthy.
func isInstallerJobPod(pod *corev1.Pod) bool {
	return strings.HasPrefix(pod.Name, "helm-install-")
}

// isPodBroken reports a pod in a state the cluster will not recover from
// on its own within this poll cycle.
func isPodBroken(pod *corev1.Pod) bool {
	if pod.Status.Phase == corev1.PodFailed {
		return true
	}
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.State.Waiting == nil {
			continue
		}
		switch cs.State.Waiting.Reason {
		case "CrashLoopBackOff", "Error", "ErrImagePull", "ImagePullBackOff":
			return true
		}
	}
	return false
}

// buildChecks assembles the fixed, ordered check sequence against the live
// collaborators. The kubernetes client is built lazily once the kubeconfig
// is accessible and cached for subsequent cycles.
func (p *Prober) buildChecks() []Check {
	return []Check{
		{
			Name: "service active",
			Probe: func(ctx context.Context) (bool, error) {
				return p.Systemd.IsActive(ctx, defaults.ServiceUnit)
			},
		},
		{
			Name: "kubeconfig accessible",
			Probe: func(_ context.Context) (bool, error) {
				return p.fileReadable(p.Kubeconfig), nil
			},
		},
		{
			Name: "api reachable",
			Probe: func(ctx context.Context) (bool, error) {
				cs, err := p.clientset()
				if err != nil {
					return false, err
				}
				_, err = cs.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
				return err == nil, nil
			},
		},
		{
			Name: "node ready",
			Probe: func(ctx context.Context) (bool, error) {
				cs, err := p.clientset()
				if err != nil {
					return false, err
				}
				nodes, err := cs.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
				if err != nil {
					return false, err
				}
				return anyNodeReady(nodes.Items), nil
			},
		},
		{
			Name: "system components ready",
			Probe: func(ctx context.Context) (bool, error) {
				cs, err := p.clientset()
				if err != nil {
					return false, err
				}
				pods, err := cs.CoreV1().Pods(defaults.SystemNamespace).List(ctx, metav1.ListOptions{})
				if err != nil {
					return false, err
				}
				return systemComponentsReady(pods.Items), nil
			},
		},
	}
}

// clientset returns the cached kubernetes client, building it on first use.
func (p *Prober) clientset() (client.Interface, error) {
	if p.cached != nil {
		return p.cached, nil
	}
	cs, err := p.ClientFactory()
	if err != nil {
		return nil, err
	}
	p.cached = cs
	return cs, nil
}
