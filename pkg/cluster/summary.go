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

package cluster

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/setup-k3s/pkg/action"
	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
)

// NodeInfo is the node slice of the post-setup summary.
type NodeInfo struct {
	Name    string `yaml:"name"`
	Status  string `yaml:"status"`
	Version string `yaml:"version"`
}

// PodInfo is the system-pod slice of the post-setup summary.
type PodInfo struct {
	Name  string `yaml:"name"`
	Phase string `yaml:"phase"`
}

// Summary is the human-readable cluster state emitted once setup succeeds.
type Summary struct {
	ServerVersion string     `yaml:"serverVersion"`
	Nodes         []NodeInfo `yaml:"nodes"`
	SystemPods    []PodInfo  `yaml:"systemPods"`
}

// Reporter exports cluster credentials and prints the readiness summary.
type Reporter struct {
	Runtime action.Runtime
}

// NewReporter creates a Reporter.
func NewReporter(rt action.Runtime) *Reporter {
	return &Reporter{Runtime: rt}
}

// ExportCredentials publishes the kubeconfig path as both a step output
// and an environment variable for descendant steps.
func (r *Reporter) ExportCredentials(path string) {
	r.Runtime.SetOutput("kubeconfig", path)
	r.Runtime.SetEnv("KUBECONFIG", path)
	slog.Info("kubeconfig exported", slog.String("path", path))
}

// PrintSummary fetches node, system-pod and version information
// concurrently and renders it as YAML inside a collapsible log group.
// Summary failures are logged as warnings: the cluster is already verified
// ready, so reporting must not fail the phase.
func (r *Reporter) PrintSummary(ctx context.Context, cs client.Interface) {
	summary, err := buildSummary(ctx, cs)
	if err != nil {
		r.Runtime.Warningf("failed to build cluster summary: %v", err)
		return
	}

	rendered, err := yaml.Marshal(summary)
	if err != nil {
		r.Runtime.Warningf("failed to render cluster summary: %v", err)
		return
	}

	r.Runtime.Group("Cluster summary")
	defer r.Runtime.EndGroup()
	r.Runtime.Infof("%s", string(rendered))
}

// buildSummary gathers the three summary slices in parallel.
func buildSummary(ctx context.Context, cs client.Interface) (*Summary, error) {
	summary := &Summary{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodes, err := cs.CoreV1().Nodes().List(gctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list nodes: %w", err)
		}
		for i := range nodes.Items {
			node := &nodes.Items[i]
			summary.Nodes = append(summary.Nodes, NodeInfo{
				Name:    node.Name,
				Status:  nodeStatus(node.Status.Conditions),
				Version: node.Status.NodeInfo.KubeletVersion,
			})
		}
		return nil
	})

	g.Go(func() error {
		pods, err := cs.CoreV1().Pods(defaults.SystemNamespace).List(gctx, metav1.ListOptions{})
		if err != nil {
			return fmt.Errorf("failed to list system pods: %w", err)
		}
		for i := range pods.Items {
			summary.SystemPods = append(summary.SystemPods, PodInfo{
				Name:  pods.Items[i].Name,
				Phase: string(pods.Items[i].Status.Phase),
			})
		}
		return nil
	})

	g.Go(func() error {
		version, err := cs.Discovery().ServerVersion()
		if err != nil {
			return fmt.Errorf("failed to query server version: %w", err)
		}
		summary.ServerVersion = version.GitVersion
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}

// nodeStatus mirrors the kubectl get nodes STATUS column.
func nodeStatus(conditions []corev1.NodeCondition) string {
	for _, cond := range conditions {
		if cond.Type == corev1.NodeReady {
			if cond.Status == corev1.ConditionTrue {
				return "Ready"
			}
			return "NotReady"
		}
	}
	return "Unknown"
}
