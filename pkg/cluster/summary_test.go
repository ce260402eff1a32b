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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/setup-k3s/pkg/action"
)

func TestExportCredentials(t *testing.T) {
	rt := action.NewFake()

	NewReporter(rt).ExportCredentials("/etc/rancher/k3s/k3s.yaml")

	assert.Equal(t, "/etc/rancher/k3s/k3s.yaml", rt.Outputs["kubeconfig"])
	assert.Equal(t, "/etc/rancher/k3s/k3s.yaml", rt.Env["KUBECONFIG"])
}

func TestPrintSummary(t *testing.T) {
	node := &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "runner"},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
			},
			NodeInfo: corev1.NodeSystemInfo{KubeletVersion: "v1.30.2+k3s1"},
		},
	}
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "coredns-abc", Namespace: "kube-system"},
		Status:     corev1.PodStatus{Phase: corev1.PodRunning},
	}

	cs := fake.NewClientset(node, pod)
	rt := action.NewFake()

	NewReporter(rt).PrintSummary(t.Context(), cs)

	require.Equal(t, []string{"Cluster summary"}, rt.Groups)
	require.NotEmpty(t, rt.Lines)

	rendered := strings.Join(rt.Lines, "\n")
	assert.Contains(t, rendered, "runner")
	assert.Contains(t, rendered, "Ready")
	assert.Contains(t, rendered, "v1.30.2+k3s1")
	assert.Contains(t, rendered, "coredns-abc")
}

func TestNodeStatus(t *testing.T) {
	assert.Equal(t, "Ready", nodeStatus([]corev1.NodeCondition{
		{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
	}))
	assert.Equal(t, "NotReady", nodeStatus([]corev1.NodeCondition{
		{Type: corev1.NodeReady, Status: corev1.ConditionFalse},
	}))
	assert.Equal(t, "Unknown", nodeStatus(nil))
}
