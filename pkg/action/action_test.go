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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGitHub_State(t *testing.T) {
	env := map[string]string{
		"STATE_post":     "true",
		"STATE_two_part": "yes",
	}

	rt := NewGitHub(
		WithWriter(&bytes.Buffer{}),
		WithGetenv(func(k string) string { return env[k] }),
	)

	assert.Equal(t, "true", rt.State("post"))
	assert.Equal(t, "yes", rt.State("two-part"), "dashes map to underscores")
	assert.Empty(t, rt.State("missing"))
}

func TestGitHub_GroupCommands(t *testing.T) {
	var buf bytes.Buffer

	rt := NewGitHub(
		WithWriter(&buf),
		WithGetenv(func(string) string { return "" }),
	)

	rt.Group("Cluster info")
	rt.Infof("node ready")
	rt.EndGroup()

	out := buf.String()
	assert.Contains(t, out, "::group::Cluster info")
	assert.Contains(t, out, "node ready")
	assert.Contains(t, out, "::endgroup::")
}

func TestFake_RecordsEverything(t *testing.T) {
	f := NewFake()

	f.SaveState("post", "true")
	f.SetOutput("kubeconfig", "/etc/rancher/k3s/k3s.yaml")
	f.SetEnv("KUBECONFIG", "/etc/rancher/k3s/k3s.yaml")
	f.Group("diag")
	f.Warningf("step %s failed", "journal")

	assert.Equal(t, "true", f.State("post"))
	assert.Equal(t, "/etc/rancher/k3s/k3s.yaml", f.Outputs["kubeconfig"])
	assert.Equal(t, "/etc/rancher/k3s/k3s.yaml", f.Env["KUBECONFIG"])
	assert.Equal(t, []string{"diag"}, f.Groups)
	assert.Equal(t, []string{"warning: step journal failed"}, f.Lines)
}
