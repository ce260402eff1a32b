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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSelector(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		want     Selection
	}{
		{"latest channel", "latest", Selection{Channel: "latest"}},
		{"stable channel", "stable", Selection{Channel: "stable"}},
		{"empty resolves to stable", "", Selection{Channel: "stable"}},
		{"whitespace resolves to stable", "   ", Selection{Channel: "stable"}},
		{"exact tag pins", "v1.30.2+k3s1", Selection{Version: "v1.30.2+k3s1"}},
		{"tag with surrounding space", " v1.29.0+k3s1 ", Selection{Version: "v1.29.0+k3s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSelector(tt.selector))
		})
	}
}

func TestSelection_EnvAssignment(t *testing.T) {
	assert.Equal(t, "INSTALL_K3S_CHANNEL=stable", Selection{Channel: "stable"}.EnvAssignment())
	assert.Equal(t, "INSTALL_K3S_CHANNEL=latest", Selection{Channel: "latest"}.EnvAssignment())
	assert.Equal(t, "INSTALL_K3S_VERSION=v1.30.2+k3s1", Selection{Version: "v1.30.2+k3s1"}.EnvAssignment())
}

func TestBuildInstallCommand(t *testing.T) {
	cmd := buildInstallCommand(Selection{Channel: "stable"}, "--write-kubeconfig-mode 644")
	assert.Equal(t,
		"curl -sfL https://get.k3s.io | INSTALL_K3S_CHANNEL=stable sh -s - --write-kubeconfig-mode 644",
		cmd)

	cmd = buildInstallCommand(Selection{Version: "v1.30.2+k3s1"}, "")
	assert.Equal(t,
		"curl -sfL https://get.k3s.io | INSTALL_K3S_VERSION=v1.30.2+k3s1 sh -s -",
		cmd)
}
