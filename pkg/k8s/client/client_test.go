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

package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://127.0.0.1:6443
  name: default
contexts:
- context:
    cluster: default
    user: default
  name: default
current-context: default
users:
- name: default
  user:
    token: test-token
`

func TestBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "k3s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validKubeconfig), 0o600))

	clientset, config, err := Build(path)
	require.NoError(t, err)
	require.NotNil(t, clientset)
	assert.Equal(t, "https://127.0.0.1:6443", config.Host)
}

func TestBuild_MissingFile(t *testing.T) {
	_, _, err := Build(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kube config")
}

func TestBuild_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o600))

	_, _, err := Build(path)
	require.Error(t, err)
}
