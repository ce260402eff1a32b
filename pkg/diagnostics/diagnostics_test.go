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

package diagnostics

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/setup-k3s/pkg/action"
	"github.com/NVIDIA/setup-k3s/pkg/runner"
)

func TestCollect_RunsEveryStepInOrder(t *testing.T) {
	r := runner.NewFake()
	rt := action.NewFake()

	bundle := New(r, rt).Collect(t.Context())

	require.Len(t, bundle.Steps, len(collectionSteps))
	assert.Equal(t, []string{
		"systemctl status k3s --no-pager",
		"journalctl -u k3s -n 100 --no-pager",
		"ls -laR /etc/rancher/k3s",
		"ss -tlpn",
		"ip addr",
		"k3s crictl ps -a",
	}, r.Calls)
	assert.Equal(t, []string{"k3s diagnostics"}, rt.Groups)
	assert.Empty(t, bundle.Failed())
}

func TestCollect_StepFailureDoesNotAbort(t *testing.T) {
	r := runner.NewFake()
	r.Script("journalctl -u k3s -n 100 --no-pager", nil, stderrors.New("journalctl not found"))
	r.Script("ss -tlpn", nil, stderrors.New("ss not found"))
	rt := action.NewFake()

	bundle := New(r, rt).Collect(t.Context())

	// All steps still ran.
	require.Len(t, r.Calls, len(collectionSteps))
	assert.Equal(t, []string{"service log tail", "listening sockets"}, bundle.Failed())

	// Failures surfaced as warnings only.
	var warnings int
	for _, line := range rt.Lines {
		if len(line) >= 8 && line[:8] == "warning:" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestCollect_CapturesOutput(t *testing.T) {
	r := runner.NewFake()
	r.Script("systemctl status k3s --no-pager", &runner.Result{Output: "active (running)"}, nil)
	rt := action.NewFake()

	bundle := New(r, rt).Collect(t.Context())

	assert.Equal(t, "service status", bundle.Steps[0].Name)
	assert.Equal(t, "active (running)", bundle.Steps[0].Output)
}
