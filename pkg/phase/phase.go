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

package phase

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/setup-k3s/pkg/action"
)

// StateKeyPost is the workflow state key that marks the setup phase as
// having started. Its presence routes the next invocation to teardown.
const StateKeyPost = "post"

// Dispatcher routes a single binary invocation to the setup or teardown
// phase based on persisted workflow state. The same entrypoint serves both
// the main and post steps of the action.
type Dispatcher struct {
	Runtime  action.Runtime
	Setup    func(ctx context.Context) error
	Teardown func(ctx context.Context) error
}

// Run selects and executes exactly one phase.
//
// The post marker is persisted before setup does any work, so teardown
// runs even when setup fails partway through. A marker that is present
// always routes to teardown; setup never runs twice.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.Runtime.State(StateKeyPost) == "true" {
		slog.Info("dispatching phase", slog.String("phase", "teardown"))
		return d.Teardown(ctx)
	}

	d.Runtime.SaveState(StateKeyPost, "true")
	slog.Info("dispatching phase", slog.String("phase", "setup"))
	return d.Setup(ctx)
}
