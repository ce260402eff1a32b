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

package runner

import (
	"context"
	"strings"
)

// Response is a scripted outcome for a Fake command invocation.
type Response struct {
	Result *Result
	Err    error
}

// Fake is a scriptable Runner for tests. Responses are keyed by the
// command name followed by its arguments, space separated. Unscripted
// commands succeed with an empty result.
type Fake struct {
	Responses map[string]Response
	Calls     []string
}

// NewFake creates an empty scriptable runner.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]Response)}
}

// Script registers a response for the given command line.
func (f *Fake) Script(cmdline string, res *Result, err error) {
	f.Responses[cmdline] = Response{Result: res, Err: err}
}

// Run records the invocation and replays the scripted response.
func (f *Fake) Run(_ context.Context, name string, args []string, _ ...Option) (*Result, error) {
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.Calls = append(f.Calls, cmdline)

	if resp, ok := f.Responses[cmdline]; ok {
		if resp.Result == nil {
			return &Result{}, resp.Err
		}
		return resp.Result, resp.Err
	}

	return &Result{}, nil
}

// CalledWith reports whether any recorded call contains the substring.
func (f *Fake) CalledWith(substr string) bool {
	for _, c := range f.Calls {
		if strings.Contains(c, substr) {
			return true
		}
	}
	return false
}
