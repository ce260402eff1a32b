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

import "fmt"

// Fake is an in-memory Runtime for tests. It records state, outputs, env
// exports and log lines so assertions can inspect what a component did.
type Fake struct {
	States  map[string]string
	Outputs map[string]string
	Env     map[string]string
	Groups  []string
	Lines   []string
}

// NewFake creates an empty in-memory runtime.
func NewFake() *Fake {
	return &Fake{
		States:  make(map[string]string),
		Outputs: make(map[string]string),
		Env:     make(map[string]string),
	}
}

// SaveState records a state value.
func (f *Fake) SaveState(key, value string) { f.States[key] = value }

// State returns a recorded state value.
func (f *Fake) State(key string) string { return f.States[key] }

// SetOutput records a step output.
func (f *Fake) SetOutput(key, value string) { f.Outputs[key] = value }

// SetEnv records an exported environment variable.
func (f *Fake) SetEnv(key, value string) { f.Env[key] = value }

// Group records an opened log group title.
func (f *Fake) Group(title string) { f.Groups = append(f.Groups, title) }

// EndGroup is a no-op for the fake.
func (f *Fake) EndGroup() {}

// Infof records an informational line.
func (f *Fake) Infof(format string, args ...any) {
	f.Lines = append(f.Lines, fmt.Sprintf(format, args...))
}

// Warningf records a warning line.
func (f *Fake) Warningf(format string, args ...any) {
	f.Lines = append(f.Lines, "warning: "+fmt.Sprintf(format, args...))
}

// Errorf records an error line.
func (f *Fake) Errorf(format string, args ...any) {
	f.Lines = append(f.Lines, "error: "+fmt.Sprintf(format, args...))
}
