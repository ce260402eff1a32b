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

package systemd

import "context"

// Fake is an in-memory Manager for tests.
type Fake struct {
	// Active is the scripted answer for IsActive. ActiveSeq, when
	// non-empty, takes precedence and is consumed one entry per call.
	Active    bool
	ActiveSeq []bool

	// ActiveErr and StopErr are returned verbatim when set.
	ActiveErr error
	StopErr   error

	IsActiveCalls int
	StopCalls     int
	Stopped       []string
}

// IsActive replays the scripted unit state.
func (f *Fake) IsActive(_ context.Context, _ string) (bool, error) {
	f.IsActiveCalls++
	if f.ActiveErr != nil {
		return false, f.ActiveErr
	}
	if len(f.ActiveSeq) > 0 {
		v := f.ActiveSeq[0]
		f.ActiveSeq = f.ActiveSeq[1:]
		return v, nil
	}
	return f.Active, nil
}

// Stop records the stop request.
func (f *Fake) Stop(_ context.Context, unit string) error {
	f.StopCalls++
	f.Stopped = append(f.Stopped, unit)
	return f.StopErr
}
