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

import "strings"

// Selection is the resolved install parameter for a version selector:
// either a release channel or a pinned version tag, never both.
type Selection struct {
	// Channel is a named release stream ("stable", "latest").
	Channel string

	// Version is an exact version tag (e.g. "v1.30.2+k3s1").
	Version string
}

// EnvAssignment renders the selection as the environment assignment the
// k3s install script understands.
func (s Selection) EnvAssignment() string {
	if s.Version != "" {
		return "INSTALL_K3S_VERSION=" + s.Version
	}
	return "INSTALL_K3S_CHANNEL=" + s.Channel
}

// ResolveSelector maps a version selector onto an install Selection.
// "latest" selects the latest channel; "stable" or an empty selector
// selects the stable channel; any other value pins that exact tag.
func ResolveSelector(selector string) Selection {
	switch strings.TrimSpace(selector) {
	case "latest":
		return Selection{Channel: "latest"}
	case "stable", "":
		return Selection{Channel: "stable"}
	default:
		return Selection{Version: strings.TrimSpace(selector)}
	}
}
