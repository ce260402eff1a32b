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

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/setup-k3s/pkg/errors"
)

// Config is the validated, immutable run configuration built once per
// invocation from the action inputs.
type Config struct {
	// VersionSelector is a channel name (stable, latest) or a pinned
	// release tag.
	VersionSelector string

	// InstallArgs is passed verbatim to the install script.
	InstallArgs string

	// WaitForReady gates the readiness probe after install.
	WaitForReady bool

	// ReadinessTimeout bounds the readiness probe. Always positive.
	ReadinessTimeout time.Duration

	// DNSReadiness enables the end-to-end DNS probe as the final
	// readiness state.
	DNSReadiness bool

	// Kubeconfig is the path where k3s writes cluster credentials.
	Kubeconfig string
}

// configFromCommand builds and validates the run configuration from parsed
// flags. The timeout input arrives as whole seconds; anything that is not
// a positive integer is a configuration error, not a runtime timeout.
func configFromCommand(cmd *cli.Command) (*Config, error) {
	raw := strings.TrimSpace(cmd.String("timeout"))
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("timeout must be a whole number of seconds, got %q", raw), err)
	}
	if seconds <= 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("timeout must be positive, got %d", seconds))
	}

	return &Config{
		VersionSelector:  cmd.String("version"),
		InstallArgs:      cmd.String("k3s-args"),
		WaitForReady:     cmd.Bool("wait-for-ready"),
		ReadinessTimeout: time.Duration(seconds) * time.Second,
		DNSReadiness:     cmd.Bool("dns-readiness"),
		Kubeconfig:       cmd.String("kubeconfig"),
	}, nil
}
