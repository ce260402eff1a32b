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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/setup-k3s/pkg/action"
	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/logging"
	"github.com/NVIDIA/setup-k3s/pkg/phase"
)

const (
	name           = "setup-k3s"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// hooks decouple the command from its phase implementations for tests.
type hooks struct {
	setup    func(ctx context.Context, cfg *Config, rt action.Runtime) error
	teardown func(ctx context.Context, rt action.Runtime) error
}

var defaultHooks = hooks{
	setup:    runSetup,
	teardown: runTeardown,
}

// New builds the root command. The same command serves the action's main
// and post steps; persisted workflow state decides which phase runs.
func New(rt action.Runtime) *cli.Command {
	return newWithHooks(rt, defaultHooks)
}

func newWithHooks(rt action.Runtime, h hooks) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: "Ephemeral single-node k3s cluster for CI jobs",
		Description: `Installs a single-node k3s cluster on the current runner, waits for it
to become operational, exports its credentials to subsequent workflow
steps, and removes it again in the job's post phase.

All flags map onto the action's inputs and are normally supplied through
INPUT_* environment variables by the workflow runner.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "version",
				Usage:   "k3s version: a release tag, or the stable/latest channel",
				Sources: cli.EnvVars("INPUT_VERSION"),
				Value:   "stable",
			},
			&cli.StringFlag{
				Name:    "k3s-args",
				Usage:   "Extra arguments passed verbatim to the k3s install script",
				Sources: cli.EnvVars("INPUT_K3S_ARGS"),
				Value:   "--write-kubeconfig-mode 644",
			},
			&cli.BoolFlag{
				Name:    "wait-for-ready",
				Usage:   "Block until the cluster is operational",
				Sources: cli.EnvVars("INPUT_WAIT_FOR_READY"),
				Value:   true,
			},
			&cli.StringFlag{
				Name:    "timeout",
				Usage:   "Readiness timeout in seconds",
				Sources: cli.EnvVars("INPUT_TIMEOUT"),
				Value:   "120",
			},
			&cli.BoolFlag{
				Name:    "dns-readiness",
				Usage:   "Verify in-cluster DNS resolution before declaring ready",
				Sources: cli.EnvVars("INPUT_DNS_READINESS"),
				Value:   true,
			},
			&cli.StringFlag{
				Name:    "kubeconfig",
				Usage:   "Path where k3s writes cluster credentials",
				Sources: cli.EnvVars("INPUT_KUBECONFIG"),
				Value:   defaults.Kubeconfig,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("INPUT_LOG_LEVEL", "LOG_LEVEL"),
				Value:   "info",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Info("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)

			d := &phase.Dispatcher{
				Runtime: rt,
				Setup: func(ctx context.Context) error {
					cfg, err := configFromCommand(cmd)
					if err != nil {
						return err
					}
					return h.setup(ctx, cfg, rt)
				},
				Teardown: func(ctx context.Context) error {
					return h.teardown(ctx, rt)
				},
			}
			return d.Run(ctx)
		},
	}
}

// Execute runs the root command against os.Args. It is called by
// main.main() and owns process exit.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	rt := action.NewGitHub()
	if err := New(rt).Run(ctx, os.Args); err != nil {
		rt.Errorf("%v", err)
		os.Exit(1)
	}
}
