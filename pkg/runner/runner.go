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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Result captures the observable outcome of an external command.
type Result struct {
	// Output is the combined stdout and stderr of the command.
	Output string

	// ExitCode is the command's exit status. Zero on success.
	ExitCode int
}

// Runner executes external commands. It is the injection point that keeps
// the installer, diagnostics collector and teardown testable without
// touching the host.
type Runner interface {
	// Run executes name with args and blocks until it exits. By default a
	// non-zero exit is returned as an error; see IgnoreExitCode.
	Run(ctx context.Context, name string, args []string, opts ...Option) (*Result, error)
}

// Option adjusts how a single command invocation is executed.
type Option func(*settings)

type settings struct {
	ignoreExitCode bool
	quiet          bool
	env            []string
}

// IgnoreExitCode treats a non-zero exit status as a valid result rather
// than an error. Used for queries where non-zero means "no", such as
// systemctl is-active.
func IgnoreExitCode() Option {
	return func(s *settings) { s.ignoreExitCode = true }
}

// Quiet suppresses streaming of command output to the process streams.
// Output is still captured in the Result.
func Quiet() Option {
	return func(s *settings) { s.quiet = true }
}

// WithEnv appends KEY=VALUE assignments to the command's environment.
func WithEnv(env ...string) Option {
	return func(s *settings) { s.env = append(s.env, env...) }
}

// Exec is the production Runner backed by os/exec.
type Exec struct{}

// NewExec creates a Runner that executes commands on the host.
func NewExec() *Exec {
	return &Exec{}
}

// Run executes the command synchronously, capturing combined output.
func (e *Exec) Run(ctx context.Context, name string, args []string, opts ...Option) (*Result, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	slog.Debug("running command", slog.String("cmd", name), slog.String("args", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), s.env...)

	var buf bytes.Buffer
	if s.quiet {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	} else {
		cmd.Stdout = io.MultiWriter(os.Stdout, &buf)
		cmd.Stderr = io.MultiWriter(os.Stderr, &buf)
	}

	err := cmd.Run()
	res := &Result{Output: buf.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if s.ignoreExitCode {
				return res, nil
			}
			return res, fmt.Errorf("command %q exited with status %d", name, res.ExitCode)
		}
		// Start failures have no process state.
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %q: %w", name, err)
	}

	return res, nil
}
