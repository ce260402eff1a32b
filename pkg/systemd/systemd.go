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

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Manager exposes the systemd operations the lifecycle needs: unit state
// queries for install verification and readiness, and best-effort stop for
// teardown.
type Manager interface {
	// IsActive reports whether the unit's ActiveState is "active". A unit
	// that does not exist is simply not active, not an error.
	IsActive(ctx context.Context, unit string) (bool, error)

	// Stop requests the unit to stop and waits for the job to complete.
	Stop(ctx context.Context, unit string) error
}

// DBus is the production Manager speaking to systemd over D-Bus.
type DBus struct{}

// NewDBus creates a Manager backed by the system bus.
func NewDBus() *DBus {
	return &DBus{}
}

// IsActive queries the unit's ActiveState property.
func (d *DBus) IsActive(ctx context.Context, unit string) (bool, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	prop, err := conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		// An unknown unit means the service was never installed.
		slog.Debug("unit property query failed", slog.String("unit", unit), slog.String("error", err.Error()))
		return false, nil
	}

	state, ok := prop.Value.Value().(string)
	if !ok {
		return false, fmt.Errorf("unexpected ActiveState type for %s", unit)
	}

	slog.Debug("unit state", slog.String("unit", unit), slog.String("state", state))
	return state == "active", nil
}

// Stop issues a stop job for the unit and waits for its result.
func (d *DBus) Stop(ctx context.Context, unit string) error {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	done := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, unit, "replace", done); err != nil {
		return fmt.Errorf("failed to stop %s: %w", unit, err)
	}

	select {
	case result := <-done:
		if result != "done" {
			return fmt.Errorf("stop job for %s finished with %q", unit, result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
