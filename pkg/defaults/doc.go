// Package defaults centralizes timing constants and well-known k3s paths.
//
// Keeping these in one place documents the action's timing behavior:
// how long the installer waits for systemd registration, how often the
// readiness prober polls, and which filesystem locations the install script
// owns and teardown must restore.
package defaults
