// Package diagnostics captures host and service state when setup fails.
//
// The collection sequence is fixed and unconditional: systemd status, the
// recent journal tail, the k3s config directory listing, listening sockets,
// network interfaces, and the container list. Every step is best-effort so
// a diagnostics failure can never displace the original error.
package diagnostics
