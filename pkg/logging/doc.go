// Package logging provides structured logging defaults for setup-k3s.
//
// It wraps the standard library slog package with JSON output to stderr,
// module/version context on every record, and LOG_LEVEL environment based
// level configuration. Debug level additionally records source locations.
//
// Typical usage:
//
//	logging.SetDefaultStructuredLogger("setup-k3s", version)
//	slog.Info("waiting for cluster", "timeout", timeout)
package logging
