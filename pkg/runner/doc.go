// Package runner provides the command execution capability used to drive
// the k3s install script, host diagnostics and the uninstall helper.
//
// The Runner interface isolates subprocess execution behind an injectable
// seam; tests script it with the Fake in testing.go.
package runner
