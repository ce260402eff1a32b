// Package errors provides structured error types for setup-k3s.
//
// Every fatal condition in the action carries an ErrorCode so the failure
// class (bad input, install script failure, service never active, readiness
// timeout, DNS probe defect) can be distinguished programmatically while the
// message stays human readable.
package errors
