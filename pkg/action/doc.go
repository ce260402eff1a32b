// Package action abstracts the GitHub Actions runtime surface used by the
// k3s lifecycle: the cross-invocation state store that coordinates the
// setup and post phases, step outputs, environment export, and collapsible
// log groups.
//
// The Runtime interface keeps every component testable with the in-memory
// Fake; the GitHub implementation speaks the workflow command protocol via
// github.com/sethvargo/go-githubactions.
package action
