// Package installer turns a version selector into a running k3s service.
//
// It resolves the selector to a release channel or pinned tag, pipes the
// upstream install script into sh with the user's extra arguments, and then
// verifies with systemd that the k3s unit actually reached active state.
package installer
