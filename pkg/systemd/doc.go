// Package systemd wraps the systemd D-Bus API behind the small Manager
// interface the k3s lifecycle needs: is the unit active, and stop it.
package systemd
