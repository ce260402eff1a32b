// Package cluster publishes the verified cluster to the rest of the
// workflow: kubeconfig export for descendant steps and a human-readable
// summary of nodes, system pods and server version.
package cluster
