// Package readiness decides when the k3s cluster is actually operational.
//
// The Prober re-evaluates a fixed, ordered sequence of facts every poll
// cycle: the systemd unit is active, the kubeconfig is readable, the API
// answers a node list, a node reports Ready, and the system namespace has
// settled. Evaluation short-circuits at the first false fact and every
// cycle starts from scratch; nothing carries over between cycles.
//
// The optional DNSCheck runs once after the core facts pass: it waits for
// CoreDNS, schedules a disposable probe pod, resolves the cluster API
// service name from inside it, and always deletes the pod afterward.
package readiness
