// Package client builds Kubernetes API clients from the kubeconfig the k3s
// install script writes at its well-known path.
package client
