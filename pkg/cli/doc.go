// Package cli implements the command-line interface of the setup-k3s
// GitHub Action.
//
// # Overview
//
// A single binary serves both steps of the action. The main step installs
// a single-node k3s cluster on the runner, waits for it to become
// operational, and exports its kubeconfig to subsequent workflow steps.
// The post step, routed by workflow state persisted during setup, removes
// the cluster and restores the runner.
//
// # Inputs
//
// Flags map one-to-one onto the action's inputs and are normally supplied
// through INPUT_* environment variables:
//
//	--version         k3s release tag or channel (default: stable)
//	--k3s-args        extra install script arguments (default: --write-kubeconfig-mode 644)
//	--wait-for-ready  block until the cluster is operational (default: true)
//	--timeout         readiness timeout in seconds (default: 120)
//	--dns-readiness   verify in-cluster DNS before declaring ready (default: true)
//	--kubeconfig      credentials path (default: /etc/rancher/k3s/k3s.yaml)
//	--log-level       debug, info, warn, error (default: info)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/phase - setup/teardown routing via workflow state
//   - pkg/installer - install script execution and service verification
//   - pkg/readiness - bounded readiness polling and DNS probe
//   - pkg/diagnostics - failure diagnostics collection
//   - pkg/teardown - best-effort cluster removal
//   - pkg/cluster - credential export and summary reporting
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/setup-k3s/pkg/cli.version=1.0.0'"
package cli
