// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package defaults

import "time"

// Install timings for the k3s install script and service registration.
const (
	// InstallWarmup is the fixed delay after the install script returns,
	// giving the k3s process time to fork and register with systemd before
	// the unit state is queried.
	InstallWarmup = 10 * time.Second
)

// Readiness timings for the cluster readiness poll loop.
const (
	// ReadinessPollInterval is the delay between readiness poll cycles.
	ReadinessPollInterval = 5 * time.Second

	// ReadinessTimeout is the default deadline for the cluster to pass all
	// readiness checks. Overridden by the timeout input.
	ReadinessTimeout = 120 * time.Second

	// DNSProbePodReadyTimeout is the deadline for the disposable DNS probe
	// pod to reach Running once the rest of the cluster is ready.
	DNSProbePodReadyTimeout = 60 * time.Second
)

// Well-known k3s filesystem locations, owned by the install script.
const (
	// Kubeconfig is the fixed path of the kubeconfig written by k3s.
	Kubeconfig = "/etc/rancher/k3s/k3s.yaml"

	// ConfigDir is the k3s configuration directory removed on teardown.
	ConfigDir = "/etc/rancher/k3s"

	// DataDir is the k3s state directory removed on teardown.
	DataDir = "/var/lib/rancher/k3s"

	// UninstallScript is the uninstall helper placed by the install script.
	UninstallScript = "/usr/local/bin/k3s-uninstall.sh"
)

// Service and cluster identity.
const (
	// ServiceUnit is the systemd unit installed by the k3s install script.
	ServiceUnit = "k3s.service"

	// InstallScriptURL is the upstream k3s install script endpoint.
	InstallScriptURL = "https://get.k3s.io"

	// SystemNamespace is the namespace hosting core platform components.
	SystemNamespace = "kube-system"

	// DNSLabelSelector identifies the CoreDNS add-on pods.
	DNSLabelSelector = "k8s-app=kube-dns"

	// ClusterDNSName is the in-cluster service name resolved by the DNS probe.
	ClusterDNSName = "kubernetes.default.svc.cluster.local"
)
