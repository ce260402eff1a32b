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

package readiness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/setup-k3s/pkg/defaults"
	"github.com/NVIDIA/setup-k3s/pkg/k8s/client"
)

// probeImage is the minimal image used for the disposable DNS probe pod.
const probeImage = "busybox:1.36"

// ExecFunc runs a command inside a pod's first container and returns its
// combined output. Injectable because the fake clientset cannot exec.
type ExecFunc func(ctx context.Context, cs client.Interface, namespace, pod string, command []string) (string, error)

// DNSCheck verifies in-cluster name resolution end to end: CoreDNS pods
// ready, a disposable probe pod scheduled and running, and a lookup of the
// cluster API service name succeeding from inside it. The probe pod is
// deleted unconditionally, whichever way the lookup goes.
type DNSCheck struct {
	// RESTConfig is required for the default exec transport. When nil, it
	// is built from Kubeconfig on first use.
	RESTConfig *rest.Config

	// Kubeconfig defers REST config loading until the probe runs, for
	// callers that wire the verifier before the credentials file exists.
	Kubeconfig string

	Namespace       string
	PodReadyTimeout time.Duration
	PollInterval    time.Duration

	// Exec overrides the pod exec transport. Defaults to SPDY exec.
	Exec ExecFunc

	// podName overrides probe pod naming in tests.
	podName func() string
}

// NewDNSCheck creates a DNS verifier with production defaults.
func NewDNSCheck(cfg *rest.Config) *DNSCheck {
	return &DNSCheck{
		RESTConfig:      cfg,
		Namespace:       defaults.SystemNamespace,
		PodReadyTimeout: defaults.DNSProbePodReadyTimeout,
		PollInterval:    2 * time.Second,
	}
}

// NewDNSCheckFromKubeconfig creates a DNS verifier that loads its REST
// config lazily from the given kubeconfig path. The path only has to exist
// by the time Verify runs, which the readiness checks guarantee.
func NewDNSCheckFromKubeconfig(path string) *DNSCheck {
	d := NewDNSCheck(nil)
	d.Kubeconfig = path
	return d
}

// Verify implements DNSVerifier. Any failure here indicates a defect in
// cluster networking rather than a timing issue, so errors propagate
// immediately instead of being retried.
func (d *DNSCheck) Verify(ctx context.Context, cs client.Interface) error {
	d.applyDefaults()

	if err := d.waitForCoreDNS(ctx, cs); err != nil {
		return fmt.Errorf("coredns pods not ready: %w", err)
	}

	name := d.podName()
	slog.Info("scheduling DNS probe pod", slog.String("pod", name))

	if _, err := cs.CoreV1().Pods(d.Namespace).Create(ctx, probePod(name), metav1.CreateOptions{}); err != nil {
		return fmt.Errorf("failed to create probe pod: %w", err)
	}

	// The probe pod is removed on every path, including lookup failure
	// and context cancellation.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := cs.CoreV1().Pods(d.Namespace).Delete(cleanupCtx, name, metav1.DeleteOptions{
			GracePeriodSeconds: ptr.To(int64(0)),
		}); err != nil {
			slog.Warn("failed to delete probe pod", slog.String("pod", name), slog.String("error", err.Error()))
		}
	}()

	if err := d.waitForPodRunning(ctx, cs, name); err != nil {
		return fmt.Errorf("probe pod never became ready: %w", err)
	}

	out, err := d.Exec(ctx, cs, d.Namespace, name, []string{"nslookup", defaults.ClusterDNSName})
	if err != nil {
		return fmt.Errorf("dns lookup for %s failed: %w", defaults.ClusterDNSName, err)
	}

	slog.Debug("dns probe output", slog.String("output", out))
	slog.Info("in-cluster DNS verified", slog.String("name", defaults.ClusterDNSName))
	return nil
}

func (d *DNSCheck) applyDefaults() {
	if d.Namespace == "" {
		d.Namespace = defaults.SystemNamespace
	}
	if d.PodReadyTimeout <= 0 {
		d.PodReadyTimeout = defaults.DNSProbePodReadyTimeout
	}
	if d.PollInterval <= 0 {
		d.PollInterval = 2 * time.Second
	}
	if d.Exec == nil {
		d.Exec = d.spdyExec
	}
	if d.podName == nil {
		d.podName = func() string {
			return "dns-probe-" + uuid.NewString()[:8]
		}
	}
}

// waitForCoreDNS blocks until the DNS add-on pods are running and ready.
func (d *DNSCheck) waitForCoreDNS(ctx context.Context, cs client.Interface) error {
	return wait.PollUntilContextTimeout(ctx, d.PollInterval, d.PodReadyTimeout, true,
		func(ctx context.Context) (bool, error) {
			pods, err := cs.CoreV1().Pods(d.Namespace).List(ctx, metav1.ListOptions{
				LabelSelector: defaults.DNSLabelSelector,
			})
			if err != nil {
				return false, nil //nolint:nilerr // transient API errors keep the poll going
			}
			if len(pods.Items) == 0 {
				return false, nil
			}
			for i := range pods.Items {
				if !isPodRunningReady(&pods.Items[i]) {
					return false, nil
				}
			}
			return true, nil
		})
}

// waitForPodRunning blocks until the named pod is running with all
// containers ready.
func (d *DNSCheck) waitForPodRunning(ctx context.Context, cs client.Interface, name string) error {
	return wait.PollUntilContextTimeout(ctx, d.PollInterval, d.PodReadyTimeout, true,
		func(ctx context.Context) (bool, error) {
			pod, err := cs.CoreV1().Pods(d.Namespace).Get(ctx, name, metav1.GetOptions{})
			if err != nil {
				return false, nil //nolint:nilerr // pod may not be visible yet
			}
			if pod.Status.Phase == corev1.PodFailed {
				return false, fmt.Errorf("probe pod failed: %s", pod.Status.Reason)
			}
			return isPodRunningReady(pod), nil
		})
}

// spdyExec is the production pod exec transport.
func (d *DNSCheck) spdyExec(ctx context.Context, cs client.Interface, namespace, pod string, command []string) (string, error) {
	cfg := d.RESTConfig
	if cfg == nil {
		_, built, err := client.Build(d.Kubeconfig)
		if err != nil {
			return "", fmt.Errorf("failed to load REST config from %s: %w", d.Kubeconfig, err)
		}
		cfg = built
	}

	req := cs.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Command: command,
			Stdout:  true,
			Stderr:  true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(cfg, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("failed to create exec transport: %w", err)
	}

	var out bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &out,
		Stderr: &out,
	})
	return out.String(), err
}

// probePod builds the disposable pod spec used for the resolution check.
func probePod(name string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				"app.kubernetes.io/name": "setup-k3s-dns-probe",
			},
		},
		Spec: corev1.PodSpec{
			RestartPolicy:                 corev1.RestartPolicyNever,
			TerminationGracePeriodSeconds: ptr.To(int64(0)),
			Containers: []corev1.Container{
				{
					Name:    "probe",
					Image:   probeImage,
					Command: []string{"sleep", "300"},
				},
			},
		},
	}
}
