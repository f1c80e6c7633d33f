// Where: internal/kubectl/client.go
// What: kubectl-backed implementation of the cluster-management boundary.
// Why: Apply manifests and watch rollouts without linking a full Kubernetes client.
package kubectl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/llmops-rt/deployctl/internal/run"
)

const defaultBinary = "kubectl"

// Client runs kubectl commands through an injected CommandRunner.
// The zero value with a Runner set uses "kubectl" from PATH in the
// current directory.
type Client struct {
	Runner run.CommandRunner
	Binary string
	Dir    string
}

// NewClient creates a kubectl client using the real exec runner.
func NewClient() *Client {
	return &Client{Runner: run.ExecRunner{}}
}

func (c *Client) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return defaultBinary
}

// Apply runs `kubectl apply -f <manifest> -n <namespace>`. Application is
// idempotent on the kubectl side; a non-zero exit is returned as-is so the
// caller can propagate the exit code.
func (c *Client) Apply(ctx context.Context, manifestPath, namespace string) error {
	if c.Runner == nil {
		return fmt.Errorf("kubectl runner not configured")
	}
	return c.Runner.Run(ctx, c.Dir, c.binary(), "apply", "-f", manifestPath, "-n", namespace)
}

// WaitForRollout blocks on `kubectl rollout status` until the deployment
// reports ready or the timeout elapses. Timeout surfaces as kubectl's own
// non-zero exit; no retry is attempted.
func (c *Client) WaitForRollout(ctx context.Context, deployment, namespace string, timeout time.Duration) error {
	if c.Runner == nil {
		return fmt.Errorf("kubectl runner not configured")
	}
	return c.Runner.Run(ctx, c.Dir, c.binary(),
		"rollout", "status", "deployment/"+deployment,
		"-n", namespace,
		fmt.Sprintf("--timeout=%ds", int(timeout.Seconds())),
	)
}

// ReplicaStatus reports ready and desired replica counts for a deployment.
// Used by the read-only status command.
func (c *Client) ReplicaStatus(ctx context.Context, deployment, namespace string) (ready, desired int, err error) {
	if c.Runner == nil {
		return 0, 0, fmt.Errorf("kubectl runner not configured")
	}
	out, err := c.Runner.RunOutput(ctx, c.Dir, c.binary(),
		"get", "deployment", deployment,
		"-n", namespace,
		"-o", "jsonpath={.status.readyReplicas} {.spec.replicas}",
	)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out))
	// readyReplicas is omitted entirely while zero pods are ready.
	switch len(fields) {
	case 1:
		desired, err = strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("parse replica counts %q: %w", string(out), err)
		}
		return 0, desired, nil
	case 2:
		ready, err = strconv.Atoi(fields[0])
		if err == nil {
			desired, err = strconv.Atoi(fields[1])
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse replica counts %q: %w", string(out), err)
		}
		return ready, desired, nil
	default:
		return 0, 0, fmt.Errorf("unexpected replica status output %q", string(out))
	}
}
