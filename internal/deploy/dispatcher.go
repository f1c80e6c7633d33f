// Where: internal/deploy/dispatcher.go
// What: Sequential environment deployment dispatcher.
// Why: Keep the apply/wait orchestration testable behind a cluster interface.
package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/llmops-rt/deployctl/internal/ui"
)

// Cluster is the declarative cluster-management boundary. Apply is expected to
// be idempotent; WaitForRollout blocks until the deployment reports all
// replicas ready or the timeout elapses.
type Cluster interface {
	Apply(ctx context.Context, manifestPath, namespace string) error
	WaitForRollout(ctx context.Context, deployment, namespace string, timeout time.Duration) error
}

// Dispatcher runs one or more environment sequences strictly in order.
// Failure of any step aborts the whole run; nothing after the failing step
// executes, including later environments. No rollback is attempted.
type Dispatcher struct {
	Cluster Cluster
	Console *ui.Console
}

// NewDispatcher creates a dispatcher writing progress to stdout.
func NewDispatcher(cluster Cluster) *Dispatcher {
	return &Dispatcher{
		Cluster: cluster,
		Console: ui.New(os.Stdout),
	}
}

// Run deploys the given environments one after another. The caller decides
// ordering (ParseSelection always yields staging before production).
func (d *Dispatcher) Run(ctx context.Context, envs []EnvironmentConfig) error {
	if d == nil || d.Cluster == nil {
		return fmt.Errorf("dispatcher cluster not configured")
	}
	console := d.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}

	for _, env := range envs {
		if err := d.deployOne(ctx, env, console); err != nil {
			return fmt.Errorf("deploy %s: %w", env.Name, err)
		}
	}

	console.Success("All selected environments deployed")
	return nil
}

func (d *Dispatcher) deployOne(ctx context.Context, env EnvironmentConfig, console *ui.Console) error {
	console.Header("🚀", fmt.Sprintf("Deploying to %s", env.Name))
	console.Item("Namespace", env.Namespace)
	console.Item("Rollout timeout", env.RolloutTimeout)

	for _, manifest := range env.Manifests {
		if err := d.Cluster.Apply(ctx, manifest, env.Namespace); err != nil {
			return fmt.Errorf("apply %s: %w", manifest, err)
		}
		console.ItemPlain(fmt.Sprintf("Applied %s", manifest))
	}

	console.Info(fmt.Sprintf("Waiting for rollout of deployment/%s in %s", env.Deployment, env.Namespace))
	if err := d.Cluster.WaitForRollout(ctx, env.Deployment, env.Namespace, env.RolloutTimeout); err != nil {
		return fmt.Errorf("rollout %s/%s: %w", env.Namespace, env.Deployment, err)
	}

	console.Success(fmt.Sprintf("%s deployed", env.Name))
	return nil
}
