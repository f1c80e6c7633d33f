// Where: internal/app/status.go
// What: Status command handler.
// Why: Report rollout readiness without mutating cluster state.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/llmops-rt/deployctl/internal/deploy"
	"github.com/llmops-rt/deployctl/internal/ui"
)

func runStatus(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Status.Reporter == nil {
		fmt.Fprintln(out, "status: not configured")
		return 1
	}

	selection, err := deploy.ParseSelection(cli.Status.Environment)
	if err != nil {
		fmt.Fprintf(out, "%v\nusage: deployctl status [staging|production|both]\n", err)
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	console := ui.New(out)
	failed := false
	for _, env := range selection {
		envCfg := cfg.Environment(env)
		ready, desired, err := deps.Status.Reporter.ReplicaStatus(context.Background(), envCfg.Deployment, envCfg.Namespace)
		if err != nil {
			console.Warn(fmt.Sprintf("%s: %v", env, err))
			failed = true
			continue
		}
		marker := "✅"
		if ready < desired {
			marker = "⏳"
		}
		console.Header(marker, fmt.Sprintf("%s: %d/%d replicas ready (deployment/%s in %s)",
			env, ready, desired, envCfg.Deployment, envCfg.Namespace))
	}

	if failed {
		return 1
	}
	return 0
}
