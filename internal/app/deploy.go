// Where: internal/app/deploy.go
// What: Deploy command handler.
// Why: Bridge CLI arguments to the environment dispatcher.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/llmops-rt/deployctl/internal/deploy"
	"github.com/llmops-rt/deployctl/internal/ui"
)

// runDeploy validates the environment selector, resolves per-environment
// configuration, and runs the sequences in order. Invalid selectors exit 1
// before any cluster operation; step failures propagate their exit codes.
func runDeploy(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Deploy.Cluster == nil {
		fmt.Fprintln(out, "deploy: cluster client not configured")
		return 1
	}

	selection, err := deploy.ParseSelection(cli.Deploy.Environment)
	if err != nil {
		fmt.Fprintf(out, "%v\nusage: deployctl deploy [staging|production|both]\n", err)
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	if !cli.Deploy.Yes && deps.Prompter != nil && includesProduction(selection) {
		ok, err := deps.Prompter.Confirm("Deploy to production?")
		if err != nil {
			return exitWithError(out, err)
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return 1
		}
	}

	envs := make([]deploy.EnvironmentConfig, 0, len(selection))
	for _, env := range selection {
		envs = append(envs, cfg.Environment(env))
	}

	dispatcher := &deploy.Dispatcher{
		Cluster: deps.Deploy.Cluster,
		Console: ui.New(out),
	}
	if err := dispatcher.Run(context.Background(), envs); err != nil {
		fmt.Fprintln(out, err)
		return exitCodeFor(err)
	}
	return 0
}

func includesProduction(selection []deploy.Environment) bool {
	for _, env := range selection {
		if env == deploy.Production {
			return true
		}
	}
	return false
}
