// Where: internal/app/provision.go
// What: Provision command handler.
// Why: Ensure the platform's AWS resources before the first deploy.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/llmops-rt/deployctl/internal/provisioner"
)

func runProvision(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Provision.Runner == nil {
		fmt.Fprintln(out, "provision: not configured")
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	spec := provisioner.Spec{
		Bucket: cfg.Storage.Bucket,
		Table:  cfg.Feedback.Table,
	}
	if err := deps.Provision.Runner.Apply(context.Background(), spec); err != nil {
		return exitWithError(out, err)
	}
	return 0
}
