// Where: internal/app/push.go
// What: Push command handler.
// Why: Build and publish the chatbot image from configuration.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/llmops-rt/deployctl/internal/registry"
)

func runPush(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Push.Pusher == nil {
		fmt.Fprintln(out, "push: not configured")
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}
	if cli.Push.Tag != "" {
		cfg.Image.Tag = cli.Push.Tag
	}

	req := registry.PushRequest{
		LocalImage: cli.Push.From,
		Ref:        cfg.ImageRef(),
		Build:      cli.Push.Build,
		Context:    cfg.Image.Context,
		Dockerfile: cfg.Image.Dockerfile,
	}
	if err := deps.Push.Pusher.Push(context.Background(), req); err != nil {
		fmt.Fprintln(out, err)
		return exitCodeFor(err)
	}
	return 0
}
