// Where: cmd/deployctl/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"os"

	"github.com/docker/docker/client"
	"github.com/llmops-rt/deployctl/internal/app"
	"github.com/llmops-rt/deployctl/internal/config"
	"github.com/llmops-rt/deployctl/internal/index"
	"github.com/llmops-rt/deployctl/internal/kubectl"
	"github.com/llmops-rt/deployctl/internal/provisioner"
	"github.com/llmops-rt/deployctl/internal/registry"
	"github.com/llmops-rt/deployctl/internal/run"
	"github.com/llmops-rt/deployctl/internal/ui"
)

// buildDependencies constructs all runtime dependencies required by the CLI.
// External clients that need credentials (Docker daemon, AWS) are created
// lazily inside the command's context so unrelated commands never pay for
// them.
func buildDependencies() app.Dependencies {
	cluster := kubectl.NewClient()

	return app.Dependencies{
		Out:          os.Stdout,
		ConfigLoader: config.Load,
		Prompter:     app.HuhPrompter{},
		Deploy: app.DeployDeps{
			Cluster: cluster,
		},
		Provision: app.ProvisionDeps{
			Runner: provisioner.New(),
		},
		Push: app.PushDeps{
			Pusher: lazyPusher{},
		},
		Index: app.IndexDeps{
			Syncer: lazySyncer{},
		},
		Status: app.StatusDeps{
			Reporter: cluster,
		},
	}
}

// lazyPusher defers Docker and ECR client construction to push time.
type lazyPusher struct{}

func (lazyPusher) Push(ctx context.Context, req registry.PushRequest) error {
	docker, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer docker.Close()

	tokens, err := registry.NewECRTokenProvider(ctx)
	if err != nil {
		return err
	}

	pusher := &registry.Pusher{
		Docker:  docker,
		Tokens:  tokens,
		Runner:  run.ExecRunner{},
		Console: ui.New(os.Stdout),
	}
	return pusher.Push(ctx, req)
}

// lazySyncer defers S3 client construction to sync time.
type lazySyncer struct{}

func (lazySyncer) Upload(ctx context.Context, localDir, bucket, prefix string) error {
	store, err := index.NewS3Store(ctx)
	if err != nil {
		return err
	}
	return index.NewSyncer(store).Upload(ctx, localDir, bucket, prefix)
}

func (lazySyncer) Verify(ctx context.Context, bucket, prefix string) error {
	store, err := index.NewS3Store(ctx)
	if err != nil {
		return err
	}
	return index.NewSyncer(store).Verify(ctx, bucket, prefix)
}
