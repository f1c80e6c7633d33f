// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/llmops-rt/deployctl/internal/config"
	"github.com/llmops-rt/deployctl/internal/provisioner"
	"github.com/llmops-rt/deployctl/internal/registry"
	"github.com/llmops-rt/deployctl/internal/version"
)

// Cluster mirrors the deploy package's cluster boundary so command handlers
// can be exercised against fakes.
type Cluster interface {
	Apply(ctx context.Context, manifestPath, namespace string) error
	WaitForRollout(ctx context.Context, deployment, namespace string, timeout time.Duration) error
}

// StatusReporter reads replica counts without mutating cluster state.
type StatusReporter interface {
	ReplicaStatus(ctx context.Context, deployment, namespace string) (ready, desired int, err error)
}

// Provisioner ensures the platform's AWS resources exist.
type Provisioner interface {
	Apply(ctx context.Context, spec provisioner.Spec) error
}

// ImagePusher builds and pushes the chatbot image.
type ImagePusher interface {
	Push(ctx context.Context, req registry.PushRequest) error
}

// IndexSyncer uploads and verifies the vector index.
type IndexSyncer interface {
	Upload(ctx context.Context, localDir, bucket, prefix string) error
	Verify(ctx context.Context, bucket, prefix string) error
}

// Prompter asks the operator for confirmation. A nil Prompter disables the
// production gate (non-interactive/CI runs pass --yes or wire no prompter).
type Prompter interface {
	Confirm(title string) (bool, error)
}

// Dependencies holds all injected dependencies required for CLI command
// execution.
type Dependencies struct {
	Out          io.Writer
	ConfigLoader func(path string) (config.Config, error)
	Prompter     Prompter
	Deploy       DeployDeps
	Provision    ProvisionDeps
	Push         PushDeps
	Index        IndexDeps
	Status       StatusDeps
}

type (
	DeployDeps struct {
		Cluster Cluster
	}
	ProvisionDeps struct {
		Runner Provisioner
	}
	PushDeps struct {
		Pusher ImagePusher
	}
	IndexDeps struct {
		Syncer IndexSyncer
	}
	StatusDeps struct {
		Reporter StatusReporter
	}
)

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config  string `short:"c" name:"config" help:"Path to deploy.yaml"`
	EnvFile string `name:"env-file" help:"Path to .env file"`

	Deploy    DeployCmd    `cmd:"" help:"Deploy one or both environments"`
	Provision ProvisionCmd `cmd:"" help:"Create missing AWS resources (S3 bucket, DynamoDB table)"`
	Push      PushCmd      `cmd:"" help:"Push the chatbot image to the registry"`
	Index     IndexCmd     `cmd:"" help:"Manage the vector index in object storage"`
	Render    RenderCmd    `cmd:"" help:"Render manifest templates"`
	Status    StatusCmd    `cmd:"" help:"Show rollout status per environment"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

type DeployCmd struct {
	Environment string `arg:"" optional:"" help:"staging, production, or both (default: both)"`
	Yes         bool   `short:"y" help:"Skip the production confirmation prompt"`
}

type ProvisionCmd struct{}

type PushCmd struct {
	Build bool   `help:"Build the image before pushing"`
	From  string `name:"from" help:"Retag an existing local image instead of pushing the configured reference directly"`
	Tag   string `help:"Override the configured image tag"`
}

type IndexCmd struct {
	Upload IndexUploadCmd `cmd:"" help:"Upload the local index directory"`
	Verify IndexVerifyCmd `cmd:"" help:"Verify remote index objects exist"`
}

type (
	IndexUploadCmd struct {
		Dir string `help:"Override the local index directory"`
	}
	IndexVerifyCmd struct{}
)

type RenderCmd struct {
	Environment string `arg:"" optional:"" help:"staging, production, or both (default: both)"`
}

type StatusCmd struct {
	Environment string `arg:"" optional:"" help:"staging, production, or both (default: both)"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution. It parses the
// command-line arguments and dispatches to the matching handler. Returns the
// process exit code.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.ConfigLoader == nil {
		deps.ConfigLoader = config.Load
	}

	if len(args) == 0 {
		printUsage(out)
		return 1
	}

	cli := CLI{}
	parser, err := kong.New(&cli)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	loadEnvFile(cli.EnvFile, out)

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"provision":    runProvision,
		"push":         runPush,
		"index upload": runIndexUpload,
		"index verify": runIndexVerify,
		"version":      func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}
	if handler, ok := exactHandlers[command]; ok {
		return handler(cli, deps, out), true
	}

	prefixHandlers := []struct {
		prefix  string
		handler commandHandler
	}{
		{prefix: "deploy", handler: runDeploy},
		{prefix: "render", handler: runRender},
		{prefix: "status", handler: runStatus},
	}
	for _, entry := range prefixHandlers {
		if strings.HasPrefix(command, entry.prefix) {
			return entry.handler(cli, deps, out), true
		}
	}

	return 1, false
}

func loadEnvFile(path string, out io.Writer) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(out, "Warning: failed to load env file %s: %v\n", path, err)
		}
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(out, "Warning: failed to load .env: %v\n", err)
		}
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "usage: deployctl <command> [flags]")
	fmt.Fprintln(out, "commands: deploy, provision, push, index, render, status, version")
}

func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintln(out, err)
	return 1
}

// exitCodeFor maps an error to a process exit status. Failures of external
// commands keep their own exit codes; everything else is 1.
func exitCodeFor(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
