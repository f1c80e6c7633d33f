// Where: internal/registry/pusher.go
// What: Container image build/tag/push against the platform registry.
// Why: Move the playbook's docker build && docker push steps into the CLI.
package registry

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/llmops-rt/deployctl/internal/run"
	"github.com/llmops-rt/deployctl/internal/ui"
)

// DockerAPI is the subset of Docker SDK methods the pusher uses.
type DockerAPI interface {
	ImageTag(ctx context.Context, source, target string) error
	ImagePush(ctx context.Context, ref string, options image.PushOptions) (io.ReadCloser, error)
}

// TokenProvider yields registry credentials. The ECR implementation exchanges
// an authorization token; tests return canned values.
type TokenProvider interface {
	AuthorizationToken(ctx context.Context) (Credentials, error)
}

// Credentials holds one registry login.
type Credentials struct {
	Username      string
	Password      string
	ServerAddress string
}

// PushRequest describes one build-and-push operation.
type PushRequest struct {
	// LocalImage is the locally built image to retag, empty when Ref was
	// built directly.
	LocalImage string
	// Ref is the fully qualified target reference (repository:tag).
	Ref string
	// Build triggers a docker build of Context before pushing.
	Build      bool
	Context    string
	Dockerfile string
}

// Pusher pushes chatbot images to the registry.
type Pusher struct {
	Docker  DockerAPI
	Tokens  TokenProvider
	Runner  run.CommandRunner
	Console *ui.Console
}

// Push optionally builds the image, retags it if needed, and pushes it with
// credentials from the token provider. The push stream is drained so daemon
// errors surface as command failures.
func (p *Pusher) Push(ctx context.Context, req PushRequest) error {
	if p == nil || p.Docker == nil || p.Tokens == nil {
		return fmt.Errorf("pusher not configured")
	}
	console := p.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}
	if strings.TrimSpace(req.Ref) == "" {
		return fmt.Errorf("image reference is required")
	}

	if req.Build {
		if p.Runner == nil {
			return fmt.Errorf("command runner not configured")
		}
		buildTarget := req.LocalImage
		if buildTarget == "" {
			buildTarget = req.Ref
		}
		buildContext := req.Context
		if buildContext == "" {
			buildContext = "."
		}
		console.Header("🐳", fmt.Sprintf("Building image %s", buildTarget))
		args := []string{"build", "-t", buildTarget}
		if req.Dockerfile != "" {
			args = append(args, "-f", req.Dockerfile)
		}
		args = append(args, buildContext)
		if err := p.Runner.Run(ctx, "", "docker", args...); err != nil {
			return fmt.Errorf("docker build: %w", err)
		}
	}

	if req.LocalImage != "" && req.LocalImage != req.Ref {
		if err := p.Docker.ImageTag(ctx, req.LocalImage, req.Ref); err != nil {
			return fmt.Errorf("tag %s as %s: %w", req.LocalImage, req.Ref, err)
		}
	}

	creds, err := p.Tokens.AuthorizationToken(ctx)
	if err != nil {
		return fmt.Errorf("registry login: %w", err)
	}
	auth, err := encodeAuth(creds)
	if err != nil {
		return err
	}

	console.Info(fmt.Sprintf("Pushing %s", req.Ref))
	stream, err := p.Docker.ImagePush(ctx, req.Ref, image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return fmt.Errorf("push %s: %w", req.Ref, err)
	}
	defer stream.Close()

	if err := drainPushStream(stream); err != nil {
		return fmt.Errorf("push %s: %w", req.Ref, err)
	}

	console.Success(fmt.Sprintf("Pushed %s", req.Ref))
	return nil
}

func encodeAuth(creds Credentials) (string, error) {
	payload, err := json.Marshal(registry.AuthConfig{
		Username:      creds.Username,
		Password:      creds.Password,
		ServerAddress: creds.ServerAddress,
	})
	if err != nil {
		return "", fmt.Errorf("encode registry auth: %w", err)
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// drainPushStream consumes the daemon's JSON progress stream and returns the
// first embedded error, if any. The stream reports success only by ending
// without one.
func drainPushStream(stream io.Reader) error {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var message struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &message); err != nil {
			continue
		}
		if message.Error != "" {
			return fmt.Errorf("%s", message.Error)
		}
	}
	return scanner.Err()
}
