// Where: internal/kubectl/client_test.go
// What: Tests for kubectl command construction.
// Why: Ensure apply/rollout invocations match the expected CLI surface.
package kubectl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordedCommand struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	commands []recordedCommand
	runErr   error
	output   []byte
	outErr   error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	f.commands = append(f.commands, recordedCommand{dir: dir, name: name, args: args})
	return f.runErr
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.commands = append(f.commands, recordedCommand{dir: dir, name: name, args: args})
	return f.output, f.outErr
}

func TestApplyCommandShape(t *testing.T) {
	runner := &fakeRunner{}
	client := &Client{Runner: runner}

	err := client.Apply(context.Background(), "k8s/staging/deployment.yaml", "chatbot-staging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.commands) != 1 {
		t.Fatalf("expected one command, got %d", len(runner.commands))
	}
	cmd := runner.commands[0]
	if cmd.name != "kubectl" {
		t.Fatalf("unexpected binary: %s", cmd.name)
	}
	want := "apply -f k8s/staging/deployment.yaml -n chatbot-staging"
	if got := strings.Join(cmd.args, " "); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestApplyPropagatesError(t *testing.T) {
	wantErr := errors.New("exit status 1")
	client := &Client{Runner: &fakeRunner{runErr: wantErr}}

	err := client.Apply(context.Background(), "k8s/staging/secrets.yaml", "chatbot-staging")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected runner error, got %v", err)
	}
}

func TestWaitForRolloutTimeoutFlag(t *testing.T) {
	runner := &fakeRunner{}
	client := &Client{Runner: runner, Binary: "kubectl-1.29"}

	err := client.WaitForRollout(context.Background(), "chatbot", "chatbot-production", 600*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := runner.commands[0]
	if cmd.name != "kubectl-1.29" {
		t.Fatalf("binary override ignored: %s", cmd.name)
	}
	want := "rollout status deployment/chatbot -n chatbot-production --timeout=600s"
	if got := strings.Join(cmd.args, " "); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestReplicaStatusParsesCounts(t *testing.T) {
	cases := []struct {
		name        string
		output      string
		wantReady   int
		wantDesired int
		wantErr     bool
	}{
		{name: "both counts", output: "2 3", wantReady: 2, wantDesired: 3},
		{name: "ready omitted when zero", output: "3", wantDesired: 3},
		{name: "garbage", output: "a b", wantErr: true},
		{name: "empty", output: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &Client{Runner: &fakeRunner{output: []byte(tc.output)}}
			ready, desired, err := client.ReplicaStatus(context.Background(), "chatbot", "chatbot-staging")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for output %q", tc.output)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ready != tc.wantReady || desired != tc.wantDesired {
				t.Fatalf("counts = %d/%d, want %d/%d", ready, desired, tc.wantReady, tc.wantDesired)
			}
		})
	}
}

func TestClientWithoutRunnerFails(t *testing.T) {
	client := &Client{}
	if err := client.Apply(context.Background(), "m.yaml", "ns"); err == nil {
		t.Fatalf("expected error")
	}
	if err := client.WaitForRollout(context.Background(), "d", "ns", time.Minute); err == nil {
		t.Fatalf("expected error")
	}
	if _, _, err := client.ReplicaStatus(context.Background(), "d", "ns"); err == nil {
		t.Fatalf("expected error")
	}
}
