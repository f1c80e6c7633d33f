// Where: cmd/deployctl/cli_test.go
// What: Tests for CLI dependency wiring.
// Why: Ensure every command has a working collaborator out of the box.
package main

import "testing"

func TestBuildDependencies(t *testing.T) {
	deps := buildDependencies()

	if deps.Deploy.Cluster == nil {
		t.Fatalf("cluster client not wired")
	}
	if deps.Provision.Runner == nil {
		t.Fatalf("provisioner not wired")
	}
	if deps.Push.Pusher == nil {
		t.Fatalf("pusher not wired")
	}
	if deps.Index.Syncer == nil {
		t.Fatalf("index syncer not wired")
	}
	if deps.Status.Reporter == nil {
		t.Fatalf("status reporter not wired")
	}
	if deps.ConfigLoader == nil {
		t.Fatalf("config loader not wired")
	}
	if deps.Prompter == nil {
		t.Fatalf("prompter not wired")
	}
}
