// Where: internal/provisioner/provisioner_test.go
// What: Tests for S3/DynamoDB provisioning flows.
// Why: Ensure idempotent ensure-semantics and fail-fast error propagation.
package provisioner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/llmops-rt/deployctl/internal/ui"
)

type fakeS3 struct {
	existing  []string
	created   []string
	listErr   error
	createErr error
}

func (f *fakeS3) ListBuckets(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	return nil
}

type fakeDynamo struct {
	existing []string
	created  []TableCreateInput
	listErr  error
}

func (f *fakeDynamo) ListTables(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeDynamo) CreateTable(_ context.Context, input TableCreateInput) error {
	f.created = append(f.created, input)
	return nil
}

type fakeFactory struct {
	s3     *fakeS3
	dynamo *fakeDynamo
}

func (f fakeFactory) S3(_ context.Context) (S3API, error) {
	return f.s3, nil
}

func (f fakeFactory) DynamoDB(_ context.Context) (DynamoDBAPI, error) {
	return f.dynamo, nil
}

func newRunner(factory ClientFactory, out *bytes.Buffer) *Runner {
	return &Runner{Clients: factory, Console: ui.New(out)}
}

func TestApplyCreatesMissingResources(t *testing.T) {
	s3 := &fakeS3{}
	dynamo := &fakeDynamo{}
	out := &bytes.Buffer{}
	runner := newRunner(fakeFactory{s3: s3, dynamo: dynamo}, out)

	spec := Spec{Bucket: "llmops-knowledge-base", Table: "llmops-feedback"}
	if err := runner.Apply(context.Background(), spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s3.created) != 1 || s3.created[0] != "llmops-knowledge-base" {
		t.Fatalf("unexpected bucket creations: %v", s3.created)
	}
	if len(dynamo.created) != 1 {
		t.Fatalf("unexpected table creations: %v", dynamo.created)
	}
	table := dynamo.created[0]
	if table.TableName != "llmops-feedback" || table.HashKey != "query_id" {
		t.Fatalf("unexpected table input: %+v", table)
	}
	if table.BillingMode != "PAY_PER_REQUEST" {
		t.Fatalf("unexpected billing mode: %s", table.BillingMode)
	}
}

func TestApplySkipsExistingResources(t *testing.T) {
	s3 := &fakeS3{existing: []string{"llmops-knowledge-base"}}
	dynamo := &fakeDynamo{existing: []string{"llmops-feedback"}}
	out := &bytes.Buffer{}
	runner := newRunner(fakeFactory{s3: s3, dynamo: dynamo}, out)

	spec := Spec{Bucket: "llmops-knowledge-base", Table: "llmops-feedback"}
	if err := runner.Apply(context.Background(), spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s3.created) != 0 || len(dynamo.created) != 0 {
		t.Fatalf("existing resources recreated: %v %v", s3.created, dynamo.created)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Fatalf("missing skip message:\n%s", out.String())
	}
}

func TestApplyAbortsOnBucketFailure(t *testing.T) {
	wantErr := errors.New("access denied")
	s3 := &fakeS3{createErr: wantErr}
	dynamo := &fakeDynamo{}
	runner := newRunner(fakeFactory{s3: s3, dynamo: dynamo}, &bytes.Buffer{})

	spec := Spec{Bucket: "llmops-knowledge-base", Table: "llmops-feedback"}
	err := runner.Apply(context.Background(), spec)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected create error, got %v", err)
	}
	if len(dynamo.created) != 0 {
		t.Fatalf("table created after bucket failure")
	}
}

func TestApplyEmptySpecIsNoop(t *testing.T) {
	runner := newRunner(fakeFactory{s3: &fakeS3{}, dynamo: &fakeDynamo{}}, &bytes.Buffer{})
	if err := runner.Apply(context.Background(), Spec{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildAWSCreateTableInputRejectsUnknownModes(t *testing.T) {
	_, err := buildAWSCreateTableInput(TableCreateInput{TableName: "t", HashKey: "k", BillingMode: "FLAT"})
	if err == nil {
		t.Fatalf("expected billing mode error")
	}
	_, err = buildAWSCreateTableInput(TableCreateInput{TableName: "t", HashKey: "k", HashKeyType: "X"})
	if err == nil {
		t.Fatalf("expected attribute type error")
	}
}
