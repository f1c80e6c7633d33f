// Where: internal/provisioner/provisioner.go
// What: Provisioner for the platform's S3 and DynamoDB resources.
// Why: Create the knowledge-base bucket and feedback table when absent.
package provisioner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/llmops-rt/deployctl/internal/ui"
)

// S3API is the subset of S3 operations provisioning needs.
type S3API interface {
	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, name string) error
}

// DynamoDBAPI is the subset of DynamoDB operations provisioning needs.
type DynamoDBAPI interface {
	ListTables(ctx context.Context) ([]string, error)
	CreateTable(ctx context.Context, input TableCreateInput) error
}

// TableCreateInput describes the feedback table. The service writes one item
// per feedback submission keyed by query_id, so a single string hash key and
// on-demand billing are all it ever needs.
type TableCreateInput struct {
	TableName   string
	HashKey     string
	HashKeyType string
	BillingMode string
}

// ClientFactory builds the AWS clients at apply time so credentials and
// endpoint resolution happen inside the command's context.
type ClientFactory interface {
	S3(ctx context.Context) (S3API, error)
	DynamoDB(ctx context.Context) (DynamoDBAPI, error)
}

// Spec names the resources to ensure.
type Spec struct {
	Bucket string
	Table  string
}

// Runner ensures the platform resources exist. Already-present resources are
// reported and skipped; creation failures abort.
type Runner struct {
	Clients ClientFactory
	Console *ui.Console
}

// New creates a Runner against real AWS clients, writing progress to stdout.
func New() *Runner {
	return &Runner{
		Clients: awsClientFactory{},
		Console: ui.New(os.Stdout),
	}
}

// Apply creates the bucket and table named in spec when they do not exist.
func (r *Runner) Apply(ctx context.Context, spec Spec) error {
	if r == nil || r.Clients == nil {
		return fmt.Errorf("provisioner clients not configured")
	}
	console := r.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}

	if bucket := strings.TrimSpace(spec.Bucket); bucket != "" {
		client, err := r.Clients.S3(ctx)
		if err != nil {
			return fmt.Errorf("s3 client: %w", err)
		}
		if err := ensureBucket(ctx, client, bucket, console); err != nil {
			return err
		}
	}

	if table := strings.TrimSpace(spec.Table); table != "" {
		client, err := r.Clients.DynamoDB(ctx)
		if err != nil {
			return fmt.Errorf("dynamodb client: %w", err)
		}
		if err := ensureFeedbackTable(ctx, client, table, console); err != nil {
			return err
		}
	}

	return nil
}

func ensureBucket(ctx context.Context, client S3API, name string, console *ui.Console) error {
	existing, err := client.ListBuckets(ctx)
	if err != nil {
		return fmt.Errorf("list buckets: %w", err)
	}
	for _, bucket := range existing {
		if bucket == name {
			console.ItemPlain(fmt.Sprintf("Bucket %s already exists. Skipping.", name))
			return nil
		}
	}

	if err := client.CreateBucket(ctx, name); err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}
	console.Success(fmt.Sprintf("Created S3 bucket: %s", name))
	return nil
}

func ensureFeedbackTable(ctx context.Context, client DynamoDBAPI, name string, console *ui.Console) error {
	existing, err := client.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, table := range existing {
		if table == name {
			console.ItemPlain(fmt.Sprintf("Table %s already exists. Skipping.", name))
			return nil
		}
	}

	input := TableCreateInput{
		TableName:   name,
		HashKey:     "query_id",
		HashKeyType: "S",
		BillingMode: "PAY_PER_REQUEST",
	}
	if err := client.CreateTable(ctx, input); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	console.Success(fmt.Sprintf("Created DynamoDB table: %s", name))
	return nil
}
