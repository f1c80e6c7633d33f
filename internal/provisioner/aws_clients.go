// Where: internal/provisioner/aws_clients.go
// What: AWS SDK adapters for DynamoDB and S3 provisioning.
// Why: Map internal provisioner types to SDK types.
package provisioner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const defaultAWSRegion = "us-east-1"

type awsClientFactory struct{}

func (awsClientFactory) S3(ctx context.Context) (S3API, error) {
	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint := localEndpoint(); endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client, region: cfg.Region}, nil
}

func (awsClientFactory) DynamoDB(ctx context.Context) (DynamoDBAPI, error) {
	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if endpoint := localEndpoint(); endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})
	return awsDynamoClient{client: client}, nil
}

// loadAWSConfig resolves region and credentials through the default chain.
// When a local endpoint override is active, static dummy credentials keep the
// SDK from probing the instance metadata service.
func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultAWSRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if localEndpoint() != "" {
		creds := credentials.NewStaticCredentialsProvider("local", "local", "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}

func localEndpoint() string {
	return strings.TrimSpace(os.Getenv("DEPLOYCTL_AWS_ENDPOINT"))
}

type awsS3Client struct {
	client *s3.Client
	region string
}

func (c awsS3Client) ListBuckets(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Buckets))
	for _, bucket := range resp.Buckets {
		if bucket.Name == nil {
			continue
		}
		names = append(names, *bucket.Name)
	}
	return names, nil
}

func (c awsS3Client) CreateBucket(ctx context.Context, name string) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	input := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 rejects an explicit LocationConstraint.
	if c.region != "" && c.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.region),
		}
	}
	_, err := c.client.CreateBucket(ctx, input)
	return err
}

type awsDynamoClient struct {
	client *dynamodb.Client
}

func (c awsDynamoClient) ListTables(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	resp, err := c.client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return nil, err
	}
	return resp.TableNames, nil
}

func (c awsDynamoClient) CreateTable(ctx context.Context, input TableCreateInput) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	awsInput, err := buildAWSCreateTableInput(input)
	if err != nil {
		return err
	}
	_, err = c.client.CreateTable(ctx, awsInput)
	return err
}

func buildAWSCreateTableInput(input TableCreateInput) (*dynamodb.CreateTableInput, error) {
	billingMode, err := mapBillingMode(input.BillingMode)
	if err != nil {
		return nil, err
	}
	attrType, err := mapAttributeType(input.HashKeyType)
	if err != nil {
		return nil, err
	}

	return &dynamodb.CreateTableInput{
		TableName: aws.String(input.TableName),
		KeySchema: []dynamotypes.KeySchemaElement{
			{
				AttributeName: aws.String(input.HashKey),
				KeyType:       dynamotypes.KeyTypeHash,
			},
		},
		AttributeDefinitions: []dynamotypes.AttributeDefinition{
			{
				AttributeName: aws.String(input.HashKey),
				AttributeType: attrType,
			},
		},
		BillingMode: billingMode,
	}, nil
}

func mapBillingMode(value string) (dynamotypes.BillingMode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PAY_PER_REQUEST", "":
		return dynamotypes.BillingModePayPerRequest, nil
	case "PROVISIONED":
		return dynamotypes.BillingModeProvisioned, nil
	default:
		return "", fmt.Errorf("unsupported billing mode: %s", value)
	}
}

func mapAttributeType(value string) (dynamotypes.ScalarAttributeType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "S", "":
		return dynamotypes.ScalarAttributeTypeS, nil
	case "N":
		return dynamotypes.ScalarAttributeTypeN, nil
	case "B":
		return dynamotypes.ScalarAttributeTypeB, nil
	default:
		return "", fmt.Errorf("unsupported attribute type: %s", value)
	}
}
