// Where: internal/registry/ecr.go
// What: ECR-backed registry token provider.
// Why: Exchange AWS credentials for a docker login without shelling out.
package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
)

// ECRTokenProvider fetches short-lived registry credentials from ECR.
type ECRTokenProvider struct {
	client *ecr.Client
}

// NewECRTokenProvider builds a provider using the default AWS config chain.
func NewECRTokenProvider(ctx context.Context) (*ECRTokenProvider, error) {
	opts := []func(*config.LoadOptions) error{}
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &ECRTokenProvider{client: ecr.NewFromConfig(cfg)}, nil
}

// AuthorizationToken decodes the ECR token into username and password. ECR
// always issues "AWS" as the username.
func (p *ECRTokenProvider) AuthorizationToken(ctx context.Context) (Credentials, error) {
	if p == nil || p.client == nil {
		return Credentials{}, fmt.Errorf("ecr client is nil")
	}
	resp, err := p.client.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return Credentials{}, err
	}
	if len(resp.AuthorizationData) == 0 {
		return Credentials{}, fmt.Errorf("no authorization data returned")
	}
	data := resp.AuthorizationData[0]

	decoded, err := base64.StdEncoding.DecodeString(aws.ToString(data.AuthorizationToken))
	if err != nil {
		return Credentials{}, fmt.Errorf("decode authorization token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}, fmt.Errorf("malformed authorization token")
	}

	return Credentials{
		Username:      username,
		Password:      password,
		ServerAddress: aws.ToString(data.ProxyEndpoint),
	}, nil
}
