// Where: internal/deploy/environment.go
// What: Environment enumeration and per-environment deployment parameters.
// Why: Replace string dispatch with a closed, parse-validated set of targets.
package deploy

import (
	"fmt"
	"strings"
	"time"
)

// Environment identifies one of the fixed deployment targets.
type Environment int

const (
	Staging Environment = iota
	Production
)

// String returns the canonical lowercase name of the environment.
func (e Environment) String() string {
	switch e {
	case Staging:
		return "staging"
	case Production:
		return "production"
	default:
		return fmt.Sprintf("environment(%d)", int(e))
	}
}

// ErrInvalidSelector is returned when the environment token is outside the
// closed set accepted by ParseSelection.
type ErrInvalidSelector struct {
	Token string
}

func (e ErrInvalidSelector) Error() string {
	return fmt.Sprintf("invalid environment %q (valid: staging, production, both)", e.Token)
}

// ParseSelection translates the positional CLI token into the ordered list of
// environments to deploy. An empty token selects both, staging first. Any
// token outside {staging, production, both} is rejected before any cluster
// operation runs.
func ParseSelection(token string) ([]Environment, error) {
	switch strings.TrimSpace(token) {
	case "staging":
		return []Environment{Staging}, nil
	case "production":
		return []Environment{Production}, nil
	case "", "both":
		return []Environment{Staging, Production}, nil
	default:
		return nil, ErrInvalidSelector{Token: token}
	}
}

// EnvironmentConfig holds everything one deployment sequence needs. The two
// built-in environments differ only in namespace, manifest paths, and rollout
// timeout, so a single parameterized sequence serves both.
type EnvironmentConfig struct {
	Name           Environment
	Namespace      string
	Deployment     string
	Manifests      []string
	RolloutTimeout time.Duration
}

const (
	defaultDeploymentName    = "chatbot"
	stagingRolloutTimeout    = 300 * time.Second
	productionRolloutTimeout = 600 * time.Second
)

// DefaultConfig returns the built-in parameters for an environment: the
// chatbot namespaces, the fixed namespace → secrets → deployment → service
// manifest order, and the 300s/600s rollout windows.
func DefaultConfig(env Environment) EnvironmentConfig {
	name := env.String()
	timeout := stagingRolloutTimeout
	if env == Production {
		timeout = productionRolloutTimeout
	}
	return EnvironmentConfig{
		Name:       env,
		Namespace:  "chatbot-" + name,
		Deployment: defaultDeploymentName,
		Manifests: []string{
			fmt.Sprintf("k8s/%s/namespace.yaml", name),
			fmt.Sprintf("k8s/%s/secrets.yaml", name),
			fmt.Sprintf("k8s/%s/deployment.yaml", name),
			fmt.Sprintf("k8s/%s/service.yaml", name),
		},
		RolloutTimeout: timeout,
	}
}
