// Where: internal/config/config.go
// What: deploy.yaml load/merge helpers.
// Why: Keep environment parameters declarative while defaulting to the
//      platform's built-in staging/production layout.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/llmops-rt/deployctl/internal/deploy"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where deployctl looks for project configuration.
const DefaultPath = "deploy.yaml"

// Config is the root of deploy.yaml.
type Config struct {
	Version      int                        `yaml:"version"`
	Image        ImageConfig                `yaml:"image,omitempty"`
	Storage      StorageConfig              `yaml:"storage,omitempty"`
	Feedback     FeedbackConfig             `yaml:"feedback,omitempty"`
	Environments map[string]EnvironmentSpec `yaml:"environments,omitempty"`
}

// ImageConfig names the chatbot container image and its build inputs.
type ImageConfig struct {
	Repository string `yaml:"repository,omitempty"`
	Tag        string `yaml:"tag,omitempty"`
	Context    string `yaml:"context,omitempty"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
}

// StorageConfig locates the vector index in S3 and on disk.
type StorageConfig struct {
	Bucket        string `yaml:"bucket,omitempty"`
	IndexPrefix   string `yaml:"index_prefix,omitempty"`
	LocalIndexDir string `yaml:"local_index_dir,omitempty"`
}

// FeedbackConfig names the DynamoDB feedback table.
type FeedbackConfig struct {
	Table string `yaml:"table,omitempty"`
}

// EnvironmentSpec overrides per-environment deployment parameters.
type EnvironmentSpec struct {
	Namespace             string   `yaml:"namespace,omitempty"`
	Deployment            string   `yaml:"deployment,omitempty"`
	RolloutTimeoutSeconds int      `yaml:"rollout_timeout_seconds,omitempty"`
	Manifests             []string `yaml:"manifests,omitempty"`
}

// Default returns the built-in configuration mirroring the platform layout:
// the knowledge-base bucket, faiss index prefix, feedback table, and the two
// chatbot environments.
func Default() Config {
	return Config{
		Version: 1,
		Image: ImageConfig{
			Repository: "llmops-chatbot",
			Tag:        "latest",
			Context:    "model_service",
		},
		Storage: StorageConfig{
			Bucket:        "llmops-knowledge-base",
			IndexPrefix:   "faiss_index",
			LocalIndexDir: "faiss_index_local",
		},
		Feedback: FeedbackConfig{
			Table: "llmops-feedback",
		},
		Environments: map[string]EnvironmentSpec{},
	}
}

// Load reads, validates, and merges deploy.yaml over the defaults. A missing
// file is not an error when path is the default location; explicit paths must
// exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, err
	}

	if err := validate(payload); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Environment resolves the effective deployment parameters for env, filling
// anything deploy.yaml left unset from the built-in defaults.
func (c Config) Environment(env deploy.Environment) deploy.EnvironmentConfig {
	result := deploy.DefaultConfig(env)
	spec, ok := c.Environments[env.String()]
	if !ok {
		return result
	}

	if spec.Namespace != "" {
		result.Namespace = spec.Namespace
	}
	if spec.Deployment != "" {
		result.Deployment = spec.Deployment
	}
	if spec.RolloutTimeoutSeconds > 0 {
		result.RolloutTimeout = time.Duration(spec.RolloutTimeoutSeconds) * time.Second
	}
	if len(spec.Manifests) > 0 {
		result.Manifests = spec.Manifests
	}
	return result
}

// ImageRef returns the fully qualified image reference.
func (c Config) ImageRef() string {
	tag := c.Image.Tag
	if tag == "" {
		tag = "latest"
	}
	return fmt.Sprintf("%s:%s", c.Image.Repository, tag)
}
