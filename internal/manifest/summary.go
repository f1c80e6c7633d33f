// Where: internal/manifest/summary.go
// What: Lightweight manifest introspection.
// Why: Surface kind/name in progress output without validating contents.
package manifest

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Summary identifies a manifest by its top-level metadata.
type Summary struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Metadata   struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
}

// Describe reads kind and name from a manifest file. It deliberately ignores
// everything else in the document; contents are applied as-is.
func Describe(path string) (Summary, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	if err := yaml.Unmarshal(payload, &summary); err != nil {
		return Summary{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return summary, nil
}

// String formats a summary as "Kind/name".
func (s Summary) String() string {
	if s.Kind == "" {
		return s.Metadata.Name
	}
	return fmt.Sprintf("%s/%s", s.Kind, s.Metadata.Name)
}
