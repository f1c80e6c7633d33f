// Where: internal/manifest/render.go
// What: Manifest template rendering.
// Why: Stamp environment-specific values (image, namespace) into manifests
//      before they are applied.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateSuffix marks a manifest source as a template. A template at
// deployment.yaml.tmpl renders to deployment.yaml next to it.
const TemplateSuffix = ".tmpl"

// RenderData carries the values available inside manifest templates.
type RenderData struct {
	Environment string
	Namespace   string
	Image       string
	Bucket      string
	IndexPrefix string
	Table       string
}

// Render executes the template at templatePath with data and writes the
// result to the path without the template suffix. Missing keys fail the
// render instead of emitting "<no value>" into cluster manifests.
func Render(templatePath string, data RenderData) (string, error) {
	if !strings.HasSuffix(templatePath, TemplateSuffix) {
		return "", fmt.Errorf("%s is not a %s template", templatePath, TemplateSuffix)
	}

	payload, err := os.ReadFile(templatePath)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(filepath.Base(templatePath)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(payload))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", templatePath, err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("render %s: %w", templatePath, err)
	}

	outPath := strings.TrimSuffix(templatePath, TemplateSuffix)
	if err := os.WriteFile(outPath, rendered.Bytes(), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

// RenderAll renders every template that backs one of the given manifest
// paths. Manifests without a sibling template are left untouched; they are
// assumed to be authored literally.
func RenderAll(manifests []string, data RenderData) ([]string, error) {
	var rendered []string
	for _, path := range manifests {
		templatePath := path + TemplateSuffix
		if _, err := os.Stat(templatePath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return rendered, err
		}
		outPath, err := Render(templatePath, data)
		if err != nil {
			return rendered, err
		}
		rendered = append(rendered, outPath)
	}
	return rendered, nil
}
