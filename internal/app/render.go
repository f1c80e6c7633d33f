// Where: internal/app/render.go
// What: Render command handler.
// Why: Stamp environment values into manifest templates before a deploy.
package app

import (
	"fmt"
	"io"

	"github.com/llmops-rt/deployctl/internal/deploy"
	"github.com/llmops-rt/deployctl/internal/manifest"
	"github.com/llmops-rt/deployctl/internal/ui"
)

func runRender(cli CLI, deps Dependencies, out io.Writer) int {
	selection, err := deploy.ParseSelection(cli.Render.Environment)
	if err != nil {
		fmt.Fprintf(out, "%v\nusage: deployctl render [staging|production|both]\n", err)
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	console := ui.New(out)
	for _, env := range selection {
		envCfg := cfg.Environment(env)
		data := manifest.RenderData{
			Environment: env.String(),
			Namespace:   envCfg.Namespace,
			Image:       cfg.ImageRef(),
			Bucket:      cfg.Storage.Bucket,
			IndexPrefix: cfg.Storage.IndexPrefix,
			Table:       cfg.Feedback.Table,
		}

		rendered, err := manifest.RenderAll(envCfg.Manifests, data)
		if err != nil {
			return exitWithError(out, err)
		}
		if len(rendered) == 0 {
			console.Info(fmt.Sprintf("%s: no manifest templates found", env))
			continue
		}

		console.Header("📝", fmt.Sprintf("Rendered manifests for %s", env))
		for _, path := range rendered {
			line := path
			if summary, err := manifest.Describe(path); err == nil {
				line = fmt.Sprintf("%s (%s)", path, summary)
			}
			console.ItemPlain(line)
		}
	}
	return 0
}
