// Where: internal/app/index.go
// What: Index command handlers.
// Why: Keep the S3 index in step with the deployed service.
package app

import (
	"context"
	"fmt"
	"io"
)

func runIndexUpload(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Index.Syncer == nil {
		fmt.Fprintln(out, "index: not configured")
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	dir := cli.Index.Upload.Dir
	if dir == "" {
		dir = cfg.Storage.LocalIndexDir
	}
	if err := deps.Index.Syncer.Upload(context.Background(), dir, cfg.Storage.Bucket, cfg.Storage.IndexPrefix); err != nil {
		return exitWithError(out, err)
	}
	return 0
}

func runIndexVerify(cli CLI, deps Dependencies, out io.Writer) int {
	if deps.Index.Syncer == nil {
		fmt.Fprintln(out, "index: not configured")
		return 1
	}

	cfg, err := deps.ConfigLoader(cli.Config)
	if err != nil {
		return exitWithError(out, err)
	}

	if err := deps.Index.Syncer.Verify(context.Background(), cfg.Storage.Bucket, cfg.Storage.IndexPrefix); err != nil {
		return exitWithError(out, err)
	}
	return 0
}
