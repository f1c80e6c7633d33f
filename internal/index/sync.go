// Where: internal/index/sync.go
// What: Vector index upload/verify against object storage.
// Why: Ship the locally built FAISS index to the bucket the service reads.
package index

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/llmops-rt/deployctl/internal/ui"
)

// ObjectStore is the subset of object-storage operations index sync needs.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body io.Reader) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
}

// Syncer uploads and verifies the vector index directory.
type Syncer struct {
	Store   ObjectStore
	Console *ui.Console
}

// NewSyncer creates a syncer writing progress to stdout.
func NewSyncer(store ObjectStore) *Syncer {
	return &Syncer{Store: store, Console: ui.New(os.Stdout)}
}

// Upload walks localDir and puts every regular file under prefix, preserving
// relative paths. Upload order is the walk order; any failure aborts.
func (s *Syncer) Upload(ctx context.Context, localDir, bucket, prefix string) error {
	if s == nil || s.Store == nil {
		return fmt.Errorf("object store not configured")
	}
	console := s.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}

	console.Header("☁️", fmt.Sprintf("Uploading index to s3://%s/%s/", bucket, prefix))

	uploaded := 0
	err := filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		key := prefix + "/" + filepath.ToSlash(rel)

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := s.Store.PutObject(ctx, bucket, key, file); err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		console.ItemPlain(fmt.Sprintf("Uploaded %s -> s3://%s/%s", path, bucket, key))
		uploaded++
		return nil
	})
	if err != nil {
		return err
	}
	if uploaded == 0 {
		return fmt.Errorf("no index files found in %s", localDir)
	}

	console.Success(fmt.Sprintf("Uploaded %d index file(s)", uploaded))
	return nil
}

// Verify lists the remote index objects and fails when none exist. The
// service cannot start against an empty prefix, so an empty listing is an
// operator error worth catching before a deploy.
func (s *Syncer) Verify(ctx context.Context, bucket, prefix string) error {
	if s == nil || s.Store == nil {
		return fmt.Errorf("object store not configured")
	}
	console := s.Console
	if console == nil {
		console = ui.New(os.Stdout)
	}

	keys, err := s.Store.ListObjects(ctx, bucket, strings.TrimSuffix(prefix, "/")+"/")
	if err != nil {
		return fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no index objects under s3://%s/%s/", bucket, prefix)
	}

	console.Header("📦", fmt.Sprintf("Index objects in s3://%s/%s/", bucket, prefix))
	for _, key := range keys {
		console.ItemPlain(key)
	}
	console.Success(fmt.Sprintf("%d object(s) present", len(keys)))
	return nil
}
