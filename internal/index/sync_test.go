// Where: internal/index/sync_test.go
// What: Tests for vector index upload and verification.
// Why: Ensure key layout matches the service's download prefix and failures abort.
package index

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/llmops-rt/deployctl/internal/ui"
)

type fakeStore struct {
	objects map[string]string
	putErr  error
	listErr error
}

func (f *fakeStore) PutObject(_ context.Context, bucket, key string, body io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[bucket+"/"+key] = string(payload)
	return nil
}

func (f *fakeStore) ListObjects(_ context.Context, bucket, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for name := range f.objects {
		if strings.HasPrefix(name, bucket+"/"+prefix) {
			keys = append(keys, strings.TrimPrefix(name, bucket+"/"))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func writeIndexDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"index.faiss": "vectors",
		"index.pkl":   "docstore",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newSyncer(store ObjectStore, out *bytes.Buffer) *Syncer {
	return &Syncer{Store: store, Console: ui.New(out)}
}

func TestUploadPreservesRelativeKeys(t *testing.T) {
	dir := writeIndexDir(t)
	store := &fakeStore{}
	out := &bytes.Buffer{}
	syncer := newSyncer(store, out)

	err := syncer.Upload(context.Background(), dir, "llmops-knowledge-base", "faiss_index")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.objects["llmops-knowledge-base/faiss_index/index.faiss"]; got != "vectors" {
		t.Fatalf("index.faiss not uploaded correctly: %q", got)
	}
	if got := store.objects["llmops-knowledge-base/faiss_index/index.pkl"]; got != "docstore" {
		t.Fatalf("index.pkl not uploaded correctly: %q", got)
	}
	if !strings.Contains(out.String(), "s3://llmops-knowledge-base/faiss_index/index.faiss") {
		t.Fatalf("missing progress line:\n%s", out.String())
	}
}

func TestUploadEmptyDirFails(t *testing.T) {
	syncer := newSyncer(&fakeStore{}, &bytes.Buffer{})
	err := syncer.Upload(context.Background(), t.TempDir(), "bucket", "prefix")
	if err == nil || !strings.Contains(err.Error(), "no index files") {
		t.Fatalf("expected empty-dir error, got %v", err)
	}
}

func TestUploadAbortsOnPutFailure(t *testing.T) {
	dir := writeIndexDir(t)
	wantErr := errors.New("slow down")
	syncer := newSyncer(&fakeStore{putErr: wantErr}, &bytes.Buffer{})

	err := syncer.Upload(context.Background(), dir, "bucket", "prefix")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected put error, got %v", err)
	}
}

func TestUploadMissingDirFails(t *testing.T) {
	syncer := newSyncer(&fakeStore{}, &bytes.Buffer{})
	err := syncer.Upload(context.Background(), filepath.Join(t.TempDir(), "absent"), "bucket", "prefix")
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestVerifyReportsObjects(t *testing.T) {
	store := &fakeStore{objects: map[string]string{
		"kb/faiss_index/index.faiss": "vectors",
		"kb/faiss_index/index.pkl":   "docstore",
	}}
	out := &bytes.Buffer{}
	syncer := newSyncer(store, out)

	if err := syncer.Verify(context.Background(), "kb", "faiss_index"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "2 object(s) present") {
		t.Fatalf("missing summary:\n%s", out.String())
	}
}

func TestVerifyEmptyPrefixFails(t *testing.T) {
	syncer := newSyncer(&fakeStore{}, &bytes.Buffer{})
	err := syncer.Verify(context.Background(), "kb", "faiss_index")
	if err == nil || !strings.Contains(err.Error(), "no index objects") {
		t.Fatalf("expected empty-prefix error, got %v", err)
	}
}
