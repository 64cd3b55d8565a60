package assets

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/diabetes-app/internal/decisionpath"
	"github.com/yungbote/diabetes-app/internal/platform/gcp"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

type fakeSource struct {
	files map[string]string
	err   error
}

func (f fakeSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

type countingRenderer struct{ calls int }

func (r *countingRenderer) RenderAsset(name string) ([]byte, error) {
	r.calls++
	return []byte("rendered:" + name), nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return l
}

func TestServicePrefersPrimary(t *testing.T) {
	rend := &countingRenderer{}
	svc := NewService(fakeSource{files: map[string]string{"init.png": "disk"}}, rend, testLogger(t))

	b, err := svc.Get(context.Background(), "init.png")
	if err != nil || string(b) != "disk" {
		t.Fatalf("Get: %q %v", b, err)
	}
	if rend.calls != 0 {
		t.Fatalf("renderer should not run")
	}
}

func TestServiceFallsBackAndCaches(t *testing.T) {
	rend := &countingRenderer{}
	svc := NewService(fakeSource{err: errors.New("bucket down")}, rend, testLogger(t))
	name := decisionpath.Leaves()[0].Asset

	for i := 0; i < 2; i++ {
		b, err := svc.Get(context.Background(), name)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(b) != "rendered:"+name {
			t.Fatalf("Get: %q", b)
		}
	}
	if rend.calls != 1 {
		t.Fatalf("renderer calls: want 1, got %d", rend.calls)
	}
}

func TestServiceRejectsUnknownNames(t *testing.T) {
	svc := NewService(fakeSource{files: map[string]string{"secret.txt": "x"}}, &countingRenderer{}, testLogger(t))
	for _, name := range []string{"secret.txt", "../init.png", ""} {
		if _, err := svc.Get(context.Background(), name); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%q: want ErrNotFound, got %v", name, err)
		}
	}
}

func TestServiceNoRenderer(t *testing.T) {
	svc := NewService(fakeSource{}, nil, testLogger(t))
	if _, err := svc.Get(context.Background(), "init.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "init.png"), []byte("png"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := NewDir(root)

	rc, err := d.Open(context.Background(), "init.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "png" {
		t.Fatalf("content: %q", b)
	}

	if _, err := d.Open(context.Background(), "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := d.Open(context.Background(), "../init.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("traversal: %v", err)
	}
	if _, err := NewDir("").Open(context.Background(), "init.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty root: %v", err)
	}
}

func TestBucketObjectName(t *testing.T) {
	if got := NewBucket(nil, "b", "/paths/").objectName("init.png"); got != "paths/init.png" {
		t.Fatalf("prefixed: %s", got)
	}
	if got := NewBucket(nil, "b", "").objectName("init.png"); got != "init.png" {
		t.Fatalf("bare: %s", got)
	}
}

// Runs against fake-gcs-server or similar when TEST_GCS_EMULATOR_HOST and
// TEST_GCS_BUCKET are set and the bucket holds paths/init.png.
func TestBucketEmulator(t *testing.T) {
	host := os.Getenv("TEST_GCS_EMULATOR_HOST")
	bucket := os.Getenv("TEST_GCS_BUCKET")
	if host == "" || bucket == "" {
		t.Skip("set TEST_GCS_EMULATOR_HOST and TEST_GCS_BUCKET to run GCS asset tests")
	}
	ctx := context.Background()
	client, err := gcp.NewReadOnlyStorageClient(ctx, host)
	if err != nil {
		t.Fatalf("storage client: %v", err)
	}
	b := NewBucket(client, bucket, "paths")
	t.Cleanup(func() { _ = b.Close() })

	rc, err := b.Open(ctx, "init.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = rc.Close()
	if _, err := b.Open(ctx, "does-not-exist.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing object: %v", err)
	}
}
