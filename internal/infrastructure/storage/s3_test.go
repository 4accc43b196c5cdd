package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare-backend/internal/config"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*ImageStore, *fakeBucket) {
	bucket := &fakeBucket{objects: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	store, err := NewImageStore(context.Background(), config.StorageConfig{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "images",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	return store, bucket
}

func TestImageStore_UploadAndDelete(t *testing.T) {
	store, bucket := newTestStore(t)
	ctx := context.Background()

	content := "fake-png-bytes"
	require.NoError(t, store.Upload(ctx, "avatar/1/a.png", strings.NewReader(content), int64(len(content)), "image/png"))

	bucket.mu.Lock()
	stored, ok := bucket.objects["/images/avatar/1/a.png"]
	bucket.mu.Unlock()
	require.True(t, ok)
	assert.Contains(t, stored, content)

	require.NoError(t, store.Delete(ctx, "avatar/1/a.png"))

	bucket.mu.Lock()
	_, ok = bucket.objects["/images/avatar/1/a.png"]
	bucket.mu.Unlock()
	assert.False(t, ok)
}

func TestImageStore_URL(t *testing.T) {
	store, err := NewImageStore(context.Background(), config.StorageConfig{
		Endpoint:      "minio:9000",
		Region:        "us-east-1",
		Bucket:        "images",
		PublicBaseURL: "https://cdn.example.com/images/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/permit/2/x.jpg", store.URL("permit/2/x.jpg"))

	store, err = NewImageStore(context.Background(), config.StorageConfig{
		Endpoint: "minio:9000",
		Region:   "us-east-1",
		Bucket:   "images",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/images/a.png", store.URL("a.png"))
}

func TestNewImageStore_NotConfigured(t *testing.T) {
	_, err := NewImageStore(context.Background(), config.StorageConfig{})
	assert.Error(t, err)
}
