package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"structiv/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
)

type upload struct {
	name string
	body []byte
}

func fileHeaders(t *testing.T, files ...upload) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func newLocalUploader(t *testing.T) (*ImageUploader, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)
	logger := zerolog.New(io.Discard)
	return NewImageUploader(store, 10, 50, &logger), dir
}

func TestImageUploader_SavesInOrder(t *testing.T) {
	u, dir := newLocalUploader(t)

	urls, err := u.Save(context.Background(), fileHeaders(t,
		upload{"front.PNG", pngBytes},
		upload{"kitchen.jpg", jpegBytes},
		upload{"plan.gif", gifBytes},
	))
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.True(t, strings.HasPrefix(urls[0], "/uploads/unit-"))
	assert.True(t, strings.HasSuffix(urls[0], ".png"))
	assert.True(t, strings.HasSuffix(urls[1], ".jpg"))
	assert.True(t, strings.HasSuffix(urls[2], ".gif"))

	stored, err := os.ReadFile(filepath.Join(dir, filepath.Base(urls[1])))
	require.NoError(t, err)
	assert.Equal(t, jpegBytes, stored)
}

func TestImageUploader_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		files []upload
		msg   string
	}{
		{"no files", nil, "No files uploaded"},
		{"bad extension", []upload{{"notes.txt", []byte("hello")}}, msgOnlyImages},
		{"text renamed to png", []upload{{"fake.png", []byte("just some text")}}, msgOnlyImages},
		{"one bad among good", []upload{{"a.png", pngBytes}, {"b.pdf", []byte("%PDF-1.4")}}, msgOnlyImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, dir := newLocalUploader(t)
			var headers []*multipart.FileHeader
			if len(tt.files) > 0 {
				headers = fileHeaders(t, tt.files...)
			}

			_, err := u.Save(ctx, headers)
			var upErr *UploadError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.msg, upErr.Msg)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestImageUploader_Limits(t *testing.T) {
	ctx := context.Background()

	u, _ := newLocalUploader(t)
	files := make([]upload, 11)
	for i := range files {
		files[i] = upload{"p.png", pngBytes}
	}
	_, err := u.Save(ctx, fileHeaders(t, files...))
	assert.EqualError(t, err, "Too many files. Maximum is 10 files.")

	u.maxBytes = 8
	_, err = u.Save(ctx, fileHeaders(t, upload{"p.png", pngBytes}))
	assert.EqualError(t, err, "File too large. Maximum size is 50MB per file.")
	assert.Equal(t, int64(8), u.MaxBytes())
	assert.Equal(t, 10, u.MaxFiles())
}

func TestS3Store_Save(t *testing.T) {
	var (
		mu      sync.Mutex
		gotPath string
		gotType string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath, gotType, gotBody = r.URL.Path, r.Header.Get("Content-Type"), body
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(config.S3Config{
		Bucket:          "structiv",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Prefix:          "/units/",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "unit-1.png", bytes.NewReader(pngBytes), "image/png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/structiv/units/unit-1.png", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/structiv/units/unit-1.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, pngBytes, gotBody)
}

func TestS3Store_PublicURL(t *testing.T) {
	store, err := NewS3Store(config.S3Config{Bucket: "b", Region: "eu-west-1", AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", store.baseURL)

	store, err = NewS3Store(config.S3Config{Bucket: "b", Region: "eu-west-1", PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", store.baseURL)
}

func TestNew(t *testing.T) {
	logger := zerolog.New(io.Discard)

	store, err := New(config.UploadsConfig{Dir: filepath.Join(t.TempDir(), "u"), URLPrefix: "/uploads"}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	store, err = New(config.UploadsConfig{S3: config.S3Config{Bucket: "b", Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s"}}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, store)
}
