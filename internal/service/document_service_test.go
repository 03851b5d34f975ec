package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learnflow_backend/internal/config"
	"learnflow_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newLocalDocumentService(t *testing.T) (*DocumentService, string) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}}
	return NewDocumentService(NewStorageService(context.Background(), cfg)), dir
}

func TestDocumentUploadText(t *testing.T) {
	svc, dir := newLocalDocumentService(t)

	upload, err := svc.Upload(context.Background(), "user-1", fileHeader(t, "Chapter1.md", []byte("# Cells\nCells are small.")))
	require.NoError(t, err)

	assert.Equal(t, "Chapter1.md", upload.FileName)
	assert.Equal(t, "# Cells\nCells are small.", upload.DocumentText)
	assert.True(t, strings.HasPrefix(upload.URL, "/uploads/documents/user-1/"))
	assert.True(t, strings.HasSuffix(upload.URL, ".md"))

	key := strings.TrimPrefix(upload.URL, "/uploads/")
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "# Cells\nCells are small.", string(stored))
}

func TestDocumentUploadBinaryHasNoText(t *testing.T) {
	svc, _ := newLocalDocumentService(t)

	upload, err := svc.Upload(context.Background(), "user-1", fileHeader(t, "slides.pdf", []byte("%PDF-1.4 binary")))
	require.NoError(t, err)
	assert.Empty(t, upload.DocumentText)
	assert.Equal(t, "application/pdf", upload.ContentType)
}

func TestDocumentUploadRejectsUnsupportedExtension(t *testing.T) {
	svc, _ := newLocalDocumentService(t)

	_, err := svc.Upload(context.Background(), "user-1", fileHeader(t, "run.exe", []byte("MZ")))
	assert.ErrorIs(t, err, util.ErrUnsupportedFile)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("avatars", "user-1", "Me.PNG")
	assert.True(t, strings.HasPrefix(key, "avatars/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, ObjectKey("avatars", "user-1", "Me.PNG"))
}
