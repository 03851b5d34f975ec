package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"learnflow_backend/internal/util"
	"mime/multipart"
	"net/http"
	"unicode/utf8"
)

// DocumentUpload 上传结果；文本类文件附带 documentText，可直接用于生成笔记或测验
type DocumentUpload struct {
	FileName     string `json:"fileName"`
	URL          string `json:"url"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	DocumentText string `json:"documentText,omitempty"`
}

type DocumentService struct {
	Storage *StorageService
}

func NewDocumentService(storage *StorageService) *DocumentService {
	return &DocumentService{Storage: storage}
}

func (s *DocumentService) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*DocumentUpload, error) {
	if !util.HasExtension(file.Filename, util.DocumentExtensions) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFile, file.Filename)
	}
	if file.Size > util.MaxDocumentSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", util.ErrUnsupportedFile, util.MaxDocumentSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, util.MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > util.MaxDocumentSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", util.ErrUnsupportedFile, util.MaxDocumentSize)
	}

	contentType := http.DetectContentType(data)
	key := ObjectKey("documents", userID, file.Filename)
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, err
	}

	result := &DocumentUpload{
		FileName:    file.Filename,
		URL:         url,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	if util.HasExtension(file.Filename, util.TextDocumentExtensions) && utf8.Valid(data) {
		result.DocumentText = string(data)
	}
	return result, nil
}
