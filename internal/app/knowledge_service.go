package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"evalhub/internal/model"
	"evalhub/internal/pkg/pdfextract"
	"evalhub/internal/repository"
	"evalhub/internal/storage"
)

var (
	ErrFileNotFound    = errors.New("knowledge file not found")
	ErrFileType        = errors.New("only .txt and .pdf files are supported")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrFileEmptyUpload = errors.New("no file provided")
)

type KnowledgeService struct {
	files          *repository.KnowledgeFileRepository
	blobs          storage.BlobStore
	logger         *slog.Logger
	maxUploadBytes int64
	extractPDFText bool
}

type UploadInput struct {
	Name string
	Size int64
	Type string
	Body io.Reader
}

func NewKnowledgeService(
	files *repository.KnowledgeFileRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
	maxUploadMB int64,
	extractPDFText bool,
) *KnowledgeService {
	return &KnowledgeService{
		files:          files,
		blobs:          blobs,
		logger:         logger,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		extractPDFText: extractPDFText,
	}
}

func (s *KnowledgeService) List() ([]model.KnowledgeFile, error) {
	return s.files.ListAll()
}

// Upload stores the file in the blob store and records its metadata. Plain
// text content is captured inline for prompt substitution; PDFs keep no
// inline content unless extraction is enabled.
func (s *KnowledgeService) Upload(ctx context.Context, input UploadInput) (*model.KnowledgeFile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Body == nil {
		return nil, ErrFileEmptyUpload
	}

	isTxt := strings.HasSuffix(strings.ToLower(name), ".txt") || input.Type == "text/plain"
	isPDF := strings.HasSuffix(strings.ToLower(name), ".pdf") || input.Type == "application/pdf"
	if !isTxt && !isPDF {
		return nil, ErrFileType
	}
	if input.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload failed: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	key, url, err := s.blobs.Put(ctx, name, data)
	if err != nil {
		return nil, err
	}

	var content *string
	switch {
	case isTxt:
		text := string(data)
		content = &text
	case isPDF && s.extractPDFText:
		text, err := pdfextract.ExtractText(bytes.NewReader(data))
		if err != nil {
			// The blob is still usable; the placeholder just stays literal.
			s.logger.Warn("pdf text extraction failed", "name", name, "error", err)
		} else if text != "" {
			content = &text
		}
	}

	mimeType := input.Type
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &model.KnowledgeFile{
		Name:    name,
		BlobKey: key,
		BlobURL: url,
		Size:    int64(len(data)),
		Type:    mimeType,
		Content: content,
	}
	if err := s.files.Create(file); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("cleanup orphan blob failed", "key", key, "error", delErr)
		}
		return nil, err
	}
	return file, nil
}

// Delete removes the blob first, then the record; a missing blob is treated
// as already deleted.
func (s *KnowledgeService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}

	file, err := s.files.GetByID(id)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	if err := s.blobs.Delete(ctx, file.BlobKey); err != nil {
		return err
	}
	return s.files.Delete(id)
}
