// Copyright (c) 2026 Vivi Sews. All rights reserved.

package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/pkg/uuid"
)

// Storage writes and removes files by kind and bare name.
type Storage interface {
	Write(kind Kind, name string, src io.Reader) (int64, error)
	Remove(kind Kind, name string) error
}

// Service validates images before handing them to [Storage].
type Service struct {
	storage  Storage
	maxBytes int64
	logger   *slog.Logger
}

// NewService constructs a new [Service]. A non-positive maxBytes means [DefaultMaxBytes].
func NewService(storage Storage, maxBytes int64, logger *slog.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: storage, maxBytes: maxBytes, logger: logger}
}

// MaxBytes is the largest accepted image.
func (service *Service) MaxBytes() int64 {
	return service.maxBytes
}

func (service *Service) tooLarge() *apperr.AppError {
	return apperr.TooLarge(fmt.Sprintf("File exceeds the %d MB limit", service.maxBytes>>20))
}

/*
Save sniffs, names, and stores one image.

The content type is detected from the first bytes of src; the client's
filename and declared type are ignored except for reporting originalName.

Parameters:
  - context: context.Context
  - kind: Kind
  - originalName: string (client filename, echoed back only)
  - size: int64 (declared size, checked before reading)
  - src: io.Reader

Returns:
  - *Stored: The saved file
  - error: ValidationError, TooLarge, or storage errors
*/
func (service *Service) Save(context context.Context, kind Kind, originalName string, size int64, src io.Reader) (*Stored, error) {
	if size > service.maxBytes {
		return nil, service.tooLarge()
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("upload_service_read_failed: %w", err)
	}
	if n == 0 {
		return nil, apperr.ValidationError(MsgNoFile)
	}

	extension, ok := allowedTypes[http.DetectContentType(head[:n])]
	if !ok {
		return nil, apperr.ValidationError(MsgInvalidImage)
	}

	name := uuid.New() + extension
	body := io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(src, service.maxBytes-int64(n)+1))

	written, err := service.storage.Write(kind, name, body)
	if err != nil {
		return nil, fmt.Errorf("upload_service_write_failed: %w", err)
	}
	if written > service.maxBytes {
		_ = service.storage.Remove(kind, name)
		return nil, service.tooLarge()
	}

	service.logger.InfoContext(context, "image_uploaded",
		slog.String("kind", string(kind)),
		slog.String("filename", name),
		slog.Int64("size", written),
	)
	return &Stored{
		Filename:     name,
		OriginalName: originalName,
		Size:         written,
		Path:         kind.Dir() + "/" + name,
	}, nil
}

// Delete removes a stored image. The filename must be a bare name.
func (service *Service) Delete(context context.Context, kind Kind, filename string) error {
	if err := ValidateFilename(filename); err != nil {
		return err
	}

	if err := service.storage.Remove(kind, filename); err != nil {
		return err
	}

	service.logger.InfoContext(context, "image_deleted",
		slog.String("kind", string(kind)),
		slog.String("filename", filename),
	)
	return nil
}

// ValidateFilename rejects anything that is not a plain file name.
func ValidateFilename(filename string) error {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filepath.Base(filename) != filename {
		return apperr.ValidationError(MsgBadFilename)
	}
	return nil
}
