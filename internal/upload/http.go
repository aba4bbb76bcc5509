// Copyright (c) 2026 Vivi Sews. All rights reserved.

package upload

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/validate"
)

// multipartOverhead is allowed on top of the image size for boundaries and headers.
const multipartOverhead = 1 << 20

// Handler implements the upload endpoints and static file serving.
type Handler struct {
	service       *Service
	files         fs.FS
	publicBaseURL string
}

// NewHandler constructs a new [Handler]. An empty publicBaseURL makes file
// URLs point at the host the request came in on.
func NewHandler(service *Service, files fs.FS, publicBaseURL string) *Handler {
	return &Handler{
		service:       service,
		files:         files,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Routes returns the upload router, mounted at /api/upload.
//
// # Endpoints
//   - POST   /{kind} : Upload an image (kind is fabric, project, or pattern).
//   - DELETE /file   : Delete an image by {filename, type}.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Delete("/file", handler.deleteFile)
	router.Post("/{kind}", handler.upload)

	return router
}

// Files serves stored images, mounted at /uploads. Directory listings are not served.
func (handler *Handler) Files() http.Handler {
	fileServer := http.StripPrefix("/uploads", http.FileServerFS(handler.files))

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasSuffix(request.URL.Path, "/") {
			http.NotFound(writer, request)
			return
		}
		writer.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(writer, request)
	})
}

type deleteRequest struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

/*
Upload stores one image.

POST /api/upload/{kind} (multipart, field "image")

Response:
  - 200: {message, filename, originalName, size, url}
  - 400: Missing file, unknown kind, or not a JPEG/PNG/WebP image
  - 413: Larger than the configured limit
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	kind, ok := ParseKind(requestutil.Param(request, "kind"))
	if !ok {
		respond.Error(writer, request, apperr.ValidationError(MsgInvalidKind))
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, handler.service.MaxBytes()+multipartOverhead)

	file, header, err := request.FormFile(FormField)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			respond.Error(writer, request, handler.service.tooLarge())
			return
		}
		respond.Error(writer, request, apperr.ValidationError(MsgNoFile))
		return
	}
	defer file.Close()
	defer func() {
		if request.MultipartForm != nil {
			_ = request.MultipartForm.RemoveAll()
		}
	}()

	stored, err := handler.service.Save(request.Context(), kind, header.Filename, header.Size, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message":      MsgUploaded,
		"filename":     stored.Filename,
		"originalName": stored.OriginalName,
		"size":         stored.Size,
		"url":          handler.fileURL(request, stored),
	})
}

// DELETE /api/upload/file
func (handler *Handler) deleteFile(writer http.ResponseWriter, request *http.Request) {
	var input deleteRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Filename == "" || input.Type == "" {
		respond.Error(writer, request, apperr.ValidationError(MsgDeleteFields))
		return
	}

	kind, ok := ParseKind(input.Type)
	if !ok {
		respond.Error(writer, request, apperr.ValidationError(MsgInvalidKind))
		return
	}

	if err := handler.service.Delete(request.Context(), kind, input.Filename); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) fileURL(request *http.Request, stored *Stored) string {
	base := handler.publicBaseURL
	if base == "" {
		scheme := "http"
		if request.TLS != nil || request.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + request.Host
	}
	return base + "/uploads/" + stored.Path
}
