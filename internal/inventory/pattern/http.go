// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the pattern router, mounted at /api/patterns.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Patch("/{id}/pin", handler.togglePin)

	return router
}

type patternRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Designer           *string `json:"designer"`
	PatternNumber      *string `json:"pattern_number"`
	Category           *string `json:"category"`
	Difficulty         *string `json:"difficulty"`
	SizeRange          *string `json:"size_range"`
	FabricRequirements *string `json:"fabric_requirements"`
	Notions            *string `json:"notions"`
	Instructions       *string `json:"instructions"`
	PDFURL             *string `json:"pdf_url"`
	ThumbnailURL       *string `json:"thumbnail_url"`
	IsPinned           *bool   `json:"is_pinned"`
	Notes              *string `json:"notes"`
}

func owned(request *http.Request) (string, string, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", "", err
	}
	id, err := requestutil.UUIDParam(request, "id", resource)
	if err != nil {
		return "", "", err
	}
	return userID, id, nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	patterns, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"patterns": patterns})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pattern, err := handler.service.Get(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"pattern": pattern})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patternRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	pattern, err := handler.service.Create(request.Context(), userID, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"message": MsgCreated, "pattern": pattern})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patternRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	pattern, err := handler.service.Update(request.Context(), userID, id, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"message": MsgUpdated, "pattern": pattern})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, MsgDeleted)
}

func (handler *Handler) togglePin(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pinned, err := handler.service.TogglePin(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"message": MsgPinUpdated, "is_pinned": pinned})
}
