// Copyright (c) 2026 Vivi Sews. All rights reserved.

package project

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

// Routes returns the project router, mounted at /api/projects.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

type projectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ImageURL    *string `json:"image_url"`
	TargetDate  *string `json:"target_date"`
	Notes       *string `json:"notes"`
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

	projects, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"projects": projects})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.service.Get(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"project": project})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input projectRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	project, err := handler.service.Create(request.Context(), userID, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"message": MsgCreated, "project": project})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input projectRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	project, err := handler.service.Update(request.Context(), userID, id, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"message": MsgUpdated, "project": project})
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
