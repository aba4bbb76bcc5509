// Copyright (c) 2026 Vivi Sews. All rights reserved.

package fabric

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/validate"
)

// Handler implements the fabric endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the fabric router, mounted at /api/fabrics.
//
// # Endpoints
//   - GET    /                  : Own fabrics.
//   - POST   /                  : Create a fabric.
//   - GET    /usage/history     : Own usage records.
//   - GET    /{id}              : One fabric.
//   - PUT    /{id}              : Partial update.
//   - DELETE /{id}              : Delete a fabric.
//   - PATCH  /{id}/pin          : Toggle pinned.
//   - POST   /{fabricId}/usage  : Record usage.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/usage/history", handler.usageHistory)

	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Patch("/{id}/pin", handler.togglePin)
	router.Post("/{fabricId}/usage", handler.recordUsage)

	return router
}

// # Request Payloads

type fabricRequest struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"`
	FiberContent *string  `json:"fiber_content"`
	Weight       *string  `json:"weight"`
	Color        *string  `json:"color"`
	Pattern      *string  `json:"pattern"`
	Width        *string  `json:"width"`
	TotalYards   *float64 `json:"total_yards"`
	CostPerYard  *float64 `json:"cost_per_yard"`
	TotalCost    *float64 `json:"total_cost"`
	Source       *string  `json:"source"`
	Notes        *string  `json:"notes"`
	IsPinned     *bool    `json:"is_pinned"`
	ImageURL     *string  `json:"image_url"`
}

type usageRequest struct {
	YardsUsed   float64 `json:"yards_used"`
	ProjectName string  `json:"project_name"`
	Notes       *string `json:"notes"`
	ProjectID   *string `json:"project_id"`
}

// owned extracts the caller and a fabric id path parameter.
func owned(request *http.Request, param string) (string, string, error) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", "", err
	}
	id, err := requestutil.UUIDParam(request, param, resource)
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

	fabrics, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"fabrics": fabrics})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fabric, err := handler.service.Get(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"fabric": fabric})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input fabricRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	fabric, err := handler.service.Create(request.Context(), userID, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]any{"message": MsgCreated, "fabric": fabric})
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input fabricRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	fabric, err := handler.service.Update(request.Context(), userID, id, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"message": MsgUpdated, "fabric": fabric})
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, id, err := owned(request, "id")
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
	userID, id, err := owned(request, "id")
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

/*
RecordUsage takes yardage from a fabric.

POST /api/fabrics/{fabricId}/usage

Response:
  - 200: {message, yards_left}
  - 400: Missing yards_used or project_name
  - 404: Fabric (or referenced project) not found
*/
func (handler *Handler) recordUsage(writer http.ResponseWriter, request *http.Request) {
	userID, fabricID, err := owned(request, "fabricId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input usageRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.service.RecordUsage(request.Context(), userID, fabricID, UsageInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"message": MsgUsageRecorded, "yards_left": result.YardsLeft})
}

func (handler *Handler) usageHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.UsageHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]any{"usage_history": entries})
}
