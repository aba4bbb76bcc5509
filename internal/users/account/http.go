// Copyright (c) 2026 Vivi Sews. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements profile and password endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes adds the profile routes to router.
//
// # Endpoints
//   - GET  /profile                  : Own account.
//   - PUT  /profile                  : Update own profile.
//   - PUT  /password                 : Change own password.
//   - PUT  /users/{userId}/profile   : Admin update of another account.
//   - PUT  /users/{userId}/password  : Admin password reset of another account.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", handler.getProfile)
		r.Put("/profile", handler.updateOwnProfile)
		r.Put("/password", handler.changeOwnPassword)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Put("/users/{userId}/profile", handler.updateUserProfile)
		r.Put("/users/{userId}/password", handler.changeUserPassword)
	})
}

// # Request Payloads

type profileRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Language *string `json:"language"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/*
GetProfile returns the authenticated account.

GET /api/auth/profile
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"user": user})
}

// PUT /api/auth/profile
func (handler *Handler) updateOwnProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.updateProfile(writer, request, userID)
}

// PUT /api/auth/users/{userId}/profile
func (handler *Handler) updateUserProfile(writer http.ResponseWriter, request *http.Request) {
	targetID, err := requestutil.UUIDParam(request, "userId", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.updateProfile(writer, request, targetID)
}

/*
updateProfile applies a partial profile update to targetID.

Response:
  - 200: {message, user}
  - 400: Invalid field or nothing to update
  - 403: Caller may not modify targetID
  - 409: Email or username in use
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request, targetID string) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), actorID, targetID, ProfileInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": MsgProfileUpdated,
		"user":    user,
	})
}

// PUT /api/auth/password
func (handler *Handler) changeOwnPassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.changePassword(writer, request, userID)
}

// PUT /api/auth/users/{userId}/password
func (handler *Handler) changeUserPassword(writer http.ResponseWriter, request *http.Request) {
	targetID, err := requestutil.UUIDParam(request, "userId", "User")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.changePassword(writer, request, targetID)
}

func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request, targetID string) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input passwordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err = handler.accountService.ChangePassword(request.Context(), actorID, targetID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgPasswordChanged)
}
