// Copyright (c) 2026 Vivi Sews. All rights reserved.

package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/platform/validate"
	"github.com/vivisews/vivisews/internal/users/auth"
	"github.com/vivisews/vivisews/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the admin endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// RegisterRoutes adds the admin routes to router. All of them require the admin role.
//
// # Endpoints
//   - GET    /pending-users               : Accounts awaiting approval.
//   - POST   /approve-user/{userId}       : Approve a pending account.
//   - DELETE /reject-user/{userId}        : Reject and remove a pending account.
//   - GET    /users                       : Paginated account list.
//   - POST   /users                       : Create an admin account.
//   - POST   /users/{userId}/suspend      : Suspend an account.
//   - POST   /users/{userId}/activate     : Lift a suspension.
//   - POST   /users/{userId}/unlock       : Clear a login lockout.
//   - DELETE /users/{userId}              : Soft-delete an account.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))

		r.Get("/pending-users", handler.listPending)
		r.Post("/approve-user/{userId}", handler.approve)
		r.Delete("/reject-user/{userId}", handler.reject)

		r.Get("/users", handler.listUsers)
		r.Post("/users", handler.createAdmin)
		r.Post("/users/{userId}/suspend", handler.transition(handler.adminService.Suspend, MsgSuspended))
		r.Post("/users/{userId}/activate", handler.transition(handler.adminService.Activate, MsgActivated))
		r.Post("/users/{userId}/unlock", handler.transition(handler.adminService.Unlock, MsgUnlocked))
		r.Delete("/users/{userId}", handler.deleteUser)
	})
}

// # Request Payloads

type createAdminRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ids extracts the caller and the {userId} path parameter.
func ids(request *http.Request) (string, string, error) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return "", "", err
	}
	userID, err := requestutil.UUIDParam(request, "userId", "User")
	if err != nil {
		return "", "", err
	}
	return callerID, userID, nil
}

// GET /api/auth/pending-users
func (handler *Handler) listPending(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, err := handler.adminService.ListPending(request.Context(), callerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"pendingUsers": users})
}

/*
ListUsers returns one page of accounts.

GET /api/auth/users?page=1&limit=20

Response:
  - 200: {users, meta}
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	users, meta, err := handler.adminService.ListUsers(request.Context(), callerID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, "users", users, meta)
}

/*
Approve activates a pending account.

POST /api/auth/approve-user/{userId}

Response:
  - 200: {message, user}
  - 404: Missing or not pending
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	callerID, userID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.Approve(request.Context(), callerID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"message": MsgApproved, "user": user})
}

// DELETE /api/auth/reject-user/{userId}
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	callerID, userID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.Reject(request.Context(), callerID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgRejected)
}

// transition adapts a suspend, activate, or unlock call to a handler responding {message, user}.
func (handler *Handler) transition(
	action func(context.Context, string, string) (*auth.User, error),
	message string,
) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		callerID, userID, err := ids(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		user, err := action(request.Context(), callerID, userID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, map[string]any{"message": message, "user": user})
	}
}

// DELETE /api/auth/users/{userId}
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	callerID, userID, err := ids(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.DeleteUser(request.Context(), callerID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, MsgDeleted)
}

/*
CreateAdmin creates a new active admin account.

POST /api/auth/users

Response:
  - 201: {message, user}
  - 400: Validation failure
  - 409: Email or username in use
*/
func (handler *Handler) createAdmin(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createAdminRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.adminService.CreateAdmin(request.Context(), callerID, CreateAdminInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{"message": MsgAdminCreated, "user": user})
}
