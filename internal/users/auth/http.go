// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivisews/vivisews/internal/platform/middleware"
	requestutil "github.com/vivisews/vivisews/internal/platform/request"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the public authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes adds the authentication routes to router.
//
// # Endpoints
//   - POST /login  : Authenticates and returns a JWT.
//   - POST /signup : Creates a new account.
//   - POST /logout : Revokes the presented token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/signup", handler.signup)

	router.With(middleware.RequireAuth).Post("/logout", handler.logout)
}

// # Request Payloads

type signupRequest struct {
	Email           string  `json:"email"`
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
}

type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

/*
Login authenticates an account.

POST /api/auth/login

Response:
  - 200: {message, token, user}
  - 400: Missing identifier or password
  - 401: Invalid credentials (with attempts remaining when the account exists)
  - 403: Suspended or pending approval
  - 423: Locked, with a Retry-After header
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.EmailOrUsername,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"message": MsgLoginSuccessful,
		"token":   result.Token,
		"user":    result.User,
	})
}

/*
Signup creates a new account.

POST /api/auth/signup

Response:
  - 201: {message, user}
  - 400: Validation failure
  - 403: Signups disabled
  - 409: Email or username already exists
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:           input.Email,
		Username:        input.Username,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"message": result.Message,
		"user":    result.User,
	})
}

/*
Logout revokes the bearer token of the request.

POST /api/auth/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
