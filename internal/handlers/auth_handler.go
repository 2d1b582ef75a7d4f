package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	authmiddleware "github.com/japanesestudent/user-service/internal/auth/middleware"
	"github.com/japanesestudent/user-service/internal/models"
	"go.uber.org/zap"
)

// RegistrationService is the interface that wraps the user registration flow.
type RegistrationService interface {
	// Method Register validates the credentials and persists a new user with the default role.
	//
	// "req" parameter contains username and password, a role in the request is ignored.
	//
	// If the credentials are invalid, models.ErrBadInput is returned.
	// If the username is taken, models.ErrConflict is returned.
	// If some other error occurs, the error will be returned together with nil.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
}

// AuthenticationService is the interface that wraps the login flow and current user lookup.
type AuthenticationService interface {
	// Method Authenticate verifies the credentials and issues an access token.
	//
	// "req" parameter contains username and password.
	//
	// If the credentials do not match, models.ErrAuthenticationFailed is returned.
	// If some other error occurs, the error will be returned together with nil.
	Authenticate(ctx context.Context, req *models.AuthenticationRequest) (*models.AuthenticationResponse, error)
	// Method CurrentUser returns the stored user by username.
	//
	// If the user does not exist, models.ErrNotFound is returned.
	CurrentUser(ctx context.Context, username string) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	registrationService   RegistrationService
	authenticationService AuthenticationService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	registrationService RegistrationService,
	authenticationService AuthenticationService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:           BaseHandler{Logger: logger},
		registrationService:   registrationService,
		authenticationService: authenticationService,
	}
}

// RegisterRoutes registers all auth handler routes.
// The router is expected to be scoped to /api already; authMiddleware guards /auth/me.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authMiddleware).Get("/me", h.Me)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user with username and password. The user always gets the USER role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 200 {object} models.User "Registered user"
// @Failure 400 {object} map[string]string "Invalid request or username already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	// Roles are never client-assigned
	req.Role = ""

	user, err := h.registrationService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBadInput):
			h.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrConflict):
			h.RespondError(w, http.StatusBadRequest, msgUsernameTaken)
		default:
			h.Logger.Error("failed to register user", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with username and password. Returns a signed access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.AuthenticationRequest true "Login request"
// @Success 200 {object} models.AuthenticationResponse "Access token"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid username or password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AuthenticationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	resp, err := h.authenticationService.Authenticate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			h.RespondError(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.Logger.Error("failed to login user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// Me handles GET /auth/me
// @Summary Get current user
// @Description Get the user identified by the bearer access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Current user"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmiddleware.GetClaims(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.authenticationService.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.RespondError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.Logger.Error("failed to get current user", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
