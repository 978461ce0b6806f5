package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/auth-service/internal/api/apierror"
	"github.com/dtroode/auth-service/internal/api/http/render"
	"github.com/dtroode/auth-service/internal/logger"
	"github.com/dtroode/auth-service/internal/model"
)

const (
	tokenType   = "bearer"
	maxBodySize = 1 << 20
)

// AuthService defines account and token operations exposed over HTTP.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.User, error)
}

// Auth handles the /api/v1/auth endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
	now            func() time.Time
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
		now:            time.Now,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type profileRequest struct {
	FullName     *string `json:"full_name"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	User         model.PublicUser `json:"user"`
}

// RefreshResponse is returned by a successful refresh. RefreshToken is set
// only when refresh tokens are rotated.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *Auth) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.logger.Debug("Auth handler: failed to decode request body",
			"path", r.URL.Path,
			"error", err.Error())
		render.Error(w, h.logger, apierror.BadRequest("invalid request body"))
		return false
	}
	return true
}

func (h *Auth) expiresIn(t model.IssuedToken) int64 {
	return int64(t.ExpiresAt.Sub(h.now()).Round(time.Second).Seconds())
}

func (h *Auth) currentUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		render.Error(w, h.logger, model.ErrMissingToken)
		return model.User{}, false
	}
	return user, true
}

// Register handles POST /register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), model.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		render.Error(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusCreated, user.Public())
}

// Login handles POST /login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		render.Error(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, LoginResponse{
		AccessToken:  session.Access.Value,
		RefreshToken: session.Refresh.Value,
		TokenType:    tokenType,
		ExpiresIn:    h.expiresIn(session.Access),
		User:         session.User.Public(),
	})
}

// Refresh handles POST /refresh.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		render.Error(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, RefreshResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		TokenType:    tokenType,
		ExpiresIn:    h.expiresIn(pair.Access),
	})
}

// Me handles GET /me.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	render.JSON(w, h.logger, http.StatusOK, user.Public())
}

// ChangePassword handles POST /change-password.
func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		render.Error(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, MessageResponse{Message: "password changed successfully"})
}

// UpdateProfile handles PUT /profile.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, model.ProfileUpdate(req))
	if err != nil {
		render.Error(w, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, updated.Public())
}

// Logout handles POST /logout. Tokens are stateless, so the client discards them.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	render.JSON(w, h.logger, http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
