package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/delivery/http/middleware"
	"institutebackend/internal/domain"
)

// UpdateProfileRequest is the request body for PUT /users/profile. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// Validate implements helpers.Validator.
func (u UpdateProfileRequest) Validate() []string {
	if u.Name == nil && u.Email == nil {
		return []string{"at least one of name or email is required"}
	}
	return nil
}

// ChangePasswordRequest is the request body for POST /users/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
	Errors  *helpers.ErrorWriter
}

func NewUserController(logger *slog.Logger, svc domain.UserService, errs *helpers.ErrorWriter) *UserController {
	return &UserController{Logger: logger, Service: svc, Errors: errs}
}

func (c *UserController) identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.UserID == 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "User ID missing from token")
		return domain.Identity{}, false
	}
	return id, true
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /users/profile [get]
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := c.identity(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), id.UserID)
	if err != nil {
		c.Errors.WriteNotFound(w, r, err, "User not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} domain.User
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /users/profile [put]
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.UpdateProfile(r.Context(), id.UserID, req.Name, req.Email)
	if err != nil {
		c.Errors.WriteNotFound(w, r, err, "User not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /users/change-password [post]
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := c.identity(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	err := c.Service.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Current password is incorrect")
		return
	}
	if err != nil {
		c.Errors.WriteNotFound(w, r, err, "User not found")
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Password updated successfully")
}
