package controllers

import (
	"log/slog"
	"net/http"

	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/domain"
)

// ContactRequest is the request body for POST /contacts.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactController struct {
	Logger  *slog.Logger
	Service domain.ContactService
	Errors  *helpers.ErrorWriter
}

func NewContactController(logger *slog.Logger, svc domain.ContactService, errs *helpers.ErrorWriter) *ContactController {
	return &ContactController{Logger: logger, Service: svc, Errors: errs}
}

// Create godoc
// @Summary Submit a contact message
// @Tags contacts
// @Accept json
// @Produce json
// @Param body body ContactRequest true "Contact form"
// @Success 201 {object} domain.Contact
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /contacts [post]
func (c *ContactController) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	contact, err := c.Service.Submit(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, contact)
}

// List godoc
// @Summary List contact messages, newest first
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Contact
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Router /contacts [get]
func (c *ContactController) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.Service.List(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, contacts)
}

// Get godoc
// @Summary Get a contact message
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} domain.Contact
// @Failure 404 {object} helpers.ErrorResponse
// @Router /contacts/{id} [get]
func (c *ContactController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id", "contact")
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	contact, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.Errors.WriteNotFound(w, r, err, "Contact not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, contact)
}

// Delete godoc
// @Summary Delete a contact message
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /contacts/{id} [delete]
func (c *ContactController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id", "contact")
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.Errors.WriteNotFound(w, r, err, "Contact not found")
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Contact deleted successfully")
}
