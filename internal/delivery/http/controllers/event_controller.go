package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"institutebackend/internal/adapters/storage"
	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/domain"
)

// multipartSlack covers form fields and multipart framing on top of the image itself.
const multipartSlack = 1 << 20

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Errors  *helpers.ErrorWriter
}

func NewEventController(logger *slog.Logger, svc domain.EventService, errs *helpers.ErrorWriter) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Errors:  errs,
	}
}

// Index godoc
// @Summary Events API status
// @Tags events
// @Produce json
// @Success 200 {object} helpers.MessageResponse
// @Router /events [get]
func (c *EventController) Index(w http.ResponseWriter, r *http.Request) {
	helpers.WriteMessage(w, http.StatusOK, "Events API is running")
}

// ListPublic godoc
// @Summary List events
// @Description Returns all events in insertion order.
// @Tags events
// @Produce json
// @Success 200 {array} domain.Event
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/public [get]
func (c *EventController) ListPublic(w http.ResponseWriter, r *http.Request) {
	c.list(w, r)
}

// ListAdmin godoc
// @Summary List events (admin)
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Event
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/admin/list [get]
func (c *EventController) ListAdmin(w http.ResponseWriter, r *http.Request) {
	c.list(w, r)
}

func (c *EventController) list(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Description Multipart form with exactly one image (jpg, jpeg, png or gif, at most 5 MB).
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Event image"
// @Param title formData string true "Title"
// @Param comment formData string false "Comment"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Success 201 {object} domain.Event
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/admin/create [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+multipartSlack)
	if err := r.ParseMultipartForm(storage.MaxImageSize + multipartSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Image exceeds the 5 MB limit")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := domain.CreateEventInput{
		Title:   r.FormValue("title"),
		Comment: r.FormValue("comment"),
	}
	if raw := strings.TrimSpace(r.FormValue("date")); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			c.Errors.Write(w, r, err)
			return
		}
		in.Date = date
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Invalid image upload")
		return
	default:
		defer file.Close()
		in.Image = &domain.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	event, err := c.Service.CreateEvent(r.Context(), in)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes the event and, best effort, its image.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} helpers.MessageResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/admin/delete/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.PathID(r, "id", "event")
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		c.Errors.WriteNotFound(w, r, err, "Event not found")
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Event deleted successfully")
}
