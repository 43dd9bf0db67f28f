package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"institutebackend/internal/domain"
)

func contactRouter(c *ContactController) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/contacts", c.Create)
	r.Get("/api/contacts", c.List)
	r.Get("/api/contacts/{id}", c.Get)
	r.Delete("/api/contacts/{id}", c.Delete)
	return r
}

func TestContactController_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "created", body: `{"name":"Asha","email":"asha@example.com","message":"Admission query"}`, wantStatus: http.StatusCreated},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest, wantError: "Request body is required"},
		{name: "missing message", body: `{"name":"Asha","email":"asha@example.com"}`, wantStatus: http.StatusBadRequest, wantError: "message is required"},
		{name: "bad email", body: `{"name":"Asha","email":"nope","message":"hi"}`, wantStatus: http.StatusBadRequest, wantError: "email must be a valid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeContactService()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			contactRouter(NewContactController(testLogger, svc, devErrors())).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				assert.Nil(t, svc.lastSubmit)
				return
			}
			var got domain.Contact
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, []string{"Asha", "asha@example.com", "Admission query"}, svc.lastSubmit)
		})
	}
}

func TestContactController_ServiceValidation(t *testing.T) {
	svc := newFakeContactService()
	svc.submitErr = domain.NewValidationError("Message is too long")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(`{"name":"A","email":"a@example.com","message":"m"}`))
	contactRouter(NewContactController(testLogger, svc, devErrors())).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Message is too long", decodeError(t, rec).Error)
}

func TestContactController_ListGetDelete(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := newFakeContactService(
		&domain.Contact{ID: 1, Name: "A", Email: "a@example.com", Message: "first", CreatedAt: at},
		&domain.Contact{ID: 2, Name: "B", Email: "b@example.com", Message: "second", CreatedAt: at.Add(time.Hour)},
	)
	h := contactRouter(NewContactController(testLogger, svc, devErrors()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var one domain.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "first", one.Message)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/contacts/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Contact deleted successfully", decodeMessage(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/contacts/1", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contact not found", decodeError(t, rec).Error)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts/x", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid contact ID", decodeError(t, rec).Error)
}
