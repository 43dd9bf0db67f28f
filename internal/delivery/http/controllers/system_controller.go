package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"institutebackend/internal/delivery/http/helpers"
)

// DBProber runs the connectivity probe behind /api/test-db.
type DBProber interface {
	ServerTime(ctx context.Context) (solution int, now time.Time, err error)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// TestDBResponse is the response body for GET /test-db.
type TestDBResponse struct {
	Success   bool      `json:"success"`
	Result    int       `json:"result"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

type SystemController struct {
	Logger      *slog.Logger
	DB          DBProber
	Environment string
	Errors      *helpers.ErrorWriter
	now         func() time.Time
}

func NewSystemController(logger *slog.Logger, db DBProber, environment string, errs *helpers.ErrorWriter) *SystemController {
	return &SystemController{
		Logger:      logger,
		DB:          db,
		Environment: environment,
		Errors:      errs,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (c *SystemController) Welcome(w http.ResponseWriter, r *http.Request) {
	helpers.WriteMessage(w, http.StatusOK, "Welcome to the Institute API")
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Router /health [get]
func (c *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	env := c.Environment
	if env == "" {
		env = "development"
	}
	helpers.WriteJSON(w, http.StatusOK, HealthResponse{
		Message:     "Server is running",
		Timestamp:   c.now(),
		Environment: env,
	})
}

// TestDB godoc
// @Summary Database connectivity check
// @Tags system
// @Produce json
// @Success 200 {object} controllers.TestDBResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /test-db [get]
func (c *SystemController) TestDB(w http.ResponseWriter, r *http.Request) {
	solution, _, err := c.DB.ServerTime(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, TestDBResponse{
		Success:   true,
		Result:    solution,
		Timestamp: c.now(),
		Message:   "Database connection successful",
	})
}

// NotFound answers unmatched /api routes.
func (c *SystemController) NotFound(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "API endpoint not found")
}
