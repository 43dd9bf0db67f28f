package http

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"institutebackend/internal/delivery/http/controllers"
	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/delivery/http/middleware"
	"institutebackend/internal/domain"
)

// RouterConfig carries the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// ContactRateLimit is the number of contact submissions allowed per client IP per minute.
	ContactRateLimit int
	// PublicDir is served under /public.
	PublicDir string
	Verifier  domain.TokenVerifier
	Admin     domain.AdminChecker
	Errors    *helpers.ErrorWriter
}

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	System  *controllers.SystemController
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Event   *controllers.EventController
	Contact *controllers.ContactController
	Feed    http.Handler
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig, c Controllers) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	requireAdmin := middleware.RequireAdmin(cfg.Admin, cfg.Errors)

	r.Get("/", c.System.Welcome)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", c.System.Health)
		r.Get("/test-db", c.System.TestDB)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", c.Auth.Register)
			r.Post("/login", c.Auth.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", c.User.GetProfile)
			r.Put("/profile", c.User.UpdateProfile)
			r.Post("/change-password", c.User.ChangePassword)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", c.Event.Index)
			r.Get("/public", c.Event.ListPublic)
			r.Method(http.MethodGet, "/updates", c.Feed)

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Get("/list", c.Event.ListAdmin)
				r.Post("/create", c.Event.Create)
				r.Delete("/delete/{id}", c.Event.Delete)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.With(contactLimiter(cfg.ContactRateLimit)).Post("/", c.Contact.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Get("/", c.Contact.List)
				r.Get("/{id}", c.Contact.Get)
				r.Delete("/{id}", c.Contact.Delete)
			})
		})
	})

	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(fileOnlyFS{http.Dir(cfg.PublicDir)})))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.NotFound(c.System.NotFound)

	return r
}

func contactLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeTooManyRequests, "Too many requests, please try again later")
		}),
	)
}

// fileOnlyFS reports directories as missing so the file server never lists them.
type fileOnlyFS struct {
	fs http.FileSystem
}

func (f fileOnlyFS) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
