// Package httpapi exposes the marketplace over a JSON REST interface built
// on chi.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/logging"
	"github.com/dmitrijs2005/tutorhub/internal/server/auth"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/dmitrijs2005/tutorhub/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*models.UserSummary, error)
	UpdatePhone(ctx context.Context, userID string, in services.UpdatePhoneInput) (*models.UserSummary, error)
	UpdatePassword(ctx context.Context, userID string, in services.UpdatePasswordInput) error
}

type PostService interface {
	Create(ctx context.Context, sess auth.Session, in services.PostInput) (*models.PostView, error)
	List(ctx context.Context, f models.PostFilter) ([]models.PostView, error)
	ListMine(ctx context.Context, sess auth.Session) ([]models.PostView, error)
	Get(ctx context.Context, id string) (*models.PostView, error)
	Update(ctx context.Context, sess auth.Session, id string, in services.PostInput) (*models.PostView, error)
	Delete(ctx context.Context, sess auth.Session, id string) error
	ExpressInterest(ctx context.Context, sess auth.Session, id string) (*models.PostView, error)
	ListInterestedTutors(ctx context.Context, id string) ([]models.UserSummary, error)
	SelectTutor(ctx context.Context, sess auth.Session, id, tutorID string) (*models.PostView, error)
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	users          UserService
	posts          PostService
	storage        Pinger
	secret         []byte
	requestTimeout time.Duration
	log            logging.Logger
}

func NewAPI(u UserService, p PostService, storage Pinger, secret []byte, requestTimeout time.Duration, l logging.Logger) *API {
	return &API{
		users:          u,
		posts:          p,
		storage:        storage,
		secret:         secret,
		requestTimeout: requestTimeout,
		log:            l,
	}
}

// Routes builds the HTTP handler tree.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.logRequests)
	r.Use(middleware.Recoverer)
	if a.requestTimeout > 0 {
		r.Use(middleware.Timeout(a.requestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	})

	r.Get("/healthz", a.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.register)
			r.Post("/login", a.login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(a.authenticate)
			r.Get("/me", a.me)
			r.Put("/update-phone", a.updatePhone)
			r.Put("/update-password", a.updatePassword)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", a.listPosts)
			r.Get("/{id}", a.getPost)

			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Get("/{id}/interested", a.listInterested)

				r.Group(func(r chi.Router) {
					r.Use(a.requireRole(models.RoleStudent))
					r.Post("/", a.createPost)
					r.Get("/my-posts", a.myPosts)
					r.Put("/{id}", a.updatePost)
					r.Delete("/{id}", a.deletePost)
					r.Put("/{id}/select-tutor", a.selectTutor)
				})

				r.With(a.requireRole(models.RoleTutor)).Post("/{id}/interested", a.expressInterest)
			})
		})
	})

	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.storage.Ping(r.Context()); err != nil {
		a.log.Warn(r.Context(), "storage ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{Message: "storage unavailable"})
		return
	}
	writeOK(w, http.StatusOK, "ok", nil)
}
