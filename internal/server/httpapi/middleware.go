package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/logging"
	"github.com/dmitrijs2005/tutorhub/internal/server/auth"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/go-chi/chi/v5/middleware"
)

// logRequests tags the request context with its id and logs one line per
// request once the response is written.
func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.ContextWith(r.Context(), "request_id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		a.log.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start).String(),
		)
	})
}

// authenticate requires a valid bearer token and stores the caller's
// session in the request context.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			a.writeError(w, r, common.ErrMissingToken)
			return
		}

		sess, err := auth.ParseToken(token, a.secret)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		ctx := logging.ContextWith(r.Context(), "user_id", sess.UserID)
		next.ServeHTTP(w, r.WithContext(auth.WithSession(ctx, sess)))
	})
}

// requireRole must run after authenticate.
func (a *API) requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := auth.SessionFromContext(r.Context())
			if !ok {
				a.writeError(w, r, common.ErrMissingToken)
				return
			}
			if sess.Role != role {
				a.writeError(w, r, common.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func session(r *http.Request) auth.Session {
	s, _ := auth.SessionFromContext(r.Context())
	return s
}
