package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/apperr"
	"github.com/wdp365/siteapi/internal/contact"
	apimw "github.com/wdp365/siteapi/internal/httpapi/middleware"
	"github.com/wdp365/siteapi/internal/pagespeed"
	"github.com/wdp365/siteapi/internal/repo"
)

// Reporter is the part of the PageSpeed client the handlers need.
type Reporter interface {
	FetchReport(ctx context.Context, req pagespeed.Request) (*pagespeed.Report, error)
}

type Server struct {
	Logger    *zap.Logger
	Statuses  repo.StatusStore
	Contacts  *contact.Service
	PageSpeed Reporter
}

// Options tune the router. Zero values mean: any origin, open admin
// listing, unthrottled PageSpeed route.
type Options struct {
	CORSOrigins    []string
	AdminKeys      []string
	PageSpeedRPM   int
	PageSpeedBurst int
}

func NewServer(l *zap.Logger, statuses repo.StatusStore, contacts *contact.Service, ps Reporter) *Server {
	return &Server{Logger: l, Statuses: statuses, Contacts: contacts, PageSpeed: ps}
}

// Router builds the /api routes. ctx bounds the throttle's cleanup goroutine.
func (s *Server) Router(ctx context.Context, opt Options) http.Handler {
	origins := opt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apimw.RequestLogger(s.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/status", s.handleCreateStatus)
		r.Get("/status", s.handleListStatus)

		r.Post("/contact", s.handleContact)
		r.With(apimw.RequireAdmin(opt.AdminKeys)).Get("/contact/submissions", s.handleListContacts)

		r.Group(func(r chi.Router) {
			r.Use(apimw.RateLimit(ctx, opt.PageSpeedRPM, opt.PageSpeedBurst))
			r.Post("/pagespeed", s.handlePageSpeedPost)
			r.Get("/pagespeed", s.handlePageSpeedGet)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a {"detail": ...} body. Extra fields,
// when given, are merged into the body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, event string, err error, extra map[string]any) {
	code := apperr.Status(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.String("kind", apperr.KindOf(err).String()),
		zap.Error(err),
	}
	if code >= 500 {
		s.Logger.Error(event, fields...)
	} else {
		s.Logger.Info(event, fields...)
	}

	body := map[string]any{"detail": apperr.Message(err)}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, code, body)
}
