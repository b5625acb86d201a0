package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/board"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/metrics"
	"github.com/rpggio/karte/internal/search"
)

// AttachmentPrefix is the URL prefix under which attachments are served.
const AttachmentPrefix = "/api/attachments"

// MaxUploadBytes caps multipart attachment uploads.
const MaxUploadBytes = 32 << 20

// Services contains the domain services exposed over HTTP.
type Services struct {
	Projects    *project.Service
	Notes       *note.Service
	Resources   *resource.Service
	Ideas       *idea.Service
	Attachments *attachment.Store
	Activity    *activity.Service
	Dashboard   *dashboard.Service
	Boards      *board.Service
	Search      *search.Service
}

// Options configures the router.
type Options struct {
	// AuthToken enables bearer authentication when non-empty.
	AuthToken string
	// Location is the zone used to determine "today".
	Location *time.Location
	// HorizonDays is the dashboard default when the request omits it.
	HorizonDays int
	// MCP is mounted at /mcp when non-nil.
	MCP    http.Handler
	Logger *slog.Logger
	Now    func() time.Time
}

// Server wires HTTP handlers.
type Server struct {
	svc     Services
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
	maxBody int64
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	srv := &Server{svc: svc, opts: opts, logger: logger, now: now, maxBody: MaxUploadBytes}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(AuthMiddleware(opts.AuthToken, "/health", "/metrics"))

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.listProjects)
			r.Post("/", srv.createProject)
			r.Get("/{id}", srv.getProject)
			r.Patch("/{id}", srv.updateProject)
			r.Delete("/{id}", srv.deleteProject)
		})
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", srv.listNotes)
			r.Post("/", srv.createNote)
			r.Get("/{id}", srv.getNote)
			r.Patch("/{id}", srv.updateNote)
			r.Delete("/{id}", srv.deleteNote)
		})
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", srv.listResources)
			r.Post("/", srv.createResource)
			r.Get("/{id}", srv.getResource)
			r.Patch("/{id}", srv.updateResource)
			r.Delete("/{id}", srv.deleteResource)
		})
		r.Route("/ideas", func(r chi.Router) {
			r.Get("/", srv.listIdeas)
			r.Post("/", srv.createIdea)
			r.Get("/{id}", srv.getIdea)
			r.Patch("/{id}", srv.updateIdea)
			r.Delete("/{id}", srv.deleteIdea)
			r.Put("/{id}/pin", srv.pinIdea)
			r.Delete("/{id}/pin", srv.unpinIdea)
		})
		r.Route("/attachments", func(r chi.Router) {
			r.Post("/", srv.uploadAttachment)
			r.Get("/{ref}", srv.getAttachment)
			r.Get("/{ref}/thumbnail", srv.getThumbnail)
		})
		r.Get("/activity", srv.listActivity)
		r.Get("/dashboard", srv.getDashboard)
		r.Get("/boards/resources", srv.resourceBoard)
		r.Get("/boards/ideas", srv.ideaBoard)
		r.Get("/search", srv.search)
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	metrics.ObserveOperation(op, err)
	writeError(w, r, s.logger, err)
}

func (s *Server) ok(w http.ResponseWriter, op string, status int, payload any) {
	metrics.ObserveOperation(op, nil)
	writeJSON(w, status, payload)
}

func (s *Server) noContent(w http.ResponseWriter, op string) {
	metrics.ObserveOperation(op, nil)
	w.WriteHeader(http.StatusNoContent)
}

func metricsOK(op string) {
	metrics.ObserveOperation(op, nil)
}
