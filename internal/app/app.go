// Package app wires the SQLite repositories, domain services and transports
// into one stack shared by the server, the CLI and the integration tests.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/config"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/board"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/mcp"
	"github.com/rpggio/karte/internal/search"
	"github.com/rpggio/karte/internal/sqlite"
	"github.com/rpggio/karte/internal/transport"
)

// Options configures the stack.
type Options struct {
	Location    *time.Location
	HorizonDays int
	AuthToken   string
	Logger      *slog.Logger
	// Now overrides the clock of every service.
	Now func() time.Time
}

// Stack holds the wired services.
type Stack struct {
	DB          *sqlite.DB
	Projects    *project.Service
	Notes       *note.Service
	Resources   *resource.Service
	Ideas       *idea.Service
	Attachments *attachment.Store
	Activity    *activity.Service
	Dashboard   *dashboard.Service
	Boards      *board.Service
	Search      *search.Service

	opts Options
}

// New builds the services on top of db and backend. Migrations must
// already have been applied.
func New(db *sqlite.DB, backend attachment.Backend, opts Options) *Stack {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger

	projectRepo := sqlite.NewProjectRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)
	resourceRepo := sqlite.NewResourceRepository(db)
	ideaRepo := sqlite.NewIdeaRepository(db)
	attachmentRepo := sqlite.NewAttachmentRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, logger)
	attachments := attachment.NewStore(backend, attachmentRepo, logger).WithClock(opts.Now)
	projects := project.NewService(projectRepo, activitySvc, logger).WithClock(opts.Now)
	notes := note.NewService(noteRepo, activitySvc, logger).WithClock(opts.Now)
	resources := resource.NewService(resourceRepo, activitySvc, attachments, logger).WithClock(opts.Now)
	ideas := idea.NewService(ideaRepo, activitySvc, logger).WithClock(opts.Now)

	return &Stack{
		DB:          db,
		Projects:    projects,
		Notes:       notes,
		Resources:   resources,
		Ideas:       ideas,
		Attachments: attachments,
		Activity:    activitySvc,
		Dashboard:   dashboard.NewService(projects, activitySvc, logger),
		Boards:      board.NewService(resources, ideas, board.PathURLs(transport.AttachmentPrefix)),
		Search:      search.NewService(projects, notes, resources, ideas, opts.Location, logger).WithClock(opts.Now),
		opts:        opts,
	}
}

// Today returns the current calendar day in the configured zone.
func (s *Stack) Today() calendar.Date {
	return calendar.Today(s.opts.Now(), s.opts.Location)
}

// HTTPServices returns the services exposed by the REST router.
func (s *Stack) HTTPServices() transport.Services {
	return transport.Services{
		Projects:    s.Projects,
		Notes:       s.Notes,
		Resources:   s.Resources,
		Ideas:       s.Ideas,
		Attachments: s.Attachments,
		Activity:    s.Activity,
		Dashboard:   s.Dashboard,
		Boards:      s.Boards,
		Search:      s.Search,
	}
}

// MCPServer builds an MCP server for the given transport mode.
func (s *Stack) MCPServer(mode string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  s.Projects,
			Notes:     s.Notes,
			Resources: s.Resources,
			Ideas:     s.Ideas,
			Search:    s.Search,
			Dashboard: s.Dashboard,
			Boards:    s.Boards,
			Activity:  s.Activity,
		},
		AuthToken:     s.opts.AuthToken,
		TransportMode: mode,
		Location:      s.opts.Location,
		HorizonDays:   s.opts.HorizonDays,
		Now:           s.opts.Now,
		Logger:        s.opts.Logger,
	})
}

// Handler returns the REST router with the MCP endpoint mounted.
func (s *Stack) Handler() http.Handler {
	return transport.NewServer(s.HTTPServices(), transport.Options{
		AuthToken:   s.opts.AuthToken,
		Location:    s.opts.Location,
		HorizonDays: s.opts.HorizonDays,
		MCP:         mcp.NewHTTPHandler(s.MCPServer("http")),
		Logger:      s.opts.Logger,
		Now:         s.opts.Now,
	})
}

// OpenBackend creates the attachment backend selected by cfg.
func OpenBackend(ctx context.Context, cfg config.StorageConfig) (attachment.Backend, error) {
	switch cfg.Backend {
	case config.StorageMinio:
		return attachment.NewMinioBackend(ctx, attachment.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.AccessKeyID,
			SecretAccessKey: cfg.Minio.SecretAccessKey,
			Bucket:          cfg.Minio.Bucket,
			UseSSL:          cfg.Minio.UseSSL,
		})
	case config.StorageFS, "":
		return attachment.NewFSBackend(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
