package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/board"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/search"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// NoteService defines note operations needed by MCP.
type NoteService interface {
	Create(ctx context.Context, req note.CreateRequest) (*note.Note, error)
}

// ResourceService defines resource operations needed by MCP.
type ResourceService interface {
	Create(ctx context.Context, req resource.CreateRequest) (*resource.Resource, error)
}

// IdeaService defines idea operations needed by MCP.
type IdeaService interface {
	Create(ctx context.Context, req idea.CreateRequest) (*idea.Idea, error)
	Pin(ctx context.Context, id string) (*idea.Idea, error)
	Unpin(ctx context.Context, id string) (*idea.Idea, error)
}

// SearchService runs cross-entity searches.
type SearchService interface {
	Search(ctx context.Context, query string, opts search.Options) ([]search.Hit, error)
}

// DashboardService builds dashboard views.
type DashboardService interface {
	Build(ctx context.Context, today calendar.Date, horizonDays int) (*dashboard.View, error)
}

// BoardService builds board cards.
type BoardService interface {
	Resources(ctx context.Context, projectID string) ([]board.ResourceCard, error)
	Ideas(ctx context.Context, projectID string) ([]board.IdeaCard, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Notes     NoteService
	Resources ResourceService
	Ideas     IdeaService
	Search    SearchService
	Dashboard DashboardService
	Boards    BoardService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// AuthToken is checked against HTTP Authorization headers when set.
	AuthToken     string
	TransportMode string // "stdio" or "http"
	Location      *time.Location
	HorizonDays   int
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "karte",
		Version: Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only; HTTP requests carry headers to check.
	if cfg.TransportMode != "stdio" {
		server.AddReceivingMiddleware(authMiddleware(cfg.AuthToken))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg)

	return server
}
