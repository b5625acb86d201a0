package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/metrics"
	"github.com/rpggio/karte/internal/search"
)

type toolset struct {
	svc    Services
	cfg    Config
	logger *slog.Logger
}

// addTool registers a typed tool whose result is returned as structured
// content. Domain errors become tool errors with a code.
func addTool[In any](ts *toolset, server *sdkmcp.Server, name, description string, fn func(context.Context, In) (any, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			out, err := fn(ctx, in)
			metrics.ObserveOperation("mcp."+name, err)
			if err != nil {
				ts.logger.Debug("tool failed", "tool", name, "session_id", getSessionID(ctx), "error", err)
				return nil, nil, toolError(err)
			}
			return nil, out, nil
		})
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	ts := &toolset{svc: cfg.Services, cfg: cfg, logger: cfg.Logger}

	addTool(ts, server, "search", "Search projects, notes, resources and ideas by keywords and relative date phrases", ts.search)
	addTool(ts, server, "get_dashboard", "Get overdue, due soon and in-progress projects plus recent activity", ts.getDashboard)
	addTool(ts, server, "list_projects", "List projects filtered by status and ordered by due date or recency", ts.listProjects)
	addTool(ts, server, "get_project", "Get a project by ID", ts.getProject)
	addTool(ts, server, "create_project", "Create a new project (案件)", ts.createProject)
	addTool(ts, server, "update_project", "Update fields of an existing project; omitted fields are unchanged", ts.updateProject)
	addTool(ts, server, "create_note", "Create a note, optionally attached to a project", ts.createNote)
	addTool(ts, server, "create_resource", "Register a link or uploaded file as a project resource", ts.createResource)
	addTool(ts, server, "create_idea", "Add an idea card to the moodboard", ts.createIdea)
	addTool(ts, server, "set_idea_pin", "Pin or unpin an idea card", ts.setIdeaPin)
	addTool(ts, server, "get_idea_board", "Get idea cards with layout hints, pinned first", ts.getIdeaBoard)
	addTool(ts, server, "get_resource_board", "Get resource cards, most recently updated first", ts.getResourceBoard)
	addTool(ts, server, "get_recent_activity", "List the latest writes, newest first", ts.getRecentActivity)
}

func (ts *toolset) today() calendar.Date {
	return calendar.Today(ts.cfg.Now(), ts.cfg.Location)
}

func (ts *toolset) search(ctx context.Context, in SearchParams) (any, error) {
	opts := search.Options{Limit: in.Limit}
	for _, k := range in.Kinds {
		opts.Kinds = append(opts.Kinds, entity.Kind(k))
	}
	hits, err := ts.svc.Search.Search(ctx, in.Query, opts)
	if err != nil {
		return nil, err
	}
	metrics.SearchHits.Observe(float64(len(hits)))
	if hits == nil {
		hits = []search.Hit{}
	}
	return SearchResponse{Hits: hits, Count: len(hits)}, nil
}

func (ts *toolset) getDashboard(ctx context.Context, in GetDashboardParams) (any, error) {
	today := ts.today()
	if s := strings.TrimSpace(in.Today); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: today: %v", dashboard.ErrInvalidInput, err)
		}
		today = d
	}
	horizon := in.HorizonDays
	if horizon == 0 {
		horizon = ts.cfg.HorizonDays
	}
	return ts.svc.Dashboard.Build(ctx, today, horizon)
}

func (ts *toolset) listProjects(ctx context.Context, in ListProjectsParams) (any, error) {
	opts := project.ListOptions{Sort: project.SortKey(in.Sort), Limit: in.Limit}
	for _, s := range in.Statuses {
		opts.Statuses = append(opts.Statuses, project.Status(s))
	}
	projects, err := ts.svc.Projects.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return ListProjectsResponse{Projects: projects, Count: len(projects)}, nil
}

func (ts *toolset) getProject(ctx context.Context, in GetProjectParams) (any, error) {
	return ts.svc.Projects.Get(ctx, in.ID)
}

func (ts *toolset) createProject(ctx context.Context, in CreateProjectParams) (any, error) {
	return ts.svc.Projects.Create(ctx, project.CreateRequest{
		Title:    in.Title,
		Client:   in.Client,
		Owner:    in.Owner,
		Status:   project.Status(in.Status),
		Priority: project.Priority(in.Priority),
		DueText:  in.Due,
		Notes:    in.Notes,
	})
}

func (ts *toolset) updateProject(ctx context.Context, in UpdateProjectParams) (any, error) {
	req := project.UpdateRequest{
		Title:        in.Title,
		Client:       in.Client,
		Owner:        in.Owner,
		DueText:      in.Due,
		ClearDueDate: in.ClearDue,
		Notes:        in.Notes,
	}
	if in.Status != nil {
		st := project.Status(*in.Status)
		req.Status = &st
	}
	if in.Priority != nil {
		p := project.Priority(*in.Priority)
		req.Priority = &p
	}
	return ts.svc.Projects.Update(ctx, in.ID, req)
}

func (ts *toolset) createNote(ctx context.Context, in CreateNoteParams) (any, error) {
	return ts.svc.Notes.Create(ctx, note.CreateRequest{ProjectID: optional(in.ProjectID), Body: in.Body})
}

func (ts *toolset) createResource(ctx context.Context, in CreateResourceParams) (any, error) {
	return ts.svc.Resources.Create(ctx, resource.CreateRequest{
		ProjectID: optional(in.ProjectID),
		Kind:      resource.Kind(in.Kind),
		Target:    in.Target,
		Label:     in.Label,
	})
}

func (ts *toolset) createIdea(ctx context.Context, in CreateIdeaParams) (any, error) {
	return ts.svc.Ideas.Create(ctx, idea.CreateRequest{
		ProjectID: optional(in.ProjectID),
		SourceURL: in.SourceURL,
		ImageRef:  in.ImageRef,
		Caption:   in.Caption,
		Pinned:    in.Pinned,
	})
}

func (ts *toolset) setIdeaPin(ctx context.Context, in SetIdeaPinParams) (any, error) {
	if in.Pinned {
		return ts.svc.Ideas.Pin(ctx, in.ID)
	}
	return ts.svc.Ideas.Unpin(ctx, in.ID)
}

func (ts *toolset) getIdeaBoard(ctx context.Context, in BoardParams) (any, error) {
	cards, err := ts.svc.Boards.Ideas(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return IdeaBoardResponse{Cards: cards}, nil
}

func (ts *toolset) getResourceBoard(ctx context.Context, in BoardParams) (any, error) {
	cards, err := ts.svc.Boards.Resources(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return ResourceBoardResponse{Cards: cards}, nil
}

func (ts *toolset) getRecentActivity(ctx context.Context, in GetRecentActivityParams) (any, error) {
	entries, err := ts.svc.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{
		ProjectID:  in.ProjectID,
		EntityKind: entity.Kind(in.Kind),
		Limit:      in.Limit,
	})
	if err != nil {
		return nil, err
	}
	return GetRecentActivityResponse{Entries: entries}, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
