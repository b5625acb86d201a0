package mcp

import (
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/board"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/search"
)

// Tool parameter types. Optional fields carry omitempty.

type SearchParams struct {
	Query string   `json:"query" jsonschema:"keywords and date phrases such as 来週, 今月, 期限切れ or 3日以内"`
	Kinds []string `json:"kinds,omitempty" jsonschema:"restrict hits to these kinds: project, note, resource, idea"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of hits"`
}

type GetDashboardParams struct {
	Today       string `json:"today,omitempty" jsonschema:"reference day as YYYY-MM-DD; defaults to the server's today"`
	HorizonDays int    `json:"horizon_days,omitempty" jsonschema:"days ahead counted as due soon"`
}

type ListProjectsParams struct {
	Statuses []string `json:"statuses,omitempty" jsonschema:"filter by status: not_started, in_progress, done, on_hold, cancelled"`
	Sort     string   `json:"sort,omitempty" jsonschema:"due_asc (default), updated_desc, created_desc or title_asc"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of projects"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type CreateProjectParams struct {
	Title    string `json:"title" jsonschema:"project title"`
	Client   string `json:"client,omitempty" jsonschema:"client name"`
	Owner    string `json:"owner,omitempty" jsonschema:"person in charge"`
	Status   string `json:"status,omitempty" jsonschema:"not_started, in_progress, done, on_hold or cancelled"`
	Priority string `json:"priority,omitempty" jsonschema:"low, medium, high or urgent"`
	Due      string `json:"due,omitempty" jsonschema:"due date as YYYY-MM-DD or a phrase such as 来週金曜"`
	Notes    string `json:"notes,omitempty" jsonschema:"free-form notes"`
}

type UpdateProjectParams struct {
	ID       string  `json:"id" jsonschema:"project ID"`
	Title    *string `json:"title,omitempty" jsonschema:"new title"`
	Client   *string `json:"client,omitempty" jsonschema:"new client name"`
	Owner    *string `json:"owner,omitempty" jsonschema:"new person in charge"`
	Status   *string `json:"status,omitempty" jsonschema:"new status"`
	Priority *string `json:"priority,omitempty" jsonschema:"new priority"`
	Due      *string `json:"due,omitempty" jsonschema:"new due date as YYYY-MM-DD or a phrase"`
	ClearDue bool    `json:"clear_due,omitempty" jsonschema:"remove the due date"`
	Notes    *string `json:"notes,omitempty" jsonschema:"new notes"`
}

type CreateNoteParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"owning project ID"`
	Body      string `json:"body" jsonschema:"note text"`
}

type CreateResourceParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"owning project ID"`
	Kind      string `json:"kind,omitempty" jsonschema:"drive_link, notion_link, url or uploaded_file; inferred from target when omitted"`
	Target    string `json:"target" jsonschema:"URL or att_ reference"`
	Label     string `json:"label,omitempty" jsonschema:"display label; defaults to the host or file name"`
}

type CreateIdeaParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"owning project ID"`
	SourceURL string `json:"source_url,omitempty" jsonschema:"page the idea came from"`
	ImageRef  string `json:"image_ref,omitempty" jsonschema:"att_ reference of an uploaded image"`
	Caption   string `json:"caption,omitempty" jsonschema:"short description"`
	Pinned    bool   `json:"pinned,omitempty" jsonschema:"pin to the top of the board"`
}

type SetIdeaPinParams struct {
	ID     string `json:"id" jsonschema:"idea ID"`
	Pinned bool   `json:"pinned" jsonschema:"true to pin, false to unpin"`
}

type BoardParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"restrict the board to one project"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"restrict to one project"`
	Kind      string `json:"kind,omitempty" jsonschema:"restrict to project, note, resource or idea"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

// Tool responses.

type SearchResponse struct {
	Hits  []search.Hit `json:"hits"`
	Count int          `json:"count"`
}

type ListProjectsResponse struct {
	Projects []project.Project `json:"projects"`
	Count    int               `json:"count"`
}

type IdeaBoardResponse struct {
	Cards []board.IdeaCard `json:"cards"`
}

type ResourceBoardResponse struct {
	Cards []board.ResourceCard `json:"cards"`
}

type GetRecentActivityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}
