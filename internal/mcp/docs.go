package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `karte is a case-management notebook (案件カルテ): Projects, Notes, Resources and Ideas.

Core concepts:
- Project (案件): title, client, owner, status (not_started | in_progress | done | on_hold | cancelled), priority, optional due date.
- Note / Resource / Idea: free records that may point at a project by project_id. The pointer is weak; a deleted project leaves them detached.
- Resource kinds: drive_link, notion_link, url, uploaded_file (target is an att_ reference).
- Idea: a moodboard card with caption, source_url and/or image_ref. Pinned ideas sort first.

Rules of engagement:
1) Orient with get_dashboard (overdue, due soon, in progress, recent activity).
2) Find things with search. Queries are folded (case, width, kana compatibility) and may mix keywords with date phrases such as 今日, 明日, 今週, 来週, 今月, 期限切れ, 3日以内.
3) Write with create_project / update_project / create_note / create_resource / create_idea / set_idea_pin.
4) Due dates accept YYYY-MM-DD or a natural phrase (来週金曜, next friday).

Docs:
- karte://docs/index
- karte://docs/concepts
- karte://docs/search
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "karte://docs/index",
		Name:        "docs_index",
		Title:       "karte docs index",
		Description: "Entry point for agent-facing docs: available tools and what to read when.",
		Content: `# karte: Agent Docs Index

## Quick start

1. ` + "`get_dashboard`" + ` to see what is late, due soon and in progress.
2. ` + "`search`" + ` with keywords and date phrases to locate records.
3. ` + "`list_projects`" + ` with ` + "`statuses`" + ` and ` + "`sort`" + ` to browse cases.
4. Create or update records; every write is logged and shows up in ` + "`get_recent_activity`" + `.

## Docs (read on demand)

- ` + "`karte://docs/concepts`" + ` entities, statuses, weak project references.
- ` + "`karte://docs/search`" + ` query syntax, date phrases, ranking.

## Limits

- Attachments are uploaded over HTTP (` + "`POST /api/attachments`" + `); tools only reference them by ` + "`att_`" + ` ref.
- Use ` + "`limit`" + ` on search and list tools to control result size.
`,
	},
	{
		URI:         "karte://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts",
		Description: "Entities, statuses, priorities and how records relate to projects.",
		Content: `# Concepts

## Project (案件)

| field | notes |
|---|---|
| title | required |
| client, owner | free text |
| status | not_started (未着手), in_progress (進行中), done (完了), on_hold (保留), cancelled (中止) |
| priority | low (低), medium (中), high (高), urgent (緊急) |
| due_date | calendar day, optional |

Overdue means due_date before today and status not done.

## Note, Resource, Idea

Each may carry a ` + "`project_id`" + `. The reference is weak: deleting a project never deletes
its notes, resources or ideas, and reads of a dangling reference return no project.

Resource kind is inferred from the target when omitted: Google Drive/Docs hosts give
` + "`drive_link`" + `, notion.so/notion.site give ` + "`notion_link`" + `, other http(s) URLs give ` + "`url`" + `, and
` + "`att_`" + ` refs give ` + "`uploaded_file`" + `.

An idea needs at least one of caption, source_url or image_ref.

## Timestamps

updated_at never moves backwards. A patch that changes nothing leaves updated_at untouched.
`,
	},
	{
		URI:         "karte://docs/search",
		Name:        "docs_search",
		Title:       "Search syntax",
		Description: "How queries are tokenized, which date phrases are understood and how hits are ranked.",
		Content: `# Search

Queries are normalized (NFKC + case folding) and split on whitespace and punctuation.
Every keyword must match a record for it to be a hit.

## Date phrases (projects only)

| phrase | window |
|---|---|
| 今日 / today | today |
| 明日 / tomorrow | today + 1 |
| 今週 / 来週 / 再来週 | Monday to Sunday week |
| 今月 / 来月 | calendar month |
| 期限切れ / overdue | before today, not done |
| N日以内 | today to today + N |
| N日後 | exactly today + N |

A query made only of date phrases lists the projects due in the union of the windows.
Notes, resources and ideas are searched only when there is at least one keyword.

## Ranking

Score (title matches weigh most) descending, then updated_at descending, then
kind (project, note, resource, idea), then id.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
