package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/project"
)

type projectInput struct {
	Title        *string           `json:"title"`
	Client       *string           `json:"client"`
	Owner        *string           `json:"owner"`
	Status       *project.Status   `json:"status"`
	Priority     *project.Priority `json:"priority"`
	DueDate      *calendar.Date    `json:"due_date"`
	DueText      *string           `json:"due_text"`
	ClearDueDate bool              `json:"clear_due_date"`
	Notes        *string           `json:"notes"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	const op = "project.list"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	opts := project.ListOptions{
		Sort:  project.SortKey(r.URL.Query().Get("sort")),
		Limit: limit,
	}
	for _, st := range queryList(r, "status") {
		opts.Statuses = append(opts.Statuses, project.Status(st))
	}

	projects, err := s.svc.Projects.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(projects))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	const op = "project.create"
	var in projectInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	proj, err := s.svc.Projects.Create(r.Context(), project.CreateRequest{
		Title:    deref(in.Title),
		Client:   deref(in.Client),
		Owner:    deref(in.Owner),
		Status:   deref(in.Status),
		Priority: deref(in.Priority),
		DueDate:  in.DueDate,
		DueText:  deref(in.DueText),
		Notes:    deref(in.Notes),
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusCreated, proj)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	const op = "project.get"
	proj, err := s.svc.Projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	const op = "project.update"
	var in projectInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	proj, err := s.svc.Projects.Update(r.Context(), chi.URLParam(r, "id"), project.UpdateRequest{
		Title:        in.Title,
		Client:       in.Client,
		Owner:        in.Owner,
		Status:       in.Status,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		DueText:      in.DueText,
		ClearDueDate: in.ClearDueDate,
		Notes:        in.Notes,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, proj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	const op = "project.delete"
	if err := s.svc.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.noContent(w, op)
}
