package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
)

// Single-record responses carry the owning project when the weak
// reference still resolves.

type noteView struct {
	*note.Note
	Project *project.Project `json:"project,omitempty"`
}

type resourceView struct {
	*resource.Resource
	KindLabel string           `json:"kind_label"`
	Project   *project.Project `json:"project,omitempty"`
}

type ideaView struct {
	*idea.Idea
	Project *project.Project `json:"project,omitempty"`
}

func (s *Server) lookupProject(ctx context.Context, id *string) (*project.Project, error) {
	return s.svc.Projects.Lookup(ctx, id)
}

// Notes

type noteInput struct {
	ProjectID    *string `json:"project_id"`
	ClearProject bool    `json:"clear_project"`
	Body         *string `json:"body"`
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	const op = "note.list"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	notes, err := s.svc.Notes.List(r.Context(), note.ListOptions{
		ProjectID: r.URL.Query().Get("project_id"),
		Limit:     limit,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(notes))
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	const op = "note.create"
	var in noteInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	n, err := s.svc.Notes.Create(r.Context(), note.CreateRequest{ProjectID: in.ProjectID, Body: deref(in.Body)})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusCreated, n)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	const op = "note.get"
	n, err := s.svc.Notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	proj, err := s.lookupProject(r.Context(), n.ProjectID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, noteView{Note: n, Project: proj})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	const op = "note.update"
	var in noteInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	n, err := s.svc.Notes.Update(r.Context(), chi.URLParam(r, "id"), note.UpdateRequest{
		ProjectID:    in.ProjectID,
		ClearProject: in.ClearProject,
		Body:         in.Body,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	const op = "note.delete"
	if err := s.svc.Notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.noContent(w, op)
}

// Resources

type resourceInput struct {
	ProjectID    *string        `json:"project_id"`
	ClearProject bool           `json:"clear_project"`
	Kind         *resource.Kind `json:"kind"`
	Target       *string        `json:"target"`
	Label        *string        `json:"label"`
}

func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	const op = "resource.list"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	opts := resource.ListOptions{
		ProjectID: r.URL.Query().Get("project_id"),
		Limit:     limit,
	}
	for _, k := range queryList(r, "kind") {
		opts.Kinds = append(opts.Kinds, resource.Kind(k))
	}
	resources, err := s.svc.Resources.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(resources))
}

func (s *Server) createResource(w http.ResponseWriter, r *http.Request) {
	const op = "resource.create"
	var in resourceInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.svc.Resources.Create(r.Context(), resource.CreateRequest{
		ProjectID: in.ProjectID,
		Kind:      deref(in.Kind),
		Target:    deref(in.Target),
		Label:     deref(in.Label),
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusCreated, res)
}

func (s *Server) getResource(w http.ResponseWriter, r *http.Request) {
	const op = "resource.get"
	res, err := s.svc.Resources.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	proj, err := s.lookupProject(r.Context(), res.ProjectID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, resourceView{Resource: res, KindLabel: res.Kind.Label(), Project: proj})
}

func (s *Server) updateResource(w http.ResponseWriter, r *http.Request) {
	const op = "resource.update"
	var in resourceInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	res, err := s.svc.Resources.Update(r.Context(), chi.URLParam(r, "id"), resource.UpdateRequest{
		ProjectID:    in.ProjectID,
		ClearProject: in.ClearProject,
		Kind:         in.Kind,
		Target:       in.Target,
		Label:        in.Label,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, res)
}

func (s *Server) deleteResource(w http.ResponseWriter, r *http.Request) {
	const op = "resource.delete"
	if err := s.svc.Resources.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.noContent(w, op)
}

// Ideas

type ideaInput struct {
	ProjectID    *string `json:"project_id"`
	ClearProject bool    `json:"clear_project"`
	SourceURL    *string `json:"source_url"`
	ImageRef     *string `json:"image_ref"`
	Caption      *string `json:"caption"`
	Pinned       *bool   `json:"pinned"`
}

func (s *Server) listIdeas(w http.ResponseWriter, r *http.Request) {
	const op = "idea.list"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	pinned, err := queryBool(r, "pinned")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	ideas, err := s.svc.Ideas.List(r.Context(), idea.ListOptions{
		ProjectID: r.URL.Query().Get("project_id"),
		Pinned:    pinned,
		Limit:     limit,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(ideas))
}

func (s *Server) createIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.create"
	var in ideaInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	i, err := s.svc.Ideas.Create(r.Context(), idea.CreateRequest{
		ProjectID: in.ProjectID,
		SourceURL: deref(in.SourceURL),
		ImageRef:  deref(in.ImageRef),
		Caption:   deref(in.Caption),
		Pinned:    deref(in.Pinned),
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusCreated, i)
}

func (s *Server) getIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.get"
	i, err := s.svc.Ideas.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	proj, err := s.lookupProject(r.Context(), i.ProjectID)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, ideaView{Idea: i, Project: proj})
}

func (s *Server) updateIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.update"
	var in ideaInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, op, err)
		return
	}
	i, err := s.svc.Ideas.Update(r.Context(), chi.URLParam(r, "id"), idea.UpdateRequest{
		ProjectID:    in.ProjectID,
		ClearProject: in.ClearProject,
		SourceURL:    in.SourceURL,
		ImageRef:     in.ImageRef,
		Caption:      in.Caption,
		Pinned:       in.Pinned,
	})
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, i)
}

func (s *Server) deleteIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.delete"
	if err := s.svc.Ideas.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.noContent(w, op)
}

func (s *Server) pinIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.pin"
	i, err := s.svc.Ideas.Pin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, i)
}

func (s *Server) unpinIdea(w http.ResponseWriter, r *http.Request) {
	const op = "idea.unpin"
	i, err := s.svc.Ideas.Unpin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, i)
}
