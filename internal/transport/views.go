package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/metrics"
	"github.com/rpggio/karte/internal/search"
)

func (s *Server) today() calendar.Date {
	return calendar.Today(s.now(), s.opts.Location)
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	const op = "activity.list"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	opts := activity.ListActivityOptions{
		EntityKind: entity.Kind(r.URL.Query().Get("kind")),
		EntityID:   r.URL.Query().Get("entity_id"),
		ProjectID:  r.URL.Query().Get("project_id"),
		Limit:      limit,
		Offset:     offset,
	}
	if opts.EntityKind != "" && !opts.EntityKind.Valid() {
		s.fail(w, r, op, fmt.Errorf("%w: unknown kind %q", errBadRequest, opts.EntityKind))
		return
	}
	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(entries))
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "dashboard.build"
	today := s.today()
	if raw := strings.TrimSpace(r.URL.Query().Get("today")); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			s.fail(w, r, op, fmt.Errorf("%w: today: %v", errBadRequest, err))
			return
		}
		today = d
	}
	horizon := s.opts.HorizonDays
	if raw := strings.TrimSpace(r.URL.Query().Get("horizon")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.fail(w, r, op, fmt.Errorf("%w: horizon must be an integer", errBadRequest))
			return
		}
		horizon = n
	}

	view, err := s.svc.Dashboard.Build(r.Context(), today, horizon)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, view)
}

func (s *Server) resourceBoard(w http.ResponseWriter, r *http.Request) {
	const op = "board.resources"
	cards, err := s.svc.Boards.Resources(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(cards))
}

func (s *Server) ideaBoard(w http.ResponseWriter, r *http.Request) {
	const op = "board.ideas"
	cards, err := s.svc.Boards.Ideas(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.ok(w, op, http.StatusOK, newList(cards))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	const op = "search"
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	opts := search.Options{Limit: limit}
	for _, k := range queryList(r, "kind") {
		opts.Kinds = append(opts.Kinds, entity.Kind(k))
	}

	hits, err := s.svc.Search.Search(r.Context(), r.URL.Query().Get("q"), opts)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	metrics.SearchHits.Observe(float64(len(hits)))
	s.ok(w, op, http.StatusOK, newList(hits))
}
