package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/search"
	"github.com/stretchr/testify/require"
)

type projects []project.Project

func (p projects) List(context.Context, project.ListOptions) ([]project.Project, error) {
	return append([]project.Project(nil), p...), nil
}

type notes []note.Note

func (n notes) List(context.Context, note.ListOptions) ([]note.Note, error) {
	return append([]note.Note(nil), n...), nil
}

type resources []resource.Resource

func (r resources) List(context.Context, resource.ListOptions) ([]resource.Resource, error) {
	return append([]resource.Resource(nil), r...), nil
}

type ideas []idea.Idea

func (i ideas) List(context.Context, idea.ListOptions) ([]idea.Idea, error) {
	return append([]idea.Idea(nil), i...), nil
}

type failing struct{}

func (failing) List(context.Context, project.ListOptions) ([]project.Project, error) {
	return nil, errors.New("disk I/O error")
}

var (
	tokyo, _ = time.LoadLocation("Asia/Tokyo")
	// 2024-06-10 is a Monday in Tokyo.
	now = time.Date(2024, time.June, 10, 9, 0, 0, 0, tokyo)
	t0  = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
)

func due(s string) *calendar.Date {
	d, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func fixture() (projects, notes, resources, ideas) {
	ps := projects{
		{ID: "pa", Title: "A社サイト更新", Client: "A社", Status: project.StatusInProgress, DueDate: due("2024-06-17"), UpdatedAt: t0},
		{ID: "pb", Title: "B社提案", Client: "B社", Status: project.StatusNotStarted, DueDate: due("2024-08-10"), UpdatedAt: t0.Add(time.Hour)},
		{ID: "pc", Title: "社内整理", Status: project.StatusDone, DueDate: due("2024-06-03"), UpdatedAt: t0},
		{ID: "pd", Title: "C社保守", Client: "C社", Status: project.StatusOnHold, DueDate: due("2024-06-05"), UpdatedAt: t0},
	}
	ns := notes{
		{ID: "n1", Body: "A社の担当者と電話した", UpdatedAt: t0.Add(2 * time.Hour)},
		{ID: "n2", Body: "関係ないメモ", UpdatedAt: t0},
	}
	rs := resources{
		{ID: "r1", Kind: resource.KindNotionLink, Target: "https://www.notion.so/A-site", Label: "A社 要件定義", UpdatedAt: t0},
	}
	is := ideas{
		{ID: "i1", Caption: "a社向け配色案", SourceURL: "https://dribbble.com/x", UpdatedAt: t0},
	}
	return ps, ns, rs, is
}

func newService(ps projects, ns notes, rs resources, is ideas) *search.Service {
	return search.NewService(ps, ns, rs, is, tokyo, nil).WithClock(func() time.Time { return now })
}

func hitIDs(hits []search.Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.ID)
	}
	return out
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newService(fixture())
	for _, q := range []string{"", "   ", "、"} {
		hits, err := svc.Search(context.Background(), q, search.Options{})
		require.NoError(t, err)
		require.Empty(t, hits)
	}
}

func TestSearch_KeywordWithWeekHint(t *testing.T) {
	svc := newService(fixture())
	hits, err := svc.Search(context.Background(), "A社 来週", search.Options{})
	require.NoError(t, err)

	require.Equal(t, "pa", hits[0].ID)
	require.Equal(t, entity.KindProject, hits[0].Kind)
	require.Equal(t, 6, hits[0].Score)
	require.NotNil(t, hits[0].Project)
	require.Nil(t, hits[0].Note)
	require.Equal(t, "【A社】サイト更新", hits[0].Snippet)

	require.NotContains(t, hitIDs(hits), "pb")
	require.Contains(t, hitIDs(hits), "n1")
	for _, h := range hits[1:] {
		require.Less(t, h.Score, hits[0].Score)
	}
}

func TestSearch_HintTouchingPunctuation(t *testing.T) {
	svc := newService(fixture())
	want, err := svc.Search(context.Background(), "A社 来週", search.Options{})
	require.NoError(t, err)

	for _, query := range []string{"A社、来週", "A社・来週"} {
		hits, err := svc.Search(context.Background(), query, search.Options{})
		require.NoError(t, err)
		require.Equal(t, hitIDs(want), hitIDs(hits), query)
		require.NotContains(t, hitIDs(hits), "pb", query)
	}

	hits, err := svc.Search(context.Background(), "(来週)", search.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"pa"}, hitIDs(hits))
}

func TestSearch_RankingAcrossKinds(t *testing.T) {
	svc := newService(fixture())
	hits, err := svc.Search(context.Background(), "a社", search.Options{})
	require.NoError(t, err)
	// pa: title+client 6; r1: label 3; i1: caption 2; n1: body 1.
	require.Equal(t, []string{"pa", "r1", "i1", "n1"}, hitIDs(hits))
	require.Equal(t, []int{6, 3, 2, 1}, []int{hits[0].Score, hits[1].Score, hits[2].Score, hits[3].Score})
	require.Equal(t, "【A社】 要件定義", hits[1].Snippet)
}

func TestSearch_HintOnly(t *testing.T) {
	svc := newService(fixture())

	hits, err := svc.Search(context.Background(), "期限切れ", search.Options{})
	require.NoError(t, err)
	// pc is overdue but done.
	require.Equal(t, []string{"pd"}, hitIDs(hits))
	require.Equal(t, 1, hits[0].Score)

	hits, err = svc.Search(context.Background(), "来週 今月", search.Options{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"pa", "pc", "pd"}, hitIDs(hits))
}

func TestSearch_OverdueSkipsClosed(t *testing.T) {
	ps := projects{
		{ID: "late", Title: "遅延", Status: project.StatusNotStarted, DueDate: due("2024-06-01"), UpdatedAt: t0},
		{ID: "dropped", Title: "中止案件", Status: project.StatusCancelled, DueDate: due("2024-06-01"), UpdatedAt: t0},
		{ID: "finished", Title: "完了案件", Status: project.StatusDone, DueDate: due("2024-06-01"), UpdatedAt: t0},
	}
	svc := newService(ps, nil, nil, nil)

	hits, err := svc.Search(context.Background(), "期限切れ", search.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"late"}, hitIDs(hits))

	hits, err = svc.Search(context.Background(), "中止", search.Options{Kinds: []entity.Kind{entity.KindProject}})
	require.NoError(t, err)
	require.Equal(t, "dropped", hits[0].ID)
}

func TestSearch_StatusLabel(t *testing.T) {
	svc := newService(fixture())
	hits, err := svc.Search(context.Background(), "進行中", search.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"pa"}, hitIDs(hits))

	hits, err = svc.Search(context.Background(), "HOLD", search.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"pd"}, hitIDs(hits))
}

func TestSearch_KindsAndLimit(t *testing.T) {
	svc := newService(fixture())
	hits, err := svc.Search(context.Background(), "a社", search.Options{Kinds: []entity.Kind{entity.KindNote, entity.KindIdea}})
	require.NoError(t, err)
	require.Equal(t, []string{"i1", "n1"}, hitIDs(hits))

	hits, err = svc.Search(context.Background(), "a社", search.Options{Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"pa", "r1"}, hitIDs(hits))

	hits, err = svc.Search(context.Background(), "a社", search.Options{Kinds: []entity.Kind{"bogus"}})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestSearch_InsertionOrderIndependent(t *testing.T) {
	ps, ns, rs, is := fixture()
	// Two notes with equal score and timestamp tie-break on id.
	ns = append(ns, note.Note{ID: "n0", Body: "A社", UpdatedAt: t0.Add(2 * time.Hour)})

	forward, err := newService(ps, ns, rs, is).Search(context.Background(), "A社 提案", search.Options{})
	require.NoError(t, err)

	rev := func(n int, swap func(i, j int)) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			swap(i, j)
		}
	}
	rev(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
	rev(len(ns), func(i, j int) { ns[i], ns[j] = ns[j], ns[i] })

	for range 3 {
		backward, err := newService(ps, ns, rs, is).Search(context.Background(), "A社 提案", search.Options{})
		require.NoError(t, err)
		require.Equal(t, forward, backward)
	}
	require.Equal(t, []string{"pa", "pb", "r1", "i1", "n0", "n1"}, hitIDs(forward))
}

func TestSearch_StorageErrorPropagates(t *testing.T) {
	_, ns, rs, is := fixture()
	svc := search.NewService(failing{}, ns, rs, is, tokyo, nil)
	_, err := svc.Search(context.Background(), "a社", search.Options{})
	require.Error(t, err)
}
