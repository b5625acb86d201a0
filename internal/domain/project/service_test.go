package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/repository"
	"github.com/rpggio/karte/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProjectService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 3, 0, 0, 0, time.UTC)

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil, nil).WithClock(fixedClock(now))
	proj, err := svc.Create(ctx, project.CreateRequest{Title: "  A社サイト更新 ", Client: "A社"})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "A社サイト更新", proj.Title)
	require.Equal(t, project.StatusNotStarted, proj.Status)
	require.Equal(t, project.PriorityMedium, proj.Priority)
	require.Equal(t, now, proj.CreatedAt)
	require.Equal(t, proj.CreatedAt, proj.UpdatedAt)
	require.Nil(t, proj.DueDate)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	svc := project.NewService(repo, nil, nil)

	_, err := svc.Create(ctx, project.CreateRequest{Title: "   "})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(ctx, project.CreateRequest{Title: "x", Status: "archived"})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	_, err = svc.Create(ctx, project.CreateRequest{Title: "x", DueText: "xyzzy"})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_CreateParsesDueText(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{Title: "x", DueText: "2024-06-14"})
	require.NoError(t, err)
	require.Equal(t, calendar.Date{Year: 2024, Month: time.June, Day: 14}, *proj.DueDate)
}

func TestProjectService_CreateParsesWeekdayPhrase(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	monday := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	svc := project.NewService(repo, nil, nil).WithClock(func() time.Time { return monday })
	proj, err := svc.Create(ctx, project.CreateRequest{Title: "x", DueText: "来週金曜"})
	require.NoError(t, err)
	require.Equal(t, calendar.Date{Year: 2024, Month: time.June, Day: 21}, *proj.DueDate)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_LookupToleratesDanglingReference(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "gone").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil)
	id := "gone"
	proj, err := svc.Lookup(ctx, &id)
	require.NoError(t, err)
	require.Nil(t, proj)

	proj, err = svc.Lookup(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, proj)
}

func TestProjectService_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	current := &project.Project{
		ID:        "p1",
		Title:     "Old",
		Status:    project.StatusNotStarted,
		Priority:  project.PriorityMedium,
		CreatedAt: created,
		UpdatedAt: created,
	}
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "p1").Return(current, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p *project.Project) bool {
		return p.ID == "p1" && p.Title == "New" && p.Status == project.StatusInProgress
	})).Return(nil)

	svc := project.NewService(repo, nil, nil).WithClock(fixedClock(later))
	title := "New"
	status := project.StatusInProgress
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	require.Equal(t, "p1", updated.ID)
	require.Equal(t, created, updated.CreatedAt)
	require.Equal(t, later, updated.UpdatedAt)
}

func TestProjectService_UpdateNeverMovesTimestampBackwards(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	current := &project.Project{
		ID:        "p1",
		Title:     "Old",
		Status:    project.StatusNotStarted,
		Priority:  project.PriorityMedium,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "p1").Return(current, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil, nil).WithClock(fixedClock(stamp.Add(-time.Minute)))
	title := "New"
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, stamp, updated.UpdatedAt)
}

func TestProjectService_UpdateNoChangeSkipsWrite(t *testing.T) {
	ctx := context.Background()
	current := &project.Project{ID: "p1", Title: "Same", Status: project.StatusDone, Priority: project.PriorityLow}
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "p1").Return(current, nil)

	svc := project.NewService(repo, nil, nil)
	title := "Same"
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, current, updated)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProjectService_UpdateClearsDueDate(t *testing.T) {
	ctx := context.Background()
	due := calendar.Date{Year: 2024, Month: time.June, Day: 14}
	current := &project.Project{ID: "p1", Title: "x", Status: project.StatusDone, Priority: project.PriorityLow, DueDate: &due}
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "p1").Return(current, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil, nil)
	updated, err := svc.Update(ctx, "p1", project.UpdateRequest{ClearDueDate: true})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
}

func TestProjectService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Delete", ctx, "p1").Return(repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil)
	require.NoError(t, svc.Delete(ctx, "p1"))
}

func TestProjectService_DeleteLogsActivity(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Delete", ctx, "p1").Return(nil)
	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, activities, nil)
	require.NoError(t, svc.Delete(ctx, "p1"))
	activities.AssertNumberOfCalls(t, "Log", 1)
}

func TestProjectService_ListAppliesMatchAndLimit(t *testing.T) {
	ctx := context.Background()
	opts := project.ListOptions{
		Match: func(p *project.Project) bool { return p.Client == "A社" },
		Limit: 1,
	}
	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx, mock.Anything).Return([]project.Project{
		{ID: "1", Client: "B社"},
		{ID: "2", Client: "A社"},
		{ID: "3", Client: "A社"},
	}, nil)

	svc := project.NewService(repo, nil, nil)
	list, err := svc.List(ctx, opts)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "2", list[0].ID)

	_, err = svc.List(ctx, project.ListOptions{Sort: "random"})
	require.ErrorIs(t, err, project.ErrInvalidInput)
}
