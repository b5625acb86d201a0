package idea_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/repository"
	"github.com/rpggio/karte/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIdeaService_CreateRequiresContent(t *testing.T) {
	repo := &mocks.IdeaRepository{}
	svc := idea.NewService(repo, nil, nil)

	_, err := svc.Create(context.Background(), idea.CreateRequest{Caption: "  "})
	require.ErrorIs(t, err, idea.ErrInvalidInput)

	_, err = svc.Create(context.Background(), idea.CreateRequest{SourceURL: "not a url"})
	require.ErrorIs(t, err, idea.ErrInvalidInput)

	_, err = svc.Create(context.Background(), idea.CreateRequest{ImageRef: "photo.png"})
	require.ErrorIs(t, err, idea.ErrInvalidInput)
}

func TestIdeaService_CreateWithImageOnly(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.IdeaRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := idea.NewService(repo, nil, nil)
	i, err := svc.Create(ctx, idea.CreateRequest{ImageRef: "att_123"})
	require.NoError(t, err)
	require.True(t, i.HasImage())
	require.False(t, i.Pinned)
}

func TestIdeaService_PinLogsActivity(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	repo := &mocks.IdeaRepository{}
	repo.On("Get", ctx, "i1").Return(&idea.Idea{ID: "i1", Caption: "配色案", CreatedAt: created, UpdatedAt: created}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(i *idea.Idea) bool { return i.Pinned })).Return(nil)

	activities := &mocks.ActivityRepository{}
	activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypePinned && e.EntityID == "i1"
	})).Return(nil)

	svc := idea.NewService(repo, activities, nil).WithClock(func() time.Time { return created.Add(time.Hour) })
	pinned, err := svc.Pin(ctx, "i1")
	require.NoError(t, err)
	require.True(t, pinned.Pinned)
	require.Equal(t, created.Add(time.Hour), pinned.UpdatedAt)
	activities.AssertExpectations(t)
}

func TestIdeaService_UnpinAlreadyUnpinnedIsNoop(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	current := &idea.Idea{ID: "i1", Caption: "c", CreatedAt: created, UpdatedAt: created}
	repo := &mocks.IdeaRepository{}
	repo.On("Get", ctx, "i1").Return(current, nil)

	svc := idea.NewService(repo, nil, nil)
	got, err := svc.Unpin(ctx, "i1")
	require.NoError(t, err)
	require.Equal(t, current, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestIdeaService_UpdateCannotEmptyIdea(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.IdeaRepository{}
	repo.On("Get", ctx, "i1").Return(&idea.Idea{ID: "i1", Caption: "only caption"}, nil)

	svc := idea.NewService(repo, nil, nil)
	empty := ""
	_, err := svc.Update(ctx, "i1", idea.UpdateRequest{Caption: &empty})
	require.ErrorIs(t, err, idea.ErrInvalidInput)
}

func TestIdeaService_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.IdeaRepository{}
	repo.On("Get", ctx, "nope").Return((*idea.Idea)(nil), repository.ErrNotFound)

	svc := idea.NewService(repo, nil, nil)
	_, err := svc.Get(ctx, "nope")
	require.ErrorIs(t, err, idea.ErrIdeaNotFound)
}

func TestIdeaService_ListAppliesMatchAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.IdeaRepository{}
	repo.On("List", ctx, mock.Anything).Return([]idea.Idea{
		{ID: "a", Caption: "red"}, {ID: "b", Caption: "blue"}, {ID: "c", Caption: "red"},
	}, nil)

	svc := idea.NewService(repo, nil, nil)
	ideas, err := svc.List(ctx, idea.ListOptions{
		Match: func(i *idea.Idea) bool { return i.Caption == "red" },
		Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	require.Equal(t, "a", ideas[0].ID)
}
