package note_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/repository"
	"github.com/rpggio/karte/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := note.NewService(repo, nil, nil)
	projectID := " p1 "
	n, err := svc.Create(ctx, note.CreateRequest{ProjectID: &projectID, Body: "A社と打ち合わせ"})
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)
	require.Equal(t, "p1", *n.ProjectID)
	require.False(t, n.UpdatedAt.Before(n.CreatedAt))
}

func TestNoteService_CreateRequiresBody(t *testing.T) {
	repo := &mocks.NoteRepository{}
	svc := note.NewService(repo, nil, nil)
	_, err := svc.Create(context.Background(), note.CreateRequest{Body: " \n"})
	require.ErrorIs(t, err, note.ErrInvalidInput)
}

func TestNoteService_CreateBlankProjectIsUnlinked(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := note.NewService(repo, nil, nil)
	blank := ""
	n, err := svc.Create(ctx, note.CreateRequest{ProjectID: &blank, Body: "memo"})
	require.NoError(t, err)
	require.Nil(t, n.ProjectID)
}

func TestNoteService_UpdateDetachesProject(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	projectID := "p1"
	repo := &mocks.NoteRepository{}
	repo.On("Get", ctx, "n1").Return(&note.Note{ID: "n1", ProjectID: &projectID, Body: "b", CreatedAt: created, UpdatedAt: created}, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	svc := note.NewService(repo, nil, nil).WithClock(func() time.Time { return created.Add(time.Minute) })
	updated, err := svc.Update(ctx, "n1", note.UpdateRequest{ClearProject: true})
	require.NoError(t, err)
	require.Nil(t, updated.ProjectID)
	require.Equal(t, created, updated.CreatedAt)
	require.Equal(t, created.Add(time.Minute), updated.UpdatedAt)
}

func TestNoteService_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("Get", ctx, "nope").Return((*note.Note)(nil), repository.ErrNotFound)

	svc := note.NewService(repo, nil, nil)
	body := "x"
	_, err := svc.Update(ctx, "nope", note.UpdateRequest{Body: &body})
	require.ErrorIs(t, err, note.ErrNoteNotFound)
}

func TestNoteService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.NoteRepository{}
	repo.On("Delete", ctx, "n1").Return(repository.ErrNotFound)

	svc := note.NewService(repo, nil, nil)
	require.NoError(t, svc.Delete(ctx, "n1"))
}
