package mocks

import (
	"context"

	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// NoteRepository is a mock for note.Repository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*note.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) Update(ctx context.Context, n *note.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NoteRepository) List(ctx context.Context, opts note.ListOptions) ([]note.Note, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]note.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ResourceRepository is a mock for resource.Repository.
type ResourceRepository struct {
	mock.Mock
}

func (m *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *ResourceRepository) Get(ctx context.Context, id string) (*resource.Resource, error) {
	args := m.Called(ctx, id)
	if res, ok := args.Get(0).(*resource.Resource); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *ResourceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ResourceRepository) List(ctx context.Context, opts resource.ListOptions) ([]resource.Resource, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]resource.Resource); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// IdeaRepository is a mock for idea.Repository.
type IdeaRepository struct {
	mock.Mock
}

func (m *IdeaRepository) Create(ctx context.Context, i *idea.Idea) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *IdeaRepository) Get(ctx context.Context, id string) (*idea.Idea, error) {
	args := m.Called(ctx, id)
	if i, ok := args.Get(0).(*idea.Idea); ok {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *IdeaRepository) Update(ctx context.Context, i *idea.Idea) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *IdeaRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *IdeaRepository) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]idea.Idea); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AttachmentRepository is a mock for attachment.Repository.
type AttachmentRepository struct {
	mock.Mock
}

func (m *AttachmentRepository) Create(ctx context.Context, att *attachment.Attachment) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *AttachmentRepository) Get(ctx context.Context, ref string) (*attachment.Attachment, error) {
	args := m.Called(ctx, ref)
	if att, ok := args.Get(0).(*attachment.Attachment); ok {
		return att, args.Error(1)
	}
	return nil, args.Error(1)
}
