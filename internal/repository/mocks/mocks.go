package mocks

import (
	"context"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ProjectStore is a mock for repository.ProjectStore.
type ProjectStore struct {
	mock.Mock
}

func (m *ProjectStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if doc, ok := args.Get(0).([]byte); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectStore) Save(ctx context.Context, doc []byte) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *ProjectStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
