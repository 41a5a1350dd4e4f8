package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/playmat/internal/domain/activity"
	"github.com/rpggio/playmat/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.Entry{
		Type:          activity.TypeZoneAdded,
		Summary:       "added zone-1",
		HistoryCursor: 1,
	}

	repo.On("Log", ctx, entry).Return(nil)
	repo.On("List", ctx, activity.ListOptions{Limit: 50}).Return([]activity.Entry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, entry))
	require.False(t, entry.CreatedAt.IsZero())

	got, err := svc.GetRecentActivity(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_RejectsEmptyEntry(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), &activity.Entry{}), activity.ErrInvalidInput)
}

func TestActivityService_RecordSwallowsErrors(t *testing.T) {
	repo := &mocks.ActivityRepository{}
	repo.On("Log", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := activity.NewService(repo, nil)
	svc.Record(context.Background(), activity.Entry{Type: activity.TypeUndo})
	repo.AssertNumberOfCalls(t, "Log", 1)
}
