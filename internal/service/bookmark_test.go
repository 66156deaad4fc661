package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/mocks"
)

func TestBookmarkService(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBookmarkRepository(ctrl)
	svc := NewBookmarkService(repo)
	ctx := context.Background()

	repo.EXPECT().Create(ctx, testUserID, testJobID).Return(&model.Bookmark{UserID: testUserID, JobID: testJobID}, nil)
	b, err := svc.Save(ctx, testUserID, testJobID)
	require.NoError(t, err)
	assert.Equal(t, testJobID, b.JobID)

	repo.EXPECT().Create(ctx, testUserID, testJobID).Return(nil, data.ErrAlreadyBookmarked)
	_, err = svc.Save(ctx, testUserID, testJobID)
	assert.True(t, apperrors.IsConflict(err))

	repo.EXPECT().Create(ctx, testUserID, "missing").Return(nil, data.ErrJobNotFound)
	_, err = svc.Save(ctx, testUserID, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	repo.EXPECT().Delete(ctx, testUserID, testJobID).Return(data.ErrBookmarkNotFound)
	err = svc.Remove(ctx, testUserID, testJobID)
	assert.True(t, apperrors.IsNotFound(err))

	repo.EXPECT().List(ctx, model.BookmarkListOptions{UserID: testUserID, Page: 1, Limit: 20}).
		Return(&model.SavedJobsPage{}, nil)
	_, err = svc.List(ctx, model.BookmarkListOptions{UserID: testUserID})
	require.NoError(t, err)
}
