package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
)

// BookmarkService manages a jobseeker's saved jobs.
type BookmarkService struct {
	repo core.BookmarkRepository
}

// NewBookmarkService constructs a new BookmarkService.
func NewBookmarkService(repo core.BookmarkRepository) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// Save bookmarks jobID for userID.
func (s *BookmarkService) Save(ctx context.Context, userID, jobID string) (*model.Bookmark, error) {
	b, err := s.repo.Create(ctx, userID, jobID)
	switch {
	case errors.Is(err, data.ErrAlreadyBookmarked):
		return nil, apperrors.Conflict("job already saved")
	case errors.Is(err, data.ErrJobNotFound):
		return nil, apperrors.NotFound("job not found")
	case err != nil:
		return nil, fmt.Errorf("save job: %w", err)
	}
	return b, nil
}

// Remove deletes the bookmark of userID on jobID.
func (s *BookmarkService) Remove(ctx context.Context, userID, jobID string) error {
	err := s.repo.Delete(ctx, userID, jobID)
	if errors.Is(err, data.ErrBookmarkNotFound) {
		return apperrors.NotFound("saved job not found")
	}
	return err
}

// List returns a page of saved jobs.
func (s *BookmarkService) List(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error) {
	opts.Page, opts.Limit = model.NormalizePage(opts.Page, opts.Limit)
	page, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	return page, nil
}
