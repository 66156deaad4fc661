// Package mocks provides gomock implementations of the repository ports in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockApplicationRepository(ctrl)
//	repo.EXPECT().GetContext(gomock.Any(), appID).Return(appCtx, nil)
package mocks

// ApplicationRepository, the transaction it hands out, and the counter audit used by the admin CLI.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/agbarbie/Rural-Connect-sub000/internal/core ApplicationRepository,ApplicationTx,CounterAuditRepository

// JobRepository and UserRepository.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/agbarbie/Rural-Connect-sub000/internal/core JobRepository,UserRepository

// NotificationRepository and AudienceRepository.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_repository_mock.go github.com/agbarbie/Rural-Connect-sub000/internal/core AudienceRepository,NotificationRepository

// BookmarkRepository and RetentionRepository.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=bookmark_repository_mock.go github.com/agbarbie/Rural-Connect-sub000/internal/core BookmarkRepository,RetentionRepository
