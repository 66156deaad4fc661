package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	apperrors "github.com/agbarbie/Rural-Connect-sub000/internal/errors"
	"github.com/agbarbie/Rural-Connect-sub000/internal/mocks"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
)

type notificationHarness struct {
	repo    *mocks.MockNotificationRepository
	users   *mocks.MockUserRepository
	cache   *core.MockCacheRepository
	metrics *statsd.Recorder
	svc     *NotificationService
}

func newNotificationHarness(t *testing.T) *notificationHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &notificationHarness{
		repo:    mocks.NewMockNotificationRepository(ctrl),
		users:   mocks.NewMockUserRepository(ctrl),
		cache:   core.NewMockCacheRepository(ctrl),
		metrics: statsd.NewRecorder(),
	}
	h.svc = MustNewNotificationService(NotificationServiceOptions{
		Repo:    h.repo,
		Users:   h.users,
		Cache:   core.NewNotificationCache(h.cache, core.NotificationCacheConfig{UnreadTTL: time.Minute}),
		Metrics: h.metrics,
	})
	return h
}

func (h *notificationHarness) expectUser(id string, role auth.Role) {
	h.users.EXPECT().GetByID(gomock.Any(), id).Return(&model.User{ID: id, Role: role, Status: "active"}, nil)
}

// storeEcho makes the repository return what it was asked to store.
func (h *notificationHarness) storeEcho() *model.CreateNotificationRequest {
	var got model.CreateNotificationRequest
	h.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
			got = *req
			return &model.Notification{
				ID: "n-1", UserID: req.UserID, Type: req.Type, Title: req.Title,
				Message: req.Message, Metadata: req.Metadata, RelatedID: req.RelatedID,
			}, nil
		})
	h.expectInvalidate()
	return &got
}

// expectInvalidate expects the unread cache of testUserID to be invalidated once.
func (h *notificationHarness) expectInvalidate() {
	h.cache.EXPECT().Set(gomock.Any(), "notifications:unread_gen:"+testUserID, gomock.Any(), 2*time.Minute).Return(nil)
	h.cache.EXPECT().Delete(gomock.Any(), "notifications:unread:"+testUserID).Return(true, nil)
}

func TestNewNotificationService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewNotificationService(NotificationServiceOptions{Users: mocks.NewMockUserRepository(ctrl)})
	require.Error(t, err)
	_, err = NewNotificationService(NotificationServiceOptions{Repo: mocks.NewMockNotificationRepository(ctrl)})
	require.Error(t, err)
	assert.Panics(t, func() { MustNewNotificationService(NotificationServiceOptions{}) })
}

func TestNotificationService_CreateNotification(t *testing.T) {
	t.Run("employer receives application notice with typed metadata", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.expectUser(testUserID, auth.RoleEmployer)
		got := h.storeEcho()

		n, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID: testUserID,
			Payload: model.ApplicationReceivedPayload{
				JobID: testJobID, JobTitle: "Farm Manager", ApplicationID: testAppID, ApplicantName: "Amina",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, model.NotificationApplicationReceived, n.Type)
		assert.Equal(t, "New Application Received", got.Title)
		assert.Equal(t, "Amina applied for Farm Manager.", got.Message)
		require.NotNil(t, got.RelatedID)
		assert.Equal(t, testAppID, *got.RelatedID)

		payload, err := n.Payload()
		require.NoError(t, err)
		assert.Equal(t, "Amina", payload.(model.ApplicationReceivedPayload).ApplicantName)
		assert.Equal(t, "success", h.metrics.Counts("notification.create")[0].Tags["result"])
	})

	t.Run("role mismatch is rejected before storing", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.expectUser(testUserID, auth.RoleJobseeker)

		_, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID:  testUserID,
			Payload: model.ApplicationReceivedPayload{JobID: testJobID},
		})
		require.ErrorIs(t, err, ErrRoleMismatch)
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
	})

	t.Run("admins receive nothing", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.expectUser(testUserID, auth.RoleAdmin)

		_, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID:  testUserID,
			Payload: model.NewJobMatchPayload{JobID: testJobID},
		})
		require.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.users.EXPECT().GetByID(gomock.Any(), testUserID).Return(nil, data.ErrUserNotFound)

		_, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID:  testUserID,
			Payload: model.NewJobMatchPayload{JobID: testJobID},
		})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("explicit related id wins", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.expectUser(testUserID, auth.RoleJobseeker)
		got := h.storeEcho()

		_, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID:    testUserID,
			Payload:   model.SavedJobPayload{JobID: testJobID, JobTitle: "Herder", Change: model.SavedJobClosed},
			RelatedID: ptrTo("custom"),
		})
		require.NoError(t, err)
		assert.Equal(t, "custom", *got.RelatedID)
		assert.Equal(t, "Saved Job Closed", got.Title)

		var meta map[string]any
		require.NoError(t, json.Unmarshal(got.Metadata, &meta))
		assert.Equal(t, "closed", meta["change"])
	})

	t.Run("input validation", func(t *testing.T) {
		h := newNotificationHarness(t)
		_, err := h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			Payload: model.NewJobMatchPayload{},
		})
		assert.True(t, apperrors.IsValidation(err))

		_, err = h.svc.CreateNotification(context.Background(), CreateNotificationParams{UserID: testUserID})
		assert.True(t, apperrors.IsValidation(err))

		_, err = h.svc.CreateNotification(context.Background(), CreateNotificationParams{
			UserID:  testUserID,
			Payload: model.SavedJobPayload{Change: "renamed"},
		})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestNotificationService_StatusWrapper(t *testing.T) {
	h := newNotificationHarness(t)
	h.expectUser(testUserID, auth.RoleJobseeker)
	got := h.storeEcho()

	ac := testAppContext()
	require.NoError(t, h.svc.NotifyJobseekerAboutApplicationStatus(context.Background(), ac, model.ApplicationStatusAccepted))
	assert.Equal(t, model.NotificationApplicationAccepted, got.Type)
	assert.Equal(t, "Application Accepted!", got.Title)
	assert.Equal(t, "Congratulations! Your application for Farm Manager at Green Acres has been accepted.", got.Message)

	err := h.svc.NotifyJobseekerAboutApplicationStatus(context.Background(), ac, model.ApplicationStatusPending)
	assert.True(t, apperrors.IsValidation(err))
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "You've Been Shortlisted!", TitleFor(model.NotificationApplicationShortlisted, "ignored"))
	assert.Equal(t, "short message", TitleFor("custom", "  short message "))

	long := strings.Repeat("é", 60)
	title := TitleFor("custom", long)
	assert.Equal(t, strings.Repeat("é", 50)+"...", title)
}

func TestComposeMessage(t *testing.T) {
	assert.Equal(t, "A jobseeker applied for Herder.",
		ComposeMessage(model.ApplicationReceivedPayload{JobTitle: "Herder"}))
	assert.Equal(t, "Green Acres posted Herder in Narok, matching your skills, job type.",
		ComposeMessage(model.NewJobMatchPayload{
			JobTitle: "Herder", CompanyName: "Green Acres", Location: "Narok",
			MatchReasons: []string{"skills", "job_type"},
		}))
	assert.Equal(t, "Herder at Green Acres has been filled.",
		ComposeMessage(model.SavedJobPayload{JobTitle: "Herder", CompanyName: "Green Acres", Change: model.SavedJobFilled}))
}

func TestNotificationService_GetNotifications(t *testing.T) {
	t.Run("restricted to the role's types", func(t *testing.T) {
		h := newNotificationHarness(t)
		unread := false
		h.repo.EXPECT().List(gomock.Any(), model.NotificationListOptions{
			UserID: testUserID,
			Types:  model.NotificationTypesForRole(auth.RoleEmployer),
			Read:   &unread,
			Page:   1,
			Limit:  20,
		}).Return(&model.NotificationPage{}, nil)

		_, err := h.svc.GetNotifications(context.Background(), ListNotificationsParams{
			UserID: testUserID, Role: auth.RoleEmployer, Read: &unread,
		})
		require.NoError(t, err)
	})

	t.Run("admins get an empty page without a query", func(t *testing.T) {
		h := newNotificationHarness(t)
		page, err := h.svc.GetNotifications(context.Background(), ListNotificationsParams{
			UserID: testUserID, Role: auth.RoleAdmin, Page: 2, Limit: 10,
		})
		require.NoError(t, err)
		assert.Empty(t, page.Notifications)
		assert.Equal(t, 0, page.Pagination.Total)
		assert.Equal(t, 2, page.Pagination.Page)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	key := "notifications:unread:" + testUserID
	genKey := "notifications:unread_gen:" + testUserID

	t.Run("cache hit", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.cache.EXPECT().Get(gomock.Any(), genKey).Return([]byte("g1"), nil)
		h.cache.EXPECT().Get(gomock.Any(), key).Return([]byte("g1:4"), nil)

		n, err := h.svc.UnreadCount(context.Background(), testUserID, auth.RoleJobseeker)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("cache miss reads through and stores", func(t *testing.T) {
		h := newNotificationHarness(t)
		gomock.InOrder(
			h.cache.EXPECT().Get(gomock.Any(), genKey).Return([]byte("g1"), nil),
			h.cache.EXPECT().Get(gomock.Any(), key).Return(nil, nil),
			h.repo.EXPECT().CountUnread(gomock.Any(), testUserID, model.NotificationTypesForRole(auth.RoleJobseeker)).
				Return(7, nil),
			h.cache.EXPECT().Set(gomock.Any(), key, []byte("g1:7"), time.Minute).Return(nil),
		)

		n, err := h.svc.UnreadCount(context.Background(), testUserID, auth.RoleJobseeker)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("cache failure falls back to the store without caching", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.cache.EXPECT().Get(gomock.Any(), genKey).Return(nil, errors.New("redis down"))
		h.repo.EXPECT().CountUnread(gomock.Any(), testUserID, gomock.Any()).Return(2, nil)

		n, err := h.svc.UnreadCount(context.Background(), testUserID, auth.RoleEmployer)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.cache.EXPECT().Get(gomock.Any(), genKey).Return(nil, nil)
		h.cache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
		h.repo.EXPECT().CountUnread(gomock.Any(), testUserID, gomock.Any()).Return(2, nil)
		h.cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		n, err := h.svc.UnreadCount(context.Background(), testUserID, auth.RoleEmployer)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("admins have nothing unread", func(t *testing.T) {
		h := newNotificationHarness(t)
		n, err := h.svc.UnreadCount(context.Background(), testUserID, auth.RoleAdmin)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

// A notification created while an unread count is in flight must not leave
// the pre-creation count cached.
func TestNotificationService_UnreadCountRacingCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	svc := MustNewNotificationService(NotificationServiceOptions{
		Repo:  repo,
		Users: users,
		Cache: core.NewNotificationCache(newMemoryCache(), core.NotificationCacheConfig{UnreadTTL: time.Minute}),
	})
	ctx := context.Background()

	var stored atomic.Int32
	users.EXPECT().GetByID(gomock.Any(), testUserID).
		Return(&model.User{ID: testUserID, Role: auth.RoleJobseeker, Status: "active"}, nil).AnyTimes()
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
			stored.Add(1)
			return &model.Notification{ID: "n-1", UserID: req.UserID, Type: req.Type}, nil
		})

	gomock.InOrder(
		// The first count reads zero, then a notification lands before the
		// count is cached.
		repo.EXPECT().CountUnread(gomock.Any(), testUserID, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ []model.NotificationType) (int, error) {
				_, err := svc.CreateNotification(ctx, CreateNotificationParams{
					UserID:  testUserID,
					Payload: model.NewJobMatchPayload{JobID: testJobID, JobTitle: "Herdsman"},
				})
				require.NoError(t, err)
				return 0, nil
			}),
		repo.EXPECT().CountUnread(gomock.Any(), testUserID, gomock.Any()).
			DoAndReturn(func(context.Context, string, []model.NotificationType) (int, error) {
				return int(stored.Load()), nil
			}),
	)

	first, err := svc.UnreadCount(ctx, testUserID, auth.RoleJobseeker)
	require.NoError(t, err)
	assert.Zero(t, first)

	second, err := svc.UnreadCount(ctx, testUserID, auth.RoleJobseeker)
	require.NoError(t, err)
	assert.Equal(t, 1, second, "stale count served from cache")

	// The fresh count is cached now.
	third, err := svc.UnreadCount(ctx, testUserID, auth.RoleJobseeker)
	require.NoError(t, err)
	assert.Equal(t, 1, third)
}

func TestNotificationService_ReadAndDelete(t *testing.T) {
	key := "notifications:unread:" + testUserID

	t.Run("mark read invalidates the cached count", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.repo.EXPECT().MarkRead(gomock.Any(), "n-1", testUserID).Return(nil)
		h.expectInvalidate()
		require.NoError(t, h.svc.MarkRead(context.Background(), "n-1", testUserID))
	})

	t.Run("foreign or missing notification", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.repo.EXPECT().MarkRead(gomock.Any(), "n-1", testUserID).Return(data.ErrNotificationNotFound)
		err := h.svc.MarkRead(context.Background(), "n-1", testUserID)
		assert.True(t, apperrors.IsNotFound(err))

		h.repo.EXPECT().Delete(gomock.Any(), "n-2", testUserID).Return(data.ErrNotificationNotFound)
		err = h.svc.Delete(context.Background(), "n-2", testUserID)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("mark all read reports the count", func(t *testing.T) {
		h := newNotificationHarness(t)
		h.repo.EXPECT().MarkAllRead(gomock.Any(), testUserID).Return(int64(3), nil)
		h.expectInvalidate()
		n, err := h.svc.MarkAllRead(context.Background(), testUserID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
