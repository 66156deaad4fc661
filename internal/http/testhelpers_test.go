package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/agbarbie/Rural-Connect-sub000/internal/domain/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	mockauth "github.com/agbarbie/Rural-Connect-sub000/internal/mocks/auth"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

const (
	seekerToken   = "seeker-token"
	employerToken = "employer-token"
	adminToken    = "admin-token"

	seekerID   = "7f1c2d1e-1111-4a5b-8c9d-000000000001"
	employerID = "7f1c2d1e-2222-4a5b-8c9d-000000000002"
	jobID      = "7f1c2d1e-3333-4a5b-8c9d-000000000003"
	appID      = "7f1c2d1e-4444-4a5b-8c9d-000000000004"
)

var errNotStubbed = errors.New("not stubbed")

// fakeApplications is a func-field test double for ApplicationsService.
type fakeApplications struct {
	ApplyFunc         func(ctx context.Context, params service.ApplyParams) (*model.JobApplication, error)
	WithdrawFunc      func(ctx context.Context, userID, applicationID string) (*model.JobApplication, error)
	WithdrawByJobFunc func(ctx context.Context, userID, jobID string) (*model.JobApplication, error)
	UpdateFunc        func(ctx context.Context, params service.UpdateApplicationParams) (*model.JobApplication, error)
	StatusByEmpFunc   func(ctx context.Context, params service.EmployerStatusParams) (*model.JobApplication, error)
	StatusFunc        func(ctx context.Context, userID, jobID string) (*model.ApplicationStatusView, error)
	ListFunc          func(ctx context.Context, opts model.AppliedJobsListOptions) (*model.AppliedJobsPage, error)
	StatsFunc         func(ctx context.Context, userID string) (*model.ApplicationStats, error)
}

func (f *fakeApplications) Apply(ctx context.Context, p service.ApplyParams) (*model.JobApplication, error) {
	if f.ApplyFunc == nil {
		return nil, errNotStubbed
	}
	return f.ApplyFunc(ctx, p)
}

func (f *fakeApplications) Withdraw(ctx context.Context, userID, id string) (*model.JobApplication, error) {
	if f.WithdrawFunc == nil {
		return nil, errNotStubbed
	}
	return f.WithdrawFunc(ctx, userID, id)
}

func (f *fakeApplications) WithdrawByJob(ctx context.Context, userID, id string) (*model.JobApplication, error) {
	if f.WithdrawByJobFunc == nil {
		return nil, errNotStubbed
	}
	return f.WithdrawByJobFunc(ctx, userID, id)
}

func (f *fakeApplications) UpdateApplication(
	ctx context.Context,
	p service.UpdateApplicationParams,
) (*model.JobApplication, error) {
	if f.UpdateFunc == nil {
		return nil, errNotStubbed
	}
	return f.UpdateFunc(ctx, p)
}

func (f *fakeApplications) UpdateStatusByEmployer(
	ctx context.Context,
	p service.EmployerStatusParams,
) (*model.JobApplication, error) {
	if f.StatusByEmpFunc == nil {
		return nil, errNotStubbed
	}
	return f.StatusByEmpFunc(ctx, p)
}

func (f *fakeApplications) GetApplicationStatus(
	ctx context.Context,
	userID, jobID string,
) (*model.ApplicationStatusView, error) {
	if f.StatusFunc == nil {
		return nil, errNotStubbed
	}
	return f.StatusFunc(ctx, userID, jobID)
}

func (f *fakeApplications) GetAppliedJobs(
	ctx context.Context,
	opts model.AppliedJobsListOptions,
) (*model.AppliedJobsPage, error) {
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx, opts)
}

func (f *fakeApplications) GetStats(ctx context.Context, userID string) (*model.ApplicationStats, error) {
	if f.StatsFunc == nil {
		return nil, errNotStubbed
	}
	return f.StatsFunc(ctx, userID)
}

// fakeNotifications is a func-field test double for NotificationsService.
type fakeNotifications struct {
	ListFunc        func(ctx context.Context, p service.ListNotificationsParams) (*model.NotificationPage, error)
	UnreadFunc      func(ctx context.Context, userID string, role domainauth.Role) (int, error)
	MarkReadFunc    func(ctx context.Context, id, userID string) error
	MarkAllReadFunc func(ctx context.Context, userID string) (int64, error)
	DeleteFunc      func(ctx context.Context, id, userID string) error
}

func (f *fakeNotifications) GetNotifications(
	ctx context.Context,
	p service.ListNotificationsParams,
) (*model.NotificationPage, error) {
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx, p)
}

func (f *fakeNotifications) UnreadCount(ctx context.Context, userID string, role domainauth.Role) (int, error) {
	if f.UnreadFunc == nil {
		return 0, errNotStubbed
	}
	return f.UnreadFunc(ctx, userID, role)
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id, userID string) error {
	if f.MarkReadFunc == nil {
		return errNotStubbed
	}
	return f.MarkReadFunc(ctx, id, userID)
}

func (f *fakeNotifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if f.MarkAllReadFunc == nil {
		return 0, errNotStubbed
	}
	return f.MarkAllReadFunc(ctx, userID)
}

func (f *fakeNotifications) Delete(ctx context.Context, id, userID string) error {
	if f.DeleteFunc == nil {
		return errNotStubbed
	}
	return f.DeleteFunc(ctx, id, userID)
}

// fakeJobs is a func-field test double for JobsService.
type fakeJobs struct {
	GetFunc       func(ctx context.Context, jobID string) (*model.JobWithCompany, error)
	CreateFunc    func(ctx context.Context, userID string, req *model.CreateJobRequest) (*model.JobWithCompany, error)
	UpdateFunc    func(ctx context.Context, userID, jobID string, req *model.UpdateJobRequest) (*model.JobWithCompany, error)
	SetStatusFunc func(ctx context.Context, userID, jobID string, st model.JobStatus) (*model.JobWithCompany, error)
	DeleteFunc    func(ctx context.Context, userID, jobID string) error
}

func (f *fakeJobs) Get(ctx context.Context, jobID string) (*model.JobWithCompany, error) {
	if f.GetFunc == nil {
		return nil, errNotStubbed
	}
	return f.GetFunc(ctx, jobID)
}

func (f *fakeJobs) Create(ctx context.Context, userID string, req *model.CreateJobRequest) (*model.JobWithCompany, error) {
	if f.CreateFunc == nil {
		return nil, errNotStubbed
	}
	return f.CreateFunc(ctx, userID, req)
}

func (f *fakeJobs) Update(
	ctx context.Context,
	userID, jobID string,
	req *model.UpdateJobRequest,
) (*model.JobWithCompany, error) {
	if f.UpdateFunc == nil {
		return nil, errNotStubbed
	}
	return f.UpdateFunc(ctx, userID, jobID, req)
}

func (f *fakeJobs) SetStatus(
	ctx context.Context,
	userID, jobID string,
	st model.JobStatus,
) (*model.JobWithCompany, error) {
	if f.SetStatusFunc == nil {
		return nil, errNotStubbed
	}
	return f.SetStatusFunc(ctx, userID, jobID, st)
}

func (f *fakeJobs) Delete(ctx context.Context, userID, jobID string) error {
	if f.DeleteFunc == nil {
		return errNotStubbed
	}
	return f.DeleteFunc(ctx, userID, jobID)
}

// fakeBookmarks is a func-field test double for BookmarksService.
type fakeBookmarks struct {
	SaveFunc   func(ctx context.Context, userID, jobID string) (*model.Bookmark, error)
	RemoveFunc func(ctx context.Context, userID, jobID string) error
	ListFunc   func(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error)
}

func (f *fakeBookmarks) Save(ctx context.Context, userID, jobID string) (*model.Bookmark, error) {
	if f.SaveFunc == nil {
		return nil, errNotStubbed
	}
	return f.SaveFunc(ctx, userID, jobID)
}

func (f *fakeBookmarks) Remove(ctx context.Context, userID, jobID string) error {
	if f.RemoveFunc == nil {
		return errNotStubbed
	}
	return f.RemoveFunc(ctx, userID, jobID)
}

func (f *fakeBookmarks) List(ctx context.Context, opts model.BookmarkListOptions) (*model.SavedJobsPage, error) {
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx, opts)
}

// testRouter bundles the fakes behind a router with three known callers.
type testRouter struct {
	apps      *fakeApplications
	notes     *fakeNotifications
	jobs      *fakeJobs
	bookmarks *fakeBookmarks
	handler   http.Handler
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	verifier := mockauth.NewStaticVerifier().
		Add(seekerToken, domainauth.Principal{UserID: seekerID, Role: domainauth.RoleJobseeker}).
		Add(employerToken, domainauth.Principal{UserID: employerID, Role: domainauth.RoleEmployer}).
		Add(adminToken, domainauth.Principal{UserID: "admin-1", Role: domainauth.RoleAdmin})

	tr := &testRouter{
		apps:      &fakeApplications{},
		notes:     &fakeNotifications{},
		jobs:      &fakeJobs{},
		bookmarks: &fakeBookmarks{},
	}
	tr.handler = NewRouter(RouterServices{
		Applications:  tr.apps,
		Notifications: tr.notes,
		Jobs:          tr.jobs,
		Bookmarks:     tr.bookmarks,
		Verifier:      verifier,
		MaxBodyBytes:  1 << 16,
	})
	return tr
}

// do sends a request as the holder of token; an empty token sends none.
func (tr *testRouter) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

type decodedEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Field   string          `json:"field"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, env decodedEnvelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
