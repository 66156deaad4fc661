package httpx

import (
	"log/slog"
	"net/http"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

// ApplicationHandlers provides HTTP handlers for job applications.
type ApplicationHandlers struct {
	Svc    ApplicationsService
	Logger *slog.Logger
}

// applyRequest is the body of POST /jobs/{jobId}/apply.
type applyRequest struct {
	CoverLetter      string   `json:"coverLetter"`
	ResumeID         *string  `json:"resumeId"`
	PortfolioURL     *string  `json:"portfolioUrl"`
	ExpectedSalary   *float64 `json:"expectedSalary"`
	AvailabilityDate *Date    `json:"availabilityDate"`
}

// updateApplicationRequest is the body of PUT /applications/{id}; absent fields are unchanged.
type updateApplicationRequest struct {
	CoverLetter      *string  `json:"coverLetter"`
	ResumeID         *string  `json:"resumeId"`
	PortfolioURL     *string  `json:"portfolioUrl"`
	ExpectedSalary   *float64 `json:"expectedSalary"`
	AvailabilityDate *Date    `json:"availabilityDate"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Apply handles POST /jobs/{jobId}/apply.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req applyRequest
	if !DecodeOptionalJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Apply(r.Context(), service.ApplyParams{
		UserID: p.UserID,
		JobID:  jobID,
		Input: model.ApplicationInput{
			CoverLetter:      req.CoverLetter,
			ResumeID:         req.ResumeID,
			PortfolioURL:     req.PortfolioURL,
			ExpectedSalary:   req.ExpectedSalary,
			AvailabilityDate: req.AvailabilityDate.timePtr(),
		},
	})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusCreated, app)
}

// WithdrawByJob handles DELETE /jobs/{jobId}/withdraw.
func (h *ApplicationHandlers) WithdrawByJob(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	app, err := h.Svc.WithdrawByJob(r.Context(), p.UserID, jobID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, app)
}

// Withdraw handles DELETE /applications/{id}.
func (h *ApplicationHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	app, err := h.Svc.Withdraw(r.Context(), p.UserID, id)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, app)
}

// Update handles PUT /applications/{id}.
func (h *ApplicationHandlers) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req updateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.UpdateApplication(r.Context(), service.UpdateApplicationParams{
		UserID:        p.UserID,
		ApplicationID: id,
		Patch: model.ApplicationPatch{
			CoverLetter:      req.CoverLetter,
			ResumeID:         req.ResumeID,
			PortfolioURL:     req.PortfolioURL,
			ExpectedSalary:   req.ExpectedSalary,
			AvailabilityDate: req.AvailabilityDate.timePtr(),
		},
	})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, app)
}

// UpdateStatus handles PUT /applications/{id}/status for employers.
func (h *ApplicationHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	id, err := pathID(r, "id")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req statusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	status, _ := model.ParseApplicationStatus(req.Status)

	app, err := h.Svc.UpdateStatusByEmployer(r.Context(), service.EmployerStatusParams{
		EmployerUserID: p.UserID,
		ApplicationID:  id,
		Status:         status,
	})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, app)
}

// Status handles GET /jobs/{jobId}/application-status.
func (h *ApplicationHandlers) Status(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	view, err := h.Svc.GetApplicationStatus(r.Context(), p.UserID, jobID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, view)
}

// List handles GET /applications.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	page, limit := parsePage(r)
	opts := model.AppliedJobsListOptions{UserID: p.UserID, Page: page, Limit: limit}
	if raw := r.URL.Query().Get("status"); raw != "" {
		// Unknown values are passed through so the service reports them.
		st, _ := model.ParseApplicationStatus(raw)
		opts.Status = &st
	}

	out, err := h.Svc.GetAppliedJobs(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, out)
}

// Stats handles GET /applications/stats.
func (h *ApplicationHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	stats, err := h.Svc.GetStats(r.Context(), p.UserID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, stats)
}
