package httpx

import (
	"log/slog"
	"net/http"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// JobHandlers provides HTTP handlers for job postings.
type JobHandlers struct {
	Svc    JobsService
	Logger *slog.Logger
}

// Get handles GET /jobs/{jobId}.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	job, err := h.Svc.Get(r.Context(), jobID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, job)
}

// Create handles POST /jobs.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.Create(r.Context(), p.UserID, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusCreated, job)
}

// Update handles PUT /jobs/{jobId}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req model.UpdateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	job, err := h.Svc.Update(r.Context(), p.UserID, jobID, &req)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, job)
}

// SetStatus handles PUT /jobs/{jobId}/status.
func (h *JobHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	var req statusRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	status, _ := model.ParseJobStatus(req.Status)
	job, err := h.Svc.SetStatus(r.Context(), p.UserID, jobID, status)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, job)
}

// Delete handles DELETE /jobs/{jobId}.
func (h *JobHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if err = h.Svc.Delete(r.Context(), p.UserID, jobID); err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]string{"id": jobID})
}
