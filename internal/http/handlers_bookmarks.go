package httpx

import (
	"log/slog"
	"net/http"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

// BookmarkHandlers provides HTTP handlers for saved jobs.
type BookmarkHandlers struct {
	Svc    BookmarksService
	Logger *slog.Logger
}

// Save handles POST /jobs/{jobId}/bookmark.
func (h *BookmarkHandlers) Save(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	b, err := h.Svc.Save(r.Context(), p.UserID, jobID)
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusCreated, b)
}

// Remove handles DELETE /jobs/{jobId}/bookmark.
func (h *BookmarkHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	jobID, err := pathID(r, "jobId")
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	if err = h.Svc.Remove(r.Context(), p.UserID, jobID); err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, map[string]string{"job_id": jobID})
}

// List handles GET /bookmarks.
func (h *BookmarkHandlers) List(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	page, limit := parsePage(r)
	out, err := h.Svc.List(r.Context(), model.BookmarkListOptions{UserID: p.UserID, Page: page, Limit: limit})
	if err != nil {
		WriteServiceError(w, r, h.Logger, err)
		return
	}
	WriteData(w, http.StatusOK, out)
}
