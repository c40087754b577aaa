package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps a single attachment at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadHandler handles attachment uploads for tickets.
type UploadHandler struct {
	TicketService TicketService
}

// Upload handles POST /api/upload/ticket/{id}. The file arrives in the
// multipart field "file"; the response carries the recorded attachment.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	a, err := h.TicketService.SaveAttachment(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		serviceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, a)
}
