package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/soumenroy/portfolio/backend/internal/model"
	"github.com/soumenroy/portfolio/backend/internal/service"
)

const maxMessageLength = 5000

// SubmissionHandler handles contact submissions and the owner's
// admin listing.
type SubmissionHandler struct {
	submissionService service.SubmissionService

	// adminToken gates GET /api/admin/submissions. Empty disables the
	// endpoint entirely.
	adminToken string
}

// NewSubmissionHandler creates a SubmissionHandler with the given service.
func NewSubmissionHandler(submissionService service.SubmissionService, adminToken string) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, adminToken: adminToken}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl"`
}

// submitResponse is the uniform response envelope for POST /api/contact.
type submitResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Submit handles POST /api/contact.
//
// name and email are always required. For a general inquiry (no
// downloadUrl) subject and message are required too — the same rule
// the form applies before it ever reaches the network, enforced here
// as well so the two sides cannot drift. Persistence and notification
// failures do not change the response: a valid payload gets {ok:true}.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{OK: false, Error: "invalid_json"})
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, submitResponse{OK: false, Error: "name and email are required"})
		return
	}

	if req.DownloadURL == "" {
		if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, submitResponse{OK: false, Error: "subject and message are required"})
			return
		}
	}

	if len([]rune(req.Message)) > maxMessageLength {
		writeJSON(w, http.StatusBadRequest, submitResponse{OK: false, Error: "message_too_long"})
		return
	}

	rec := &model.SubmissionRecord{
		Name:          req.Name,
		Email:         req.Email,
		Contact:       req.Contact,
		Subject:       req.Subject,
		Message:       req.Message,
		DownloadURL:   req.DownloadURL,
		UserAgent:     r.Header.Get("User-Agent"),
		SourceAddress: sourceAddress(r),
	}

	if err := h.submissionService.Submit(r.Context(), rec); err != nil {
		writeJSON(w, http.StatusInternalServerError, submitResponse{OK: false, Error: "submit_failed"})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{OK: true})
}

// sourceAddress extracts the client address for the informational
// sourceAddress field: X-Forwarded-For, then X-Real-IP, then the
// direct peer address.
func sourceAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	return r.RemoteAddr
}

// adminListResponse is the JSON response for GET /api/admin/submissions.
type adminListResponse struct {
	Submissions []*model.SubmissionRecord `json:"submissions"`
}

// AdminList handles GET /api/admin/submissions.
// The endpoint exists only when ADMIN_TOKEN is configured and requires
// a matching X-Admin-Token header.
// Supports query params: kind (all/inquiry/download), limit, offset.
func (h *SubmissionHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if h.adminToken == "" {
		http.NotFound(w, r)
		return
	}
	if r.Header.Get("X-Admin-Token") != h.adminToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	opts := model.SubmissionListOptions{
		Kind:   r.URL.Query().Get("kind"),
		Limit:  20,
		Offset: 0,
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	submissions, err := h.submissionService.List(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list_failed"})
		return
	}

	// Return [] not null for empty lists
	if submissions == nil {
		submissions = []*model.SubmissionRecord{}
	}

	writeJSON(w, http.StatusOK, adminListResponse{Submissions: submissions})
}
