package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/soumenroy/portfolio/backend/internal/storage"
)

// DownloadHandler serves the site's downloadable assets (CV variants)
// referenced by download-request submissions.
type DownloadHandler struct {
	assets storage.AssetStore
}

// NewDownloadHandler creates a DownloadHandler over the given store.
func NewDownloadHandler(assets storage.AssetStore) *DownloadHandler {
	return &DownloadHandler{assets: assets}
}

// Get handles GET /files/{name}.
func (h *DownloadHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	f, size, err := h.assets.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename=`+strconv.Quote(name))
	_, _ = io.Copy(w, f)
}
