package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/smartmarks/smartmarks-api/internal/codec"
	"github.com/smartmarks/smartmarks-api/internal/service"
)

// maxImportSize bounds uploaded import files (10MB).
const maxImportSize = 10 << 20

// TransferHandler handles bulk export and import. These are raw chi
// handlers: export serves non-JSON content types as downloads, import
// consumes multipart uploads.
type TransferHandler struct {
	importSvc *service.ImportService
	logger    *slog.Logger
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(importSvc *service.ImportService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{importSvc: importSvc, logger: logger}
}

// exportRequest is the optional POST body for a selective export.
type exportRequest struct {
	Format      string   `json:"format,omitempty"`
	BookmarkIDs []string `json:"bookmark_ids,omitempty"`
}

// Export serves the caller's bookmarks as a file download. GET exports
// everything in the format named by the query parameter; POST exports
// the bookmark IDs named in the body and rejects an empty selection.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rawFormat := r.URL.Query().Get("format")
	var ids []string

	if r.Method == http.MethodPost {
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Format != "" {
			rawFormat = req.Format
		}
		if len(req.BookmarkIDs) == 0 {
			writeError(w, http.StatusBadRequest, "no bookmarks selected")
			return
		}
		ids = req.BookmarkIDs
	}

	format, err := codec.ParseFormat(rawFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, err := h.importSvc.Export(r.Context(), userID, format, ids)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no bookmarks found")
			return
		}
		h.logger.Error("export failed", "user_id", userID, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	_, _ = w.Write(file.Content)
}

// Import creates bookmarks from an uploaded file. Expects multipart form
// data with a "file" part and an optional "format" field; the response
// reports per-record success, duplicate and failure counts.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	format, err := codec.ParseFormat(r.FormValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := h.importSvc.Import(r.Context(), userID, content, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
