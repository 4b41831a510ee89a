package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mlipski/salesledger/internal/importer"
)

type Handler struct {
	svc           *importer.Service
	maxUploadSize int64
}

func NewHandler(svc *importer.Service, maxUploadSize int64) *Handler {
	return &Handler{svc: svc, maxUploadSize: maxUploadSize}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/upload", h.upload)
}

type uploadResponse struct {
	Message        string              `json:"message"`
	ProcessedCount int                 `json:"processed_count"`
	ErrorCount     int                 `json:"error_count"`
	Errors         []importer.RowError `json:"errors"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "file size exceeds upload limit", http.StatusRequestEntityTooLarge)
			return
		}

		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)

		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		http.Error(w, "file must be a CSV file", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(r.Context(), file, header.Filename)
	if err != nil {
		http.Error(w, "failed to process CSV file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := uploadResponse{
		Message:        "CSV file processed",
		ProcessedCount: result.ProcessedCount,
		ErrorCount:     result.ErrorCount,
		Errors:         result.Errors,
	}
	if resp.Errors == nil {
		resp.Errors = []importer.RowError{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
