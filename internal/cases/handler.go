package cases

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/casetrail/casetrail/internal/workflow"
	"github.com/casetrail/casetrail/pkg/handlers"
	"github.com/casetrail/casetrail/pkg/routes"
)

const defaultListLimit = 50

// Handler provides HTTP endpoints for case operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// ProcessRequest is the JSON body accepted by the process endpoint when no
// attachments are being submitted inline.
type ProcessRequest struct {
	CaseID   string                `json:"case_id"`
	Metadata workflow.CaseMetadata `json:"metadata"`
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "cases"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for case endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/process", Handler: h.Process},
		},
	}
}

// Process accepts either a multipart form with attachments or a JSON body,
// runs the analysis pipeline for the case, and returns the resulting summary.
// The case id is resolved from the query string first, then from the body.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	cmd, err := h.parseProcessRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	rec, err := h.sys.Process(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec.Summary)
}

// Find returns a single case record by its id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// List returns the stored records for a case, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	recs, err := h.sys.List(r.Context(), r.URL.Query().Get("case_id"), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, recs)
}

func (h *Handler) parseProcessRequest(r *http.Request) (ProcessCommand, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return h.parseMultipart(r)
	}
	return h.parseJSON(r)
}

func (h *Handler) parseJSON(r *http.Request) (ProcessCommand, error) {
	var req ProcessRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ProcessCommand{}, classifyBodyError(err)
		}
	}

	return ProcessCommand{
		CaseID:   resolveCaseID(r, req.CaseID),
		Metadata: req.Metadata,
	}, nil
}

func (h *Handler) parseMultipart(r *http.Request) (ProcessCommand, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return ProcessCommand{}, classifyBodyError(err)
	}

	cmd := ProcessCommand{
		CaseID: resolveCaseID(r, r.FormValue("case_id")),
	}

	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cmd.Metadata); err != nil {
			return ProcessCommand{}, ErrInvalidRequest
		}
	}

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			return ProcessCommand{}, ErrInvalidRequest
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return ProcessCommand{}, ErrInvalidRequest
		}

		contentType := detectContentType(header.Header.Get("Content-Type"), data)
		h.logPageCount(header.Filename, data, contentType)

		cmd.Uploads = append(cmd.Uploads, Upload{
			Filename:    header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return cmd, nil
}

func (h *Handler) logPageCount(filename string, data []byte, contentType string) {
	if contentType != "application/pdf" {
		return
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		h.logger.Warn("failed to extract PDF page count", "filename", filename, "error", err)
		return
	}

	h.logger.Info("attachment received", "filename", filename, "page_count", count)
}

// classifyBodyError separates the upload size limit from malformed input.
func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return ErrFileTooLarge
	}
	return ErrInvalidRequest
}

func resolveCaseID(r *http.Request, fromBody string) string {
	if id := r.URL.Query().Get("case_id"); id != "" {
		return id
	}
	return fromBody
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
