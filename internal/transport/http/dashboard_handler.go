package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"metricsboard/internal/config"
	"metricsboard/internal/dataprocessing"
	apierrors "metricsboard/internal/errors"
	"metricsboard/internal/services"
	"metricsboard/pkg/contracts"
	apiv1 "metricsboard/pkg/contracts/api/v1"
	"metricsboard/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

// Page messages for failures that have no user-facing error of their own
const (
	msgTooLarge   = "ファイルサイズが上限を超えています。"
	msgProcessing = "ファイルを処理できませんでした。"
)

// DashboardHandler serves the dashboard page and the dashboard API
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    StructValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	page         *template.Template
	fieldName    string
	accept       string
	maxMemory    int64
}

// pageData is the template model of the dashboard page
type pageData struct {
	Dashboard *domain.Dashboard
	FieldName string
	Accept    string
	Version   string
}

// NewDashboardHandler parses the page template and creates the handler
func NewDashboardHandler(service DashboardServiceInterface, validator StructValidator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger, upload config.UploadConfig) (*DashboardHandler, error) {
	page, err := template.ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &DashboardHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		page:         page,
		fieldName:    upload.FieldName,
		accept:       strings.Join(upload.Extensions, ","),
		maxMemory:    upload.MaxBytes,
	}, nil
}

// PageRoutes returns the HTML routes, mounted at "/"
func (h *DashboardHandler) PageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/", h.Upload)
	return r
}

// APIRoutes returns the JSON routes, mounted at "/api/dashboard"
func (h *DashboardHandler) APIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Build)
	r.Post("/export", h.Export)
	return r
}

// Ready reports whether the page template is loaded
func (h *DashboardHandler) Ready(ctx context.Context) error {
	if h.page == nil || h.page.Lookup("dashboard.html") == nil {
		return errors.New("dashboard template not loaded")
	}
	return nil
}

// Index handles GET / with the empty dashboard
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, domain.EmptyDashboard())
}

// Upload handles POST / and renders the dashboard or the error message
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.buildFromRequest(r)
	if err != nil {
		status, message := pageError(err)
		h.logger.WarnContext(r.Context(), "dashboard page upload failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		empty := domain.EmptyDashboard()
		empty.Error = message
		h.renderPage(w, r, status, empty)
		return
	}
	h.renderPage(w, r, http.StatusOK, dashboard)
}

// Build handles POST /api/dashboard
func (h *DashboardHandler) Build(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.buildFromRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadAPIError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, apiv1.NewDashboardResponse(dashboard))
}

// Export handles POST /api/dashboard/export?format=xlsx|csv
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := apiv1.ExportRequest{
		Format:   strings.ToLower(r.URL.Query().Get("format")),
		Filename: r.URL.Query().Get("filename"),
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	upload, err := h.readUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadAPIError(err))
		return
	}

	result, err := h.service.Export(r.Context(), upload, req.Format, req.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadAPIError(err))
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

func (h *DashboardHandler) buildFromRequest(r *http.Request) (*domain.Dashboard, error) {
	upload, err := h.readUpload(r)
	if err != nil {
		return nil, err
	}
	return h.service.Build(r.Context(), upload)
}

// readUpload returns the submitted file, or nil when the multipart form carries none
func (h *DashboardHandler) readUpload(r *http.Request) (*services.Upload, error) {
	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(h.fieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &services.Upload{Filename: header.Filename, Data: data}, nil
}

func (h *DashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, dashboard *domain.Dashboard) {
	var buf bytes.Buffer
	err := h.page.ExecuteTemplate(&buf, "dashboard.html", pageData{
		Dashboard: dashboard,
		FieldName: h.fieldName,
		Accept:    h.accept,
		Version:   contracts.GetVersionString(),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("render dashboard page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// uploadAPIError maps upload and parse failures to API errors; other errors pass through
func uploadAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFile):
		return apierrors.New(http.StatusBadRequest, apierrors.CodeMissingFile, err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.New(http.StatusUnsupportedMediaType, apierrors.CodeUnsupportedFormat, err.Error())
	case errors.Is(err, dataprocessing.ErrEmptyInput):
		return apierrors.UploadError(apierrors.CodeEmptyInput, err)
	case errors.Is(err, dataprocessing.ErrMalformedHeader):
		return apierrors.UploadError(apierrors.CodeMalformedHeader, err)
	case errors.Is(err, dataprocessing.ErrNoNumericData):
		return apierrors.UploadError(apierrors.CodeNoNumericData, err)
	case errors.Is(err, dataprocessing.ErrUnreadableInput):
		return apierrors.UploadError(apierrors.CodeUnreadableInput, err)
	}
	return err
}

// pageError returns the status and message shown on the HTML page
func pageError(err error) (int, string) {
	var apiErr *apierrors.APIError
	if errors.As(uploadAPIError(err), &apiErr) {
		return apiErr.StatusCode, apiErr.Message
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, msgTooLarge
	}
	return http.StatusInternalServerError, msgProcessing
}
