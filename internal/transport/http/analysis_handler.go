// Package http contains the chi HTTP handlers for the analysis API.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"bizval/internal/config"
	apierrors "bizval/internal/errors"
	"bizval/internal/reports"
	"bizval/internal/services"
	"bizval/internal/validation"
	"bizval/internal/valuation"
	apiv1 "bizval/pkg/contracts/api/v1"
)

// AnalysisHandler handles extraction, valuation, SWOT, and report requests.
type AnalysisHandler struct {
	service  *services.AnalysisService
	renderer *reports.Renderer
	uploads  *validation.UploadValidator
	maxBytes int64
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, renderer *reports.Renderer, upload config.UploadConfig, logger *slog.Logger) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:  service,
		renderer: renderer,
		uploads:  validation.NewUploadValidator(upload, logger),
		maxBytes: upload.MaxFileSize,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "analysis")),
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/extract", h.Extract)
	r.Post("/valuation", h.Valuation)
	r.Post("/swot", h.Swot)
	r.Post("/analyze", h.Analyze)
	r.Post("/report", h.Report)

	return r
}

// Extract handles POST /api/extract: a multipart file upload that always
// yields a financial record, falling back to defaults on unusable input.
func (h *AnalysisHandler) Extract(w http.ResponseWriter, r *http.Request) {
	filename, data, apiErr := h.readUpload(w, r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	record := h.service.Extract(r.Context(), filename, data)
	render.JSON(w, r, apiv1.ExtractResponse{Filename: filename, CompanyData: record})
}

// Valuation handles POST /api/valuation.
func (h *AnalysisHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.decodeRequest(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	result, err := h.service.Value(r.Context(), req.CompanyData, req.GrowthRate, req.DiscountRate)
	if err != nil {
		h.renderValuationError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Swot handles POST /api/swot.
func (h *AnalysisHandler) Swot(w http.ResponseWriter, r *http.Request) {
	req, apiErr := h.decodeRequest(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	render.JSON(w, r, h.service.Swot(r.Context(), req.CompanyData))
}

// Analyze handles POST /api/analyze. It accepts either a JSON analysis
// request or a multipart file upload with optional rate form fields.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		filename, data, apiErr := h.readUpload(w, r)
		if apiErr != nil {
			render.Render(w, r, apiErr)
			return
		}

		result, err := h.service.AnalyzeFile(r.Context(), filename, data, 0, 0)
		if err != nil {
			h.renderValuationError(w, r, err)
			return
		}
		render.JSON(w, r, result)
		return
	}

	req, apiErr := h.decodeRequest(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	result, err := h.service.Analyze(r.Context(), req.CompanyData, req.GrowthRate, req.DiscountRate)
	if err != nil {
		h.renderValuationError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// Report handles POST /api/report?format=pdf|xlsx|txt: it runs the full
// analysis and streams back the rendered document.
func (h *AnalysisHandler) Report(w http.ResponseWriter, r *http.Request) {
	format := reports.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = reports.FormatPDF
	}

	req, apiErr := h.decodeRequest(r)
	if apiErr != nil {
		render.Render(w, r, apiErr)
		return
	}

	result, err := h.service.Analyze(r.Context(), req.CompanyData, req.GrowthRate, req.DiscountRate)
	if err != nil {
		h.renderValuationError(w, r, err)
		return
	}

	data, contentType, err := h.renderer.Render(result, format)
	if err != nil {
		if errors.Is(err, reports.ErrUnsupportedFormat) {
			render.Render(w, r, apierrors.ErrValidation("format", fmt.Sprintf("unsupported report format %q", format)))
			return
		}
		h.logger.ErrorContext(r.Context(), "report rendering failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.renderer.Filename(result, format)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decodeRequest decodes and validates the JSON analysis request body.
func (h *AnalysisHandler) decodeRequest(r *http.Request) (apiv1.AnalysisRequest, *apierrors.APIError) {
	var req apiv1.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return apiv1.AnalysisRequest{}, apierrors.InvalidRequestWithError(err)
	}

	if err := h.validate.Struct(req); err != nil {
		return apiv1.AnalysisRequest{}, apierrors.InvalidRequestWithError(err)
	}
	return req, nil
}

// readUpload reads the "file" part of a multipart upload, enforcing the
// configured size limit and allowed extensions.
func (h *AnalysisHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, *apierrors.APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, apierrors.ErrFileTooLarge
		}
		return "", nil, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, apierrors.ErrMissingFile
	}
	defer file.Close()

	if err := h.uploads.Validate(header.Filename, header.Size); err != nil {
		if errors.Is(err, validation.ErrFileTooLarge) {
			return "", nil, apierrors.ErrFileTooLarge
		}
		return "", nil, apierrors.ErrValidation("file", err.Error())
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, apierrors.InvalidRequestWithError(err)
	}

	h.logger.InfoContext(r.Context(), "file uploaded",
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)))
	return header.Filename, data, nil
}

// renderValuationError maps service errors onto API errors. Invalid rate
// configurations are the caller's fault; everything else is internal.
func (h *AnalysisHandler) renderValuationError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, valuation.ErrInvalidRates) {
		render.Render(w, r, apierrors.ValuationInputError(err))
		return
	}
	h.logger.ErrorContext(r.Context(), "analysis failed",
		slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrInternalServer)
}
