package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizval/internal/config"
	"bizval/internal/dataprocessing"
	"bizval/internal/extraction"
	"bizval/internal/reports"
	"bizval/internal/services"
	"bizval/internal/swot"
	"bizval/internal/valuation"
	apiv1 "bizval/pkg/contracts/api/v1"
	"bizval/pkg/contracts/domain"
)

func newTestHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	svc := services.NewAnalysisService(
		dataprocessing.NewParser(nil),
		extraction.NewExtractor(nil),
		valuation.NewEngine(nil),
		swot.NewAnalyzer(nil, time.Second, nil),
		nil,
	)
	upload := config.UploadConfig{
		MaxFileSize:       1 << 20,
		AllowedExtensions: []string{".xlsx", ".xls", ".csv", ".pdf"},
	}
	return NewAnalysisHandler(svc, reports.NewRenderer(nil), upload, nil)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func analysisBody(t *testing.T, rec domain.FinancialRecord, growth, discount float64) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(apiv1.AnalysisRequest{
		CompanyData:  rec,
		GrowthRate:   growth,
		DiscountRate: discount,
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func healthyCompany() domain.FinancialRecord {
	return domain.FinancialRecord{
		CompanyName:      "Alard Industries",
		Industry:         "Manufacturing",
		Revenue:          10_900_000,
		EBITDA:           1_800_000,
		GrossProfit:      2_835_009,
		TotalAssets:      8_500_000,
		TotalLiabilities: 3_200_000,
		Cash:             700_000,
		Employees:        85,
	}
}

func TestExtractCSVUpload(t *testing.T) {
	h := newTestHandler(t)

	body, contentType := multipartBody(t, "metrics.csv", []byte("Metric,Value\nRevenue,5000000\nEBITDA,750000\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "metrics.csv", resp.Filename)
	assert.Equal(t, float64(5_000_000), resp.CompanyData.Revenue)
}

func TestExtractMissingFile(t *testing.T) {
	h := newTestHandler(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FILE")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	h := newTestHandler(t)

	body, contentType := multipartBody(t, "malware.exe", []byte("nope"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestExtractCorruptFileStillSucceeds(t *testing.T) {
	h := newTestHandler(t)

	body, contentType := multipartBody(t, "broken.xlsx", []byte("not a workbook"))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiv1.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.EmptyRecord(), resp.CompanyData)
}

func TestValuationEndpoint(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/valuation", analysisBody(t, healthyCompany(), 0.03, 0.12))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ValuationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Positive(t, result.ValuationRange.Mid)
	assert.Positive(t, result.AssetBased)
}

func TestValuationInvalidRates(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/valuation", analysisBody(t, healthyCompany(), 0.12, 0.12))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALUATION_INPUT")
}

func TestValuationMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/valuation", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestValuationRejectsOutOfRangeRates(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/valuation", analysisBody(t, healthyCompany(), -0.5, 0.12))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwotEndpoint(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/swot", analysisBody(t, healthyCompany(), 0, 0))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.SwotResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.AnalysisTypeRuleBased, result.AnalysisType)
	assert.NotEmpty(t, result.Strengths)
	assert.NotEmpty(t, result.Threats)
}

func TestAnalyzeEndpointJSON(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", analysisBody(t, healthyCompany(), 0, 0))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Alard Industries", result.Record.CompanyName)
	assert.Positive(t, result.Valuation.ValuationRange.High)
	assert.NotEmpty(t, result.ExecutiveSummary)
}

func TestAnalyzeEndpointMultipart(t *testing.T) {
	h := newTestHandler(t)

	body, contentType := multipartBody(t, "metrics.csv", []byte("Metric,Value\nRevenue,10900000\nEBITDA,1800000\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, float64(10_900_000), result.Record.Revenue)
}

func TestReportEndpointPDF(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report?format=pdf", analysisBody(t, healthyCompany(), 0, 0))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "valuation_report_")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestReportEndpointText(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report?format=txt", analysisBody(t, healthyCompany(), 0, 0))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BUSINESS VALUATION REPORT")
}

func TestReportEndpointUnsupportedFormat(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/report?format=docx", analysisBody(t, healthyCompany(), 0, 0))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHealthHandler("1.2.3", true, false, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.True(t, status.AIEnabled)
	assert.False(t, status.DatabaseEnabled)
}
