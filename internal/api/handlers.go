package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/loglens/loglens/internal/ingest"
	"github.com/loglens/loglens/internal/llm"
	"github.com/loglens/loglens/pkg/models"
)

// analyzeRequest is the JSON body of the single-blob endpoint.
type analyzeRequest struct {
	Logs string `json:"logs"`
}

// preAnalysis is the sensing-layer part of the response envelope.
type preAnalysis struct {
	ParsedEntries     int                   `json:"parsed_entries"`
	LogLevels         map[string]int        `json:"log_levels"`
	Components        []string              `json:"components"`
	MetricsSummary    models.MetricsSummary `json:"metrics_summary"`
	AnomaliesDetected int                   `json:"anomalies_detected"`
	CorrelationsFound int                   `json:"correlations_found"`
	HealthScore       int                   `json:"health_score"`
	DroppedLines      int                   `json:"dropped_lines"`
}

// analyzeResponse pairs the deterministic pre-analysis with the reasoning
// layer's bottleneck report.
type analyzeResponse struct {
	PreAnalysis preAnalysis       `json:"pre_analysis"`
	LLMAnalysis *models.Reasoning `json:"llm_analysis"`
}

// handleAnalyze accepts a single text blob, runs the sensing pipeline, and
// forwards the compact context plus the raw input to the reasoning layer.
// POST /api/v1/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Rejecting empty input is this shell's job; the core itself would
	// happily return a zero-entry report.
	if strings.TrimSpace(req.Logs) == "" {
		s.respondError(w, http.StatusBadRequest, "no logs provided")
		return
	}

	report := s.analyzer.Analyze(req.Logs)
	log.Printf("analysis complete: %d entries, %d anomalies, %d correlations",
		report.EntryCount, len(report.Anomalies), len(report.Correlations))

	enriched := report.LLMContext + "\n\n### Raw Logs:\n" + req.Logs
	reasoning, latency, err := s.reasoner.Reason(r.Context(), enriched)
	if err != nil {
		s.respondReasonerError(w, err)
		return
	}
	log.Printf("reasoning complete in %dms", latency)

	s.respondJSON(w, http.StatusOK, analyzeResponse{
		PreAnalysis: preAnalysis{
			ParsedEntries:     report.EntryCount,
			LogLevels:         report.LevelCounts,
			Components:        report.Components,
			MetricsSummary:    report.Metrics,
			AnomaliesDetected: len(report.Anomalies),
			CorrelationsFound: len(report.Correlations),
			HealthScore:       report.HealthScore,
			DroppedLines:      report.DroppedLines,
		},
		LLMAnalysis: reasoning,
	})
}

// multiPreAnalysis carries the full anomaly and correlation lists, since
// multi-file callers aggregate across sources themselves.
type multiPreAnalysis struct {
	ParsedEntries  int                   `json:"parsed_entries"`
	LogLevels      map[string]int        `json:"log_levels"`
	Components     []string              `json:"components"`
	MetricsSummary models.MetricsSummary `json:"metrics_summary"`
	Anomalies      []string              `json:"anomalies"`
	Correlations   []string              `json:"correlations"`
	HealthScore    int                   `json:"health_score"`
	DroppedLines   int                   `json:"dropped_lines"`
}

// multiAnalyzeResponse adds per-file summaries to the envelope.
type multiAnalyzeResponse struct {
	Files       []models.FileSummary `json:"files"`
	PreAnalysis multiPreAnalysis     `json:"pre_analysis"`
	LLMAnalysis *models.Reasoning    `json:"llm_analysis"`
}

// handleAnalyzeFiles accepts multiple uploaded files, flattens them into
// one blob with the same field-aliasing heuristics as the single path,
// and merges CSV-harvested metric series into the core's before reasoning.
// POST /api/v1/analyze/files
func (s *Server) handleAnalyzeFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	files, failed := s.collectUploads(headers)

	merged := ingest.Merge(files)
	report := s.analyzer.Analyze(merged.Text)

	metrics := ingest.CombineMetrics(report.Metrics, merged)
	enriched := report.LLMContext + ingest.AggregatedContext(metrics)

	reasoning, latency, err := s.reasoner.Reason(r.Context(), enriched)
	if err != nil {
		s.respondReasonerError(w, err)
		return
	}
	log.Printf("multi-file reasoning complete in %dms (%d files)", latency, len(files))

	s.respondJSON(w, http.StatusOK, multiAnalyzeResponse{
		Files: append(merged.Files, failed...),
		PreAnalysis: multiPreAnalysis{
			ParsedEntries:  report.EntryCount,
			LogLevels:      report.LevelCounts,
			Components:     report.Components,
			MetricsSummary: metrics,
			Anomalies:      report.Anomalies,
			Correlations:   report.Correlations,
			HealthScore:    report.HealthScore,
			DroppedLines:   report.DroppedLines,
		},
		LLMAnalysis: reasoning,
	})
}

// collectUploads reads each uploaded file into memory. Files whose stream
// cannot be opened or read are reported as failed instead of silently
// vanishing from the response.
func (s *Server) collectUploads(headers []*multipart.FileHeader) ([]ingest.File, []models.FileSummary) {
	files := make([]ingest.File, 0, len(headers))
	var failed []models.FileSummary

	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			failed = append(failed, models.FileSummary{Filename: header.Filename, Status: "failed_read"})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.maxUploadBytes))
		f.Close()
		if err != nil {
			failed = append(failed, models.FileSummary{Filename: header.Filename, Status: "failed_read"})
			continue
		}
		files = append(files, ingest.File{Name: header.Filename, Data: data})
	}
	return files, failed
}

// respondReasonerError maps reasoning-layer failures onto HTTP statuses.
// The deterministic pre-analysis is never the cause: by the time the
// reasoner runs, the core has already succeeded.
func (s *Server) respondReasonerError(w http.ResponseWriter, err error) {
	switch {
	case llm.IsUnavailable(err):
		s.respondJSON(w, http.StatusBadGateway, map[string]string{
			"error": err.Error(),
			"type":  "llm_unavailable",
		})
	case llm.IsMalformedReply(err):
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
			"type":  "json_parse_error",
		})
	default:
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
			"type":  "backend_error",
		})
	}
}
