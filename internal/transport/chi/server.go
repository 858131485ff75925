package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/rankdex/internal/domain"
	"github.com/kailas-cloud/rankdex/internal/domain/document"
	"github.com/kailas-cloud/rankdex/internal/extract"
	logpkg "github.com/kailas-cloud/rankdex/internal/logger"
	"github.com/kailas-cloud/rankdex/internal/report"
	healthuc "github.com/kailas-cloud/rankdex/internal/usecase/health"
	screeninguc "github.com/kailas-cloud/rankdex/internal/usecase/screening"
	"github.com/kailas-cloud/rankdex/internal/version"
)

const (
	// DefaultMaxUploadBytes caps a request body.
	DefaultMaxUploadBytes = 64 << 20
	multipartMemory       = 8 << 20

	formatJSON = "json"
	formatCSV  = "csv"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the screening HTTP API.
type Server struct {
	screening      *screeninguc.Service
	batch          *extract.Batch
	registry       *extract.Registry
	health         *healthuc.Service
	logger         *zap.Logger
	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	screening *screeninguc.Service,
	batch *extract.Batch,
	registry *extract.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		screening:      screening,
		batch:          batch,
		registry:       registry,
		health:         health,
		logger:         logger,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		maxBytesHandler,
		sentinelHandler(domain.ErrTooLarge, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge),
		sentinelHandler(domain.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedFormat),
		sentinelHandler(context.Canceled, http.StatusRequestTimeout, ErrorCodeCancelled),
		sentinelHandler(context.DeadlineExceeded, http.StatusRequestTimeout, ErrorCodeCancelled),
	}
	return s
}

// WithMaxUploadBytes overrides the request body limit.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUploadBytes = n
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/screenings", s.CreateScreening)
	r.Post("/screenings/upload", s.UploadScreening)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type screeningParams struct {
	Format *string
	TopN   *int
}

func bindScreeningParams(r *http.Request) (screeningParams, error) {
	var p screeningParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "format", q, &p.Format); err != nil {
		return p, fmt.Errorf("invalid format parameter: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "top_n", q, &p.TopN); err != nil {
		return p, fmt.Errorf("invalid top_n parameter: %w", err)
	}
	if p.Format != nil {
		switch *p.Format {
		case formatJSON, formatCSV:
		default:
			return p, fmt.Errorf("format must be %q or %q, got %q", formatJSON, formatCSV, *p.Format)
		}
	}
	return p, nil
}

func (p screeningParams) format() string {
	if p.Format == nil {
		return formatJSON
	}
	return *p.Format
}

// CreateScreening handles POST /screenings.
func (s *Server) CreateScreening(w http.ResponseWriter, r *http.Request) {
	params, err := bindScreeningParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req ScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesHandler(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topN := 0
	if req.TopN != nil {
		topN = *req.TopN
	}
	if params.TopN != nil {
		topN = *params.TopN
	}

	s.screen(w, r, req.Query, req.Candidates, topN, params.format())
}

// UploadScreening handles POST /screenings/upload. The job description comes
// from the "query" field or a "query_file" text upload; every "resumes" file
// becomes a candidate named after the file.
func (s *Server) UploadScreening(w http.ResponseWriter, r *http.Request) {
	params, err := bindScreeningParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if maxBytesHandler(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid multipart body: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	query := r.FormValue("query")
	if strings.TrimSpace(query) == "" {
		query, err = s.queryFromFile(r.MultipartForm.File["query_file"])
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
	}

	files := r.MultipartForm.File["resumes"]
	sources := make([]extract.Source, 0, len(files))
	for _, fh := range files {
		data, err := readPart(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, fmt.Sprintf("read %s: %v", fh.Filename, err))
			return
		}
		sources = append(sources, extract.Source{Name: fh.Filename, Data: data})
	}

	candidates, err := s.batch.Run(r.Context(), sources, nil)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	topN := 0
	if params.TopN != nil {
		topN = *params.TopN
	}
	s.screen(w, r, query, candidates, topN, params.format())
}

func (s *Server) queryFromFile(files []*multipart.FileHeader) (string, error) {
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]
	switch extract.Format(fh.Filename) {
	case ".txt", ".md":
	default:
		return "", fmt.Errorf("job description %s must be a .txt or .md file: %w", fh.Filename, domain.ErrUnsupportedFormat)
	}
	data, err := readPart(fh)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	text, err := s.registry.Extract(fh.Filename, data)
	if err != nil {
		return "", fmt.Errorf("extract job description: %w", err)
	}
	return text, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read part: %w", err)
	}
	return data, nil
}

func (s *Server) screen(
	w http.ResponseWriter, r *http.Request,
	query string, candidates []document.Candidate, topN int, format string,
) {
	ranking, err := s.screening.Screen(r.Context(), query, candidates, topN)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if format == formatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.CSVFilename))
		w.WriteHeader(http.StatusOK)
		if err := report.WriteCSV(w, ranking.Results); err != nil {
			s.log(r).Warn("write csv response", zap.Error(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, ScreeningResponse{
		Results:         report.Rows(ranking.Results),
		VocabularySize:  ranking.Stats.VocabularySize,
		DegenerateQuery: ranking.Stats.DegenerateQuery,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if rep.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(rep.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationHandler reports the offending field of a validation error.
func validationHandler(w http.ResponseWriter, err error) bool {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, verr.Error())
		return true
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, domain.ErrInvalidInput.Error())
		return true
	}
	return false
}

func maxBytesHandler(w http.ResponseWriter, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.log(r)
	log.Warn("screening request failed", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func (s *Server) log(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}
