// Package server serves the upload form, the HTML result page and the JSON
// flags API.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/finance-flags/internal/flags"
	"github.com/iwvelando/finance-flags/pkg/constants"
	"github.com/iwvelando/finance-flags/pkg/format"
	"github.com/iwvelando/finance-flags/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/*.html
var templateFiles embed.FS

// Error codes returned in JSON error bodies.
const (
	ErrCodeMalformedDocument  = "MALFORMED_DOCUMENT"
	ErrCodeNoReportingPeriods = "NO_REPORTING_PERIODS"
	ErrCodeMissingFile        = "MISSING_FILE"
	ErrCodeUploadTooLarge     = "UPLOAD_TOO_LARGE"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternal           = "INTERNAL_SERVER_ERROR"
)

type handler struct {
	logger        *zap.Logger
	evaluator     *flags.Evaluator
	maxUploadSize int64
	version       string
	resultPage    *template.Template
}

// NewHandler constructs the HTTP handler that serves the web UI and flags API.
func NewHandler(logger *zap.Logger, evaluator *flags.Evaluator, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = flags.NewEvaluator(logger, flags.DefaultOptions())
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	resultPage := template.Must(template.New("result.html").Funcs(template.FuncMap{
		"metric":    format.Metric,
		"flagClass": format.FlagClass,
	}).ParseFS(templateFiles, "templates/result.html"))

	h := &handler{
		logger:        logger,
		evaluator:     evaluator,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		resultPage:    resultPage,
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)
	r.MethodNotAllowed(h.handleMethodNotAllowed)

	r.Get("/healthz", h.handleHealth)
	r.Get("/api/version", h.handleVersion)
	r.Post("/api/flags", h.handleFlags)

	// Form upload rendering the result page directly.
	r.Post("/success", h.handleUpload)
	r.Get("/result", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	// Static routes are listed explicitly; a catch-all would shadow 405s.
	fileServer := http.FileServer(http.FS(sub))
	r.Get("/", fileServer.ServeHTTP)
	r.Get("/style.css", fileServer.ServeHTTP)

	return r
}

type flagsResponse struct {
	flags.Report
	Duration  string `json:"duration"`
	RequestID string `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

type resultPageData struct {
	Report    *flags.Report
	Rows      []output.Row
	Error     string
	RequestID string
}

// requestError is a failure with its HTTP status and error code.
type requestError struct {
	status int
	code   string
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func (h *handler) handleFlags(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFlags"
	start := time.Now()

	report, reqErr := h.evaluateRequest(w, r, op)
	if reqErr != nil {
		h.respondError(w, r, reqErr, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("flags computed",
		zap.String("op", op),
		zap.String("requestId", RequestIDFromContext(r.Context())),
		zap.Int("reportingPeriod", report.ReportingPeriod),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, flagsResponse{
		Report:    report,
		Duration:  elapsed.String(),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"

	data := resultPageData{RequestID: RequestIDFromContext(r.Context())}
	status := http.StatusOK

	report, reqErr := h.evaluateRequest(w, r, op)
	if reqErr != nil {
		h.logFailure(r, reqErr, op)
		status = reqErr.status
		data.Error = reqErr.msg
	} else {
		data.Report = &report
		data.Rows = output.Rows(report)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.resultPage.Execute(w, data); err != nil {
		h.logger.Error("failed to render result page",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error:     http.StatusText(http.StatusMethodNotAllowed),
		Code:      ErrCodeMethodNotAllowed,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// evaluateRequest reads the document from a multipart "file" field or from
// the raw request body, then evaluates it.
func (h *handler) evaluateRequest(w http.ResponseWriter, r *http.Request, op string) (flags.Report, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	body, closeBody, reqErr := h.documentReader(r, op)
	if reqErr != nil {
		return flags.Report{}, reqErr
	}
	defer closeBody()

	doc, err := flags.DecodePayload(body)
	if err != nil {
		if tooLarge := h.uploadTooLarge(err); tooLarge != nil {
			return flags.Report{}, tooLarge
		}
		return flags.Report{}, &requestError{status: http.StatusBadRequest, code: ErrCodeMalformedDocument, msg: err.Error()}
	}

	report, err := h.evaluator.Assess(doc)
	switch {
	case errors.Is(err, flags.ErrNoReportingPeriods):
		return flags.Report{}, &requestError{status: http.StatusUnprocessableEntity, code: ErrCodeNoReportingPeriods, msg: err.Error()}
	case errors.Is(err, flags.ErrMalformedDocument):
		return flags.Report{}, &requestError{status: http.StatusBadRequest, code: ErrCodeMalformedDocument, msg: err.Error()}
	case err != nil:
		return flags.Report{}, &requestError{status: http.StatusInternalServerError, code: ErrCodeInternal, msg: err.Error()}
	}
	return report, nil
}

func (h *handler) documentReader(r *http.Request, op string) (io.Reader, func(), *requestError) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, func() {}, nil
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if tooLarge := h.uploadTooLarge(err); tooLarge != nil {
			return nil, nil, tooLarge
		}
		return nil, nil, &requestError{status: http.StatusBadRequest, code: ErrCodeMalformedDocument,
			msg: fmt.Sprintf("failed to parse upload: %v", err)}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, &requestError{status: http.StatusBadRequest, code: ErrCodeMissingFile, msg: "missing financial document file"}
	}
	closeFile := func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}
	return file, closeFile, nil
}

func (h *handler) uploadTooLarge(err error) *requestError {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return &requestError{status: http.StatusRequestEntityTooLarge, code: ErrCodeUploadTooLarge,
			msg: fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize)}
	}
	return nil
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, reqErr *requestError, op string) {
	h.logFailure(r, reqErr, op)
	h.writeJSON(w, reqErr.status, errorResponse{
		Error:     reqErr.msg,
		Code:      reqErr.code,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (h *handler) logFailure(r *http.Request, reqErr *requestError, op string) {
	h.logger.Error("flags request failed",
		zap.String("op", op),
		zap.String("requestId", RequestIDFromContext(r.Context())),
		zap.Int("status", reqErr.status),
		zap.String("code", reqErr.code),
		zap.String("error", reqErr.msg),
	)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
