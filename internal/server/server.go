// Package server exposes the chart-of-accounts importer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/anggaran-dev/anggaran/internal/coa"
	"github.com/anggaran-dev/anggaran/internal/importer"
	"github.com/anggaran-dev/anggaran/internal/ledger"
	"github.com/anggaran-dev/anggaran/internal/model"
	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// MaxUploadSize caps the multipart body of an upload.
const MaxUploadSize = 32 << 20

// Server serves the import API.
type Server struct {
	pipeline *coa.Pipeline
	registry *importer.Registry
	ledger   ledger.Lister
	logger   *log.Logger
	router   *mux.Router

	// Imports for the same entity run one at a time.
	locks sync.Map // entity ID -> *sync.Mutex
}

// New creates a Server. pipeline must write to store.
func New(pipeline *coa.Pipeline, registry *importer.Registry, store ledger.Lister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		pipeline: pipeline,
		registry: registry,
		ledger:   store,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r := s.router.PathPrefix("/entities/{entity}/coa").Subrouter()
	r.HandleFunc("/preview", s.handlePreview).Methods(http.MethodPost)
	r.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)
	r.HandleFunc("/accounts", s.handleAccounts).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// PreviewResponse is the body of a successful preview.
type PreviewResponse struct {
	EntityID     string          `json:"entity_id"`
	HeaderRow    int             `json:"header_row"`
	Headers      []string        `json:"headers"`
	TotalRows    int             `json:"total_rows"`
	ValidRows    int             `json:"valid_rows"`
	RejectedRows int             `json:"rejected_rows"`
	Preview      []model.Account `json:"preview"`
	Findings     []coa.Finding   `json:"findings,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string            `json:"error"`
	Missing     []string          `json:"missing,omitempty"`
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	table, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	prep, err := s.pipeline.Prepare(table, entity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{
		EntityID:     entity,
		HeaderRow:    prep.HeaderRow,
		Headers:      prep.Headers,
		TotalRows:    len(prep.Rows),
		ValidRows:    len(prep.Accounts),
		RejectedRows: prep.Rejected,
		Preview:      s.pipeline.PreviewOf(prep),
		Findings:     prep.Findings,
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	table, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	mu := s.entityLock(entity)
	mu.Lock()
	defer mu.Unlock()

	var (
		sum *coa.Summary
		err error
	)
	if dryRun {
		sum, err = s.pipeline.DryRun(r.Context(), table, entity)
	} else {
		sum, err = s.pipeline.Import(r.Context(), table, entity)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	entity := mux.Vars(r)["entity"]
	accts, err := s.ledger.List(r.Context(), entity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if accts == nil {
		accts = []model.Account{}
	}
	writeJSON(w, http.StatusOK, accts)
}

// readUpload decodes the multipart "file" field. On failure it writes the
// response and returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([][]sheet.Cell, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form: " + err.Error()})
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing file field"})
		return nil, false
	}
	defer file.Close()

	table, err := s.registry.Decode(header.Filename, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			writeJSON(w, http.StatusUnsupportedMediaType, ErrorResponse{Error: err.Error()})
		} else {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return nil, false
	}
	s.logger.Debug("decoded upload", "file", header.Filename, "rows", len(table))
	return table, true
}

func (s *Server) entityLock(entity string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(entity, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := ErrorResponse{Error: err.Error()}

	var fe *coa.FormatError
	if errors.As(err, &fe) {
		body.Missing = fe.Missing
		body.Suggestions = fe.Suggestions
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
		body.Error = "failed to save accounts"
	} else {
		s.logger.Warn("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

// StatusFor maps pipeline errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, coa.ErrMissingEntity):
		return http.StatusBadRequest
	case errors.Is(err, coa.ErrFormatUnrecognized),
		errors.Is(err, coa.ErrEmptySource),
		errors.Is(err, coa.ErrNoValidRows):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
