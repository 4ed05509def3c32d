package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hazyhaar/dergi-arsiv/pkg/catalog"
	"github.com/hazyhaar/dergi-arsiv/pkg/gamemap"
	"github.com/hazyhaar/dergi-arsiv/pkg/kit"
)

// maxUploadBytes bounds the upload endpoint; the index export is well
// under a megabyte.
const maxUploadBytes = 20 << 20

// Config wires the router's collaborators.
type Config struct {
	Catalog *catalog.Catalog
	Games   *gamemap.Mapping
	Logger  *slog.Logger
	// DatasetDir is where uploads replace the data file. Empty disables upload.
	DatasetDir string
	// UploadPassword guards POST /v1/upload. Empty disables upload.
	UploadPassword string
}

// NewRouter returns an http.Handler with all catalog API routes.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := &handler{
		cfg:           cfg,
		listArticles:  logged(cfg.Logger, "list_articles", listArticlesEndpoint(cfg.Catalog, cfg.Games)),
		listIssues:    logged(cfg.Logger, "list_issues", listIssuesEndpoint(cfg.Catalog, cfg.Games)),
		issueArticles: logged(cfg.Logger, "issue_articles", issueArticlesEndpoint(cfg.Catalog, cfg.Games)),
		years:         logged(cfg.Logger, "years", yearsEndpoint(cfg.Catalog, cfg.Games)),
		topAuthors:    logged(cfg.Logger, "top_authors", topAuthorsEndpoint(cfg.Catalog)),
		filters:       logged(cfg.Logger, "filters", filtersEndpoint(cfg.Catalog)),
		stats:         logged(cfg.Logger, "stats", statsEndpoint(cfg.Catalog)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/articles", h.handleListArticles)
	mux.HandleFunc("GET /v1/issues", h.handleListIssues)
	mux.HandleFunc("GET /v1/issues/{id}", h.handleIssueArticles)
	mux.HandleFunc("GET /v1/years", h.handleYears)
	mux.HandleFunc("GET /v1/authors/top", h.handleTopAuthors)
	mux.HandleFunc("GET /v1/filters", h.handleFilters)
	mux.HandleFunc("GET /v1/stats", h.handleStats)
	mux.HandleFunc("POST /v1/upload", h.handleUpload)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(requestID(mux))
}

func logged(logger *slog.Logger, name string, ep kit.Endpoint) kit.Endpoint {
	return kit.Logging(logger, name)(ep)
}

type handler struct {
	cfg Config

	listArticles  kit.Endpoint
	listIssues    kit.Endpoint
	issueArticles kit.Endpoint
	years         kit.Endpoint
	topAuthors    kit.Endpoint
	filters       kit.Endpoint
	stats         kit.Endpoint
}

// --- articles / issues ---

func (h *handler) handleListArticles(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.listArticles)
}

func (h *handler) handleListIssues(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.listIssues)
}

func (h *handler) serveList(w http.ResponseWriter, r *http.Request, ep kit.Endpoint) {
	req, err := parseListRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := ep(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleIssueArticles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue id")
		return
	}
	listReq, err := parseListRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.issueArticles(r.Context(), &issueArticlesReq{ID: id, Criteria: listReq.Criteria})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- years ---

func (h *handler) handleYears(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, h.years)
}

// --- top authors ---

func (h *handler) handleTopAuthors(w http.ResponseWriter, r *http.Request) {
	req := &topAuthorsReq{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		req.Limit = n
	}
	req.ReviewsOnly = r.URL.Query().Get("reviews") == "true"

	resp, err := h.topAuthors(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- filters / stats / health ---

func (h *handler) handleFilters(w http.ResponseWriter, r *http.Request) {
	resp, err := h.filters(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.stats(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status         string `json:"status"`
	Records        int    `json:"records"`
	DatasetVersion uint64 `json:"dataset_version"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Records:        h.cfg.Catalog.Len(),
		DatasetVersion: h.cfg.Catalog.Version(),
	})
}

// --- upload ---

// handleUpload replaces the dataset CSV and hot-reloads the catalog. The
// write is atomic (temp file + rename) so a failed upload never corrupts
// the served dataset.
func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.cfg.UploadPassword == "" || h.cfg.DatasetDir == "" {
		writeError(w, http.StatusForbidden, "upload disabled")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	password := r.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.UploadPassword)) != 1 {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := h.replaceDataset(file); err != nil {
		h.cfg.Logger.Error("upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store dataset")
		return
	}

	if err := h.cfg.Catalog.Reload(); err != nil {
		h.cfg.Logger.Error("reload after upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "dataset stored but reload failed")
		return
	}

	h.cfg.Logger.Info("dataset uploaded", "records", h.cfg.Catalog.Len(), "version", h.cfg.Catalog.Version())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": h.cfg.Catalog.Len(),
	})
}

func (h *handler) replaceDataset(src io.Reader) error {
	manifest, err := catalog.LoadManifest(filepath.Join(h.cfg.DatasetDir, "manifest.yaml"))
	if err != nil {
		return err
	}
	dest := filepath.Join(h.cfg.DatasetDir, manifest.DataFile)

	tmp, err := os.CreateTemp(h.cfg.DatasetDir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	return nil
}

// --- request parsing ---

// parseListRequest builds the filter criteria from query parameters.
// Absent year and score parameters leave the corresponding range at its
// zero value, which the engine treats as "no bound".
func parseListRequest(r *http.Request) (*listArticlesReq, error) {
	q := r.URL.Query()
	req := &listArticlesReq{}

	if v := q.Get("sections"); v != "" {
		req.Criteria.Sections = strings.Split(v, ",")
	}
	req.Criteria.Title = q.Get("title")
	req.Criteria.Author = q.Get("author")
	req.Criteria.ExcludeReviews = q.Get("exclude_reviews") == "true"

	yearMin, err := intParam(q.Get("year_min"), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid year_min")
	}
	yearMax, err := intParam(q.Get("year_max"), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid year_max")
	}
	if yearMin != 0 || yearMax != 0 {
		if yearMax == 0 {
			yearMax = 9999
		}
		req.Criteria.YearRange = [2]int{yearMin, yearMax}
	}

	scoreMin, err := floatParam(q.Get("score_min"), catalog.ScoreScaleMin)
	if err != nil {
		return nil, fmt.Errorf("invalid score_min")
	}
	scoreMax, err := floatParam(q.Get("score_max"), catalog.ScoreScaleMax)
	if err != nil {
		return nil, fmt.Errorf("invalid score_max")
	}
	if q.Get("score_min") != "" || q.Get("score_max") != "" {
		req.Criteria.ScoreRange = [2]float64{scoreMin, scoreMax}
		req.Criteria.ScoreRangeSet = true
	}

	if req.Limit, err = intParam(q.Get("limit"), 0); err != nil {
		return nil, fmt.Errorf("invalid limit")
	}
	if req.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		return nil, fmt.Errorf("invalid offset")
	}
	return req, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for the browser frontend.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID tags every request with an id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(kit.WithRequestID(r.Context(), id)))
	})
}
