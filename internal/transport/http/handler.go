package httptransport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"SanctionsExplorer/internal/domain"
	"SanctionsExplorer/internal/export"
	"SanctionsExplorer/internal/extract"
	"SanctionsExplorer/internal/infrastructure/feed"
	"SanctionsExplorer/internal/infrastructure/fetch"
	"SanctionsExplorer/internal/ports"
	"SanctionsExplorer/internal/query"
)

// Handler is the thin HTTP layer over the record source and query surface.
type Handler struct {
	source          ports.RecordSource
	defaultPageSize int
	logger          *slog.Logger
}

// NewHandler wires the record source; pageSize guards against zero config.
func NewHandler(source ports.RecordSource, defaultPageSize int, log *slog.Logger) *Handler {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &Handler{source: source, defaultPageSize: defaultPageSize, logger: log}
}

type recordPayload struct {
	ReferenceID     string `json:"reference_id"`
	Name            string `json:"name"`
	SubjectType     string `json:"subject_type"`
	Country         string `json:"country"`
	PublicationDate string `json:"publication_date"`
	Programme       string `json:"programme"`
	Remark          string `json:"remark"`
	PublicationURL  string `json:"publication_url"`
}

type noticePayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type statePayload struct {
	Countries []string `json:"countries"`
	Type      string   `json:"type"`
	Search    string   `json:"search"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
}

type recordsResponse struct {
	Records    []recordPayload `json:"records"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageCount  int             `json:"page_count"`
	TypeCounts map[string]int  `json:"type_counts"`
	Notices    []noticePayload `json:"notices,omitempty"`
	State      statePayload    `json:"state"`
}

type optionsResponse struct {
	Countries []string `json:"countries"`
	Types     []string `json:"types"`
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request) {
	state, err := h.parseState(r, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.source.Records(r.Context())
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	state, result := query.Apply(records, state)

	resp := recordsResponse{
		Records:    toPayload(result.Records),
		Total:      result.Total,
		Page:       result.Page,
		PageCount:  result.PageCount,
		TypeCounts: result.TypeCounts,
		State: statePayload{
			Countries: state.Countries,
			Type:      state.Type,
			Search:    state.Search,
			Page:      state.Page,
			PageSize:  state.PageSize,
		},
	}
	for _, notice := range result.Notices {
		resp.Notices = append(resp.Notices, noticePayload{Kind: string(notice.Kind), Message: notice.Message})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	state, err := h.parseState(r, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.source.Records(r.Context())
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	// Export covers the whole filtered set, never a single page.
	state.Page = 0
	state.PageSize = 0
	_, result := query.Apply(records, state)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eu_sanctions.csv"`)
	if err := export.WriteCSV(w, result.Filtered); err != nil {
		h.error("write csv export", "error", err)
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	records, err := h.source.Records(r.Context())
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	_, result := query.Apply(records, query.State{Countries: r.URL.Query()["country"]})

	writeJSON(w, http.StatusOK, optionsResponse{
		Countries: query.Countries(records),
		Types:     query.TypeOptions(result.Filtered),
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) parseState(r *http.Request, paginated bool) (query.State, error) {
	params := r.URL.Query()

	state := query.State{
		Countries: params["country"],
		Type:      params.Get("type"),
		Search:    params.Get("q"),
	}

	if !paginated {
		return state, nil
	}

	state.Page = 1
	state.PageSize = h.defaultPageSize

	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query.State{}, fmt.Errorf("invalid page %q", raw)
		}
		state.Page = page
	}

	if raw := params.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return query.State{}, fmt.Errorf("invalid page_size %q", raw)
		}
		state.PageSize = size
	}

	return state, nil
}

// writePipelineError maps the pipeline taxonomy onto HTTP statuses: upstream
// resolution/fetch/parse failures are bad-gateway conditions; anything else
// is internal.
func (h *Handler) writePipelineError(w http.ResponseWriter, err error) {
	h.error("pipeline failure", "error", err)

	var (
		resolutionErr *feed.ResolutionError
		fetchErr      *fetch.Error
		parseErr      *extract.ParseError
	)
	if errors.As(err, &resolutionErr) || errors.As(err, &fetchErr) || errors.As(err, &parseErr) {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func (h *Handler) error(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Error(msg, args...)
	}
}

func toPayload(records []domain.SanctionRecord) []recordPayload {
	payload := make([]recordPayload, 0, len(records))
	for _, r := range records {
		payload = append(payload, recordPayload{
			ReferenceID:     r.ReferenceID,
			Name:            r.Name,
			SubjectType:     string(r.SubjectType),
			Country:         r.Country,
			PublicationDate: r.PublicationDate,
			Programme:       r.Programme,
			Remark:          r.Remark,
			PublicationURL:  r.PublicationURL,
		})
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
