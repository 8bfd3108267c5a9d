/*
handlers.go - HTTP handlers for the scheduler server

PURPOSE:
  Exposes the scheduling engine, the orchestration gateway, and the chat
  assistant over REST. Handles HTTP request/response and JSON; domain logic
  lives in the scheduling, orchestrator, and assistant packages.

ENDPOINTS:
  Core:
    POST /api/orchestrate        Booking/command requests via the gateway
    POST /api/ask                Conversational Q&A
    POST /api/ask-stream         Same, streamed with a [DONE] sentinel

  Entities:
    GET/POST   /api/staff         DELETE /api/staff/{id}
    GET/POST   /api/projects      DELETE /api/projects/{id}
    GET/POST   /api/assignments
    POST       /api/assignments/bulk
    DELETE     /api/assignments/range

  Queries:
    GET /api/availability?date=YYYY-MM-DD
    GET /api/analytics/range?from=YYYY-MM-DD&to=YYYY-MM-DD

  Admin:
    POST /api/seed               Load the demo scenario
    GET  /api/health

ERROR HANDLING:
  Errors are returned as JSON {error, message} with appropriate status:
  - 400 validation (missing/invalid fields and dates)
  - 404 staff_not_found / project_not_found (with candidates in the message)
  - 409 duplicate assignment on the single-row create endpoint
  - 500 upstream/store failures
  Bulk writes never fail on per-row conflicts; they report counts instead.

SEE ALSO:
  - dto.go: Request/response structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hathim-t-ai/StaffScheduler-sub001/assistant"
	"github.com/hathim-t-ai/StaffScheduler-sub001/orchestrator"
	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      scheduling.Store
	Gateway    *orchestrator.Gateway
	Assistant  *assistant.Assistant
	Aggregator *scheduling.Aggregator
	Log        *zap.Logger
}

// NewHandler wires a handler from its collaborators.
func NewHandler(store scheduling.Store, gw *orchestrator.Gateway, as *assistant.Assistant, agg *scheduling.Aggregator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: store, Gateway: gw, Assistant: as, Aggregator: agg, Log: log}
}

// =============================================================================
// CORE: ORCHESTRATE / ASK
// =============================================================================

// Orchestrate routes a booking/command request through the gateway.
// POST /api/orchestrate
func (h *Handler) Orchestrate(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	res, err := h.Gateway.Execute(r.Context(), req)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Ask handles one conversational turn.
// POST /api/ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAsk(w, r)
	if !ok {
		return
	}
	reply, err := h.Assistant.Ask(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// AskStream streams the answer as text chunks ending with [DONE].
// POST /api/ask-stream
func (h *Handler) AskStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAsk(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := h.Assistant.AskStream(r.Context(), req.SessionID, req.Message, w); err != nil {
		// Headers are already gone; log and close.
		h.Log.Error("ask-stream failed", zap.Error(err))
	}
}

func (h *Handler) decodeAsk(w http.ResponseWriter, r *http.Request) (AskRequest, bool) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "validation", "message is required")
		return req, false
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}
	return req, true
}

// =============================================================================
// STAFF
// =============================================================================

// ListStaff returns all staff members.
// GET /api/staff
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.Store.ListStaff(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	dtos := make([]StaffDTO, len(staff))
	for i, s := range staff {
		dtos[i] = toStaffDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStaff creates one staff member.
// POST /api/staff
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	created, err := h.Store.CreateStaff(r.Context(), scheduling.StaffMember{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Grade:      req.Grade,
		Department: req.Department,
		City:       req.City,
		Country:    req.Country,
		Email:      req.Email,
		Skills:     req.Skills,
		Rate:       req.Rate,
		Metadata:   req.Metadata,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStaffDTO(created))
}

// DeleteStaff removes one staff member. Assignments must go first; the FK
// restriction surfaces through writeStoreError.
// DELETE /api/staff/{id}
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTS
// =============================================================================

// ListProjects returns all projects.
// GET /api/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates one project.
// POST /api/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "validation", "name is required")
		return
	}
	if req.Budget != nil && req.Budget.IsNegative() {
		writeError(w, http.StatusBadRequest, "validation", "budget must not be negative")
		return
	}
	created, err := h.Store.CreateProject(r.Context(), scheduling.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PartnerName: req.PartnerName,
		TeamLead:    req.TeamLead,
		Budget:      req.Budget,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(created))
}

// DeleteProject removes one project.
// DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// ListAssignments returns assignments, optionally windowed by from/to.
// GET /api/assignments?from=&to=
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	window, ok := queryRange(w, r)
	if !ok {
		return
	}
	assignments, err := h.Store.ListAssignments(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment creates one row. Unlike the bulk endpoints this one DOES
// report a duplicate as 409, because a single-row caller wants to know.
// POST /api/assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	a, ok := h.assignmentFromRequest(w, req)
	if !ok {
		return
	}
	created, err := h.Store.CreateAssignment(r.Context(), a)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(created))
}

// BulkAssignments writes rows best-effort: per-row conflicts are skipped and
// counted, never failed.
// POST /api/assignments/bulk
func (h *Handler) BulkAssignments(w http.ResponseWriter, r *http.Request) {
	var req BulkAssignmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	rows := make([]scheduling.AssignmentRow, 0, len(req.Assignments))
	for _, ar := range req.Assignments {
		a, ok := h.assignmentFromRequest(w, ar)
		if !ok {
			return
		}
		// Best-effort contract: an unknown staff id is an FK violation the
		// writer skips, so it must not fail the whole batch here either.
		name := ""
		if staff, err := h.Store.GetStaff(r.Context(), a.StaffID); err == nil {
			name = staff.Name
		}
		rows = append(rows, scheduling.AssignmentRow{
			StaffID:   a.StaffID,
			StaffName: name,
			ProjectID: a.ProjectID,
			Date:      a.Date,
			Hours:     a.Hours,
		})
	}
	res, err := scheduling.NewWriter(h.Store, h.Log).Write(r.Context(), rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, BulkResultDTO{
		Created:   res.Created,
		Requested: res.Requested,
		Count:     len(res.Created),
		Skipped:   res.Skipped,
		Message:   res.Message,
	})
}

// DeleteAssignmentsRange removes rows in a window.
// DELETE /api/assignments/range
func (h *Handler) DeleteAssignmentsRange(w http.ResponseWriter, r *http.Request) {
	var req DeleteRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid JSON body: "+err.Error())
		return
	}
	from, err := scheduling.ParseDate(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid from date: "+req.From)
		return
	}
	to, err := scheduling.ParseDate(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid to date: "+req.To)
		return
	}
	n, err := h.Store.DeleteAssignmentsInRange(r.Context(), req.StaffID, scheduling.DateRange{From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DeleteRangeResponse{Deleted: n})
}

func (h *Handler) assignmentFromRequest(w http.ResponseWriter, req CreateAssignmentRequest) (scheduling.Assignment, bool) {
	if req.StaffID == "" || req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "validation", "staffId and projectId are required")
		return scheduling.Assignment{}, false
	}
	if req.Hours <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "hours must be a positive integer")
		return scheduling.Assignment{}, false
	}
	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid date: "+req.Date)
		return scheduling.Assignment{}, false
	}
	return scheduling.Assignment{
		ID:        uuid.NewString(),
		StaffID:   req.StaffID,
		ProjectID: req.ProjectID,
		Date:      date,
		Hours:     req.Hours,
	}, true
}

// =============================================================================
// QUERIES
// =============================================================================

// Availability reports per-staff remaining hours for one date.
// GET /api/availability?date=YYYY-MM-DD
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	date, err := scheduling.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "date query parameter must be YYYY-MM-DD")
		return
	}
	avail, err := h.Aggregator.AvailabilityOn(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

// AnalyticsRange summarizes assignments over a window for reporting.
// GET /api/analytics/range?from=&to=
func (h *Handler) AnalyticsRange(w http.ResponseWriter, r *http.Request) {
	window, ok := queryRange(w, r)
	if !ok {
		return
	}
	summary, err := h.Aggregator.RangeSummary(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// queryRange reads from/to query parameters, defaulting to a wide-open
// window when absent.
func queryRange(w http.ResponseWriter, r *http.Request) (scheduling.DateRange, bool) {
	window := scheduling.DateRange{
		From: scheduling.NewDate(1970, 1, 1),
		To:   scheduling.NewDate(2100, 12, 31),
	}
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := scheduling.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", "invalid from date: "+s)
			return window, false
		}
		window.From = d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := scheduling.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", "invalid to date: "+s)
			return window, false
		}
		window.To = d
	}
	return window, true
}

// =============================================================================
// ADMIN
// =============================================================================

// Seed loads the demo scenario.
// POST /api/seed
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := SeedDemo(r.Context(), h.Store); err != nil {
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

// Health is a liveness probe.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeGatewayError renders structured gateway/assistant failures.
func (h *Handler) writeGatewayError(w http.ResponseWriter, err error) {
	var se *orchestrator.StatusError
	if errors.As(err, &se) {
		writeError(w, se.Status, se.Code, se.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
}

// writeStoreError maps store failures: conflicts 409, missing references 404.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrDuplicateAssignment):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, scheduling.ErrMissingReference):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "upstream_error", err.Error())
	}
}
