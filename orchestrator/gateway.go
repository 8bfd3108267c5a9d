/*
Package orchestrator holds the gateway to the external orchestration service.

PURPOSE:
  Each booking/command request takes one of two paths:

  1. PRIMARY: forward the full structured request to the external
     orchestrator's /orchestrate endpoint. Any 2xx response is returned to
     the caller verbatim (re-shaped into the local result type).

  2. FALLBACK: on network error, timeout, or non-2xx, re-run the local
     Parser -> Resolver -> Builder -> Writer pipeline using the original
     free-text query, or the explicit staffIds/projectIds/date/hours payload
     when the parser yields no command.

FAILURE SEMANTICS:
  The primary being down is never surfaced on its own; only if the fallback
  ALSO fails does the caller see an error, and then always as a structured
  {error, message} with a 4xx/5xx class status - never a silent 200.

TIMEOUTS:
  The HTTP client's timeout doubles as the unavailability detector. On
  timeout the primary is not retried within the same request; the gateway
  proceeds straight to the fallback.
*/
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
)

// Request is the structured orchestration payload. Metadata carries any
// caller-supplied extras and is forwarded to the primary untouched.
type Request struct {
	Mode       string   `json:"mode,omitempty"`
	Intent     string   `json:"intent,omitempty"`
	Query      string   `json:"query,omitempty"`
	Date       string   `json:"date,omitempty"`
	FromDate   string   `json:"fromDate,omitempty"`
	ToDate     string   `json:"toDate,omitempty"`
	StaffIDs   []string `json:"staffIds,omitempty"`
	StaffNames []string `json:"staffNames,omitempty"`
	ProjectIDs []string `json:"projectIds,omitempty"`
	Hours      int      `json:"hours,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Result is the response shape shared by the primary and fallback paths.
type Result struct {
	Content        string                     `json:"content"`
	Type           string                     `json:"type"`
	Booking        *scheduling.BookingOutcome `json:"booking,omitempty"`
	IsMultiProject bool                       `json:"isMultiProject"`
}

// StatusError is a request-level failure with an HTTP class, an error code,
// and a human-readable message. It is only produced when BOTH paths failed.
type StatusError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Gateway delegates orchestration requests and falls back locally.
type Gateway struct {
	baseURL  string
	client   *http.Client
	pipeline *scheduling.Pipeline
	log      *zap.Logger
}

// New builds a gateway. baseURL may be empty, in which case every request
// goes straight to the fallback pipeline.
func New(baseURL string, timeout time.Duration, pipeline *scheduling.Pipeline, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		pipeline: pipeline,
		log:      log,
	}
}

// Execute runs one orchestration request: primary first, local fallback on
// any primary failure.
func (g *Gateway) Execute(ctx context.Context, req Request) (Result, error) {
	if g.baseURL != "" {
		res, err := g.callPrimary(ctx, req)
		if err == nil {
			return res, nil
		}
		g.log.Warn("orchestrator unavailable, falling back to local pipeline",
			zap.String("url", g.baseURL), zap.Error(err))
	}
	return g.fallback(ctx, req)
}

// =============================================================================
// PRIMARY PATH
// =============================================================================

func (g *Gateway) callPrimary(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orchestrate", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return Result{}, fmt.Errorf("orchestrator returned status %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decoding orchestrator response: %w", err)
	}
	if res.Type == "" {
		res.Type = "booking"
	}
	return res, nil
}

// =============================================================================
// FALLBACK PATH
// =============================================================================

func (g *Gateway) fallback(ctx context.Context, req Request) (Result, error) {
	outcome, err := g.runLocal(ctx, req)
	if err != nil {
		return Result{}, toStatusError(err)
	}
	return Result{
		Content:        outcome.Message,
		Type:           "booking",
		Booking:        &outcome,
		IsMultiProject: outcome.MultiProject,
	}, nil
}

func (g *Gateway) runLocal(ctx context.Context, req Request) (scheduling.BookingOutcome, error) {
	// Free text first; a parsed command carries its own dates and fan-out.
	if req.Query != "" {
		outcome, err := g.pipeline.RunText(ctx, req.Query)
		if !errors.Is(err, scheduling.ErrNotBookingCommand) {
			return outcome, err
		}
	}

	// No parsable command: fall back to the explicit payload.
	if len(req.StaffIDs) > 0 && len(req.ProjectIDs) > 0 {
		r, err := requestRange(req)
		if err != nil {
			return scheduling.BookingOutcome{}, err
		}
		return g.pipeline.RunExplicit(ctx, req.StaffIDs, req.ProjectIDs, r, req.Hours)
	}

	return scheduling.BookingOutcome{}, &StatusError{
		Status:  http.StatusBadRequest,
		Code:    "validation",
		Message: "request carries neither a booking command nor explicit staffIds/projectIds",
	}
}

func requestRange(req Request) (scheduling.DateRange, error) {
	badDate := func(field, value string) error {
		return &StatusError{
			Status:  http.StatusBadRequest,
			Code:    "validation",
			Message: fmt.Sprintf("invalid %s %q, expected YYYY-MM-DD", field, value),
		}
	}
	if req.FromDate != "" || req.ToDate != "" {
		from, err := scheduling.ParseDate(req.FromDate)
		if err != nil {
			return scheduling.DateRange{}, badDate("fromDate", req.FromDate)
		}
		to, err := scheduling.ParseDate(req.ToDate)
		if err != nil {
			return scheduling.DateRange{}, badDate("toDate", req.ToDate)
		}
		return scheduling.DateRange{From: from, To: to}, nil
	}
	if req.Date != "" {
		d, err := scheduling.ParseDate(req.Date)
		if err != nil {
			return scheduling.DateRange{}, badDate("date", req.Date)
		}
		return scheduling.SingleDay(d), nil
	}
	return scheduling.SingleDay(scheduling.Today()), nil
}

// toStatusError shapes pipeline failures into the structured error contract.
func toStatusError(err error) error {
	var se *StatusError
	if errors.As(err, &se) {
		return se
	}
	var nf *scheduling.NotFoundError
	if errors.As(err, &nf) {
		return &StatusError{Status: http.StatusNotFound, Code: nf.Code, Message: nf.Message()}
	}
	if errors.Is(err, scheduling.ErrNotBookingCommand) {
		return &StatusError{
			Status:  http.StatusBadRequest,
			Code:    "validation",
			Message: "the query does not look like a booking command",
		}
	}
	return &StatusError{Status: http.StatusInternalServerError, Code: "upstream_error", Message: err.Error()}
}
