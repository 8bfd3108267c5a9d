package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hathim-t-ai/StaffScheduler-sub001/api"
	"github.com/hathim-t-ai/StaffScheduler-sub001/assistant"
	"github.com/hathim-t-ai/StaffScheduler-sub001/orchestrator"
	"github.com/hathim-t-ai/StaffScheduler-sub001/scheduling"
	memstore "github.com/hathim-t-ai/StaffScheduler-sub001/scheduling/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	*httptest.Server
	store *memstore.Memory
}

// newTestServer wires the full router against an in-memory store, a gateway
// with no primary, and an assistant with no LLM.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.NewMemory()
	pipeline := scheduling.NewPipeline(store, nil)
	agg := scheduling.NewAggregator(store, scheduling.RateTable{Default: decimal.NewFromInt(100)})
	gw := orchestrator.New("", time.Second, pipeline, nil)
	as := assistant.New(store, agg, pipeline, nil, nil)
	h := api.NewHandler(store, gw, as, agg, nil)

	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: store}
}

func (s *testServer) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, api.SeedDemo(context.Background(), s.store))
}

func (s *testServer) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(s.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(s.URL + path)
	require.NoError(t, err)
	return resp
}

func (s *testServer) del(t *testing.T, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, s.URL+path, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// =============================================================================
// HEALTH AND SEED
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.get(t, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestSeed_IsIdempotent(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := s.post(t, "/api/seed", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var staff []api.StaffDTO
	decodeBody(t, s.get(t, "/api/staff"), &staff)
	assert.Len(t, staff, 5)
}

// =============================================================================
// STAFF AND PROJECTS
// =============================================================================

func TestCreateStaff_OpenPayload_ExtrasLandInMetadata(t *testing.T) {
	// GIVEN: A staff payload carrying fields the schema does not know
	// WHEN: Creating
	// THEN: Known fields map, extras are preserved as metadata

	s := newTestServer(t)
	resp := s.post(t, "/api/staff", `{
		"name": "Nina Alvarez",
		"grade": "Consultant",
		"department": "Analytics",
		"favouriteColour": "teal",
		"badgeNumber": 42
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var dto api.StaffDTO
	decodeBody(t, resp, &dto)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "Nina Alvarez", dto.Name)
	assert.Equal(t, "teal", dto.Metadata["favouriteColour"])
	assert.Equal(t, "42", dto.Metadata["badgeNumber"])
}

func TestCreateStaff_MissingName_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := s.post(t, "/api/staff", `{"grade": "Consultant"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "validation", body.Error)
}

func TestCreateProject_NegativeBudget_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := s.post(t, "/api/projects", `{"name": "Bad", "budget": "-5"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteStaff_WithAssignments_Conflict(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	ctx := context.Background()

	_, err := s.store.CreateAssignment(ctx, scheduling.Assignment{
		ID: "a1", StaffID: "staff-aisha", ProjectID: "proj-nebula",
		Date: scheduling.NewDate(2025, time.June, 2), Hours: 5,
	})
	require.NoError(t, err)

	resp := s.del(t, "/api/staff/staff-aisha", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func TestCreateAssignment_DuplicateIs409(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)
	body := `{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 5}`

	resp := s.post(t, "/api/assignments", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.post(t, "/api/assignments", body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody api.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "conflict", errBody.Error)
}

func TestBulkAssignments_PartialSuccessCounts(t *testing.T) {
	// GIVEN: Three rows, one duplicate and one pointing at unknown staff
	// WHEN: Writing the batch
	// THEN: 200 with counts, never a request-level failure

	s := newTestServer(t)
	s.seed(t)

	first := s.post(t, "/api/assignments", `{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 5}`)
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	resp := s.post(t, "/api/assignments/bulk", `{"assignments": [
		{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 5},
		{"staffId": "staff-liam", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 4},
		{"staffId": "ghost", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 4}
	]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res api.BulkResultDTO
	decodeBody(t, resp, &res)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "Liam Chen", res.Created[0].StaffName)
}

func TestDeleteAssignmentsRange(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	for day := 2; day <= 4; day++ {
		resp := s.post(t, "/api/assignments", fmt.Sprintf(
			`{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-%02d", "hours": 5}`, day))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.del(t, "/api/assignments/range",
		`{"staffId": "staff-aisha", "from": "2025-06-02", "to": "2025-06-03"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res api.DeleteRangeResponse
	decodeBody(t, resp, &res)
	assert.Equal(t, 2, res.Deleted)
}

// =============================================================================
// ORCHESTRATE AND ASK
// =============================================================================

func TestOrchestrate_LocalFallbackBooksFromText(t *testing.T) {
	// GIVEN: No primary orchestrator configured
	// WHEN: Posting a free-text booking
	// THEN: The local pipeline books it and the result carries the outcome

	s := newTestServer(t)
	s.seed(t)

	resp := s.post(t, "/api/orchestrate",
		`{"query": "book Aisha on Nebula for 5 hours on 2025-06-02"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res orchestrator.Result
	decodeBody(t, resp, &res)
	assert.Equal(t, "booking", res.Type)
	require.NotNil(t, res.Booking)
	assert.Equal(t, 1, res.Booking.CreatedCount)
	assert.Equal(t, "Aisha Patel", res.Booking.Created[0].StaffName)
}

func TestOrchestrate_UnknownProject_StructuredError(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	resp := s.post(t, "/api/orchestrate",
		`{"query": "book Aisha on Titan for 5 hours on 2025-06-02"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "project_not_found", body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestAsk_CountIntent(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	resp := s.post(t, "/api/ask", `{"message": "how many projects do we have?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply assistant.Reply
	decodeBody(t, resp, &reply)
	assert.Equal(t, "There are 4 projects on record.", reply.Content)
}

func TestAsk_EmptyMessage_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := s.post(t, "/api/ask", `{"message": "   "}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAskStream_EndsWithSentinel(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	resp := s.post(t, "/api/ask-stream", `{"message": "how many staff do we have?"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(buf.String(), assistant.StreamDone))
}

// =============================================================================
// QUERIES
// =============================================================================

func TestAvailability_SingleDate(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	resp := s.post(t, "/api/assignments", `{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 5}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var avail []scheduling.DayAvailability
	decodeBody(t, s.get(t, "/api/availability?date=2025-06-02"), &avail)
	require.Len(t, avail, 5)

	for _, row := range avail {
		if row.StaffID == "staff-aisha" {
			assert.Equal(t, 5, row.AssignedHours)
			assert.Equal(t, 3, row.AvailableHours)
		}
	}
}

func TestAvailability_MissingDate_Validation(t *testing.T) {
	s := newTestServer(t)
	resp := s.get(t, "/api/availability")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyticsRange_ReportShape(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	for _, body := range []string{
		`{"staffId": "staff-aisha", "projectId": "proj-nebula", "date": "2025-06-02", "hours": 5}`,
		`{"staffId": "staff-liam", "projectId": "proj-vanguard", "date": "2025-06-03", "hours": 3}`,
	} {
		resp := s.post(t, "/api/assignments", body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var summary scheduling.RangeSummary
	decodeBody(t, s.get(t, "/api/analytics/range?from=2025-06-01&to=2025-06-30"), &summary)

	assert.Equal(t, 8, summary.TotalHours)
	require.Len(t, summary.AssignmentsByProject, 2)
	assert.Equal(t, "Nebula", summary.AssignmentsByProject[0].ProjectName)
	require.Len(t, summary.AssignmentsByStaff, 2)
}
