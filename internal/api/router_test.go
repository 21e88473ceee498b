package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuttlefleet/routeopt/internal/config"
	"github.com/shuttlefleet/routeopt/internal/httpauth"
	"github.com/shuttlefleet/routeopt/internal/jobqueue"
	"github.com/shuttlefleet/routeopt/internal/logging"
)

const testOperatorSecret = "test-secret"

const trivialInput = `{
  "employees": {
    "E1": {
      "priority": 1,
      "pickup": {"lat": 12.97, "lng": 77.59},
      "drop": {"lat": 12.98, "lng": 77.60},
      "earliest_pickup": "08:00",
      "latest_drop": "10:00"
    }
  },
  "vehicles": [
    {"vehicle_id": "V1", "capacity": 4, "cost_per_km": 10, "avg_speed_kmph": 30,
     "current_lat": 12.97, "current_lng": 77.59, "available_from": "08:00", "category": "any"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := httpauth.NewIssuer("test-signing-key", testOperatorSecret, time.Minute)
	require.NoError(t, err)

	solverCfg, err := config.Load("")
	require.NoError(t, err)
	solverCfg.Iterations = 5

	return NewServer(Deps{
		SolverCfg:         solverCfg,
		Issuer:            issuer,
		Logger:            logging.New(logging.DefaultConfig()),
		RequestsPerMinute: 1000,
	})
}

func authToken(t *testing.T, s *Server) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"secret": testOperatorSecret})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealthz_ReturnsOK(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIssueToken_RejectsWrongSecret(t *testing.T) {
	s := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"secret": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSolveSync_WithoutTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte(trivialInput)))
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSolveSync_RoutesTrivialScenario(t *testing.T) {
	s := newTestServer(t)
	token := authToken(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte(trivialInput)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Summary struct {
			EmployeesRouted int `json:"employees_routed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Summary.EmployeesRouted)
}

func TestSolveSync_MalformedInputRejected(t *testing.T) {
	s := newTestServer(t)
	token := authToken(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// newTestServerWithQueue additionally wires a Redis-backed queue,
// skipping the test when Redis isn't reachable — matching the
// integration-test style used for internal/jobqueue itself.
func newTestServerWithQueue(t *testing.T) *Server {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("redis not reachable on localhost:6379, skipping api job-queue integration test")
	}

	s := newTestServer(t)
	s.queue = jobqueue.New(client, "routeopt_test_api_jobs")
	return s
}

func TestSubmitJob_ReturnsJobIDAndIsRetrievable(t *testing.T) {
	s := newTestServerWithQueue(t)
	token := authToken(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader([]byte(trivialInput)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var submitResp struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))
	require.NotEmpty(t, submitResp.JobID)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+submitResp.JobID, nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getRec := httptest.NewRecorder()
	s.Engine().ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var job jobqueue.Job
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &job))
	assert.Equal(t, submitResp.JobID, job.ID)
	assert.Equal(t, jobqueue.StatusPending, job.Status)
}

func TestGetJob_UnknownIDReturnsNotFound(t *testing.T) {
	s := newTestServerWithQueue(t)
	token := authToken(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/does-not-exist", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSolveFunc_ProducesReportJSON(t *testing.T) {
	s := newTestServer(t)
	solve := s.SolveFunc()

	out, err := solve(context.Background(), json.RawMessage(trivialInput))
	require.NoError(t, err)

	var parsed struct {
		Summary struct {
			EmployeesRouted int `json:"employees_routed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, 1, parsed.Summary.EmployeesRouted)
}
