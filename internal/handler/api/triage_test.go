//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-triage/internal/domain/request"
	"course-triage/internal/handler/api"
	"course-triage/internal/handler/middleware"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubTriageCommands struct {
	report *commands.RunReport
	err    error
}

func (s *stubTriageCommands) RunPass(_ context.Context) (*commands.RunReport, error) {
	return s.report, s.err
}

type stubRequestQueries struct {
	pending  []*queries.PendingRequestView
	decided  []*queries.PendingRequestView
	err      error
	gotLimit int32
}

func (s *stubRequestQueries) ListPending(_ context.Context) ([]*queries.PendingRequestView, error) {
	return s.pending, s.err
}

func (s *stubRequestQueries) ListRecentlyDecided(_ context.Context, limit int32) ([]*queries.PendingRequestView, error) {
	s.gotLimit = limit
	return s.decided, s.err
}

type TriageHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubTriageCommands
	queries  *stubRequestQueries
}

func (s *TriageHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.commands = &stubTriageCommands{}
	s.queries = &stubRequestQueries{}
	handler := api.NewTriageHandler(s.commands, s.queries)

	s.router.POST("/api/triage/runs", handler.RunPass)
	s.router.GET("/api/triage/requests", handler.ListPendingRequests)
	s.router.GET("/api/triage/requests/decided", handler.ListDecidedRequests)
}

func TestTriageHandlerSuite(t *testing.T) {
	suite.Run(t, new(TriageHandlerTestSuite))
}

func (s *TriageHandlerTestSuite) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *TriageHandlerTestSuite) TestRunPass() {
	s.Run("returns the run report", func() {
		approvedID := uuid.New()
		s.commands.report = &commands.RunReport{
			RunID:     uuid.New(),
			Processed: 3,
			Approved:  2,
			Rejected:  1,
			Outcomes:  map[uuid.UUID]request.State{approvedID: request.StateApproved},
			Lines:     []string{"... Starting to auto-approve course requests."},
		}
		s.commands.err = nil

		rec := s.do(http.MethodPost, "/api/triage/runs")
		s.Equal(http.StatusOK, rec.Code)

		var body map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(float64(3), body["processed"])
		s.Equal(float64(2), body["approved"])
		s.Equal(float64(1), body["rejected"])

		outcomes, ok := body["outcomes"].(map[string]any)
		s.Require().True(ok)
		s.Equal("APPROVED", outcomes[approvedID.String()])
	})

	s.Run("settings failure maps to 503", func() {
		s.commands.report = nil
		s.commands.err = errs.Mark(errs.New("connection refused"), commands.ErrSettingsLoad)

		rec := s.do(http.MethodPost, "/api/triage/runs")
		s.Equal(http.StatusServiceUnavailable, rec.Code)
		s.Contains(rec.Body.String(), "Triage settings are unavailable")
	})

	s.Run("unknown failure maps to 500", func() {
		s.commands.report = nil
		s.commands.err = errs.New("boom")

		rec := s.do(http.MethodPost, "/api/triage/runs")
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *TriageHandlerTestSuite) TestListPendingRequests() {
	s.Run("returns the pending queue", func() {
		s.queries.err = nil
		s.queries.pending = []*queries.PendingRequestView{
			{
				ID:          uuid.New(),
				RequesterID: uuid.New(),
				FullName:    "Intro to Go",
				ShortName:   "go101",
				CategoryID:  uuid.New(),
				SubmittedAt: time.Now().UTC(),
				Status:      "pending",
			},
		}

		rec := s.do(http.MethodGet, "/api/triage/requests")
		s.Equal(http.StatusOK, rec.Code)

		var body []map[string]any
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body, 1)
		s.Equal("go101", body[0]["shortName"])
	})

	s.Run("store failure maps to 500", func() {
		s.queries.pending = nil
		s.queries.err = errs.New("down")

		rec := s.do(http.MethodGet, "/api/triage/requests")
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *TriageHandlerTestSuite) TestListDecidedRequests() {
	s.Run("passes the limit through", func() {
		s.queries.err = nil
		s.queries.decided = []*queries.PendingRequestView{}

		rec := s.do(http.MethodGet, "/api/triage/requests/decided?limit=25")
		s.Equal(http.StatusOK, rec.Code)
		s.Equal(int32(25), s.queries.gotLimit)
	})

	s.Run("rejects a malformed limit", func() {
		rec := s.do(http.MethodGet, "/api/triage/requests/decided?limit=lots")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
