package api

import (
	"log/slog"
	"net/http"
	"strconv"

	resdto "course-triage/internal/handler/dto/response"
	"course-triage/internal/handler/httperr"
	"course-triage/internal/handler/middleware"
	"course-triage/internal/pkg/errs"
	"course-triage/internal/usecase/commands"
	"course-triage/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TriageHandler struct {
	triage  commands.TriageCommands
	queries queries.RequestQueries
}

func NewTriageHandler(triage commands.TriageCommands, requestQueries queries.RequestQueries) *TriageHandler {
	return &TriageHandler{
		triage:  triage,
		queries: requestQueries,
	}
}

// RunPass triggers one synchronous triage pass and returns its report.
func (h *TriageHandler) RunPass(c *gin.Context) {
	if operatorID, ok := middleware.GetOperatorID(c); ok {
		slog.Info("Triage pass requested", "operator_id", operatorID)
	}

	report, err := h.triage.RunPass(c.Request.Context())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrSettingsLoad):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Triage settings are unavailable", nil)
		case errs.Is(err, commands.ErrRequestScan):
			httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Pending request queue is unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response, err := resdto.FromRunReport(report)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListPendingRequests returns the pending queue in processing order.
func (h *TriageHandler) ListPendingRequests(c *gin.Context) {
	views, err := h.queries.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response, err := resdto.FromRequestViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListDecidedRequests returns recently rejected requests, newest first.
func (h *TriageHandler) ListDecidedRequests(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit format",
			})
			return
		}
		limit = parsed
	}

	views, err := h.queries.ListRecentlyDecided(c.Request.Context(), int32(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response, err := resdto.FromRequestViews(views)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}
