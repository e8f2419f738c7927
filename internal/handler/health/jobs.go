package health

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/arkswap/internal/monitoring"
)

// criticalJobs keep the swap projection fresh. Once one of them fails more
// than criticalFailureLimit times in a row the service is unhealthy, not degraded.
var criticalJobs = []string{
	monitoring.JobSwapIndexing,
	monitoring.JobSwapRefresh,
}

const criticalFailureLimit = 2

func jobsVerdict(jobs map[string]monitoring.JobStatus, summary monitoring.JobsSummary) string {
	if summary.StalledJobs > 0 {
		return statusUnhealthy
	}
	if summary.UnhealthyJobs == 0 {
		return statusHealthy
	}

	for _, name := range criticalJobs {
		job, ok := jobs[name]
		if ok && job.Status == monitoring.JobStatusFailed && job.ConsecutiveFailures > criticalFailureLimit {
			return statusUnhealthy
		}
	}
	return statusDegraded
}

func verdictCode(status string) int {
	switch status {
	case statusHealthy:
		return http.StatusOK
	case statusDegraded:
		return http.StatusPartialContent
	default:
		return http.StatusServiceUnavailable
	}
}

// Jobs handles the background jobs health check endpoint
// @Summary Background jobs health check
// @Description Reports the swap indexing and refresh jobs. Degraded answers 206.
// @Tags health
// @Produce json
// @Success 200 {object} JobsHealthResponse
// @Success 206 {object} JobsHealthResponse
// @Failure 503 {object} JobsHealthResponse
// @Router /api/v1/health/jobs [get]
func (h *HealthHandler) Jobs(c *gin.Context) {
	start := time.Now()

	if h.jobStatusManager == nil {
		c.JSON(http.StatusServiceUnavailable, JobsHealthResponse{
			Status:     statusUnhealthy,
			Timestamp:  start,
			Jobs:       map[string]monitoring.JobStatus{},
			DurationMs: time.Since(start).Milliseconds(),
		})
		return
	}

	jobs := h.jobStatusManager.GetAllJobStatuses()
	summary := h.jobStatusManager.GetJobsSummary()
	status := jobsVerdict(jobs, summary)

	response := JobsHealthResponse{
		Status:     status,
		Timestamp:  start,
		Jobs:       jobs,
		Summary:    summary,
		DurationMs: time.Since(start).Milliseconds(),
	}

	h.logger.Info("[Jobs] health check", map[string]string{
		"status":         status,
		"duration_ms":    strconv.FormatInt(response.DurationMs, 10),
		"total_jobs":     strconv.Itoa(summary.TotalJobs),
		"unhealthy_jobs": strconv.Itoa(summary.UnhealthyJobs),
		"stalled_jobs":   strconv.Itoa(summary.StalledJobs),
	})

	c.JSON(verdictCode(status), response)
}

// Ready reports whether the instance can serve swap traffic
// @Summary Readiness check
// @Description Ready when the projection store answers and no critical job is unhealthy
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	start := time.Now()
	response := HealthResponse{
		Timestamp: start,
		Checks:    map[string]HealthCheck{},
	}

	response.Checks["database"] = h.checkDatabase(c.Request.Context())

	jobs := HealthCheck{Status: statusUnhealthy, Error: "job status manager not available"}
	if h.jobStatusManager != nil {
		jobs = HealthCheck{
			Status: jobsVerdict(h.jobStatusManager.GetAllJobStatuses(), h.jobStatusManager.GetJobsSummary()),
		}
	}
	response.Checks["jobs"] = jobs

	// degraded jobs still serve: reads fall back to the stored projection
	response.Status = statusHealthy
	for _, check := range response.Checks {
		if check.Status == statusUnhealthy {
			response.Status = statusUnhealthy
		}
	}
	response.DurationMs = time.Since(start).Milliseconds()

	if response.Status != statusHealthy {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
