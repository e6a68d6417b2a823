package metrics

import (
	"sync/atomic"
	"time"
)

// Collector holds process-wide request and leave submission counters.
type Collector struct {
	startedAt          time.Time
	totalRequests      atomic.Uint64
	clientErrors       atomic.Uint64
	serverErrors       atomic.Uint64
	rateLimited        atomic.Uint64
	totalDurationMs    atomic.Uint64
	leaveSubmissions   atomic.Uint64
	leaveDaysSubmitted atomic.Uint64
}

func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status == 429:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

// RecordSubmission counts a stored leave request and its working days.
func (c *Collector) RecordSubmission(workingDays int) {
	c.leaveSubmissions.Add(1)
	if workingDays > 0 {
		c.leaveDaysSubmitted.Add(uint64(workingDays))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"uptimeSeconds":         int64(time.Since(c.startedAt).Seconds()),
		"requestsTotal":         total,
		"clientErrorsTotal":     c.clientErrors.Load(),
		"serverErrorsTotal":     c.serverErrors.Load(),
		"rateLimitedTotal":      c.rateLimited.Load(),
		"avgDurationMs":         avg,
		"leaveSubmissionsTotal": c.leaveSubmissions.Load(),
		"leaveDaysTotal":        c.leaveDaysSubmitted.Load(),
	}
}
