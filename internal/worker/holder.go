package worker

import (
	"sync"

	"inv_checker/internal/domain/entity"
)

// ReportHolder keeps the latest finished report for the HTTP API.
type ReportHolder struct {
	mu     sync.RWMutex
	report entity.Report
	ready  bool
}

func NewReportHolder() *ReportHolder {
	return &ReportHolder{}
}

func (h *ReportHolder) Set(report entity.Report) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.report = report
	h.ready = true
}

func (h *ReportHolder) Latest() (entity.Report, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.report, h.ready
}
