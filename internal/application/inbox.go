package application

import (
	"sync"

	"github.com/bnema/coremind/internal/domain"
)

// ReportInbox buffers reports submitted concurrently by actors until the
// driver drains them as one batch per cycle.
type ReportInbox struct {
	mu      sync.Mutex
	reports []domain.ActorReport
}

func NewReportInbox() *ReportInbox {
	return &ReportInbox{}
}

func (b *ReportInbox) Submit(reports ...domain.ActorReport) {
	if len(reports) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.reports = append(b.reports, reports...)
}

// Drain returns the buffered reports in submission order and empties the inbox.
func (b *ReportInbox) Drain() []domain.ActorReport {
	b.mu.Lock()
	defer b.mu.Unlock()

	drained := b.reports
	b.reports = nil
	return drained
}

func (b *ReportInbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.reports)
}
