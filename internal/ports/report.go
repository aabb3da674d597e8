package ports

import "github.com/baditaflorin/go_doc_similarity/internal/core/domain"

// ReportWriter renders a finished report to some destination.
type ReportWriter interface {
	Write(report *domain.Report) error
}
