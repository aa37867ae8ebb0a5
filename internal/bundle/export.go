package bundle

import (
	"context"
	"fmt"
	"time"

	"github.com/gokatarajesh/algosync/internal/question"
)

// Lister reads a whole collection.
type Lister interface {
	List(ctx context.Context) ([]question.Question, error)
}

// Exporter snapshots a collection into a Bundle.
type Exporter struct {
	metrics *Metrics
	now     func() time.Time
}

// NewExporter builds an exporter; metrics may be nil.
func NewExporter(metrics *Metrics) *Exporter {
	return &Exporter{metrics: metrics, now: time.Now}
}

// Export reads every question once and derives the metadata counts from them.
func (e *Exporter) Export(ctx context.Context, lister Lister, exportedBy string) (Bundle, error) {
	questions, err := lister.List(ctx)
	if err != nil {
		return Bundle{}, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []question.Question{}
	}

	meta := Metadata{TotalQuestions: len(questions)}
	for _, q := range questions {
		if q.IsSolved {
			meta.SolvedCount++
		}
		if q.IsImportant {
			meta.ImportantCount++
		}
	}

	e.metrics.observeExport()
	return Bundle{
		Version:    Version,
		ExportedAt: e.now().UTC(),
		ExportedBy: exportedBy,
		Questions:  questions,
		Metadata:   meta,
	}, nil
}
