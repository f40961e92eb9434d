package ingest

import (
	"context"

	"go.uber.org/zap"
)

// Result is the tally of one batch run.
type Result struct {
	Imported []int64 `json:"importadas"`
	Failed   int     `json:"falhas"`
}

// SingleImporter runs one import cycle.
type SingleImporter interface {
	ImportOne(ctx context.Context) (int64, error)
}

// Batch runs repeated import cycles sequentially. Sequential execution bounds
// the load on the external API and keeps catalog resolution free of
// duplicate-name races.
type Batch struct {
	importer SingleImporter
	logger   *zap.Logger
}

// NewBatch creates a Batch around the given importer.
func NewBatch(importer SingleImporter, logger *zap.Logger) *Batch {
	return &Batch{importer: importer, logger: logger}
}

// Run performs count import cycles. A failing cycle is logged and counted,
// never aborting the batch; Run always makes exactly count attempts.
func (b *Batch) Run(ctx context.Context, count int) Result {
	result := Result{Imported: make([]int64, 0, count)}
	for attempt := 1; attempt <= count; attempt++ {
		id, err := b.importer.ImportOne(ctx)
		if err != nil {
			b.logger.Warn("import cycle failed",
				zap.Int("attempt", attempt),
				zap.Int("total", count),
				zap.Error(err))
			result.Failed++
			continue
		}
		result.Imported = append(result.Imported, id)
	}
	b.logger.Info("batch finished",
		zap.Int("attempts", count),
		zap.Int("imported", len(result.Imported)),
		zap.Int("failed", result.Failed))
	return result
}
