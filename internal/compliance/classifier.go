package compliance

import (
	"context"
	"log/slog"
	"sort"

	"dealchecker/internal/compliance/metrics"
)

// Classifier partitions submitted files by their storage label.
type Classifier struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewClassifier(logger *slog.Logger, m *metrics.Metrics) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, metrics: m}
}

// Classify returns every category mapped to its files, oldest upload first.
// Files with an unrecognized label are dropped and reported at WARN.
// The input slice is not modified.
func (c *Classifier) Classify(ctx context.Context, dealID string, files []File) map[Category][]File {
	out := make(map[Category][]File, len(categories))
	for _, cat := range categories {
		out[cat] = []File{}
	}

	ordered := make([]File, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UploadedAt.Before(ordered[j].UploadedAt)
	})

	for _, f := range ordered {
		cat, ok := ParseCategory(f.Label)
		if !ok {
			c.logger.WarnContext(ctx, "dropping file with unknown category label",
				"deal_id", dealID,
				"file_id", f.ID,
				"label", f.Label,
			)
			c.metrics.IncrementUnknownLabel()
			continue
		}
		f.Category = cat
		out[cat] = append(out[cat], f)
	}
	return out
}
