package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"dealchecker/internal/compliance/metrics"
	"dealchecker/internal/deal"
)

var tracer = otel.Tracer("dealchecker/internal/compliance")

// Result is derived per request and never persisted. Files and Rules always
// carry every category as a key, with empty slices where nothing applies.
type Result struct {
	DealID string
	Files  map[Category][]File
	Rules  map[Category][]Rule
}

// FlatFiles lists classified files in category presentation order.
func (r *Result) FlatFiles() []File {
	out := []File{}
	for _, cat := range categories {
		out = append(out, r.Files[cat]...)
	}
	return out
}

// Checks projects Rules onto rule identifiers.
func (r *Result) Checks() map[Category][]RuleType {
	out := make(map[Category][]RuleType, len(r.Rules))
	for cat, rules := range r.Rules {
		out[cat] = RuleTypes(rules)
	}
	return out
}

// MissingDocuments lists categories with applicable rules but no files.
func (r *Result) MissingDocuments() []Category {
	var out []Category
	for _, cat := range categories {
		if len(r.Rules[cat]) > 0 && len(r.Files[cat]) == 0 {
			out = append(out, cat)
		}
	}
	return out
}

// Engine combines the classifier and the rule catalog. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	classifier *Classifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewEngine(logger *slog.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		classifier: NewClassifier(logger, m),
		logger:     logger,
		metrics:    m,
	}
}

// Check classifies files and evaluates the rule catalog for d. Neither d nor
// files is modified.
func (e *Engine) Check(ctx context.Context, d deal.Deal, files []File) (*Result, error) {
	ctx, span := tracer.Start(ctx, "compliance.Check")
	defer span.End()
	span.SetAttributes(
		attribute.String("deal.id", d.ID),
		attribute.Int("files.count", len(files)),
	)

	start := time.Now()
	defer func() {
		e.metrics.ObserveCheckLatency(time.Since(start))
	}()

	rules, err := RulesFor(d)
	if err != nil {
		var malformed *MalformedDealError
		if errors.As(err, &malformed) {
			e.metrics.IncrementOutcome("malformed_deal")
			e.logger.ErrorContext(ctx, "deal snapshot cannot be evaluated",
				"deal_id", d.ID,
				"missing", malformed.missingNames(),
				"unrecognized", malformed.Unrecognized,
			)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "rules")
		return nil, fmt.Errorf("compliance check for deal %s: %w", d.ID, err)
	}

	result := &Result{
		DealID: d.ID,
		Files:  e.classifier.Classify(ctx, d.ID, files),
		Rules:  rules,
	}
	if err := result.validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invariant")
		return nil, err
	}

	for _, cat := range categories {
		e.metrics.AddRulesApplied(string(cat), len(result.Rules[cat]))
	}
	e.metrics.IncrementOutcome("ok")
	return result, nil
}

// validate asserts both mappings carry exactly the fixed category set.
func (r *Result) validate() error {
	if len(r.Files) != len(categories) || len(r.Rules) != len(categories) {
		return fmt.Errorf("compliance result for deal %s: want %d categories, got files=%d rules=%d",
			r.DealID, len(categories), len(r.Files), len(r.Rules))
	}
	for _, cat := range categories {
		if _, ok := r.Files[cat]; !ok {
			return fmt.Errorf("compliance result for deal %s: files missing category %s", r.DealID, cat)
		}
		if _, ok := r.Rules[cat]; !ok {
			return fmt.Errorf("compliance result for deal %s: rules missing category %s", r.DealID, cat)
		}
	}
	return nil
}
