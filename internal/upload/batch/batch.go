// Package batch submits validated records to the record store one at a time
// and accounts for every outcome.
package batch

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/upload/client"
)

// ErrAPIUnavailable aborts a batch before any submission is attempted.
var ErrAPIUnavailable = errors.New("SWIFT code API is not available")

const (
	// Earliest errors are retained; the list is truncated, not sampled.
	maxErrors = 100

	// Progress is logged every progressEvery records and at completion.
	progressEvery = 10
)

// SubmissionError records one failed submission.
type SubmissionError struct {
	SwiftCode string `json:"swift_code"`
	Error     string `json:"error"`
}

// Result aggregates the outcome of one batch.
type Result struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Errors     []SubmissionError `json:"errors"`
}

// Message renders the human-readable summary stored on the upload task.
func (r *Result) Message() string {
	return fmt.Sprintf("Upload complete. %d records created, %d skipped, %d failed.",
		r.Successful, r.Skipped, r.Failed)
}

// Coordinator drives sequential batch submission against the record store.
// Submission is deliberately not concurrent: the downstream create operation
// has no idempotency key, and sequential submits keep error ordering
// deterministic.
type Coordinator struct {
	api client.SwiftAPI
	log *zap.Logger
}

func New(api client.SwiftAPI, log *zap.Logger) *Coordinator {
	return &Coordinator{api: api, log: log}
}

// Submit sends every record to the record store and classifies each outcome.
// The API is preflighted once; if it is unreachable the whole batch aborts
// with ErrAPIUnavailable and nothing is submitted. Per-record failures never
// abort the batch and are never retried.
func (c *Coordinator) Submit(ctx context.Context, records []model.SwiftRecord) (*Result, error) {
	if !c.api.Healthy(ctx) {
		return nil, ErrAPIUnavailable
	}

	res := &Result{Total: len(records), Errors: []SubmissionError{}}
	c.log.Info("starting batch creation", zap.Int("total", res.Total))

	for i, rec := range records {
		outcome := c.api.Create(ctx, rec)
		switch outcome.Status {
		case client.StatusCreated:
			res.Successful++
		case client.StatusConflict:
			res.Skipped++
		default:
			res.Failed++
			if len(res.Errors) < maxErrors {
				res.Errors = append(res.Errors, SubmissionError{SwiftCode: rec.SwiftCode, Error: outcome.Detail})
			}
		}

		if (i+1)%progressEvery == 0 || i+1 == res.Total {
			c.log.Info("batch progress",
				zap.Int("done", i+1),
				zap.Int("total", res.Total),
				zap.Int("successful", res.Successful),
				zap.Int("skipped", res.Skipped),
				zap.Int("failed", res.Failed))
		}
	}

	c.log.Info("batch creation complete",
		zap.Int("successful", res.Successful),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed))

	return res, nil
}
