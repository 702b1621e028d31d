// Package client talks to the primary SWIFT code API and classifies each
// create attempt so the batch coordinator can account for it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	fiberclient "github.com/gofiber/fiber/v3/client"
	"go.uber.org/zap"

	"github.com/mlukasik/swift-registry/internal/model"
)

// Status classifies the outcome of a single create attempt.
type Status int

const (
	StatusCreated Status = iota
	StatusConflict
	StatusFailed
)

// Result is the classified outcome of submitting one record. Detail is only
// populated for conflicts and failures.
type Result struct {
	Status Status
	Detail string
}

// SwiftAPI is the record-store surface the upload service depends on.
type SwiftAPI interface {
	Healthy(ctx context.Context) bool
	Create(ctx context.Context, rec model.SwiftRecord) Result
}

const (
	swiftCodePath      = "/api/v1/swift-code/"
	healthCheckTimeout = 5 * time.Second
)

// HTTPClient implements SwiftAPI over the primary service's REST API.
type HTTPClient struct {
	baseURL string
	cc      *fiberclient.Client
	log     *zap.Logger
}

// New creates an API client for the given base URL, e.g. "http://api:8080".
func New(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	cc := fiberclient.New()
	cc.SetTimeout(timeout)
	return &HTTPClient{baseURL: baseURL, cc: cc, log: log}
}

// Healthy reports whether the record-store API answers its list endpoint.
func (c *HTTPClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	resp, err := c.cc.Get(c.baseURL+swiftCodePath, fiberclient.Config{Ctx: ctx})
	if err != nil {
		c.log.Warn("API health check failed", zap.Error(err))
		return false
	}
	defer resp.Close()

	healthy := resp.StatusCode() == 200
	if !healthy {
		c.log.Warn("API health check returned non-OK status", zap.Int("status", resp.StatusCode()))
	}
	return healthy
}

// Create submits one record. Transport errors and unexpected statuses both
// classify as failed; classification never returns an error so the caller
// keeps a uniform accounting path.
func (c *HTTPClient) Create(ctx context.Context, rec model.SwiftRecord) Result {
	body, err := json.Marshal(rec)
	if err != nil {
		return Result{Status: StatusFailed, Detail: fmt.Sprintf("encode record: %v", err)}
	}

	resp, err := c.cc.Post(c.baseURL+swiftCodePath, fiberclient.Config{
		Ctx:    ctx,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	})
	if err != nil {
		c.log.Error("request error creating SWIFT code", zap.String("swift_code", rec.SwiftCode), zap.Error(err))
		return Result{Status: StatusFailed, Detail: fmt.Sprintf("error communicating with API: %v", err)}
	}
	defer resp.Close()

	switch resp.StatusCode() {
	case 201:
		return Result{Status: StatusCreated}
	case 409:
		c.log.Warn("SWIFT code already exists", zap.String("swift_code", rec.SwiftCode))
		return Result{Status: StatusConflict, Detail: fmt.Sprintf("SWIFT code %s already exists", rec.SwiftCode)}
	default:
		c.log.Error("error creating SWIFT code",
			zap.String("swift_code", rec.SwiftCode),
			zap.Int("status", resp.StatusCode()))
		return Result{Status: StatusFailed, Detail: fmt.Sprintf("status %d: %s", resp.StatusCode(), string(resp.Body()))}
	}
}
