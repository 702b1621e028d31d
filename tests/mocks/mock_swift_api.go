package mocks

import (
	"context"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/upload/client"
)

// MockSwiftAPI is a mock implementation of client.SwiftAPI.
type MockSwiftAPI struct {
	HealthyFunc func(ctx context.Context) bool
	CreateFunc  func(ctx context.Context, rec model.SwiftRecord) client.Result
}

func (m *MockSwiftAPI) Healthy(ctx context.Context) bool {
	if m.HealthyFunc != nil {
		return m.HealthyFunc(ctx)
	}
	return true
}

func (m *MockSwiftAPI) Create(ctx context.Context, rec model.SwiftRecord) client.Result {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	return client.Result{Status: client.StatusCreated}
}
