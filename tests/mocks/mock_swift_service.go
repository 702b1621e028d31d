package mocks

import (
	"context"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
)

// MockSwiftService is a mock implementation of service.SwiftService.
type MockSwiftService struct {
	CreateFunc func(ctx context.Context, rec model.SwiftRecord) (*model.SwiftRecord, error)
	GetFunc    func(ctx context.Context, code string) (*model.SwiftRecord, error)
	ListFunc   func(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error)
	CountFunc  func(ctx context.Context, f repository.Filter) (int64, error)
	DeleteFunc func(ctx context.Context, code string) error
}

func (m *MockSwiftService) Create(ctx context.Context, rec model.SwiftRecord) (*model.SwiftRecord, error) {
	return m.CreateFunc(ctx, rec)
}

func (m *MockSwiftService) Get(ctx context.Context, code string) (*model.SwiftRecord, error) {
	return m.GetFunc(ctx, code)
}

func (m *MockSwiftService) List(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error) {
	return m.ListFunc(ctx, f)
}

func (m *MockSwiftService) Count(ctx context.Context, f repository.Filter) (int64, error) {
	return m.CountFunc(ctx, f)
}

func (m *MockSwiftService) Delete(ctx context.Context, code string) error {
	return m.DeleteFunc(ctx, code)
}
