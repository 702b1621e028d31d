package mocks

import (
	"context"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
)

// MockSwiftRepository is a mock implementation of repository.SwiftRepository.
type MockSwiftRepository struct {
	GetByCodeFunc   func(ctx context.Context, code string) (*model.SwiftRecord, error)
	ListFunc        func(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error)
	CountFunc       func(ctx context.Context, f repository.Filter) (int64, error)
	CreateFunc      func(ctx context.Context, rec *model.SwiftRecord) error
	CreateBatchFunc func(ctx context.Context, recs []*model.SwiftRecord) error
	DeleteFunc      func(ctx context.Context, code string) error
}

func (m *MockSwiftRepository) GetByCode(ctx context.Context, code string) (*model.SwiftRecord, error) {
	return m.GetByCodeFunc(ctx, code)
}

func (m *MockSwiftRepository) List(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error) {
	return m.ListFunc(ctx, f)
}

func (m *MockSwiftRepository) Count(ctx context.Context, f repository.Filter) (int64, error) {
	return m.CountFunc(ctx, f)
}

func (m *MockSwiftRepository) Create(ctx context.Context, rec *model.SwiftRecord) error {
	return m.CreateFunc(ctx, rec)
}

func (m *MockSwiftRepository) CreateBatch(ctx context.Context, recs []*model.SwiftRecord) error {
	return m.CreateBatchFunc(ctx, recs)
}

func (m *MockSwiftRepository) Delete(ctx context.Context, code string) error {
	return m.DeleteFunc(ctx, code)
}
