package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlukasik/swift-registry/internal/model"
	"github.com/mlukasik/swift-registry/internal/repository"
	"github.com/mlukasik/swift-registry/internal/validation"
)

var (
	ErrNotFound      = errors.New("swift code not found")
	ErrAlreadyExists = errors.New("swift code already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// SwiftService defines the business operations on SWIFT records.
type SwiftService interface {
	Create(ctx context.Context, rec model.SwiftRecord) (*model.SwiftRecord, error)
	Get(ctx context.Context, code string) (*model.SwiftRecord, error)
	List(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error)
	Count(ctx context.Context, f repository.Filter) (int64, error)
	Delete(ctx context.Context, code string) error
}

type swiftService struct {
	repo repository.SwiftRepository
}

// NewSwiftService creates a service backed by the given repository.
func NewSwiftService(repo repository.SwiftRepository) SwiftService {
	return &swiftService{repo: repo}
}

// Create validates and stores a new SWIFT record. The caller-supplied
// isHeadquarter flag is cross-checked against the code suffix.
func (s *swiftService) Create(ctx context.Context, rec model.SwiftRecord) (*model.SwiftRecord, error) {
	normalized, err := validation.Validate(rec)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &normalized); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, normalized.SwiftCode)
		}
		return nil, err
	}
	return &normalized, nil
}

func (s *swiftService) Get(ctx context.Context, code string) (*model.SwiftRecord, error) {
	code, err := normalizeLookupCode(code)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
		}
		return nil, err
	}
	return rec, nil
}

func (s *swiftService) List(ctx context.Context, f repository.Filter) ([]model.SwiftRecord, error) {
	f, err := sanitizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, f)
}

func (s *swiftService) Count(ctx context.Context, f repository.Filter) (int64, error) {
	f, err := sanitizeFilter(f)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, f)
}

func (s *swiftService) Delete(ctx context.Context, code string) error {
	code, err := normalizeLookupCode(code)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, code)
		}
		return err
	}
	return nil
}

func normalizeLookupCode(code string) (string, error) {
	code = validation.NormalizeCode(code)
	if err := validation.CheckCode(code); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	return code, nil
}

func sanitizeFilter(f repository.Filter) (repository.Filter, error) {
	if f.Country != "" {
		f.Country = validation.NormalizeCountry(f.Country)
		if err := validation.CheckCountry(f.Country); err != nil {
			return f, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f, nil
}
